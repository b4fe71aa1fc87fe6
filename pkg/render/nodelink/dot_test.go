package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/blocksets/pkg/instance"
)

// chain builds A-B-C where A,B share statement 1 and B,C share statement 2.
func chain() *instance.Instance {
	inst := instance.New()
	inst.AddStatement(1, "s1")
	inst.AddStatement(2, "s2")
	inst.AddStatement(3, "s3")
	inst.AddEntity(1, "A", 1)
	inst.AddEntity(2, "B", 1, 2)
	inst.AddEntity(3, "C", 2, 3)
	return inst
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(chain(), Options{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Error("ToDOT() output missing graph declaration")
	}
	for _, want := range []string{`"1" [label="A"]`, `"2" [label="B"]`, `"3" [label="C"]`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing node %s", want)
		}
	}
	if !strings.Contains(dot, `"1" -- "2" [label="1"]`) {
		t.Error("ToDOT() output missing edge A-B")
	}
	if strings.Contains(dot, `"1" -- "3"`) {
		t.Error("ToDOT() output has edge between entities sharing nothing")
	}
	if strings.Contains(dot, "cluster") {
		t.Error("ToDOT() without parts should not draw clusters")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(chain(), Options{Detailed: true})

	if !strings.Contains(dot, `id: 2\nstatements: 1, 2`) {
		t.Errorf("ToDOT() detailed output missing statements:\n%s", dot)
	}
	if !strings.Contains(dot, `"2" -- "3" [label="2"]`) {
		t.Error("ToDOT() detailed edge should list shared statement ids")
	}
}

func TestToDOT_Parts(t *testing.T) {
	dot := ToDOT(chain(), Options{
		Parts:   [][]int{{1, 2}, {2, 3}},
		Deleted: []int{2},
	})

	if !strings.Contains(dot, "subgraph cluster_0") || !strings.Contains(dot, "subgraph cluster_1") {
		t.Error("ToDOT() missing part clusters")
	}
	if !strings.Contains(dot, `label="part 2"`) {
		t.Error("ToDOT() missing cluster label")
	}
	if strings.Count(dot, `"2" [`) != 1 {
		t.Error("deleted entity should be declared exactly once")
	}
	if !strings.Contains(dot, "dashed\", fillcolor=lightgrey") {
		t.Error("deleted entity missing dashed style")
	}

	c0 := dot[strings.Index(dot, "cluster_0"):strings.Index(dot, "cluster_1")]
	if !strings.Contains(c0, `"1" [`) || strings.Contains(c0, `"2" [`) {
		t.Errorf("cluster_0 = %q, want only entity 1", c0)
	}
}

func TestFmtLabel(t *testing.T) {
	inst := chain()
	inst.AddEntity(9, "")

	tests := []struct {
		e        int
		detailed bool
		want     string
	}{
		{1, false, "A"},
		{9, false, "e9"},
		{3, true, "C\nid: 3\nstatements: 2, 3"},
	}
	for _, tt := range tests {
		if got := fmtLabel(inst, tt.e, tt.detailed); got != tt.want {
			t.Errorf("fmtLabel(%d, %v) = %q, want %q", tt.e, tt.detailed, got, tt.want)
		}
	}
}

func TestFmtAttrs(t *testing.T) {
	if attrs := fmtAttrs("x", false); len(attrs) != 1 {
		t.Errorf("fmtAttrs() regular node should have 1 attr, got %d", len(attrs))
	}

	attrs := fmtAttrs("x", true)
	if len(attrs) != 4 {
		t.Errorf("fmtAttrs() deleted node should have 4 attrs, got %d: %v", len(attrs), attrs)
	}
	joined := strings.Join(attrs, " ")
	if !strings.Contains(joined, "dashed") || !strings.Contains(joined, "lightgrey") {
		t.Errorf("fmtAttrs() deleted node = %v", attrs)
	}
}

func TestPartEntities(t *testing.T) {
	a := instance.New()
	a.AddEntity(3, "c")
	a.AddEntity(1, "a")
	got := PartEntities([]*instance.Instance{a, instance.New()})
	if len(got) != 2 || len(got[0]) != 2 || got[0][0] != 1 || len(got[1]) != 0 {
		t.Errorf("PartEntities() = %v", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(chain(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(`not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestRender(t *testing.T) {
	dot := ToDOT(chain(), Options{})
	data, err := Render(dot, "dot")
	if err != nil || string(data) != dot {
		t.Errorf("Render(dot) = %q, %v", data, err)
	}
	for _, format := range []string{"gif", "pdf", "png"} {
		if _, err := Render(dot, format); err == nil {
			t.Errorf("Render(%s) should fail", format)
		}
	}
}
