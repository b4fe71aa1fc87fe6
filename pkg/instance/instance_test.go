package instance

import (
	"slices"
	"testing"

	"github.com/matzehuels/blocksets/pkg/errors"
)

func chain() *Instance {
	in := New()
	for s := 1; s <= 4; s++ {
		in.AddStatement(s, "s")
	}
	in.AddEntity(1, "A", 1, 4)
	in.AddEntity(2, "B", 1, 2)
	in.AddEntity(3, "C", 2, 3)
	in.AddEntity(4, "D", 3)
	return in
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Instance)
		wantErr bool
	}{
		{"valid", func(*Instance) {}, false},
		{"entity without members", func(in *Instance) { in.Entities[9] = "lonely" }, false},
		{"unknown statement", func(in *Instance) { in.Members[1] = append(in.Members[1], 99) }, true},
		{"unknown entity", func(in *Instance) { in.Members[42] = []int{1} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := chain()
			tt.mutate(in)
			err := in.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInstance) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInstance)
			}
		})
	}
}

func TestOrdering(t *testing.T) {
	in := New()
	for _, id := range []int{30, 10, 20} {
		in.AddEntity(id, "e")
		in.AddStatement(id+1, "s")
	}
	if got, want := in.EntityIDs(), []int{10, 20, 30}; !slices.Equal(got, want) {
		t.Errorf("EntityIDs() = %v, want %v", got, want)
	}
	if got, want := in.StatementIDs(), []int{11, 21, 31}; !slices.Equal(got, want) {
		t.Errorf("StatementIDs() = %v, want %v", got, want)
	}
}

func TestStatementsOf(t *testing.T) {
	in := New()
	in.AddStatement(1, "a")
	in.AddStatement(2, "b")
	in.AddEntity(1, "E", 2, 1, 2, 1)

	if got, want := in.StatementsOf(1), []int{2, 1}; !slices.Equal(got, want) {
		t.Errorf("StatementsOf() = %v, want %v", got, want)
	}
	if got := in.StatementsOf(7); len(got) != 0 {
		t.Errorf("StatementsOf(unknown) = %v, want empty", got)
	}
}

func TestOwners(t *testing.T) {
	in := chain()
	in.AddStatement(5, "loose")
	owners := in.Owners()

	tests := []struct {
		stmt int
		want []int
	}{
		{1, []int{1, 2}},
		{2, []int{2, 3}},
		{3, []int{3, 4}},
		{4, []int{1}},
		{5, nil},
	}
	for _, tt := range tests {
		if got := owners[tt.stmt]; !slices.Equal(got, tt.want) {
			t.Errorf("Owners()[%d] = %v, want %v", tt.stmt, got, tt.want)
		}
	}
	if got, want := in.Unowned(), []int{5}; !slices.Equal(got, want) {
		t.Errorf("Unowned() = %v, want %v", got, want)
	}
}

func TestClone(t *testing.T) {
	in := chain()
	cp := in.Clone()
	if !cp.Equal(in) {
		t.Fatal("Clone() not equal to original")
	}

	cp.Members[1][0] = 3
	cp.Entities[1] = "changed"
	cp.AddStatement(99, "new")

	if in.Members[1][0] != 1 {
		t.Error("Clone() shares membership slices")
	}
	if in.Entities[1] != "A" {
		t.Error("Clone() shares entity map")
	}
	if _, ok := in.Statements[99]; ok {
		t.Error("Clone() shares statement map")
	}
	if cp.Equal(in) {
		t.Error("Equal() = true after mutation, want false")
	}
}

func TestCloneZeroValue(t *testing.T) {
	var in Instance
	cp := in.Clone()
	cp.AddEntity(1, "x")
	cp.AddStatement(1, "y")
	if e, s := cp.Size(); e != 1 || s != 1 {
		t.Errorf("Size() = (%d, %d), want (1, 1)", e, s)
	}
}
