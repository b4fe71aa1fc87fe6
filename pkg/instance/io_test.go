package instance

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/blocksets/pkg/errors"
)

const sample = `{
  "statements": [{"id": 1, "text": "alpha"}, {"id": 2, "text": "beta"}],
  "entities": [{"id": 10, "name": "X"}, {"id": 11, "name": "Y"}],
  "entity_statements": {"10": [1, 2], "11": [2]}
}`

func TestRead(t *testing.T) {
	in, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if e, s := in.Size(); e != 2 || s != 2 {
		t.Errorf("Size() = (%d, %d), want (2, 2)", e, s)
	}
	if got := in.Entities[10]; got != "X" {
		t.Errorf("Entities[10] = %q, want %q", got, "X")
	}
	if got, want := in.Members[10], []int{1, 2}; !slices.Equal(got, want) {
		t.Errorf("Members[10] = %v, want %v", got, want)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"malformed", `{"statements": [`, errors.ErrCodeInvalidFormat},
		{"duplicate statement", `{"statements":[{"id":1},{"id":1}]}`, errors.ErrCodeInvalidInstance},
		{"duplicate entity", `{"entities":[{"id":1},{"id":1}]}`, errors.ErrCodeInvalidInstance},
		{"bad key", `{"entities":[{"id":1}],"entity_statements":{"one":[]}}`, errors.ErrCodeInvalidInstance},
		{"missing statement", `{"entities":[{"id":1}],"entity_statements":{"1":[5]}}`, errors.ErrCodeInvalidInstance},
		{"unknown entity", `{"statements":[{"id":5}],"entity_statements":{"1":[5]}}`, errors.ErrCodeInvalidInstance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("Read() expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %v, want %v", got, tt.code)
			}
		})
	}
}

func TestWriteRead(t *testing.T) {
	in := chain()
	in.AddEntity(9, "empty")

	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if !back.Equal(in) {
		t.Errorf("round trip changed instance: got %+v, want %+v", back, in)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	a, _ := Marshal(chain())
	b, _ := Marshal(chain())
	if !bytes.Equal(a, b) {
		t.Error("Marshal() output differs between equal instances")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inst.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err != nil {
		t.Errorf("ReadFile() error: %v", err)
	}

	_, err := ReadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}

	out := filepath.Join(dir, "out.json")
	if err := WriteFile(out, chain()); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	back, err := ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !back.Equal(chain()) {
		t.Error("WriteFile/ReadFile changed instance")
	}
}
