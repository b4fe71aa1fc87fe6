package instance

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/matzehuels/blocksets/pkg/errors"
)

type statementJSON struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type entityJSON struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type documentJSON struct {
	Statements       []statementJSON  `json:"statements"`
	Entities         []entityJSON     `json:"entities"`
	EntityStatements map[string][]int `json:"entity_statements"`
}

// Read decodes an instance from r and validates it.
func Read(r io.Reader) (*Instance, error) {
	var doc documentJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode instance")
	}

	in := New()
	for _, s := range doc.Statements {
		if _, dup := in.Statements[s.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInstance, "duplicate statement id %d", s.ID)
		}
		in.Statements[s.ID] = s.Text
	}
	for _, e := range doc.Entities {
		if _, dup := in.Entities[e.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInstance, "duplicate entity id %d", e.ID)
		}
		in.Entities[e.ID] = e.Name
		in.Members[e.ID] = []int{}
	}
	for key, list := range doc.EntityStatements {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInstance, "entity key %q is not an integer", key)
		}
		in.Members[id] = append([]int(nil), list...)
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// ReadFile loads and validates an instance from a JSON file.
func ReadFile(path string) (*Instance, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Marshal encodes the instance in its JSON file format. Output is
// deterministic: arrays are sorted by id.
func Marshal(in *Instance) ([]byte, error) {
	doc := documentJSON{
		Statements:       make([]statementJSON, 0, len(in.Statements)),
		Entities:         make([]entityJSON, 0, len(in.Entities)),
		EntityStatements: make(map[string][]int, len(in.Entities)),
	}
	for _, id := range in.StatementIDs() {
		doc.Statements = append(doc.Statements, statementJSON{ID: id, Text: in.Statements[id]})
	}
	for _, id := range in.EntityIDs() {
		doc.Entities = append(doc.Entities, entityJSON{ID: id, Name: in.Entities[id]})
		list := in.Members[id]
		if list == nil {
			list = []int{}
		}
		doc.EntityStatements[strconv.Itoa(id)] = list
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Write encodes the instance to w.
func Write(w io.Writer, in *Instance) error {
	data, err := Marshal(in)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = io.Copy(w, bytes.NewReader(data))
	return err
}

// WriteFile writes the instance to path with mode 0o644.
func WriteFile(path string, in *Instance) error {
	data, err := Marshal(in)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), fs.FileMode(0o644))
}
