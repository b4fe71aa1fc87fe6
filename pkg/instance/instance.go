package instance

import (
	"maps"
	"slices"

	"github.com/matzehuels/blocksets/pkg/errors"
)

// Instance is a set of labelled statements grouped by labelled entities.
//
// The zero value is usable for reading; use [New] before adding entities or
// statements.
type Instance struct {
	Entities   map[int]string // entity id -> label
	Statements map[int]string // statement id -> label
	Members    map[int][]int  // entity id -> ordered statement ids
}

// New returns an empty instance with all maps allocated.
func New() *Instance {
	return &Instance{
		Entities:   make(map[int]string),
		Statements: make(map[int]string),
		Members:    make(map[int][]int),
	}
}

// AddStatement registers a statement, replacing any previous label.
func (in *Instance) AddStatement(id int, label string) {
	in.Statements[id] = label
}

// AddEntity registers an entity together with the statements it contains.
// Statements are appended to any existing membership list.
func (in *Instance) AddEntity(id int, label string, statements ...int) {
	in.Entities[id] = label
	if len(statements) > 0 || in.Members[id] == nil {
		in.Members[id] = append(in.Members[id], statements...)
	}
}

// Validate checks the structural invariants the splitter relies on: every
// membership list belongs to a known entity and references only known
// statements.
func (in *Instance) Validate() error {
	for _, e := range slices.Sorted(maps.Keys(in.Members)) {
		if _, ok := in.Entities[e]; !ok {
			return errors.New(errors.ErrCodeInvalidInstance, "membership list for unknown entity %d", e)
		}
		for _, s := range in.Members[e] {
			if _, ok := in.Statements[s]; !ok {
				return errors.New(errors.ErrCodeInvalidInstance, "entity %d references unknown statement %d", e, s)
			}
		}
	}
	return nil
}

// EntityIDs returns all entity ids in ascending order.
func (in *Instance) EntityIDs() []int {
	return slices.Sorted(maps.Keys(in.Entities))
}

// StatementIDs returns all statement ids in ascending order.
func (in *Instance) StatementIDs() []int {
	return slices.Sorted(maps.Keys(in.Statements))
}

// StatementsOf returns the statements of entity e in membership order with
// duplicates removed. The result is a fresh slice.
func (in *Instance) StatementsOf(e int) []int {
	list := in.Members[e]
	out := make([]int, 0, len(list))
	seen := make(map[int]bool, len(list))
	for _, s := range list {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Contains reports whether entity e lists statement s.
func (in *Instance) Contains(e, s int) bool {
	return slices.Contains(in.Members[e], s)
}

// Owners returns the inverted index statement id -> owning entity ids.
// Owner lists are in ascending entity order; statements without owners are
// absent from the map.
func (in *Instance) Owners() map[int][]int {
	owners := make(map[int][]int, len(in.Statements))
	for _, e := range in.EntityIDs() {
		for _, s := range in.StatementsOf(e) {
			owners[s] = append(owners[s], e)
		}
	}
	return owners
}

// Unowned returns the statements no entity contains, in ascending order.
func (in *Instance) Unowned() []int {
	owners := in.Owners()
	var out []int
	for _, s := range in.StatementIDs() {
		if len(owners[s]) == 0 {
			out = append(out, s)
		}
	}
	return out
}

// NumEntities returns the number of entities.
func (in *Instance) NumEntities() int { return len(in.Entities) }

// NumStatements returns the number of statements.
func (in *Instance) NumStatements() int { return len(in.Statements) }

// Size returns the entity and statement counts.
func (in *Instance) Size() (entities, statements int) {
	return len(in.Entities), len(in.Statements)
}

// Clone returns a deep copy sharing no maps or slices with the receiver.
func (in *Instance) Clone() *Instance {
	out := &Instance{
		Entities:   maps.Clone(in.Entities),
		Statements: maps.Clone(in.Statements),
		Members:    make(map[int][]int, len(in.Members)),
	}
	if out.Entities == nil {
		out.Entities = make(map[int]string)
	}
	if out.Statements == nil {
		out.Statements = make(map[int]string)
	}
	for e, list := range in.Members {
		out.Members[e] = slices.Clone(list)
	}
	return out
}

// Equal reports whether two instances hold the same entities, statements and
// membership lists. Membership order is significant.
func (in *Instance) Equal(other *Instance) bool {
	if !maps.Equal(in.Entities, other.Entities) || !maps.Equal(in.Statements, other.Statements) {
		return false
	}
	for _, e := range in.EntityIDs() {
		if !slices.Equal(in.Members[e], other.Members[e]) {
			return false
		}
	}
	for e := range other.Members {
		if _, ok := in.Entities[e]; !ok {
			return false
		}
	}
	return true
}
