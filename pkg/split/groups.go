package split

import (
	"slices"

	"github.com/matzehuels/blocksets/pkg/instance"
)

// Group is a set of deleted entities together with the statements all of
// them, and only they among deleted entities, contain. Statements owned by
// two or more deleted entities form groups; groups with identical entity sets
// are merged.
type Group struct {
	Entities   []int // Deleted entity ids, ascending
	Statements []int // Statements jointly owned, ascending
}

// ownership is the statement ownership of an instance seen through one
// deletion set.
type ownership struct {
	deletedOwners map[int][]int // statement -> deleted entities containing it
	liveOwners    map[int][]int // statement -> surviving entities containing it
	groups        []Group
}

// analyze builds the inverted ownership maps for the given deletion set and
// derives the deleted-node groups, largest entity set first.
func analyze(inst *instance.Instance, deleted []int) *ownership {
	isDeleted := make(map[int]bool, len(deleted))
	for _, e := range deleted {
		isDeleted[e] = true
	}

	own := &ownership{
		deletedOwners: make(map[int][]int),
		liveOwners:    make(map[int][]int),
	}
	for _, e := range inst.EntityIDs() {
		for _, s := range inst.StatementsOf(e) {
			if isDeleted[e] {
				own.deletedOwners[s] = append(own.deletedOwners[s], e)
			} else {
				own.liveOwners[s] = append(own.liveOwners[s], e)
			}
		}
	}

	for _, s := range inst.StatementIDs() {
		owners := own.deletedOwners[s]
		if len(owners) < 2 {
			continue
		}
		i := slices.IndexFunc(own.groups, func(g Group) bool { return slices.Equal(g.Entities, owners) })
		if i < 0 {
			own.groups = append(own.groups, Group{Entities: slices.Clone(owners), Statements: []int{s}})
			continue
		}
		own.groups[i].Statements = append(own.groups[i].Statements, s)
	}

	slices.SortStableFunc(own.groups, func(a, b Group) int { return len(b.Entities) - len(a.Entities) })
	return own
}

// Groups returns the deleted-node groups of inst for the given deleted
// entities, ordered by entity count descending.
func Groups(inst *instance.Instance, deleted []int) []Group {
	groups := analyze(inst, deleted).groups
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Entities: slices.Clone(g.Entities), Statements: slices.Clone(g.Statements)}
	}
	return out
}
