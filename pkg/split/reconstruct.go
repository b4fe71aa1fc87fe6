package split

import (
	"slices"

	"github.com/matzehuels/blocksets/pkg/instance"
)

// reconstruct builds one sub-instance per component of the winning graph.
//
// Surviving entities keep their full statement lists. Copies of deleted
// entities start with the statements they share with surviving entities in
// the same component. Statements still unplaced afterwards are assigned in
// three rounds: group statements go to the smallest part holding the whole
// group, statements owned only by one deleted entity go to the currently
// smallest part, and statements nobody owns go to the smallest part.
func reconstruct(inst *instance.Instance, g *Graph, own *ownership) []*instance.Instance {
	if g.degenerate {
		return []*instance.Instance{inst.Clone(), inst.Clone()}
	}

	parts := make([]*instance.Instance, len(g.comps))
	placed := make(map[int]bool, inst.NumStatements())

	for c, members := range g.comps {
		part := instance.New()
		here := g.entitySet(c)
		for _, m := range members {
			e := g.nodes[m].entity
			var stmts []int
			if !g.nodes[m].deleted {
				stmts = inst.StatementsOf(e)
			} else {
				stmts = sharedWithLive(inst, e, here, own)
			}
			addTo(part, inst, e, stmts)
			for _, s := range stmts {
				placed[s] = true
			}
		}
		parts[c] = part
	}

	for _, grp := range own.groups {
		for _, s := range grp.Statements {
			if placed[s] {
				continue
			}
			placed[s] = true
			target := smallestHolding(parts, grp.Entities)
			if target == nil {
				target = smallestPart(parts)
			}
			for _, e := range grp.Entities {
				addTo(target, inst, e, []int{s})
			}
		}
	}

	type unique struct {
		entity int
		stmts  []int
	}
	var uniques []unique
	for _, e := range g.DeletedEntities() {
		var stmts []int
		for _, s := range inst.StatementsOf(e) {
			if len(own.liveOwners[s]) == 0 && !placed[s] {
				stmts = append(stmts, s)
			}
		}
		uniques = append(uniques, unique{entity: e, stmts: stmts})
	}
	slices.SortStableFunc(uniques, func(a, b unique) int { return len(b.stmts) - len(a.stmts) })
	for _, u := range uniques {
		if len(u.stmts) == 0 {
			continue
		}
		addTo(smallestPart(parts), inst, u.entity, u.stmts)
		for _, s := range u.stmts {
			placed[s] = true
		}
	}

	for _, s := range inst.Unowned() {
		if !placed[s] {
			smallestPart(parts).AddStatement(s, inst.Statements[s])
		}
	}
	return parts
}

// sharedWithLive returns the statements of deleted entity e that some
// surviving entity present in the component also contains.
func sharedWithLive(inst *instance.Instance, e int, here map[int]bool, own *ownership) []int {
	var out []int
	for _, s := range inst.StatementsOf(e) {
		if slices.ContainsFunc(own.liveOwners[s], func(o int) bool { return here[o] }) {
			out = append(out, s)
		}
	}
	return out
}

// addTo adds entity e (with its root label) to part if absent, then appends
// the statements to its list and registers them in the part.
func addTo(part *instance.Instance, inst *instance.Instance, e int, stmts []int) {
	part.AddEntity(e, inst.Entities[e], stmts...)
	for _, s := range stmts {
		part.AddStatement(s, inst.Statements[s])
	}
}

// smallestPart returns the part with the fewest statements, earliest on ties.
func smallestPart(parts []*instance.Instance) *instance.Instance {
	var best *instance.Instance
	for _, p := range parts {
		if best == nil || p.NumStatements() < best.NumStatements() {
			best = p
		}
	}
	return best
}

// smallestHolding returns the smallest part that contains every listed
// entity, or nil.
func smallestHolding(parts []*instance.Instance, entities []int) *instance.Instance {
	var best *instance.Instance
	for _, p := range parts {
		if holdsAll(p, entities) && (best == nil || p.NumStatements() < best.NumStatements()) {
			best = p
		}
	}
	return best
}

func holdsAll(part *instance.Instance, entities []int) bool {
	for _, e := range entities {
		if _, ok := part.Entities[e]; !ok {
			return false
		}
	}
	return true
}
