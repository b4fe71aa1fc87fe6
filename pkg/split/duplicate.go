package split

import "slices"

// duplicate places copies of deleted nodes into the components so that every
// relationship crossing the partition can be rebuilt later. It runs after
// Merge and before scoring, so copies count towards the cost.
//
//  1. A deleted node is copied into every component holding one of its
//     surviving neighbours.
//  2. Each group is copied into the components of the first surviving owner
//     of its statements, or into the component already holding most of the
//     group (ties go to the smaller component).
//  3. A deleted node still absent from every component is copied into the
//     smallest one.
//  4. Adjacency is pruned to entities present in the same component.
//
// Only the copies of steps 1 and 2 are counted.
func (g *Graph) duplicate(own *ownership) {
	if g.degenerate {
		return
	}

	for _, d := range g.deleted {
		for c := range g.comps {
			if g.touchesLive(d, c) {
				g.placeCopy(d, c, true)
			}
		}
	}

	for _, grp := range own.groups {
		for _, c := range g.groupTargets(grp, own) {
			for _, e := range grp.Entities {
				if !g.hasEntity(c, e) {
					g.placeCopy(g.index[e], c, true)
				}
			}
		}
	}

	for _, d := range g.deleted {
		if !g.present(g.nodes[d].entity) {
			g.placeCopy(d, g.smallestComponent(), false)
		}
	}

	g.prune()
}

// touchesLive reports whether deleted node d has a surviving neighbour in
// component c.
func (g *Graph) touchesLive(d, c int) bool {
	for _, l := range g.nodes[d].adj {
		nb := g.nodes[l.to]
		if !nb.deleted && nb.comp == c {
			return true
		}
	}
	return false
}

// placeCopy appends a copy of original node d to the arena and adds it to
// component c.
func (g *Graph) placeCopy(d, c int, counted bool) {
	orig := g.nodes[d]
	g.nodes = append(g.nodes, node{
		entity:  orig.entity,
		origin:  d,
		deleted: true,
		comp:    c,
		adj:     orig.adj,
	})
	g.comps[c] = append(g.comps[c], len(g.nodes)-1)
	if counted {
		g.copies++
	}
}

// groupTargets picks the components a group must be present in.
func (g *Graph) groupTargets(grp Group, own *ownership) []int {
	var targets []int
	for _, s := range grp.Statements {
		live := own.liveOwners[s]
		if len(live) == 0 {
			continue
		}
		if c := g.nodes[g.index[live[0]]].comp; !slices.Contains(targets, c) {
			targets = append(targets, c)
		}
	}
	if len(targets) > 0 {
		slices.Sort(targets)
		return targets
	}

	best, bestCount := -1, -1
	for c := range g.comps {
		count := 0
		for _, e := range grp.Entities {
			if g.hasEntity(c, e) {
				count++
			}
		}
		if count > bestCount || (count == bestCount && len(g.comps[c]) < len(g.comps[best])) {
			best, bestCount = c, count
		}
	}
	return []int{best}
}

// present reports whether any component contains the entity.
func (g *Graph) present(entity int) bool {
	for c := range g.comps {
		if g.hasEntity(c, entity) {
			return true
		}
	}
	return false
}

// prune replaces every member's adjacency with the links whose target entity
// is present in the member's own component.
func (g *Graph) prune() {
	for c, members := range g.comps {
		here := g.entitySet(c)
		for _, m := range members {
			adj := g.nodes[m].adj
			kept := make([]link, 0, len(adj))
			for _, l := range adj {
				if here[g.nodes[l.to].entity] {
					kept = append(kept, l)
				}
			}
			g.nodes[m].adj = kept
		}
	}
}
