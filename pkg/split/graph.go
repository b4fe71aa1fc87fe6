package split

import (
	"slices"

	"github.com/matzehuels/blocksets/pkg/instance"
)

// link is one adjacency entry: the arena index of an original neighbour and
// the statements both entities contain.
type link struct {
	to     int
	shared []int
}

// node is an arena slot. Originals occupy indices [0, n); copies of deleted
// nodes are appended behind them and point back through origin.
type node struct {
	entity  int
	origin  int
	deleted bool
	comp    int
	adj     []link
}

// Edge is an undirected edge of the intersection graph between two entities.
type Edge struct {
	From   int   // Entity id of the lower-indexed endpoint
	To     int   // Entity id of the higher-indexed endpoint
	Shared []int // Statements both entities contain, in membership order of From
}

// Graph is the intersection graph of an instance: one node per entity, an
// edge wherever two entities share at least one statement.
//
// Nodes are addressed by arena index. Index i < Len() is the i-th entity in
// ascending id order. A Graph is not safe for concurrent use; the search
// clones it once per candidate.
type Graph struct {
	nodes      []node
	n          int
	index      map[int]int // entity id -> original arena index
	edges      []Edge
	comps      [][]int
	deleted    []int // original indices in deletion order
	copies     int   // copies placed to preserve relationships
	degenerate bool
}

// NewGraph builds the intersection graph of inst and computes its initial
// connected components.
func NewGraph(inst *instance.Instance) *Graph {
	ids := inst.EntityIDs()
	g := &Graph{
		nodes: make([]node, len(ids)),
		n:     len(ids),
		index: make(map[int]int, len(ids)),
	}

	lists := make([][]int, len(ids))
	for i, e := range ids {
		g.nodes[i] = node{entity: e, origin: i, comp: -1}
		g.index[e] = i
		lists[i] = inst.StatementsOf(e)
	}

	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			shared := intersect(lists[i], lists[j])
			if len(shared) == 0 {
				continue
			}
			g.nodes[i].adj = append(g.nodes[i].adj, link{to: j, shared: shared})
			g.nodes[j].adj = append(g.nodes[j].adj, link{to: i, shared: shared})
			g.edges = append(g.edges, Edge{From: ids[i], To: ids[j], Shared: shared})
		}
	}

	all := make([]int, g.n)
	for i := range all {
		all[i] = i
	}
	g.comps = g.traverse(all)
	g.renumber()
	return g
}

// intersect returns the elements of a that also occur in b, in the order of a.
// Both inputs are duplicate-free.
func intersect(a, b []int) []int {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	in := make(map[int]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	var out []int
	for _, s := range a {
		if _, ok := in[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// traverse partitions members into connected components using depth-first
// search over non-deleted nodes, restricted to the given member set.
// Components are discovered in member order and returned sorted.
func (g *Graph) traverse(members []int) [][]int {
	allowed := make(map[int]bool, len(members))
	for _, m := range members {
		allowed[m] = true
	}

	visited := make(map[int]bool, len(members))
	var comps [][]int
	for _, start := range members {
		if visited[start] || g.nodes[start].deleted {
			continue
		}
		var comp []int
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, cur)
			for _, l := range g.nodes[cur].adj {
				if visited[l.to] || !allowed[l.to] || g.nodes[l.to].deleted {
					continue
				}
				visited[l.to] = true
				stack = append(stack, l.to)
			}
		}
		slices.Sort(comp)
		comps = append(comps, comp)
	}
	return comps
}

func (g *Graph) renumber() {
	for c, members := range g.comps {
		for _, m := range members {
			g.nodes[m].comp = c
		}
	}
}

// Clone returns an independent copy. Adjacency lists are shared because they
// are only ever replaced, never modified in place.
func (g *Graph) Clone() *Graph {
	cp := &Graph{
		nodes:      slices.Clone(g.nodes),
		n:          g.n,
		index:      g.index,
		edges:      g.edges,
		comps:      make([][]int, len(g.comps)),
		deleted:    slices.Clone(g.deleted),
		copies:     g.copies,
		degenerate: g.degenerate,
	}
	for i, c := range g.comps {
		cp.comps[i] = slices.Clone(c)
	}
	return cp
}

// Len returns the number of original nodes (entities).
func (g *Graph) Len() int { return g.n }

// Entity returns the entity id stored at arena index i.
func (g *Graph) Entity(i int) int { return g.nodes[i].entity }

// Index returns the original arena index of an entity.
func (g *Graph) Index(entity int) (int, bool) {
	i, ok := g.index[entity]
	return i, ok
}

// IsCopy reports whether arena index i holds a copy of a deleted node.
func (g *Graph) IsCopy(i int) bool { return g.nodes[i].origin != i }

// Origin returns the original arena index a node was copied from, or i itself.
func (g *Graph) Origin(i int) int { return g.nodes[i].origin }

// Edges returns the edges of the original graph in construction order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = Edge{From: e.From, To: e.To, Shared: slices.Clone(e.Shared)}
	}
	return out
}

// Neighbors returns the entity ids adjacent to arena index i. After
// duplication this reflects the pruned adjacency of that node.
func (g *Graph) Neighbors(i int) []int {
	out := make([]int, 0, len(g.nodes[i].adj))
	for _, l := range g.nodes[i].adj {
		out = append(out, g.nodes[l.to].entity)
	}
	return out
}

// Components returns the arena indices of every component.
func (g *Graph) Components() [][]int {
	out := make([][]int, len(g.comps))
	for i, c := range g.comps {
		out[i] = slices.Clone(c)
	}
	return out
}

// ComponentEntities returns the entity ids of every component, in member order.
func (g *Graph) ComponentEntities() [][]int {
	out := make([][]int, len(g.comps))
	for i, c := range g.comps {
		ids := make([]int, len(c))
		for j, m := range c {
			ids[j] = g.nodes[m].entity
		}
		out[i] = ids
	}
	return out
}

// DeletedEntities returns the entity ids of deleted nodes in deletion order.
func (g *Graph) DeletedEntities() []int {
	out := make([]int, len(g.deleted))
	for i, d := range g.deleted {
		out[i] = g.nodes[d].entity
	}
	return out
}

// Copies returns how many deleted-node copies were placed to preserve
// relationships across the partition.
func (g *Graph) Copies() int { return g.copies }

// Degenerate reports whether the graph holds the two-copy fallback partition.
func (g *Graph) Degenerate() bool { return g.degenerate }

// hasEntity reports whether component c contains a node (original or copy)
// for the entity.
func (g *Graph) hasEntity(c, entity int) bool {
	for _, m := range g.comps[c] {
		if g.nodes[m].entity == entity {
			return true
		}
	}
	return false
}

// entitySet returns the entity ids present in component c.
func (g *Graph) entitySet(c int) map[int]bool {
	set := make(map[int]bool, len(g.comps[c]))
	for _, m := range g.comps[c] {
		set[g.nodes[m].entity] = true
	}
	return set
}
