package split

import "slices"

// PartStats summarises one output part.
type PartStats struct {
	Entities   int   `json:"entities"`
	Statements int   `json:"statements"`
	Duplicates []int `json:"duplicates,omitempty"` // deleted entities present in this part
}

// Stats summarises a split result.
type Stats struct {
	Parts      []PartStats `json:"parts"`
	Deleted    int         `json:"deleted"`
	Copies     int         `json:"copies"`
	Largest    int         `json:"largest"`
	Smallest   int         `json:"smallest"`
	Degenerate bool        `json:"degenerate,omitempty"`
	Evaluated  int         `json:"evaluated"`
}

// Stats computes per-part sizes and the duplicated deleted entities.
func (r *Result) Stats() Stats {
	st := Stats{
		Parts:      make([]PartStats, len(r.Parts)),
		Deleted:    len(r.Deleted),
		Copies:     r.Copies,
		Degenerate: r.Degenerate,
		Evaluated:  r.Evaluated,
	}
	for i, p := range r.Parts {
		ps := PartStats{Entities: p.NumEntities(), Statements: p.NumStatements()}
		for _, e := range r.Deleted {
			if _, ok := p.Entities[e]; ok {
				ps.Duplicates = append(ps.Duplicates, e)
			}
		}
		slices.Sort(ps.Duplicates)
		st.Parts[i] = ps

		if i == 0 || ps.Entities > st.Largest {
			st.Largest = ps.Entities
		}
		if i == 0 || ps.Entities < st.Smallest {
			st.Smallest = ps.Entities
		}
	}
	return st
}

// Duplicated returns, for every deleted entity, the number of parts it
// appears in. Entities that appear in no part are omitted.
func (r *Result) Duplicated() map[int]int {
	counts := make(map[int]int, len(r.Deleted))
	for _, e := range r.Deleted {
		for _, p := range r.Parts {
			if _, ok := p.Entities[e]; ok {
				counts[e]++
			}
		}
	}
	return counts
}
