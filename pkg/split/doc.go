// Package split decomposes a statement/entity instance into smaller,
// self-consistent sub-instances.
//
// # Overview
//
// The instance is viewed as an intersection graph ([Graph]): one node per
// entity and an edge wherever two entities share a statement. Deleting a few
// nodes breaks the graph into components. Each component becomes a
// sub-instance, and deleted entities are copied into the components they
// touch so that no statement and no sharing relationship is lost.
//
// # Search
//
// [SplitContext] enumerates every deletion set of 1 to MaxDeletions nodes
// ([Combinations]). For each candidate it clones the graph, deletes the
// nodes ([Graph.Delete]), balances the components ([Graph.Merge]), places
// deleted-node copies and scores the partition ([Graph.Cost]):
//
//	components + deleted + copies + 10*oversized + largest/smallest
//
// The lowest cost wins; ties go to the candidate enumerated first, so the
// result does not depend on Options.Workers.
//
// # Degenerate Partitions
//
// When no candidate yields two or more components (a single entity, or a
// clique larger than MaxDeletions+1), every node is deleted and the result
// holds two identical copies of the input with [Result.Degenerate] set.
// Recursive callers must treat this as "cannot split" rather than process
// both copies.
//
// # Reconstruction
//
// Surviving entities keep all their statements. Deleted entities appear as
// copies carrying the statements they share with the component. Statements
// owned by several deleted entities ([Group]) go to the smallest part that
// holds the whole group; statements owned by a single deleted entity go to
// the smallest part at that moment; unowned statements go to the smallest
// part. Every input statement ends up in at least one part.
package split
