// Package pkg provides the core libraries for blocksets.
//
// # Overview
//
// Blocksets decomposes statement/entity layout instances into bounded-size,
// self-consistent sub-instances so that each piece can be handed to a layout
// solver on its own. Entities that tie the instance together are deleted and
// then copied into every part they relate to, so no relationship is lost.
//
// The typical data flow:
//
//	JSON instance
//	     ↓
//	[instance] package (read + validate)
//	     ↓
//	[split] package (intersection graph, candidate search, reconstruction)
//	     ↓
//	[decompose] package (split again until every part fits)
//	     ↓
//	JSON parts / DOT / SVG
//
// # Quick Start
//
//	inst, _ := instance.ReadFile("layout.json")
//
//	res, _ := split.Split(inst, split.Options{MaxDeletions: 3})
//	for _, part := range res.Parts {
//	    fmt.Println(part.EntityIDs())
//	}
//
//	dec, _ := decompose.Run(ctx, inst, decompose.Options{MaxEntities: 10})
//	fmt.Println(len(dec.Parts), dec.TotalDuplicates)
//
// # Main Packages
//
// ## Domain Logic
//
// [instance] - The instance model (entities, statements, memberships), its
// validation and the JSON document format.
//
// [split] - One split: the entity intersection graph, the component tracker,
// the k-combination candidate search with its cost model, group analysis and
// instance reconstruction.
//
// [decompose] - Queue-driven recursive decomposition with size bounds,
// unsplittable-part detection and duplication statistics.
//
// ## Infrastructure
//
// [pipeline] - Runs splits and decompositions with caching, archiving and
// hooks. Used by both the CLI and the HTTP API.
//
// [cache] - Content-addressed result cache with file, Redis and no-op backends.
//
// [archive] - Run records with memory, file and MongoDB backends.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by the CLI and the API.
//
// ## Visualization
//
// [render/nodelink] - Intersection graph drawings via Graphviz, with parts as
// clusters and deleted entities dashed.
//
// [render] - Output format names and validation.
//
// [instance]: https://pkg.go.dev/github.com/matzehuels/blocksets/pkg/instance
// [split]: https://pkg.go.dev/github.com/matzehuels/blocksets/pkg/split
// [decompose]: https://pkg.go.dev/github.com/matzehuels/blocksets/pkg/decompose
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/blocksets/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/blocksets/pkg/cache
// [archive]: https://pkg.go.dev/github.com/matzehuels/blocksets/pkg/archive
// [observability]: https://pkg.go.dev/github.com/matzehuels/blocksets/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/blocksets/pkg/errors
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/blocksets/pkg/render/nodelink
// [render]: https://pkg.go.dev/github.com/matzehuels/blocksets/pkg/render
package pkg
