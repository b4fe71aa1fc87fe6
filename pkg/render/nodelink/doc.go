// Package nodelink draws entity intersection graphs as node-link diagrams.
//
// # Overview
//
// Every entity becomes a box; two entities are joined when they share at
// least one statement, and the edge is labelled with the number of shared
// statements. When the parts of a split are supplied, each part is drawn as
// a Graphviz cluster and the entities the split deleted are drawn dashed
// outside the clusters, since their copies live in several parts.
//
// # Usage
//
//	res, _ := split.Split(inst, split.Options{})
//	dot := nodelink.ToDOT(inst, nodelink.Options{
//	    Parts:   nodelink.PartEntities(res.Parts),
//	    Deleted: res.Deleted,
//	})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
