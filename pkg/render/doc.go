// Package render names the output formats shared by the renderers.
//
// The [nodelink] subpackage draws intersection graphs with Graphviz and
// produces DOT or SVG:
//
//	if err := render.ValidateFormat(format); err != nil {
//	    return err
//	}
//	data, err := nodelink.Render(dot, format)
package render
