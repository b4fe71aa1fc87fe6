package pipeline

import (
	"fmt"

	"github.com/matzehuels/blocksets/pkg/instance"
	"github.com/matzehuels/blocksets/pkg/render"
	"github.com/matzehuels/blocksets/pkg/render/nodelink"
)

// DefaultGraphFormat is the format RenderGraph uses when none is given.
const DefaultGraphFormat = render.FormatSVG

// GraphOptions configures RenderGraph.
type GraphOptions struct {
	Format   string `json:"format,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// RenderGraph draws the intersection graph of inst. When res is non-nil its
// parts are drawn as clusters and its deleted entities dashed.
func RenderGraph(inst *instance.Instance, res *Result, opts GraphOptions) ([]byte, error) {
	if opts.Format == "" {
		opts.Format = DefaultGraphFormat
	}
	if err := render.ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	dotOpts := nodelink.Options{Detailed: opts.Detailed}
	if res != nil {
		dotOpts.Parts = nodelink.PartEntities(res.Parts)
		switch {
		case res.Split != nil:
			dotOpts.Deleted = res.Split.Deleted
		case res.Decompose != nil:
			dotOpts.Deleted = res.Decompose.Deleted
		}
	}

	data, err := nodelink.Render(nodelink.ToDOT(inst, dotOpts), opts.Format)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return data, nil
}
