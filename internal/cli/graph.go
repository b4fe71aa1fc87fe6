package cli

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blocksets/pkg/instance"
	"github.com/matzehuels/blocksets/pkg/pipeline"
	"github.com/matzehuels/blocksets/pkg/render"
)

// partsNone draws the bare intersection graph.
const partsNone = "none"

func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags    runFlags
		format   string
		parts    string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph <instance.json>",
		Short: "Render the entity intersection graph",
		Long: `Graph draws one node per entity and one edge per pair of entities that share
statements. With --parts split or --parts decompose the entities are grouped
into the computed parts and deleted entities are drawn dashed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := render.ValidateFormat(format); err != nil {
				return err
			}
			if parts != partsNone {
				if err := pipeline.ValidateMode(parts); err != nil {
					return err
				}
			}

			path := args[0]
			var (
				inst *instance.Instance
				res  *pipeline.Result
				err  error
			)
			if parts == partsNone {
				inst, err = instance.ReadFile(path)
			} else {
				flags.noSave = true
				inst, res, err = c.execute(cmd.Context(), path, c.options(cmd, parts, &flags), &flags)
			}
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			data, err := pipeline.RenderGraph(inst, res, pipeline.GraphOptions{Format: format, Detailed: detailed})
			if err != nil {
				return err
			}
			prog.done("Rendered graph")

			out := flags.output
			if out == "" {
				out = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "." + format
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			printSuccess("Rendered %d entities", inst.NumEntities())
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.DefaultGraphFormat, "output format: "+strings.Join(formatNames(), ", "))
	cmd.Flags().StringVar(&parts, "parts", pipeline.ModeSplit, "group entities by parts: split, decompose or none")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with statement ids")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <instance>.<format>)")
	flags.bindSplit(cmd)
	flags.bindDecompose(cmd)

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return formatNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func formatNames() []string {
	return slices.Sorted(maps.Keys(render.ValidFormats))
}
