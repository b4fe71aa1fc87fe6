package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blocksets/pkg/instance"
	"github.com/matzehuels/blocksets/pkg/pipeline"
)

// runFlags holds the flags shared by the split, decompose and browse commands.
type runFlags struct {
	maxDeletions int
	ratio        float64
	workers      int

	maxEntities   int
	maxStatements int
	maxRounds     int

	noCache bool
	refresh bool
	noSave  bool
	output  string
}

func (f *runFlags) bindSplit(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.maxDeletions, "max-deletions", "k", 0, "maximum entities deleted per split (default 5)")
	cmd.Flags().Float64Var(&f.ratio, "ratio", 0, "balance coefficient, 0 < ratio < 0.5 (default 1/3)")
	cmd.Flags().IntVarP(&f.workers, "workers", "j", 0, "candidates scored concurrently (default 1)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
}

func (f *runFlags) bindDecompose(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxEntities, "max-entities", 0, "split parts with more entities than this (default 12)")
	cmd.Flags().IntVar(&f.maxStatements, "max-statements", 0, "split parts with more statements than this (0 = unlimited)")
	cmd.Flags().IntVar(&f.maxRounds, "max-rounds", 0, "cap on split calls (default 1000)")
}

func (f *runFlags) bindOutput(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "directory to write part files to")
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "do not record the run in the archive")
}

// options layers explicitly set flags over the configured pipeline options.
func (c *CLI) options(cmd *cobra.Command, mode string, f *runFlags) pipeline.Options {
	opts := c.cfg().Pipeline
	opts.Mode = mode
	opts.Refresh = f.refresh

	set := cmd.Flags().Changed
	if set("max-deletions") {
		opts.Split.MaxDeletions = f.maxDeletions
	}
	if set("ratio") {
		opts.Split.SplitRatio = f.ratio
	}
	if set("workers") {
		opts.Split.Workers = f.workers
	}
	if set("max-entities") {
		opts.MaxEntities = f.maxEntities
	}
	if set("max-statements") {
		opts.MaxStatements = f.maxStatements
	}
	if set("max-rounds") {
		opts.MaxRounds = f.maxRounds
	}
	return opts
}

// =============================================================================
// Commands
// =============================================================================

func (c *CLI) splitCommand() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "split <instance.json>",
		Short: "Split an instance once into separated parts",
		Long: `Split deletes the lowest-cost set of at most --max-deletions entities so that
the intersection graph falls apart, then rebuilds one sub-instance per
component. Deleted entities are copied into every part they relate to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAndReport(cmd.Context(), args[0], c.options(cmd, pipeline.ModeSplit, &flags), &flags)
		},
	}
	flags.bindSplit(cmd)
	flags.bindOutput(cmd)
	return cmd
}

func (c *CLI) decomposeCommand() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "decompose <instance.json>",
		Short: "Split an instance recursively until every part fits",
		Long: `Decompose splits the instance, then splits every part that is still larger
than --max-entities or --max-statements, until all parts fit or cannot be
split further.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAndReport(cmd.Context(), args[0], c.options(cmd, pipeline.ModeDecompose, &flags), &flags)
		},
	}
	flags.bindSplit(cmd)
	flags.bindDecompose(cmd)
	flags.bindOutput(cmd)
	return cmd
}

// =============================================================================
// Execution
// =============================================================================

// execute reads the instance at path and runs the pipeline with a spinner.
func (c *CLI) execute(ctx context.Context, path string, opts pipeline.Options, f *runFlags) (*instance.Instance, *pipeline.Result, error) {
	inst, err := instance.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	runner, err := c.newRunner(ctx, f.noCache, !f.noSave)
	if err != nil {
		return nil, nil, err
	}
	defer runner.Close()

	verb := "Decomposing"
	if opts.Mode == pipeline.ModeSplit {
		verb = "Splitting"
	}
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("%s %d entities...", verb, inst.NumEntities()))
	spinner.Start()
	res, err := runner.Execute(ctx, inst, opts)
	spinner.Stop()
	if spinner.Cancelled() {
		return nil, nil, ctx.Err()
	}
	if err != nil {
		return nil, nil, err
	}
	return inst, res, nil
}

func (c *CLI) runAndReport(ctx context.Context, path string, opts pipeline.Options, f *runFlags) error {
	_, res, err := c.execute(ctx, path, opts, f)
	if err != nil {
		return err
	}

	printSuccess("%s: %d parts", filepath.Base(path), len(res.Parts))
	printStats(res.Stats.Entities, res.Stats.Parts, res.Stats.Deleted, res.CacheInfo.Hit)
	reportResult(res)
	fmt.Println(renderPartsTable(partRows(res), res.Decompose != nil))

	if f.output != "" {
		files, err := writeParts(f.output, res.Parts)
		if err != nil {
			return err
		}
		printSuccess("Wrote %d part files", len(files))
		for _, file := range files {
			printFile(file)
		}
	}
	if res.RunID != "" {
		printDetail("Run %s", res.RunID)
	}
	return nil
}

// reportResult prints mode-specific details and warnings.
func reportResult(res *pipeline.Result) {
	switch {
	case res.Split != nil:
		s := res.Split
		if s.Degenerate {
			printWarning("No deletion set separates this instance; parts are identical copies")
			return
		}
		printDetail("deleted %s · cost %.2f · %d copies · %d candidates", joinIDs(s.Deleted, 10), s.Cost, s.Copies, s.Evaluated)
	case res.Decompose != nil:
		d := res.Decompose
		printDetail("%d rounds · %d entities duplicated · %d copies total", len(d.Rounds), d.DuplicatedEntities, d.TotalDuplicates)
		if d.Truncated {
			printWarning("Stopped after --max-rounds; some parts may still be oversized")
		}
		unsplittable := 0
		for _, p := range d.Parts {
			if p.Unsplittable {
				unsplittable++
			}
		}
		if unsplittable > 0 {
			printInfo("%d parts could not be split further", unsplittable)
		}
	}
}

// writeParts writes each part as part-NNN.json under dir.
func writeParts(dir string, parts []*instance.Instance) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	files := make([]string, len(parts))
	for i, p := range parts {
		path := filepath.Join(dir, fmt.Sprintf("part-%03d.json", i+1))
		if err := instance.WriteFile(path, p); err != nil {
			return nil, err
		}
		files[i] = path
	}
	return files, nil
}
