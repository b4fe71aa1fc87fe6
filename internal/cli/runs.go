package cli

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blocksets/pkg/archive"
	"github.com/matzehuels/blocksets/pkg/errors"
)

// runsCommand creates the run archive command.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect archived split and decompose runs",
	}
	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())
	return cmd
}

func (c *CLI) runsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.requireArchive(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No runs recorded")
				return nil
			}
			fmt.Println(renderRunsTable(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", archive.DefaultListLimit, "maximum runs to list")
	return cmd
}

func (c *CLI) runsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the parameters and parts of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !archive.ValidID(args[0]) {
				return errors.New(errors.ErrCodeInvalidInput, "invalid run id %q", args[0])
			}
			store, err := c.requireArchive(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(ctx, args[0])
			if stderrors.Is(err, archive.ErrNotFound) {
				return errors.New(errors.ErrCodeRunNotFound, "run %s not found", args[0])
			}
			if err != nil {
				return err
			}
			printRun(run)
			return nil
		},
	}
}

func printRun(run *archive.Run) {
	fmt.Println(StyleTitle.Render("Run " + run.ID))
	printKeyValue("Kind", string(run.Kind))
	printKeyValue("Created", run.CreatedAt.Local().Format(time.DateTime))
	printKeyValue("Instance", run.InstanceHash)
	printKeyValue("Size", fmt.Sprintf("%d entities, %d statements", run.Entities, run.Statements))
	printKeyValue("Deletions", fmt.Sprintf("k=%d ratio=%.3g", run.Params.MaxDeletions, run.Params.SplitRatio))
	if run.Kind == archive.KindDecompose {
		printKeyValue("Bounds", fmt.Sprintf("entities<=%d statements<=%d rounds<=%d",
			run.Params.MaxEntities, run.Params.MaxStatements, run.Params.MaxRounds))
		printKeyValue("Rounds", strconv.Itoa(run.Rounds))
	} else {
		printKeyValue("Cost", fmt.Sprintf("%.2f", run.Cost))
	}
	printKeyValue("Deleted", joinIDs(run.Deleted, 20))
	printKeyValue("Duration", run.Duration.Round(time.Millisecond).String())

	switch {
	case run.Degenerate:
		printWarning("No deletion set separated this instance")
	case run.Truncated:
		printWarning("Stopped at the round limit")
	}

	rows := make([]partRow, len(run.Parts))
	for i, p := range run.Parts {
		rows[i] = partRow{
			Index:        i + 1,
			Entities:     p.Entities,
			Statements:   p.Statements,
			Depth:        p.Depth,
			Unsplittable: p.Unsplittable,
		}
		for _, e := range p.Entities {
			if slices.Contains(run.Deleted, e) {
				rows[i].Duplicates = append(rows[i].Duplicates, e)
			}
		}
	}
	fmt.Println(renderPartsTable(rows, run.Kind == archive.KindDecompose))
}

func renderRunsTable(runs []*archive.Run) string {
	data := make([][]string, len(runs))
	for i, r := range runs {
		status := iconFresh
		if r.Cached {
			status = iconCached
		}
		data[i] = []string{
			r.ID,
			string(r.Kind),
			r.CreatedAt.Local().Format(time.DateTime),
			strconv.Itoa(r.Entities),
			strconv.Itoa(len(r.Parts)),
			strconv.Itoa(len(r.Deleted)),
			status,
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("ID", "Kind", "Created", "Entities", "Parts", "Deleted", "").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader.Padding(0, 1)
			case col == 0:
				return styleCell.Foreground(colorCyan)
			case col == 6 && runs[row].Cached:
				return styleCell.Inherit(styleCached)
			case col == 2 || col == 6:
				return styleCell.Foreground(colorDim)
			}
			return styleCell.Foreground(colorWhite)
		}).
		Render()
}
