package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blocksets/pkg/instance"
	"github.com/matzehuels/blocksets/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listDeletedStyle  = lipgloss.NewStyle().Foreground(colorYellow)
)

func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags runFlags
		mode  string
	)
	cmd := &cobra.Command{
		Use:   "browse <instance.json>",
		Short: "Explore the parts of a split or decomposition interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateMode(mode); err != nil {
				return err
			}
			flags.noSave = true
			_, res, err := c.execute(cmd.Context(), args[0], c.options(cmd, mode, &flags), &flags)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewPartsModel(res), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&mode, "mode", pipeline.DefaultMode, "split or decompose")
	flags.bindSplit(cmd)
	flags.bindDecompose(cmd)
	return cmd
}

// =============================================================================
// PartsModel - Interactive part browser
// =============================================================================

// PartsModel is the bubbletea model for browsing output parts. The list view
// shows one row per part; enter opens the entities of the selected part.
type PartsModel struct {
	Rows    []partRow
	Parts   []*instance.Instance
	Deleted []int
	Cursor  int
	Offset  int
	Height  int
	Detail  bool
}

// NewPartsModel creates a browser over the parts of res.
func NewPartsModel(res *pipeline.Result) PartsModel {
	m := PartsModel{Rows: partRows(res), Parts: res.Parts, Height: 15}
	switch {
	case res.Split != nil:
		m.Deleted = res.Split.Deleted
	case res.Decompose != nil:
		m.Deleted = res.Decompose.Deleted
	}
	return m
}

func (m PartsModel) Init() tea.Cmd {
	return nil
}

func (m PartsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			if !m.Detail {
				return m, tea.Quit
			}
			m.Detail = false
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m PartsModel) View() string {
	if m.Detail {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Parts"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	data := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		flag := ""
		if r.Unsplittable {
			flag = "unsplittable"
		}
		data = append(data, []string{
			cursor,
			strconv.Itoa(r.Index),
			strconv.Itoa(len(r.Entities)),
			strconv.Itoa(r.Statements),
			joinIDs(r.Duplicates, 4),
			strconv.Itoa(r.Depth),
			flag,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "#", "Entities", "Statements", "Duplicates", "Depth", "").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			current := m.Offset+row == m.Cursor
			switch {
			case current:
				return listSelectedStyle
			case col == 4:
				return listDeletedStyle
			case col == 6:
				return listDimStyle
			}
			return StyleValue
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	return b.String()
}

func (m PartsModel) detailView() string {
	row := m.Rows[m.Cursor]
	part := m.Parts[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Part %d", row.Index)))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d entities · %d statements · depth %d",
		len(row.Entities), row.Statements, row.Depth)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	for _, e := range row.Entities {
		name := part.Entities[e]
		if name == "" {
			name = "e" + strconv.Itoa(e)
		}
		line := fmt.Sprintf("%-24s %s", name, listDimStyle.Render(joinIDs(part.StatementsOf(e), 12)))
		if slices.Contains(m.Deleted, e) {
			line = listDeletedStyle.Render("* ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(StyleNumber.Render(fmt.Sprintf("%4d ", e)))
		b.WriteString(line)
		b.WriteString("\n")
	}

	if unowned := part.Unowned(); len(unowned) > 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("unowned statements: " + joinIDs(unowned, 12)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s duplicated from a deleted entity\n", listDeletedStyle.Render("*")))
	return b.String()
}
