package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/blocksets/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, deleted entities
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints run statistics on a single line.
func printStats(entities, parts, deleted int, cached bool) {
	items := []string{
		fmt.Sprintf("%d entities", entities),
		fmt.Sprintf("%d parts", parts),
		fmt.Sprintf("%d deleted", deleted),
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, item := range items {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(item)
	}
	fmt.Println(line + StyleDim.Render(" · ") + statusStyle.Render(status))
}

// =============================================================================
// Part Tables
// =============================================================================

// partRow summarizes one output part for tables and the browser.
type partRow struct {
	Index        int
	Entities     []int
	Statements   int
	Duplicates   []int // deleted entities copied into this part
	Depth        int
	Unsplittable bool
}

// partRows derives one row per output part of res.
func partRows(res *pipeline.Result) []partRow {
	var deleted []int
	switch {
	case res.Split != nil:
		deleted = res.Split.Deleted
	case res.Decompose != nil:
		deleted = res.Decompose.Deleted
	}

	rows := make([]partRow, len(res.Parts))
	for i, p := range res.Parts {
		ids := p.EntityIDs()
		row := partRow{Index: i + 1, Entities: ids, Statements: p.NumStatements()}
		for _, e := range ids {
			if slices.Contains(deleted, e) {
				row.Duplicates = append(row.Duplicates, e)
			}
		}
		if res.Decompose != nil && i < len(res.Decompose.Parts) {
			row.Depth = res.Decompose.Parts[i].Depth
			row.Unsplittable = res.Decompose.Parts[i].Unsplittable
		}
		rows[i] = row
	}
	return rows
}

// renderPartsTable draws rows as a bordered table.
func renderPartsTable(rows []partRow, withDepth bool) string {
	headers := []string{"#", "Entities", "Statements", "Duplicates"}
	if withDepth {
		headers = append(headers, "Depth", "")
	}

	data := make([][]string, len(rows))
	for i, r := range rows {
		cells := []string{
			strconv.Itoa(r.Index),
			strconv.Itoa(len(r.Entities)),
			strconv.Itoa(r.Statements),
			joinIDs(r.Duplicates, 6),
		}
		if withDepth {
			flag := ""
			if r.Unsplittable {
				flag = "unsplittable"
			}
			cells = append(cells, strconv.Itoa(r.Depth), flag)
		}
		data[i] = cells
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader.Padding(0, 1)
			case col == 3:
				return styleCell.Foreground(colorYellow)
			case col == 5:
				return styleCell.Foreground(colorDim)
			}
			return styleCell.Foreground(colorWhite)
		}).
		Render()
}

// joinIDs formats ids as "1, 2, 3", eliding past limit entries.
func joinIDs(ids []int, limit int) string {
	if len(ids) == 0 {
		return "-"
	}
	var b strings.Builder
	for i, id := range ids {
		if i == limit {
			fmt.Fprintf(&b, ", +%d", len(ids)-limit)
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}
