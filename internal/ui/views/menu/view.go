package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	browsedto "playfin/internal/modules/browse/dto"
	"playfin/internal/ui/theme"
)

const (
	markWatched = "✓"
	markPartial = "◐"
)

// Render draws one navigation frame into a width x height box.
func Render(v browsedto.View, width, height int) string {
	var sb strings.Builder
	title := v.Title
	if v.Filter != "" {
		title += theme.Muted.Render(fmt.Sprintf("  /%s  %d match", v.Filter, len(v.Entries)))
	}
	sb.WriteString(theme.Title.Render(title) + "\n\n")

	rows := height - 2
	if rows < 1 {
		rows = 1
	}
	if len(v.Entries) == 0 {
		sb.WriteString(theme.Muted.Render("  nothing here"))
		return lipgloss.NewStyle().Width(width).Height(height).Render(sb.String())
	}

	from, to := Window(v.Cursor, len(v.Entries), rows)
	for i := from; i < to; i++ {
		sb.WriteString(row(v.Entries[i], i == v.Cursor))
		if i < to-1 {
			sb.WriteString("\n")
		}
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(sb.String())
}

func row(e browsedto.Entry, selected bool) string {
	mark := " "
	switch e.Indicator {
	case "watched":
		mark = theme.Watched.Render(markWatched)
	case "partial":
		mark = theme.Partial.Render(markPartial)
	}
	if selected {
		return theme.Cursor.Render("> ") + mark + " " + theme.Cursor.Render(e.Label)
	}
	return "  " + mark + " " + e.Label
}

// Window returns the [from, to) slice of n rows that keeps cursor visible in
// a viewport of size rows.
func Window(cursor, n, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	from := cursor - rows/2
	if from < 0 {
		from = 0
	}
	if from+rows > n {
		from = n - rows
	}
	return from, from + rows
}
