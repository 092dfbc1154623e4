package output

import "strings"

const minColWidth = 3 // minimum separator width for a valid Markdown table (---)

// RenderTable renders rows as a GitHub-Flavored Markdown table. The first row
// is the header. Columns are padded to their widest cell.
func RenderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	maxCols := 0
	for _, row := range rows {
		maxCols = max(maxCols, len(row))
	}
	if maxCols == 0 {
		return ""
	}

	widths := make([]int, maxCols)
	for i := range widths {
		widths[i] = minColWidth
	}
	for _, row := range rows {
		for i, raw := range row {
			widths[i] = max(widths[i], len([]rune(cellText(raw))))
		}
	}

	cell := func(row []string, col int) string {
		if col < len(row) {
			return cellText(row[col])
		}
		return ""
	}
	pad := func(s string, w int) string {
		n := len([]rune(s))
		if n >= w {
			return s
		}
		return s + strings.Repeat(" ", w-n)
	}
	writeRow := func(sb *strings.Builder, row []string) {
		sb.WriteString("|")
		for i := 0; i < maxCols; i++ {
			sb.WriteString(" " + pad(cell(row, i), widths[i]) + " |")
		}
		sb.WriteByte('\n')
	}

	var sb strings.Builder
	writeRow(&sb, rows[0])

	sb.WriteString("|")
	for i := 0; i < maxCols; i++ {
		sb.WriteString(" " + strings.Repeat("-", widths[i]) + " |")
	}
	sb.WriteByte('\n')

	for _, row := range rows[1:] {
		writeRow(&sb, row)
	}
	return sb.String()
}

// cellText escapes pipes and flattens newlines so a value stays in one cell.
func cellText(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
