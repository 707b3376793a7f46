// Package spreadsheet moves authors and books in and out of .xlsx workbooks.
// A workbook has an "authors" sheet and a "books" sheet, each with a header
// row.
package spreadsheet

import "strings"

const (
	SheetAuthors = "authors"
	SheetBooks   = "books"
)

var (
	authorHeaders = []string{"First Name", "Last Name"}
	bookHeaders   = []string{"Author First Name", "Author Last Name", "ISBN", "Title", "Year"}
)

// normalizeHeader folds a header cell so "First Name", "first_name" and
// "firstname" map to the same column.
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// columnIndex maps each normalized header to its position.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeHeader(name)] = i
	}
	return cols
}

// cell returns the trimmed value of column name in row, or "" when the
// column is absent or the row is short.
func cell(row []string, cols map[string]int, name string) string {
	if i, ok := cols[normalizeHeader(name)]; ok && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
