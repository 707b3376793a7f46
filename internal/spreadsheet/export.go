package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	authormodel "bibliotech/internal/domains/author/model"
	bookmodel "bibliotech/internal/domains/book/model"
)

// Build creates a workbook with one sheet per entity in the given order.
// Books are written with the author name they were joined with.
func Build(authors []authormodel.Author, books []bookmodel.BookView) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetAuthors); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetBooks); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	authorRows := make([][]any, len(authors))
	for i, a := range authors {
		authorRows[i] = []any{a.FirstName, a.LastName}
	}
	if err := writeSheet(f, SheetAuthors, authorHeaders, authorRows); err != nil {
		return nil, err
	}

	bookRows := make([][]any, len(books))
	for i, b := range books {
		bookRows[i] = []any{b.AuthorFirstName, b.AuthorLastName, b.ISBN, b.Title, b.Year}
	}
	if err := writeSheet(f, SheetBooks, bookHeaders, bookRows); err != nil {
		return nil, err
	}

	return f, nil
}

// Export writes the workbook built from authors and books to w.
func Export(w io.Writer, authors []authormodel.Author, books []bookmodel.BookView) error {
	f, err := Build(authors, books)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for col, h := range headers {
		c, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, c, h); err != nil {
			return fmt.Errorf("failed to write header %s!%s: %w", sheet, c, err)
		}
	}

	// bold header
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheet, "A1", last, style)
	}

	for i, row := range rows {
		for col, v := range row {
			c, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, c, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, c, err)
			}
		}
	}
	return nil
}
