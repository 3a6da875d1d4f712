package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/toriana04/fraudintel/core"
)

// ExportHeader is the column order of exported tables.
var ExportHeader = []string{"title", "url", "summary", "keywords", "date", "category"}

func exportRow(r *core.ArticleRecord) []string {
	date := ""
	if r.HasDate() {
		date = r.DateLabel()
	}
	return []string{r.Title, r.URL, r.Summary, strings.Join(r.Keywords, ", "), date, string(r.Category)}
}

// WriteCSV writes records with ExportHeader. The output loads back through
// ReadTable.
func WriteCSV(w io.Writer, records []core.ArticleRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return err
	}
	for i := range records {
		if err := writer.Write(exportRow(&records[i])); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRawCSV writes unnormalized rows with the scraper's column names.
func WriteRawCSV(w io.Writer, rows []RawArticle) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"title", "url", "summary", "keywords", "timestamp"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.Title, row.URL, row.Summary, row.Keywords, row.Timestamp}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes records to a single-sheet workbook.
func WriteXLSX(w io.Writer, records []core.ArticleRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Articles"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	write := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := write(1, ExportHeader); err != nil {
		return err
	}
	for i := range records {
		if err := write(i+2, exportRow(&records[i])); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}
