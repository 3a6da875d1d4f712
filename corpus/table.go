package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawArticle is one corpus row before normalization.
type RawArticle struct {
	Title     string
	URL       string
	Summary   string
	Keywords  string
	Timestamp string
}

// Format is a tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the format from a file or object name.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv", "":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// columnAliases maps accepted header names to RawArticle fields.
var columnAliases = map[string]string{
	"title":        "title",
	"url":          "url",
	"link":         "url",
	"summary":      "summary",
	"keywords":     "keywords",
	"timestamp":    "timestamp",
	"date":         "timestamp",
	"article_date": "timestamp",
}

// ReadTable decodes a CSV or XLSX table into rows.
func ReadTable(r io.Reader, format Format) ([]RawArticle, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, row)
	}
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMissingHeader
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// fromRows maps rows to articles using the first row as header. Unknown
// columns are ignored and missing ones read as empty strings.
func fromRows(rows [][]string) ([]RawArticle, error) {
	if len(rows) == 0 {
		return nil, ErrMissingHeader
	}

	columns := make(map[string]int)
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if field, ok := columnAliases[key]; ok {
			if _, taken := columns[field]; !taken {
				columns[field] = i
			}
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no known columns in %v", ErrMissingHeader, rows[0])
	}

	cell := func(row []string, field string) string {
		i, ok := columns[field]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	articles := make([]RawArticle, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		articles = append(articles, RawArticle{
			Title:     cell(row, "title"),
			URL:       cell(row, "url"),
			Summary:   cell(row, "summary"),
			Keywords:  cell(row, "keywords"),
			Timestamp: cell(row, "timestamp"),
		})
	}
	return articles, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
