package corpus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"articles.csv", FormatCSV, false},
		{"exports/Articles.XLSX", FormatXLSX, false},
		{"finra_fraud", FormatCSV, false},
		{"articles.json", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatOf(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadTable_CSV(t *testing.T) {
	data := "\ufeff" + "title,link,summary,keywords,date,extra\n" +
		`Check Fraud Rises,https://example.org/a,Check washing is up.,"check fraud, mail theft",2025-01-15,x` + "\n" +
		",,,,,\n" +
		`AI Scams,https://example.org/b,Deepfake voice scams.,"ai, deepfake"` + "\n"

	rows, err := ReadTable(strings.NewReader(data), FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, RawArticle{
		Title:     "Check Fraud Rises",
		URL:       "https://example.org/a",
		Summary:   "Check washing is up.",
		Keywords:  "check fraud, mail theft",
		Timestamp: "2025-01-15",
	}, rows[0])
	assert.Equal(t, "AI Scams", rows[1].Title)
	assert.Equal(t, "", rows[1].Timestamp)
}

func TestReadTable_MissingColumns(t *testing.T) {
	rows, err := ReadTable(strings.NewReader("title,summary\nOnly Title,Some text\n"), FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].URL)
	assert.Equal(t, "", rows[0].Keywords)
}

func TestReadTable_NoHeader(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""), FormatCSV)
	assert.ErrorIs(t, err, ErrMissingHeader)

	_, err = ReadTable(strings.NewReader("foo,bar\n1,2\n"), FormatCSV)
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestReadTable_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Title", "URL", "Summary", "Keywords", "Timestamp"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Elder Scams", "https://example.org/e", "Seniors lose savings.", "elder fraud, romance", "2024-03-01"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"No Keywords", "", "Short summary."}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	rows, err := ReadTable(&buf, FormatXLSX)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Elder Scams", rows[0].Title)
	assert.Equal(t, "elder fraud, romance", rows[0].Keywords)
	assert.Equal(t, "2024-03-01", rows[0].Timestamp)
	assert.Equal(t, "No Keywords", rows[1].Title)
	assert.Equal(t, "", rows[1].Keywords)
}

func TestReadTable_UnsupportedFormat(t *testing.T) {
	_, err := ReadTable(strings.NewReader("{}"), Format("json"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
