package ingestion

import (
	"bytes"
	"context"
	"io"

	"github.com/toriana04/fraudintel/corpus"
)

// WriteCSV writes the report's articles with the corpus column names.
func WriteCSV(w io.Writer, report *Report) error {
	return corpus.WriteRawCSV(w, report.Articles)
}

// Publish uploads the report as a CSV object.
func Publish(ctx context.Context, store *corpus.BlobStore, object string, report *Report) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, report); err != nil {
		return err
	}
	return store.Upload(ctx, object, buf.Bytes(), "text/csv")
}
