package corpus

import (
	"context"
	"fmt"
	"os"
)

// Source yields the raw rows of the corpus.
type Source interface {
	// Fetch reads every row. Row order is the corpus order.
	Fetch(ctx context.Context) ([]RawArticle, error)

	// Describe names the source for logs.
	Describe() string
}

// FileSource reads a local CSV or XLSX file.
type FileSource struct {
	Path string
}

var _ Source = (*FileSource)(nil)

// Fetch reads the file chosen by the extension of Path.
func (s *FileSource) Fetch(ctx context.Context) ([]RawArticle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := FormatOf(s.Path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadTable(f, format)
}

// Describe returns the file path.
func (s *FileSource) Describe() string {
	return fmt.Sprintf("file %s", s.Path)
}

// StaticSource serves rows held in memory.
type StaticSource struct {
	Rows []RawArticle
}

var _ Source = (*StaticSource)(nil)

// Fetch returns a copy of Rows.
func (s *StaticSource) Fetch(_ context.Context) ([]RawArticle, error) {
	return append([]RawArticle(nil), s.Rows...), nil
}

// Describe reports the row count.
func (s *StaticSource) Describe() string {
	return fmt.Sprintf("static %d rows", len(s.Rows))
}
