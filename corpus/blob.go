package corpus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBlobTimeout = 60 * time.Second

// BlobStore talks to a Supabase-compatible object storage API.
type BlobStore struct {
	BaseURL string // Project URL, e.g. https://xyz.supabase.co
	Bucket  string
	APIKey  string
	Client  *http.Client
}

// objectURL builds {base}/storage/v1/object/{bucket}/{object}.
func (b *BlobStore) objectURL(object string) (string, error) {
	if b.BaseURL == "" || b.Bucket == "" || object == "" {
		return "", fmt.Errorf("blob store needs base url, bucket and object")
	}
	segments := []string{url.PathEscape(b.Bucket)}
	for _, part := range strings.Split(strings.Trim(object, "/"), "/") {
		segments = append(segments, url.PathEscape(part))
	}
	return strings.TrimRight(b.BaseURL, "/") + "/storage/v1/object/" + strings.Join(segments, "/"), nil
}

func (b *BlobStore) client() *http.Client {
	if b.Client != nil {
		return b.Client
	}
	return &http.Client{Timeout: defaultBlobTimeout}
}

func (b *BlobStore) authorize(req *http.Request) {
	if b.APIKey == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+b.APIKey)
	req.Header.Set("apikey", b.APIKey)
}

// Download fetches object.
func (b *BlobStore) Download(ctx context.Context, object string) ([]byte, error) {
	target, err := b.objectURL(object)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	b.authorize(req)

	resp, err := b.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", object, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", object, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: status %d: %s", object, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// Upload stores data as object, replacing any existing version.
func (b *BlobStore) Upload(ctx context.Context, object string, data []byte, contentType string) error {
	target, err := b.objectURL(object)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return err
	}
	b.authorize(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := b.client().Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", object, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("failed to upload %s: status %d: %s", object, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	slog.Default().With("component", "blob-store").Info("uploaded object", "bucket", b.Bucket, "object", object, "bytes", len(data))
	return nil
}

// BlobSource reads a CSV or XLSX object from a BlobStore.
type BlobSource struct {
	Store  *BlobStore
	Object string
}

var _ Source = (*BlobSource)(nil)

// Fetch downloads the object and decodes it by extension.
func (s *BlobSource) Fetch(ctx context.Context) ([]RawArticle, error) {
	if s.Store == nil {
		return nil, fmt.Errorf("blob source has no store")
	}
	format, err := FormatOf(s.Object)
	if err != nil {
		return nil, err
	}
	data, err := s.Store.Download(ctx, s.Object)
	if err != nil {
		return nil, err
	}
	return ReadTable(bytes.NewReader(data), format)
}

// Describe returns bucket/object.
func (s *BlobSource) Describe() string {
	if s.Store == nil {
		return "blob " + s.Object
	}
	return fmt.Sprintf("blob %s/%s", s.Store.Bucket, s.Object)
}
