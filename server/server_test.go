package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toriana04/fraudintel"
	"github.com/toriana04/fraudintel/ai/mock"
	"github.com/toriana04/fraudintel/config"
	"github.com/toriana04/fraudintel/corpus"
)

func testSource() *corpus.StaticSource {
	return &corpus.StaticSource{Rows: []corpus.RawArticle{
		{
			Title:     "Check Washing Alert",
			URL:       "https://example.com/check",
			Summary:   "Check washing lets criminals change the payee on checks stolen from letterboxes.",
			Keywords:  "check fraud, mail theft",
			Timestamp: "2024-03-05",
		},
		{
			Title:     "Deepfake Voice Scams",
			URL:       "https://example.com/deepfake",
			Summary:   "Fraudsters use AI voice cloning and deepfake video to impersonate relatives.",
			Keywords:  "ai, deepfake",
			Timestamp: "2024-04-10",
		},
		{
			Title:     "Protecting Older Investors",
			URL:       "https://example.com/elder",
			Summary:   "Elder fraud schemes target seniors through romance and imposter scams.",
			Keywords:  "elder fraud, romance scam",
			Timestamp: "2024-04-22",
		},
	}}
}

func newTestServer(t *testing.T, withAI bool) *Server {
	t.Helper()
	opts := []fraudintel.Option{fraudintel.WithSource(testSource())}
	if withAI {
		opts = append(opts, fraudintel.WithProvider(mock.NewMockProvider()))
	}
	engine, err := fraudintel.Open(context.Background(), config.Default(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return New(engine)
}

func do(t *testing.T, s *Server, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, strings.NewReader(string(data)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookie)
	return nil
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["records"])
}

func TestSearch_RecordsSessionHistory(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/search?q=check+washing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Best)
	assert.Equal(t, "Check Washing Alert", resp.Best.Article.Title)
	assert.Equal(t, "Check Fraud", resp.Best.Article.Category)
	assert.Equal(t, "2024-03-05", resp.Best.Article.Date)
	assert.NotNil(t, resp.Related)

	cookie := sessionCookie(t, rec)

	rec = do(t, s, http.MethodGet, "/api/history", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		History []historyDTO `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.History, 1)
	assert.Equal(t, "check washing", history.History[0].Query)
	assert.Equal(t, "Check Washing Alert", history.History[0].MatchedTitle)

	rec = do(t, s, http.MethodDelete, "/api/history", nil, cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/history", nil, cookie)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Empty(t, history.History)
}

func TestSearch_HistoryIsPerSession(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/search?q=deepfake", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	other := do(t, s, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, other.Code)
	assert.Equal(t, []any{}, decode(t, other)["history"])
}

func TestSearch_CategoryFilter(t *testing.T) {
	s := newTestServer(t, false)

	q := url.Values{"q": {"check washing"}, "category": {"elder fraud"}}
	rec := do(t, s, http.MethodGet, "/api/search?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Best, "closest match is still shown")
	assert.Equal(t, "Check Washing Alert", resp.Best.Article.Title)
	assert.NotNil(t, resp.Related)
	require.NotNil(t, resp.CategoryMatch)
	assert.False(t, *resp.CategoryMatch)
	assert.Equal(t, "No direct match for 'Elder Fraud'. Showing closest overall result.", resp.Notice)

	q.Set("category", "check fraud")
	rec = do(t, s, http.MethodGet, "/api/search?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["category_match"])
	assert.NotContains(t, body, "notice")

	rec = do(t, s, http.MethodGet, "/api/search?q=check+washing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decode(t, rec), "category_match")

	q.Set("category", "Nonsense")
	rec = do(t, s, http.MethodGet, "/api/search?"+q.Encode(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggest(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/suggest?q=check&n=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	suggestions, ok := decode(t, rec)["suggestions"].([]any)
	require.True(t, ok)
	assert.LessOrEqual(t, len(suggestions), 2)

	rec = do(t, s, http.MethodGet, "/api/suggest?q=check&n=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticles_Filters(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name   string
		query  url.Values
		status int
		count  int
	}{
		{name: "all", query: url.Values{}, status: http.StatusOK, count: 3},
		{name: "categories", query: url.Values{"category": {"Elder Fraud,Check Fraud"}}, status: http.StatusOK, count: 2},
		{name: "repeated categories", query: url.Values{"category": {"AI Fraud", "Check Fraud"}}, status: http.StatusOK, count: 2},
		{name: "from month", query: url.Values{"from": {"2024-04"}}, status: http.StatusOK, count: 2},
		{name: "to month", query: url.Values{"to": {"2024-03"}}, status: http.StatusOK, count: 1},
		{name: "keyword", query: url.Values{"keyword": {"romance"}}, status: http.StatusOK, count: 1},
		{name: "unknown category", query: url.Values{"category": {"Tax Fraud"}}, status: http.StatusBadRequest},
		{name: "bad month", query: url.Values{"from": {"April"}}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/articles?"+tt.query.Encode(), nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status != http.StatusOK {
				assert.NotEmpty(t, decode(t, rec)["error"])
				return
			}
			body := decode(t, rec)
			assert.EqualValues(t, tt.count, body["count"])
			assert.Len(t, body["articles"], tt.count)
		})
	}
}

func TestCategoriesAndClassify(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Categories []categoryDTO `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	counts := make(map[string]int)
	for _, c := range resp.Categories {
		counts[c.Label] = c.Count
		if c.Label != "General Fraud" {
			assert.NotEmpty(t, c.Description, c.Label)
		}
	}
	assert.Equal(t, 1, counts["Check Fraud"])
	assert.Equal(t, 1, counts["AI Fraud"])
	assert.Equal(t, 1, counts["Elder Fraud"])
	assert.Contains(t, counts, "General Fraud")

	rec = do(t, s, http.MethodPost, "/api/classify", textRequest{Text: "A pump and dump scheme in crypto tokens"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Investment Scam", decode(t, rec)["category"])

	rec = do(t, s, http.MethodPost, "/api/classify", textRequest{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrends(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/trends", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Months   []monthDTO   `json:"months"`
		Keywords []keywordDTO `json:"keywords"`
		Summary  string       `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Months, 2)
	assert.Equal(t, "2024-03", resp.Months[0].Month)
	assert.Equal(t, 1, resp.Months[0].Total)
	assert.Equal(t, "2024-04", resp.Months[1].Month)
	assert.Equal(t, 2, resp.Months[1].Total)
	assert.NotEmpty(t, resp.Keywords)
	assert.NotEmpty(t, resp.Summary)

	rec = do(t, s, http.MethodGet, "/api/trends?interpret=true", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ai := newTestServer(t, true)
	rec = do(t, ai, http.MethodGet, "/api/trends?interpret=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec)["interpretation"], "mock: ")
}

func TestKeywords(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/keywords?n=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["keywords"], 2)
}

func TestCompare(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodPost, "/api/compare", compareRequest{A: "Check Washing Alert", B: "check washing alert"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp compareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 1.0, resp.Score, 1e-6)
	assert.Empty(t, resp.Explanation)

	rec = do(t, s, http.MethodPost, "/api/compare", compareRequest{A: "Check Washing Alert", B: "Missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/compare", compareRequest{A: "Check Washing Alert"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/compare", compareRequest{A: "Check Washing Alert", B: "Deepfake Voice Scams", Explain: true})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ai := newTestServer(t, true)
	rec = do(t, ai, http.MethodPost, "/api/compare", compareRequest{A: "Check Washing Alert", B: "Deepfake Voice Scams", Explain: true})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Deepfake Voice Scams", resp.B.Title)
	assert.True(t, strings.HasPrefix(resp.Explanation, "mock: "))
}

func TestInsightEndpoints(t *testing.T) {
	t.Run("without a provider", func(t *testing.T) {
		s := newTestServer(t, false)
		for _, tc := range []struct {
			method, target string
			body           any
		}{
			{http.MethodPost, "/api/explain", textRequest{Text: "check washing"}},
			{http.MethodPost, "/api/ask", askRequest{Question: "What is check washing?"}},
			{http.MethodGet, "/api/insight/0", nil},
		} {
			rec := do(t, s, tc.method, tc.target, tc.body)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code, tc.target)
		}
	})

	t.Run("with a provider", func(t *testing.T) {
		s := newTestServer(t, true)

		rec := do(t, s, http.MethodPost, "/api/explain", textRequest{Text: "check washing"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, decode(t, rec)["explanation"], "check washing")

		rec = do(t, s, http.MethodPost, "/api/explain", textRequest{Text: " "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, s, http.MethodPost, "/api/ask", askRequest{Question: "How does check washing work?"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Contains(t, body["answer"], "Check washing lets criminals")
		grounding, ok := body["grounding"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Check Washing Alert", grounding["article"].(map[string]any)["title"])

		rec = do(t, s, http.MethodGet, "/api/insight/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body = decode(t, rec)
		assert.Equal(t, "Deepfake Voice Scams", body["article"].(map[string]any)["title"])
		assert.Contains(t, body["insight"], "mock: ")

		rec = do(t, s, http.MethodGet, "/api/insight/9", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = do(t, s, http.MethodGet, "/api/insight/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGlossary(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/glossary/deepfakes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "deepfake", body["term"])
	assert.NotEmpty(t, body["definition"])

	rec = do(t, s, http.MethodGet, "/api/glossary/zzz", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "term not found", decode(t, rec)["error"])
}

func TestExport(t *testing.T) {
	s := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/export.csv?category=Check+Fraud", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "filtered_fraud_data.csv")

	rows, err := corpus.ReadTable(rec.Body, corpus.FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Check Washing Alert", rows[0].Title)

	rec = do(t, s, http.MethodGet, "/api/export.xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "filtered_fraud_data.xlsx")

	rows, err = corpus.ReadTable(rec.Body, corpus.FormatXLSX)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
