package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/toriana04/fraudintel/core"
	"github.com/toriana04/fraudintel/corpus"
	"github.com/toriana04/fraudintel/session"
	"github.com/toriana04/fraudintel/trends"
)

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"records": len(s.engine.Records()),
	})
}

func (s *Server) search(c echo.Context) error {
	query := c.QueryParam("q")
	result, err := s.engine.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}
	historyOf(c).Record(result)

	resp := toSearchResponse(result)
	if raw := c.QueryParam("category"); raw != "" && result.Best != nil {
		category, err := s.category(raw)
		if err != nil {
			return err
		}
		// The best match is kept even when it falls outside the category.
		matched := result.Best.Record.Category == category
		resp.CategoryMatch = &matched
		if !matched {
			resp.Notice = fmt.Sprintf("No direct match for '%s'. Showing closest overall result.", category)
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) suggest(c echo.Context) error {
	n, err := intParam(c, "n", 0)
	if err != nil {
		return err
	}
	suggestions, err := s.engine.Suggest(c.Request().Context(), c.QueryParam("q"), n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) articles(c echo.Context) error {
	filtered, err := s.filtered(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"count":      len(filtered),
		"articles":   toArticles(filtered),
		"categories": categoryCounts(filtered),
		"keywords":   keywordCounts(trends.TopKeywords(filtered, trends.ExplorerKeywords)),
	})
}

func (s *Server) categories(c echo.Context) error {
	counts := make(map[core.Category]int)
	for _, cc := range trends.CategoryCounts(s.engine.Records()) {
		counts[cc.Category] = cc.Count
	}
	classifier := s.engine.Classifier()
	labels := classifier.Labels()
	out := make([]categoryDTO, len(labels))
	for i, l := range labels {
		out[i] = categoryDTO{Label: string(l), Description: classifier.Describe(l), Count: counts[l]}
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) classify(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid JSON body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return badRequest("text is required")
	}
	category := s.engine.CategoryOf(req.Text)
	return c.JSON(http.StatusOK, map[string]string{
		"category":    string(category),
		"description": s.engine.Classifier().Describe(category),
	})
}

func (s *Server) trends(c echo.Context) error {
	filtered, err := s.filtered(c)
	if err != nil {
		return err
	}
	buckets := trends.Monthly(filtered)

	months := make([]monthDTO, len(buckets))
	for i, b := range buckets {
		counts := make(map[string]int, len(b.Counts))
		for k, v := range b.Counts {
			counts[string(k)] = v
		}
		months[i] = monthDTO{Month: b.Month, Counts: counts, Total: b.Total}
	}
	resp := map[string]any{
		"months":   months,
		"keywords": keywordCounts(trends.TopKeywords(filtered, trends.TrendKeywords)),
		"summary":  trends.Summary(buckets),
	}

	if interpret, _ := strconv.ParseBool(c.QueryParam("interpret")); interpret {
		analyst, err := s.engine.Analyst()
		if err != nil {
			return err
		}
		text, err := analyst.InterpretTrends(c.Request().Context(), buckets)
		if err != nil {
			return err
		}
		resp["interpretation"] = text
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) keywords(c echo.Context) error {
	n, err := intParam(c, "n", trends.ExplorerKeywords)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"keywords": keywordCounts(trends.TopKeywords(s.engine.Records(), n)),
	})
}

func (s *Server) history(c echo.Context) error {
	n, err := intParam(c, "n", session.DefaultRecent)
	if err != nil {
		return err
	}
	entries := historyOf(c).Recent(n)
	out := make([]historyDTO, len(entries))
	for i, e := range entries {
		out[i] = historyDTO{Query: e.Query, MatchedTitle: e.MatchedTitle, Score: e.Score, At: e.At}
	}
	return c.JSON(http.StatusOK, map[string]any{"history": out})
}

func (s *Server) clearHistory(c echo.Context) error {
	historyOf(c).Clear()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) glossary(c echo.Context) error {
	entry, ok := s.engine.Glossary().Lookup(c.Param("term"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "term not found")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"term":       entry.Term,
		"aliases":    entry.Aliases,
		"definition": entry.Definition,
	})
}

func (s *Server) exportCSV(c echo.Context) error {
	filtered, err := s.filtered(c)
	if err != nil {
		return err
	}
	setAttachment(c, "text/csv; charset=utf-8", "filtered_fraud_data.csv")
	return corpus.WriteCSV(c.Response(), filtered)
}

func (s *Server) exportXLSX(c echo.Context) error {
	filtered, err := s.filtered(c)
	if err != nil {
		return err
	}
	setAttachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "filtered_fraud_data.xlsx")
	return corpus.WriteXLSX(c.Response(), filtered)
}

func setAttachment(c echo.Context, contentType, filename string) {
	h := c.Response().Header()
	h.Set(echo.HeaderContentType, contentType)
	h.Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)
}

// filtered applies the category, keyword, from and to query parameters.
func (s *Server) filtered(c echo.Context) ([]core.ArticleRecord, error) {
	var f trends.Filter
	for _, raw := range c.QueryParams()["category"] {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			category, err := s.category(part)
			if err != nil {
				return nil, err
			}
			f.Categories = append(f.Categories, category)
		}
	}
	f.Keyword = c.QueryParam("keyword")

	var err error
	if from := c.QueryParam("from"); from != "" {
		if f.From, err = trends.ParseMonth(from, false); err != nil {
			return nil, badRequest(err.Error())
		}
	}
	if to := c.QueryParam("to"); to != "" {
		if f.To, err = trends.ParseMonth(to, true); err != nil {
			return nil, badRequest(err.Error())
		}
	}
	return f.Apply(s.engine.Records()), nil
}

// category resolves a label case-insensitively.
func (s *Server) category(raw string) (core.Category, error) {
	raw = strings.TrimSpace(raw)
	for _, l := range s.engine.Classifier().Labels() {
		if strings.EqualFold(string(l), raw) {
			return l, nil
		}
	}
	return "", badRequest("unknown category: " + raw)
}

func intParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest(name + " must be a non-negative integer")
	}
	return n, nil
}

func categoryCounts(records []core.ArticleRecord) []categoryDTO {
	counts := trends.CategoryCounts(records)
	out := make([]categoryDTO, len(counts))
	for i, cc := range counts {
		out[i] = categoryDTO{Label: string(cc.Category), Count: cc.Count}
	}
	return out
}

func keywordCounts(counts []trends.KeywordCount) []keywordDTO {
	out := make([]keywordDTO, len(counts))
	for i, kc := range counts {
		out[i] = keywordDTO{Keyword: kc.Keyword, Count: kc.Count}
	}
	return out
}
