package server

import (
	"time"

	"github.com/toriana04/fraudintel/core"
)

const dateLayout = "2006-01-02"

type articleDTO struct {
	Index    int      `json:"index"`
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
	Date     string   `json:"date,omitempty"`
	Category string   `json:"category"`
}

func toArticle(r core.ArticleRecord) articleDTO {
	dto := articleDTO{
		Index:    r.Index,
		Title:    r.Title,
		URL:      r.URL,
		Summary:  r.Summary,
		Keywords: r.Keywords,
		Category: string(r.Category),
	}
	if dto.Keywords == nil {
		dto.Keywords = []string{}
	}
	if r.HasDate() {
		dto.Date = r.Date.Format(dateLayout)
	}
	return dto
}

func toArticles(records []core.ArticleRecord) []articleDTO {
	out := make([]articleDTO, len(records))
	for i, r := range records {
		out[i] = toArticle(r)
	}
	return out
}

type matchDTO struct {
	Article articleDTO `json:"article"`
	Score   float64    `json:"score"`
}

type searchResponse struct {
	Query         string       `json:"query"`
	Best          *matchDTO    `json:"best"`
	Related       []articleDTO `json:"related"`
	CategoryMatch *bool        `json:"category_match,omitempty"`
	Notice        string       `json:"notice,omitempty"`
}

func toSearchResponse(result core.SearchResult) searchResponse {
	resp := searchResponse{Query: result.Query, Related: toArticles(result.Related)}
	if result.Best != nil {
		resp.Best = &matchDTO{Article: toArticle(result.Best.Record), Score: result.Best.Score}
	}
	return resp
}

type historyDTO struct {
	Query        string    `json:"query"`
	MatchedTitle string    `json:"matched_title,omitempty"`
	Score        float64   `json:"score"`
	At           time.Time `json:"at"`
}

type textRequest struct {
	Text string `json:"text"`
}

type askRequest struct {
	Question string `json:"question"`
}

type compareRequest struct {
	A       string `json:"a"`
	B       string `json:"b"`
	Explain bool   `json:"explain"`
}

type compareResponse struct {
	A           articleDTO `json:"a"`
	B           articleDTO `json:"b"`
	Score       float64    `json:"score"`
	Explanation string     `json:"explanation,omitempty"`
}

type categoryDTO struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Count       int    `json:"count"`
}

type keywordDTO struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type monthDTO struct {
	Month  string         `json:"month"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}
