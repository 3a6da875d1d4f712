package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

func (s *Server) compare(c echo.Context) error {
	var req compareRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid JSON body")
	}
	if strings.TrimSpace(req.A) == "" || strings.TrimSpace(req.B) == "" {
		return badRequest("a and b titles are required")
	}

	ctx := c.Request().Context()
	cmp, err := s.engine.CompareTitles(ctx, req.A, req.B)
	if err != nil {
		return err
	}
	resp := compareResponse{A: toArticle(cmp.A), B: toArticle(cmp.B), Score: cmp.Score}

	if req.Explain {
		analyst, err := s.engine.Analyst()
		if err != nil {
			return err
		}
		if resp.Explanation, err = analyst.Compare(ctx, cmp.A, cmp.B, cmp.Score); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) explain(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid JSON body")
	}
	analyst, err := s.engine.Analyst()
	if err != nil {
		return err
	}
	text, err := analyst.Explain(c.Request().Context(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"explanation": text})
}

func (s *Server) ask(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid JSON body")
	}
	if strings.TrimSpace(req.Question) == "" {
		return badRequest("question is required")
	}
	answer, err := s.engine.Ask(c.Request().Context(), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"answer": answer.Text,
		"grounding": matchDTO{
			Article: toArticle(answer.Grounding.Record),
			Score:   answer.Grounding.Score,
		},
	})
}

func (s *Server) insight(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return badRequest("index must be an integer")
	}
	analyst, err := s.engine.Analyst()
	if err != nil {
		return err
	}
	record, err := s.engine.Record(index)
	if err != nil {
		return err
	}
	text, err := analyst.ArticleInsight(c.Request().Context(), record)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"article": toArticle(record),
		"insight": text,
	})
}
