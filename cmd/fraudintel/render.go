package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/toriana04/fraudintel/core"
	"github.com/toriana04/fraudintel/trends"
)

const defaultWidth = 100

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	labelColor = color.New(color.FgYellow)
	scoreColor = color.New(color.FgGreen)
	mutedColor = color.New(color.FgHiBlack)
	errorColor = color.New(color.FgRed, color.Bold)
)

func truncate(s string, width int) string {
	return runewidth.Truncate(strings.Join(strings.Fields(s), " "), width, "...")
}

// column truncates s and pads it to exactly width cells.
func column(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

func printRecord(w io.Writer, r core.ArticleRecord, width int) {
	titleColor.Fprintln(w, truncate(r.Title, width))
	meta := string(r.Category)
	if r.HasDate() {
		meta += " | " + r.DateLabel()
	}
	labelColor.Fprintln(w, "  "+meta)
	if r.URL != "" {
		mutedColor.Fprintln(w, "  "+r.URL)
	}
	fmt.Fprintln(w, "  "+truncate(r.Summary, width-2))
	if len(r.Keywords) > 0 {
		mutedColor.Fprintln(w, "  keywords: "+truncate(strings.Join(r.Keywords, ", "), width-12))
	}
}

func printMatch(w io.Writer, result core.SearchResult, width int) {
	if result.Best == nil {
		fmt.Fprintln(w, "No articles loaded.")
		return
	}
	scoreColor.Fprintf(w, "Best match (similarity %.4f)\n", result.Best.Score)
	printRecord(w, result.Best.Record, width)

	if len(result.Related) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Related articles:")
	for _, r := range result.Related {
		fmt.Fprintf(w, "  - %s %s\n", truncate(r.Title, width-20), mutedColor.Sprintf("[%s]", r.Category))
	}
}

// printTable lists records one per line: date, category and title.
func printTable(w io.Writer, records []core.ArticleRecord, width int) {
	titleWidth := max(width-12-20-2, 10)
	for _, r := range records {
		date := ""
		if r.HasDate() {
			date = r.Date.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s %s %s\n",
			mutedColor.Sprint(column(date, 11)),
			labelColor.Sprint(column(string(r.Category), 19)),
			column(r.Title, titleWidth))
	}
}

func printCategoryCounts(w io.Writer, counts []trends.CategoryCount) {
	for _, cc := range counts {
		fmt.Fprintf(w, "  %s %d\n", column(string(cc.Category), 20), cc.Count)
	}
}

func printKeywords(w io.Writer, counts []trends.KeywordCount) {
	parts := make([]string, len(counts))
	for i, kc := range counts {
		parts[i] = fmt.Sprintf("%s (%d)", kc.Keyword, kc.Count)
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, ", "))
}
