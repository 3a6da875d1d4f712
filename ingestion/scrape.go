package ingestion

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NoTitle replaces a missing h1.
const NoTitle = "No Title"

// ArticlePaths are the URL path fragments that mark a link as an article.
var ArticlePaths = []string{
	"/media-center/",
	"/enforcement/",
	"/disciplinary-actions/",
	"/investors/insights/",
}

// bodySelectors are tried in order; the first container with a usable
// amount of text is the article body.
var bodySelectors = []string{
	"article",
	"div.page-content",
	"div.field--name-body",
	"main",
}

// boilerplate is site chrome that leaks into article containers.
var boilerplate = []string{
	"Use the top and side menus for direct access",
	"FINRA Data provides non-commercial use of data",
	"FINRA GATEWAY",
	"DR PORTAL",
	"FINPRO",
}

// minBodyChars separates real article bodies from navigation stubs.
const minBodyChars = 200

// Article is one scraped page and, after enrichment, its summary and keywords.
type Article struct {
	Title    string
	URL      string
	Date     string // time[datetime] when present, else the scrape time
	Body     string
	Summary  string
	Keywords []string
}

// ExtractLinks returns the unique article links on an index page, resolved
// against base, in document order.
func ExtractLinks(base *url.URL, html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		abs.Fragment = ""
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		if !isArticlePath(abs.Path) {
			return
		}
		link := abs.String()
		if seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})
	return links, nil
}

func isArticlePath(path string) bool {
	for _, p := range ArticlePaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// ParseArticle extracts the title, publication date and body of a page.
// Date is empty when the page carries no time[datetime] element.
func ParseArticle(rawURL string, html []byte) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	title := cleanText(doc.Find("h1").First().Text())
	if title == "" {
		title = NoTitle
	}
	date, _ := doc.Find("time[datetime]").First().Attr("datetime")

	return &Article{
		Title: title,
		URL:   rawURL,
		Date:  strings.TrimSpace(date),
		Body:  extractBody(doc),
	}, nil
}

func extractBody(doc *goquery.Document) string {
	for _, sel := range bodySelectors {
		found := doc.Find(sel)
		if found.Length() == 0 {
			continue
		}
		if text := stripBoilerplate(found.First().Text()); len(text) > minBodyChars {
			return text
		}
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		return stripBoilerplate(strings.Join(paragraphs, " "))
	}
	return stripBoilerplate(doc.Find("body").Text())
}

// cleanText collapses runs of whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func stripBoilerplate(s string) string {
	for _, b := range boilerplate {
		s = strings.ReplaceAll(s, b, " ")
	}
	return cleanText(s)
}
