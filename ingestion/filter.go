package ingestion

import "strings"

// FraudTerms mark a page as fraud-related when found in its title or body.
var FraudTerms = []string{
	"fraud",
	"misconduct",
	"manipulation",
	"scheme",
	"misleading",
	"securities fraud",
	"scam",
	"deceptive",
}

// MinSummaryChars is the shortest summary kept in the output.
const MinSummaryChars = 30

var notFoundMarkers = []string{"page not found", "404", "use the top and side menus"}

// IsFraudRelated reports whether text mentions any of FraudTerms.
func IsFraudRelated(text string) bool {
	low := strings.ToLower(text)
	for _, term := range FraudTerms {
		if strings.Contains(low, term) {
			return true
		}
	}
	return false
}

// LooksLike404 reports whether body is too short to be an article or reads
// like an error page.
func LooksLike404(body string) bool {
	body = strings.TrimSpace(body)
	if len(body) < minBodyChars {
		return true
	}
	low := strings.ToLower(body)
	for _, m := range notFoundMarkers {
		if strings.Contains(low, m) {
			return true
		}
	}
	return false
}

// dedupe keeps the first article for every (title, summary) pair and drops
// articles whose summary is MinSummaryChars or shorter.
func dedupe(articles []*Article) (kept []*Article, duplicates, short int) {
	type key struct{ title, summary string }
	seen := make(map[key]bool)
	kept = make([]*Article, 0, len(articles))
	for _, a := range articles {
		if len(a.Summary) <= MinSummaryChars {
			short++
			continue
		}
		k := key{a.Title, a.Summary}
		if seen[k] {
			duplicates++
			continue
		}
		seen[k] = true
		kept = append(kept, a)
	}
	return kept, duplicates, short
}
