package ingestion

// Seeds are the starting points of a run. Index pages are scanned for
// article links; articles are scraped directly.
type Seeds struct {
	IndexPages []string `yaml:"index_pages"`
	Articles   []string `yaml:"articles"`
}

// Empty reports whether s names no URL at all.
func (s Seeds) Empty() bool {
	return len(s.IndexPages) == 0 && len(s.Articles) == 0
}

// DefaultSeeds returns the FINRA pages the bundled corpus was built from.
func DefaultSeeds() Seeds {
	return Seeds{
		IndexPages: []string{
			"https://www.finra.org/media-center/news-releases",
			"https://www.finra.org/rules-guidance/enforcement/actions",
			"https://www.finra.org/rules-guidance/oversight-enforcement/disciplinary-actions",
		},
		Articles: []string{
			"https://www.finra.org/investors/insights/recovering-from-investment-fraud",
			"https://www.finra.org/media-center/speeches/disrupting-cycle-financial-fraud-through-collaboration-innovation-091224",
			"https://www.finra.org/media-center/finra-unscripted/protecting-yourself-from-financial-fraud-navigating-evolving-landscape",
			"https://www.finra.org/investors/insights/artificial-intelligence-and-investment-fraud",
			"https://www.finra.org/investors/insights/gen-ai-fraud-new-accounts-and-takeovers",
			"https://www.finra.org/investors/insights/older-adults-reduce-fraud-risk",
			"https://www.finra.org/investors/insights/natural-disaster-fraud",
			"https://www.finra.org/media-center/newsreleases/2025/finra-foundation-releases-findings-fraud-awareness-among-investors",
			"https://www.finra.org/investors/insights/mail-theft-check-fraud",
			"https://www.finra.org/media-center/finra-unscripted/special-investigations-unit-combating-money-laundering-fraud-securities-industry",
		},
	}
}
