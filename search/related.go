package search

import "github.com/toriana04/fraudintel/core"

const (
	// MinKeywordOverlap is the number of shared keywords that makes two articles related.
	MinKeywordOverlap = 2

	// DefaultRelatedPool is how many nearest rows are considered as related candidates.
	DefaultRelatedPool = 10

	// DefaultRelatedLimit caps the related list.
	DefaultRelatedLimit = 3
)

// Related reports whether ref and cand share at least minOverlap keywords.
func Related(ref, cand core.KeywordSet, minOverlap int) bool {
	return ref.Intersect(cand) >= minOverlap
}

// RelatedArticles returns up to limit records related to the record at
// refIndex. Candidates are the pool rows most similar to the reference
// record, excluding itself, in rank order; a candidate is kept when it shares
// at least MinKeywordOverlap keywords with the reference.
func RelatedArticles(idx *Index, refIndex, pool, limit int) []core.ArticleRecord {
	related := []core.ArticleRecord{}
	if idx == nil || refIndex < 0 || refIndex >= idx.Len() || limit <= 0 {
		return related
	}

	ref := idx.keywords[refIndex]
	considered := 0
	for _, hit := range Rank(idx.vectors[refIndex], idx.vectors) {
		if hit.Index == refIndex {
			continue
		}
		if considered == pool {
			break
		}
		considered++

		if Related(ref, idx.keywords[hit.Index], MinKeywordOverlap) {
			related = append(related, idx.records[hit.Index])
			if len(related) == limit {
				break
			}
		}
	}
	return related
}
