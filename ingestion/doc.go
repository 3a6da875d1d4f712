// Package ingestion builds new corpus rows from fraud articles on the web.
//
// A Pipeline run works in stages:
//   - Discovering article links on index pages
//   - Fetching each article politely (robots.txt, rate limit)
//   - Dropping pages that are not about fraud or look like error pages
//   - Writing a summary and keywords for every remaining article
//   - Removing duplicates
//
// Fetching and enrichment run concurrently on a worker pool. A failure on
// one article is logged and counted but does not fail the run.
package ingestion
