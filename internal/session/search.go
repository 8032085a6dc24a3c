package session

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxCachedResults caps in-memory search scans.
const maxCachedResults = 50

// SearchBible searches verse content. With cachedOnly the scan stays in the
// session map and makes no network calls. Otherwise the upstream API is used
// while the ledger is compliant; over the limit the search silently degrades
// to the cached scan.
func (c *Cache) SearchBible(ctx context.Context, query, versionCode string, cachedOnly bool) SearchResponse {
	versionCode = normalizeVersion(versionCode)

	if cachedOnly {
		results := c.searchCached(query, versionCode)
		c.logger.Debug("cached search", "query", query, "results", len(results))
		return searchResponse(query, versionCode, results, true)
	}

	compliance, err := c.store.ComplianceStatus(ctx)
	if err != nil {
		return searchError(query, versionCode, fmt.Sprintf("search failed: %v", err))
	}

	if !compliance.IsCompliant {
		results := c.searchCached(query, versionCode)
		c.logger.Info("search degraded to cache by storage limit",
			"query", query, "results", len(results))
		return searchResponse(query, versionCode, results, true)
	}

	hits, err := c.client.Search(ctx, query, versionCode)
	if err != nil {
		return searchError(query, versionCode, fmt.Sprintf("search failed: %v", err))
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, SearchResult{
			Reference: hit.Reference,
			Text:      hit.Text,
			Version:   hit.Version,
			FromCache: false,
		})
	}
	c.logger.Debug("api search", "query", query, "results", len(results))
	return searchResponse(query, versionCode, results, false)
}

// searchCached scans cached verses for a case-insensitive substring match.
// Results come back in canonical order so repeated scans are stable.
func (c *Cache) searchCached(query, versionCode string) []SearchResult {
	needle := foldForSearch(query)
	if needle == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	bookOrder := make(map[string]int, len(c.books))
	for _, b := range c.books {
		bookOrder[b.Name] = b.Number
	}

	var results []SearchResult
	for _, chapter := range c.chapters[versionCode] {
		for _, verse := range chapter.Verses {
			if !strings.Contains(foldForSearch(verse.Text), needle) {
				continue
			}
			results = append(results, SearchResult{
				Reference: fmt.Sprintf("%s %d:%d", chapter.BookName, chapter.ChapterNumber, verse.Number),
				Book:      chapter.BookName,
				Chapter:   chapter.ChapterNumber,
				Verse:     verse.Number,
				Text:      verse.Text,
				Version:   versionCode,
				FromCache: true,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if bookOrder[results[i].Book] != bookOrder[results[j].Book] {
			return bookOrder[results[i].Book] < bookOrder[results[j].Book]
		}
		if results[i].Chapter != results[j].Chapter {
			return results[i].Chapter < results[j].Chapter
		}
		return results[i].Verse < results[j].Verse
	})

	if len(results) > maxCachedResults {
		results = results[:maxCachedResults]
	}
	return results
}

// foldForSearch normalizes text for substring matching. NFC keeps composed
// and decomposed verse text comparable.
func foldForSearch(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

func searchResponse(query, versionCode string, results []SearchResult, cachedOnly bool) SearchResponse {
	if results == nil {
		results = []SearchResult{}
	}
	return SearchResponse{
		Success:            true,
		Query:              query,
		Version:            versionCode,
		Results:            results,
		SearchedCachedOnly: cachedOnly,
		ResultCount:        len(results),
	}
}

func searchError(query, versionCode, message string) SearchResponse {
	return SearchResponse{
		Success: false,
		Query:   query,
		Version: versionCode,
		Results: []SearchResult{},
		Error:   message,
	}
}
