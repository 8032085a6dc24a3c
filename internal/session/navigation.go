package session

import (
	"context"

	"github.com/sanctumapp/sanctum-server/internal/domain"
)

// NavigationData returns the canon grouped by testament together with the
// current compliance snapshot. Works before any chapter is cached.
func (c *Cache) NavigationData(ctx context.Context) (*NavigationData, error) {
	books, err := c.ensureBooks(ctx)
	if err != nil {
		return nil, err
	}

	compliance, err := c.store.ComplianceStatus(ctx)
	if err != nil {
		return nil, err
	}

	var oldTestament, newTestament []domain.Book
	for _, b := range books {
		if b.Testament == domain.TestamentOld {
			oldTestament = append(oldTestament, b)
		} else {
			newTestament = append(newTestament, b)
		}
	}

	return &NavigationData{
		Success:      true,
		OldTestament: oldTestament,
		NewTestament: newTestament,
		TotalBooks:   len(books),
		Compliance:   compliance,
	}, nil
}

// UsageStatistics returns store-side usage statistics augmented with
// per-version session cache sizes.
func (c *Cache) UsageStatistics(ctx context.Context) (*Stats, error) {
	stats, err := c.store.UsageStatistics(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	sizes := make(map[string]int, len(c.chapters))
	for version, chapters := range c.chapters {
		sizes[version] = len(chapters)
	}
	c.mu.RUnlock()

	return &Stats{
		Success:             true,
		Statistics:          stats,
		SessionCache:        sizes,
		TotalCachedVersions: len(sizes),
	}, nil
}
