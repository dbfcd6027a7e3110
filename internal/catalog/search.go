package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/hackboard/internal/domain"
)

// Search ranks every achievement title against query (case-insensitive,
// lower distance first). Unlike the feed filter it sees records that have
// not been paged in yet.
func (c *Catalog) Search(query string) []domain.Achievement {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	titles := make([]string, len(c.achievements))
	for i, a := range c.achievements {
		titles[i] = a.Title
	}

	matches := fuzzy.RankFindNormalizedFold(query, titles)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].OriginalIndex < matches[j].OriginalIndex
	})

	results := make([]domain.Achievement, 0, len(matches))
	for _, m := range matches {
		results = append(results, c.achievements[m.OriginalIndex])
	}
	return results
}
