package index

import (
	"sort"
	"strings"
	"time"

	"biocat/internal/domain"
)

// Filter returns the matches satisfying every active toggle. The
// favorites predicate reports membership in the favorites store; nil
// means no tool is a favorite. Input order is preserved.
func Filter(matches []Match, filters domain.Filters, isFavorite func(string) bool) []Match {
	if !filters.Active() {
		return matches
	}
	kept := make([]Match, 0, len(matches))
	for _, match := range matches {
		tool := match.Tool
		if filters.RequireBioconda && !tool.HasSource(domain.SourceBioconda) {
			continue
		}
		if filters.RequireBiocontainers && !tool.HasSource(domain.SourceBiocontainers) {
			continue
		}
		if filters.RequireGalaxy && !tool.HasSource(domain.SourceGalaxy) {
			continue
		}
		if filters.License != "" && !strings.EqualFold(filters.License, tool.License()) {
			continue
		}
		if filters.FavoritesOnly && (isFavorite == nil || !isFavorite(tool.ToolName)) {
			continue
		}
		kept = append(kept, match)
	}
	return kept
}

// Sort orders matches in place: relevance tier first, then the active
// sort criterion. The sort is stable.
func Sort(matches []Match, key domain.SortKey, order domain.SortOrder) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Tier != matches[j].Tier {
			return matches[i].Tier < matches[j].Tier
		}
		return compareTools(matches[i].Tool, matches[j].Tool, key, order) < 0
	})
}

// compareTools implements the criterion ordering. Tools missing the
// selected date sort last regardless of direction; full ties fall back
// to name ascending so the order is total.
func compareTools(a, b domain.ToolSummary, key domain.SortKey, order domain.SortOrder) int {
	switch key {
	case domain.SortByCreated:
		if c := compareDates(a.CreatedAt(), b.CreatedAt(), order); c != 0 {
			return c
		}
	case domain.SortByUpdated:
		if c := compareDates(a.UpdatedAt(), b.UpdatedAt(), order); c != 0 {
			return c
		}
	default:
		if c := strings.Compare(strings.ToLower(a.ToolName), strings.ToLower(b.ToolName)); c != 0 {
			if order == domain.OrderDescending {
				return -c
			}
			return c
		}
	}
	return strings.Compare(strings.ToLower(a.ToolName), strings.ToLower(b.ToolName))
}

func compareDates(a, b time.Time, order domain.SortOrder) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	case a.Equal(b):
		return 0
	}
	before := a.Before(b)
	if order == domain.OrderDescending {
		before = !before
	}
	if before {
		return -1
	}
	return 1
}
