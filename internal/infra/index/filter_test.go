package index

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"biocat/internal/domain"
)

func datedTool(name, created, updated, license string, contents ...domain.SourceKind) domain.ToolSummary {
	meta := domain.Metadata{}
	if created != "" {
		meta["biotools__addition_date"] = created
	}
	if updated != "" {
		meta["biotools__last_update_date"] = updated
	}
	if license != "" {
		meta["biotools__license"] = license
	}
	return domain.ToolSummary{ToolName: name, Contents: contents, FetchedMetadata: meta}
}

func asMatches(tools []domain.ToolSummary) []Match {
	matches := make([]Match, 0, len(tools))
	for _, t := range tools {
		matches = append(matches, Match{Tool: t})
	}
	return matches
}

func TestFilter_SourceToggles(t *testing.T) {
	matches := asMatches([]domain.ToolSummary{
		datedTool("a", "", "", "", domain.SourceBioconda, domain.SourceGalaxy),
		datedTool("b", "", "", "", domain.SourceBiocontainers),
		datedTool("c", "", "", "", domain.SourceBioconda),
	})

	got := Filter(matches, domain.Filters{RequireBioconda: true}, nil)
	require.Equal(t, []string{"a", "c"}, names(got))

	got = Filter(matches, domain.Filters{RequireBioconda: true, RequireGalaxy: true}, nil)
	require.Equal(t, []string{"a"}, names(got))

	got = Filter(matches, domain.Filters{RequireBiocontainers: true, RequireGalaxy: true}, nil)
	require.Empty(t, got)
}

func TestFilter_LicenseSingleSelect(t *testing.T) {
	matches := asMatches([]domain.ToolSummary{
		datedTool("a", "", "", "MIT"),
		datedTool("b", "", "", "GPL-3.0"),
		datedTool("c", "", "", ""),
	})

	got := Filter(matches, domain.Filters{License: "mit"}, nil)
	require.Equal(t, []string{"a"}, names(got), "license match is case-insensitive")
}

func TestFilter_FavoritesOnly(t *testing.T) {
	matches := asMatches([]domain.ToolSummary{
		datedTool("a", "", "", ""),
		datedTool("b", "", "", ""),
	})
	isFavorite := func(name string) bool { return name == "b" }

	got := Filter(matches, domain.Filters{FavoritesOnly: true}, isFavorite)
	require.Equal(t, []string{"b"}, names(got))

	got = Filter(matches, domain.Filters{FavoritesOnly: true}, nil)
	require.Empty(t, got, "nil predicate means nothing is a favorite")
}

func TestFilter_InactiveFiltersPassEverything(t *testing.T) {
	matches := asMatches([]domain.ToolSummary{datedTool("a", "", "", "")})
	got := Filter(matches, domain.Filters{}, nil)
	require.Equal(t, matches, got)
}

func TestSort_ByName(t *testing.T) {
	matches := asMatches([]domain.ToolSummary{
		datedTool("Beta", "", "", ""),
		datedTool("alpha", "", "", ""),
		datedTool("gamma", "", "", ""),
	})

	Sort(matches, domain.SortByName, domain.OrderAscending)
	require.Equal(t, []string{"alpha", "Beta", "gamma"}, names(matches))

	Sort(matches, domain.SortByName, domain.OrderDescending)
	require.Equal(t, []string{"gamma", "Beta", "alpha"}, names(matches))
}

func TestSort_ByDateMissingSortsLast(t *testing.T) {
	matches := asMatches([]domain.ToolSummary{
		datedTool("old", "2015-03-01", "", ""),
		datedTool("undated", "", "", ""),
		datedTool("new", "2023-11-20T10:00:00Z", "", ""),
	})

	Sort(matches, domain.SortByCreated, domain.OrderAscending)
	require.Equal(t, []string{"old", "new", "undated"}, names(matches))

	Sort(matches, domain.SortByCreated, domain.OrderDescending)
	require.Equal(t, []string{"new", "old", "undated"}, names(matches), "missing dates stay last when descending")
}

func TestSort_TierBeatsCriterion(t *testing.T) {
	matches := []Match{
		{Tool: datedTool("aaa", "", "", ""), Tier: TierDescription},
		{Tool: datedTool("zzz", "", "", ""), Tier: TierName},
	}

	Sort(matches, domain.SortByName, domain.OrderAscending)
	require.Equal(t, []string{"zzz", "aaa"}, names(matches))
}

func TestFilterSortCommute(t *testing.T) {
	tools := []domain.ToolSummary{
		datedTool("delta", "2020-01-01", "", "MIT", domain.SourceBioconda),
		datedTool("alpha", "2021-01-01", "", "MIT"),
		datedTool("echo", "2019-01-01", "", "MIT", domain.SourceBioconda),
		datedTool("bravo", "", "", "GPL-3.0", domain.SourceBioconda),
	}
	filters := domain.Filters{RequireBioconda: true, License: "MIT"}

	filterThenSort := Filter(asMatches(tools), filters, nil)
	Sort(filterThenSort, domain.SortByCreated, domain.OrderAscending)

	sortThenFilter := asMatches(tools)
	Sort(sortThenFilter, domain.SortByCreated, domain.OrderAscending)
	sortThenFilter = Filter(sortThenFilter, filters, nil)

	if diff := cmp.Diff(names(filterThenSort), names(sortThenFilter)); diff != "" {
		t.Fatalf("filter and sort do not commute (-filter-first +sort-first):\n%s", diff)
	}
}
