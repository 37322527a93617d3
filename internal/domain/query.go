package domain

// SortKey selects the ordering criterion for catalog listings.
type SortKey string

const (
	SortByName    SortKey = "name"
	SortByCreated SortKey = "created"
	SortByUpdated SortKey = "updated"
)

// SortOrder selects ascending or descending ordering.
type SortOrder string

const (
	OrderAscending  SortOrder = "asc"
	OrderDescending SortOrder = "desc"
)

// ParseSortKey normalizes a sort key string, defaulting to name.
func ParseSortKey(raw string) (SortKey, bool) {
	switch SortKey(raw) {
	case SortByName, SortByCreated, SortByUpdated:
		return SortKey(raw), true
	case "":
		return SortByName, true
	default:
		return SortByName, false
	}
}

// ParseSortOrder normalizes a sort order string, defaulting to ascending.
func ParseSortOrder(raw string) (SortOrder, bool) {
	switch SortOrder(raw) {
	case OrderAscending, OrderDescending:
		return SortOrder(raw), true
	case "":
		return OrderAscending, true
	default:
		return OrderAscending, false
	}
}

// Filters holds the active filter toggles applied after search. Zero
// value means no filtering. Categories are ANDed; license is
// single-select.
type Filters struct {
	RequireBioconda      bool
	RequireBiocontainers bool
	RequireGalaxy        bool
	License              string
	FavoritesOnly        bool
}

// Active reports whether any toggle is set.
func (f Filters) Active() bool {
	return f.RequireBioconda || f.RequireBiocontainers || f.RequireGalaxy ||
		f.License != "" || f.FavoritesOnly
}
