package favorites

import (
	"sort"
	"strings"
)

// SortByRecent returns a copy of favs, most recently added first. Entries
// with an unparseable addedAt go last.
func SortByRecent(favs []Favorite) []Favorite {
	sorted := make([]Favorite, len(favs))
	copy(sorted, favs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AddedTime().After(sorted[j].AddedTime())
	})
	return sorted
}

// Filter keeps favorites whose name, owner or description contains query,
// ignoring case. A blank query keeps everything.
func Filter(favs []Favorite, query string) []Favorite {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return favs
	}

	filtered := make([]Favorite, 0, len(favs))
	for _, f := range favs {
		if strings.Contains(strings.ToLower(f.Name), query) ||
			strings.Contains(strings.ToLower(f.Owner), query) ||
			strings.Contains(strings.ToLower(f.Description), query) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
