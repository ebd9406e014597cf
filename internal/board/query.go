package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hazz-dev/svcdeck/internal/probe"
)

// SortKey selects the ordering used by Sort.
type SortKey string

const (
	SortIndex    SortKey = "index"
	SortName     SortKey = "name"
	SortStatus   SortKey = "status"
	SortCategory SortKey = "category"
)

// ParseSortKey validates a sort key. The empty string means SortIndex.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(s)); k {
	case "":
		return SortIndex, nil
	case SortIndex, SortName, SortStatus, SortCategory:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Filter returns the entries whose name, URL, description or category
// contains query, ignoring case. An empty query returns entries unchanged.
func Filter(entries []FlatService, query string) []FlatService {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	out := make([]FlatService, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.URL), q) ||
			strings.Contains(strings.ToLower(e.Desc), q) ||
			strings.Contains(strings.ToLower(e.Category), q) {
			out = append(out, e)
		}
	}
	return out
}

var statusRank = map[probe.Status]int{
	probe.StatusReachable:   0,
	probe.StatusUnreachable: 1,
	probe.StatusUnknown:     2,
}

// Sort returns a sorted copy of entries. Ties keep index order.
func Sort(entries []FlatService, key SortKey) []FlatService {
	out := append([]FlatService(nil), entries...)

	var less func(a, b FlatService) bool
	switch key {
	case SortName:
		less = func(a, b FlatService) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortStatus:
		less = func(a, b FlatService) bool {
			return statusRank[a.Status] < statusRank[b.Status]
		}
	case SortCategory:
		less = func(a, b FlatService) bool {
			return strings.ToLower(a.Category) < strings.ToLower(b.Category)
		}
	default:
		less = func(a, b FlatService) bool { return a.Index < b.Index }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if less(out[i], out[j]) {
			return true
		}
		if less(out[j], out[i]) {
			return false
		}
		return out[i].Index < out[j].Index
	})
	return out
}
