package board

import "github.com/hazz-dev/svcdeck/internal/probe"

// Tally counts rows by status.
type Tally struct {
	Total   int `json:"total"`
	Online  int `json:"online"`
	Offline int `json:"offline"`
	Unknown int `json:"unknown"`
}

// Health is the share of reachable services as a percentage. An empty board
// has zero health.
func (t Tally) Health() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Online) / float64(t.Total) * 100
}

// TallyOf counts entries by status.
func TallyOf(entries []FlatService) Tally {
	t := Tally{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case probe.StatusReachable:
			t.Online++
		case probe.StatusUnreachable:
			t.Offline++
		default:
			t.Unknown++
		}
	}
	return t
}
