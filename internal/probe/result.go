package probe

import "time"

// Status is the reachability state of a service.
type Status string

const (
	StatusUnknown     Status = "unknown"
	StatusReachable   Status = "reachable"
	StatusUnreachable Status = "unreachable"
)

// Reachable reports whether s is StatusReachable.
func (s Status) Reachable() bool {
	return s == StatusReachable
}

// Result is the outcome of a single probe. Err is diagnostic detail only;
// Status is always one of StatusReachable or StatusUnreachable.
type Result struct {
	URL        string
	Status     Status
	StatusCode int
	Latency    time.Duration
	Err        string
	CheckedAt  time.Time
}
