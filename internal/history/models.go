package history

import "time"

// Run is one generation attempt. Only counts are kept; feed contents never are.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Sources    int
	Releases   int
	Entries    int
	Output     string
	Err        string
}

func (r Run) OK() bool {
	return r.Err == ""
}
