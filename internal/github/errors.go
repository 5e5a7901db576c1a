package github

import "fmt"

// TransportError reports a request that failed outright or came back with a
// non-success status. Status is zero when no response was received.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
