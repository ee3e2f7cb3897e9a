package playable

import "encoding/json"

// Status represents the lifecycle state of a table
type Status int

// constants for Status
const (
	StatusWaiting Status = iota
	StatusActive
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusActive:
		return "active"
	case StatusClosed:
		return "closed"
	}

	return ""
}

// MarshalJSON encodes JSON
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(s),
		Name: s.String(),
	})
}
