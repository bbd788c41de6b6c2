package models

// Live query operations pushed to subscribers.
const (
	EventCreate = "create"
	EventUpdate = "update"
	EventDelete = "delete"
)

// Event describes a change of an object that live query subscribers of its
// class may be interested in.
type Event struct {
	Op        string `json:"op"`
	ClassName string `json:"className"`
	Object    Object `json:"object"`
}
