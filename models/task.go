package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Priority is the task urgency level.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority accepts the enum values case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", Invalidf("priority must be Low, Medium or High")
}

// Rank orders priorities High > Medium > Low for sorting.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Flag is the boundary type for the completed field. Clients send it as
// a bool, a number, or a string ("Yes"/"true" mean true, any other
// string means false). Other JSON shapes are rejected so nothing gets
// coerced silently.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Invalidf("completed: malformed value")
	}
	switch val := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(val)
	case float64:
		*f = val != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		*f = s == "yes" || s == "true"
	default:
		return Invalidf("completed must be a boolean, number or string")
	}
	return nil
}

// dueDateLayout is the canonical stored form of a due date.
const dueDateLayout = "2006-01-02"

// NormalizeDueDate canonicalizes an incoming due date to YYYY-MM-DD.
// Empty input stays empty (the field is optional).
func NormalizeDueDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if t, err := time.Parse(dueDateLayout, s); err == nil {
		return t.Format(dueDateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(dueDateLayout), nil
	}
	return "", Invalidf("dueDate must be YYYY-MM-DD or RFC 3339")
}

// Task is a stored task record. Owner is immutable after creation and
// every store query filters on it.
type Task struct {
	ID          string    `json:"id"`
	Owner       int64     `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	DueDate     string    `json:"dueDate,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Due parses the stored due date. ok is false when the task has none.
func (t *Task) Due() (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	due, err := time.Parse(dueDateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// TaskPatch is a partial update: nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *string
	Completed   *bool
}
