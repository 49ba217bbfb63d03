// Package progress aggregates task completion into counts and a percentage.
package progress

import "math"

// Task is the view of a task the aggregator needs.
type Task interface {
	AssigneeID() int64
	IsDone() bool
}

type Summary struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// Aggregate counts done tasks. When assignee is non-nil only tasks assigned
// to that employee are considered. An empty set yields 0 percent.
func Aggregate[T Task](tasks []T, assignee *int64) Summary {
	var s Summary
	for _, t := range tasks {
		if assignee != nil && t.AssigneeID() != *assignee {
			continue
		}
		s.Total++
		if t.IsDone() {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(100 * float64(s.Completed) / float64(s.Total)))
	}
	return s
}
