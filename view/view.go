// Package view holds the pure presentation logic of the task list:
// counts, the productivity ratio, and the client-side filters and
// sorts. Everything here works on a list already fetched from the
// server; nothing issues a request.
package view

import (
	"sort"
	"time"

	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
)

// Filter selects which tasks are visible.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterToday     Filter = "today"
	FilterWeek      Filter = "week"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterLow       Filter = "low"
	FilterMedium    Filter = "medium"
	FilterHigh      Filter = "high"
)

// Sort selects the display order.
type Sort string

const (
	SortNewest   Sort = "newest"
	SortOldest   Sort = "oldest"
	SortPriority Sort = "priority"
)

// Stats are the dashboard counts derived from one task list.
type Stats struct {
	Total     int
	Low       int
	Medium    int
	High      int
	Completed int
}

// Collect tallies one pass over the list.
func Collect(tasks []models.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Priority {
		case models.PriorityLow:
			s.Low++
		case models.PriorityMedium:
			s.Medium++
		case models.PriorityHigh:
			s.High++
		}
		if t.Completed {
			s.Completed++
		}
	}
	return s
}

// Productivity is the completed share in whole percent, 0 for an empty
// list.
func (s Stats) Productivity() int {
	if s.Total == 0 {
		return 0
	}
	return s.Completed * 100 / s.Total
}

// Apply returns the tasks matching the filter. Date filters compare
// due dates against now: "today" is the same calendar day, "week" is
// today through seven days out. Tasks without a due date only appear
// under "all" and the priority filters.
func Apply(tasks []models.Task, f Filter, now time.Time) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(&t, f, now) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t *models.Task, f Filter, now time.Time) bool {
	switch f {
	case FilterToday:
		due, ok := t.Due()
		if !ok {
			return false
		}
		y1, m1, d1 := due.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case FilterWeek:
		due, ok := t.Due()
		if !ok {
			return false
		}
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return !due.Before(start) && !due.After(start.AddDate(0, 0, 7))
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	case FilterLow:
		return t.Priority == models.PriorityLow
	case FilterMedium:
		return t.Priority == models.PriorityMedium
	case FilterHigh:
		return t.Priority == models.PriorityHigh
	default:
		return true
	}
}

// Order returns a sorted copy; the input is left alone.
func Order(tasks []models.Task, s Sort) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	switch s {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		})
	default: // newest
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}
