package view

import (
	"testing"
	"time"

	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
)

func day(now time.Time, offset int) string {
	return now.AddDate(0, 0, offset).Format("2006-01-02")
}

func TestProductivity(t *testing.T) {
	if got := Collect(nil).Productivity(); got != 0 {
		t.Errorf("empty list productivity = %d, want 0", got)
	}

	tasks := []models.Task{
		{Title: "a", Completed: true},
		{Title: "b"},
	}
	if got := Collect(tasks).Productivity(); got != 50 {
		t.Errorf("productivity = %d, want 50", got)
	}
}

func TestCollectCounts(t *testing.T) {
	tasks := []models.Task{
		{Priority: models.PriorityLow},
		{Priority: models.PriorityLow, Completed: true},
		{Priority: models.PriorityMedium},
		{Priority: models.PriorityHigh, Completed: true},
	}
	stats := Collect(tasks)
	if stats.Total != 4 || stats.Low != 2 || stats.Medium != 1 || stats.High != 1 || stats.Completed != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestApplyDateFilters(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{Title: "today", DueDate: day(now, 0)},
		{Title: "in three days", DueDate: day(now, 3)},
		{Title: "in ten days", DueDate: day(now, 10)},
		{Title: "yesterday", DueDate: day(now, -1)},
		{Title: "undated"},
	}

	today := Apply(tasks, FilterToday, now)
	if len(today) != 1 || today[0].Title != "today" {
		t.Errorf("today filter returned %v", titles(today))
	}

	week := Apply(tasks, FilterWeek, now)
	if len(week) != 2 {
		t.Errorf("week filter returned %v", titles(week))
	}

	all := Apply(tasks, FilterAll, now)
	if len(all) != len(tasks) {
		t.Errorf("all filter dropped tasks: %v", titles(all))
	}
}

func TestApplyPriorityFilters(t *testing.T) {
	tasks := []models.Task{
		{Title: "l", Priority: models.PriorityLow},
		{Title: "m", Priority: models.PriorityMedium},
		{Title: "h", Priority: models.PriorityHigh},
	}
	for filter, want := range map[Filter]string{
		FilterLow:    "l",
		FilterMedium: "m",
		FilterHigh:   "h",
	} {
		got := Apply(tasks, filter, time.Now())
		if len(got) != 1 || got[0].Title != want {
			t.Errorf("filter %s returned %v, want [%s]", filter, titles(got), want)
		}
	}
}

func TestApplyCompletionFilters(t *testing.T) {
	tasks := []models.Task{
		{Title: "open a"},
		{Title: "done", Completed: true},
		{Title: "open b"},
	}

	pending := Apply(tasks, FilterPending, time.Now())
	if len(pending) != 2 || pending[0].Title != "open a" || pending[1].Title != "open b" {
		t.Errorf("pending filter returned %v", titles(pending))
	}

	completed := Apply(tasks, FilterCompleted, time.Now())
	if len(completed) != 1 || completed[0].Title != "done" {
		t.Errorf("completed filter returned %v", titles(completed))
	}
}

func TestOrder(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{Title: "oldest", Priority: models.PriorityMedium, CreatedAt: base},
		{Title: "middle", Priority: models.PriorityHigh, CreatedAt: base.Add(time.Hour)},
		{Title: "newest", Priority: models.PriorityLow, CreatedAt: base.Add(2 * time.Hour)},
	}

	newest := Order(tasks, SortNewest)
	if newest[0].Title != "newest" || newest[2].Title != "oldest" {
		t.Errorf("newest order: %v", titles(newest))
	}

	oldest := Order(tasks, SortOldest)
	if oldest[0].Title != "oldest" {
		t.Errorf("oldest order: %v", titles(oldest))
	}

	byPriority := Order(tasks, SortPriority)
	if byPriority[0].Priority != models.PriorityHigh || byPriority[2].Priority != models.PriorityLow {
		t.Errorf("priority order: %v", titles(byPriority))
	}

	// The input must not be reordered in place.
	if tasks[0].Title != "oldest" {
		t.Error("Order mutated its input")
	}
}

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}
