// Package view derives the displayed task list from the full task set. It is
// a pure transform: given the same tasks, criteria, and clock it always
// produces the same ordered slice.
package view

import (
	"context"
	"sort"
	"time"

	"taskboard/internal/task/models"
	"taskboard/pkg/requestcontext"
)

// Any disables a criterion.
const Any = "all"

// Due date keywords. Anything else is treated as an explicit yyyy-mm-dd
// literal the due date must equal.
const (
	DueToday   = "today"
	DueWeek    = "week"
	DueOverdue = "overdue"
)

// Criteria narrows and orders the task set. Zero-value fields behave as Any.
type Criteria struct {
	Priority string
	Status   string
	Category string
	DueDate  string
}

// IsZero reports whether the criteria impose no constraint.
func (c Criteria) IsZero() bool {
	return (c.Priority == "" || c.Priority == Any) &&
		(c.Status == "" || c.Status == Any) &&
		(c.Category == "" || c.Category == Any) &&
		(c.DueDate == "" || c.DueDate == Any)
}

// Apply filters tasks by the criteria and sorts the survivors: status rank
// ascending (pending, in_progress, completed), then due date ascending.
// The sort is stable, so tasks that tie on both keys keep their input order.
// The clock comes from requestcontext.Now(ctx).
func Apply(ctx context.Context, tasks []models.Task, criteria Criteria) []models.Task {
	now := requestcontext.Now(ctx)

	filtered := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, criteria, now) {
			filtered = append(filtered, t)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if ra, rb := a.Status.Rank(), b.Status.Rank(); ra != rb {
			return ra < rb
		}
		return dueOrder(a).Before(dueOrder(b))
	})
	return filtered
}

func matches(t models.Task, c Criteria, now time.Time) bool {
	if active(c.Priority) && string(t.Priority) != c.Priority {
		return false
	}
	if active(c.Status) && string(t.Status) != c.Status {
		return false
	}
	if active(c.Category) && t.Category != c.Category {
		return false
	}
	if active(c.DueDate) {
		due, ok := t.Due()
		if !ok {
			return false
		}
		switch c.DueDate {
		case DueToday:
			return sameDay(due, now)
		case DueWeek:
			return inWeek(due, now)
		case DueOverdue:
			return due.Before(startOfDay(now))
		default:
			// Explicit calendar date: compare the day representation.
			return t.DueDate == c.DueDate
		}
	}
	return true
}

func active(v string) bool {
	return v != "" && v != Any
}

func sameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}

// inWeek reports whether due falls in the calendar week containing now.
// Weeks start on Sunday, matching the original frontend's week definition.
func inWeek(due, now time.Time) bool {
	start := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
	end := start.AddDate(0, 0, 7)
	return !due.Before(start) && due.Before(end)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dueOrder yields the sort key for a task's due date. Unparseable dates sort
// after every real date within the same status band.
func dueOrder(t models.Task) time.Time {
	if due, ok := t.Due(); ok {
		return due
	}
	return time.Unix(1<<62, 0)
}

// Categories returns the sorted distinct non-empty categories across tasks,
// for populating the category filter options.
func Categories(tasks []models.Task) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range tasks {
		if t.Category == "" {
			continue
		}
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out
}

// Summarize aggregates tasks by status and priority and counts overdue items
// relative to the context clock.
func Summarize(ctx context.Context, tasks []models.Task) models.Summary {
	now := requestcontext.Now(ctx)
	today := startOfDay(now)

	summary := models.Summary{
		Total:      len(tasks),
		ByStatus:   make(map[models.Status]int),
		ByPriority: make(map[models.Priority]int),
	}
	for _, t := range tasks {
		summary.ByStatus[t.Status]++
		summary.ByPriority[t.Priority]++
		if due, ok := t.Due(); ok && due.Before(today) && t.Status != models.StatusCompleted {
			summary.Overdue++
		}
	}
	return summary
}
