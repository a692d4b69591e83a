package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/task/models"
	"taskboard/pkg/requestcontext"
)

// Wednesday, 2024-01-10. The containing Sunday-start week is Jan 7 - Jan 13.
var testNow = time.Date(2024, 1, 10, 15, 30, 0, 0, time.Local)

func testCtx() context.Context {
	return requestcontext.WithTime(context.Background(), testNow)
}

func task(id, due string, status models.Status, priority models.Priority) models.Task {
	return models.Task{
		ID:       id,
		Title:    id,
		DueDate:  due,
		Status:   status,
		Priority: priority,
	}
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestApply_Filters(t *testing.T) {
	tasks := []models.Task{
		task("a", "2024-01-10", models.StatusPending, models.PriorityHigh),
		task("b", "2024-01-09", models.StatusCompleted, models.PriorityLow),
		task("c", "2024-01-20", models.StatusInProgress, models.PriorityMedium),
	}
	tasks[2].Category = "work"

	cases := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"no criteria keeps everything", Criteria{}, []string{"a", "c", "b"}},
		{"all literals keep everything", Criteria{Priority: Any, Status: Any, Category: Any, DueDate: Any}, []string{"a", "c", "b"}},
		{"priority exact", Criteria{Priority: "high"}, []string{"a"}},
		{"status exact", Criteria{Status: "completed"}, []string{"b"}},
		{"category exact", Criteria{Category: "work"}, []string{"c"}},
		{"category mismatch drops uncategorized", Criteria{Category: "home"}, nil},
		{"due today", Criteria{DueDate: DueToday}, []string{"a"}},
		{"explicit date literal", Criteria{DueDate: "2024-01-20"}, []string{"c"}},
		{"combined criteria are conjunctive", Criteria{Priority: "high", Status: "completed"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Apply(testCtx(), tasks, tc.criteria)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestApply_Overdue(t *testing.T) {
	tasks := []models.Task{
		task("yesterday", "2024-01-09", models.StatusPending, models.PriorityMedium),
		task("today", "2024-01-10", models.StatusPending, models.PriorityMedium),
		task("tomorrow", "2024-01-11", models.StatusPending, models.PriorityMedium),
	}

	got := Apply(testCtx(), tasks, Criteria{DueDate: DueOverdue})
	// Strictly before the start of today: due-today is not overdue.
	assert.Equal(t, []string{"yesterday"}, ids(got))
}

func TestApply_Week(t *testing.T) {
	tasks := []models.Task{
		task("before-week", "2024-01-06", models.StatusPending, models.PriorityMedium), // Saturday prior
		task("week-start", "2024-01-07", models.StatusPending, models.PriorityMedium),  // Sunday
		task("midweek", "2024-01-10", models.StatusPending, models.PriorityMedium),
		task("week-end", "2024-01-13", models.StatusPending, models.PriorityMedium), // Saturday
		task("next-week", "2024-01-14", models.StatusPending, models.PriorityMedium),
	}

	got := Apply(testCtx(), tasks, Criteria{DueDate: DueWeek})
	assert.Equal(t, []string{"week-start", "midweek", "week-end"}, ids(got))
}

func TestApply_CompositeOrder(t *testing.T) {
	// Same status, B has the earlier due date: expect [B, A].
	a := task("A", "2024-01-10", models.StatusPending, models.PriorityHigh)
	b := task("B", "2024-01-05", models.StatusPending, models.PriorityLow)

	got := Apply(testCtx(), []models.Task{a, b}, Criteria{})
	require.Equal(t, []string{"B", "A"}, ids(got))
}

func TestApply_StatusRankDominatesDueDate(t *testing.T) {
	tasks := []models.Task{
		task("done-early", "2024-01-01", models.StatusCompleted, models.PriorityMedium),
		task("active-late", "2024-02-01", models.StatusInProgress, models.PriorityMedium),
		task("pending-late", "2024-03-01", models.StatusPending, models.PriorityMedium),
	}

	got := Apply(testCtx(), tasks, Criteria{})
	assert.Equal(t, []string{"pending-late", "active-late", "done-early"}, ids(got))
}

func TestApply_StableOnFullTies(t *testing.T) {
	// X and Y tie on status and due date; input order must survive.
	x := task("X", "2024-01-10", models.StatusPending, models.PriorityHigh)
	y := task("Y", "2024-01-10", models.StatusPending, models.PriorityLow)

	got := Apply(testCtx(), []models.Task{x, y}, Criteria{})
	require.Equal(t, []string{"X", "Y"}, ids(got))

	got = Apply(testCtx(), []models.Task{y, x}, Criteria{})
	require.Equal(t, []string{"Y", "X"}, ids(got))
}

func TestApply_Idempotent(t *testing.T) {
	tasks := []models.Task{
		task("a", "2024-01-12", models.StatusCompleted, models.PriorityLow),
		task("b", "2024-01-09", models.StatusPending, models.PriorityHigh),
		task("c", "2024-01-09", models.StatusPending, models.PriorityMedium),
		task("d", "2024-01-11", models.StatusInProgress, models.PriorityMedium),
	}
	criteria := Criteria{Status: Any, DueDate: DueWeek}

	once := Apply(testCtx(), tasks, criteria)
	twice := Apply(testCtx(), once, criteria)
	assert.Equal(t, once, twice, "a second pass over an already-derived view must be a no-op")
}

func TestStatusRing(t *testing.T) {
	assert.Equal(t, models.StatusInProgress, models.StatusPending.Next())
	assert.Equal(t, models.StatusCompleted, models.StatusInProgress.Next())
	// The ring wraps: completed cycles back to pending.
	assert.Equal(t, models.StatusPending, models.StatusCompleted.Next())
}

func TestCategories(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Category: "work"},
		{ID: "2", Category: ""},
		{ID: "3", Category: "home"},
		{ID: "4", Category: "work"},
	}
	assert.Equal(t, []string{"home", "work"}, Categories(tasks))
	assert.Empty(t, Categories(nil))
}

func TestSummarize(t *testing.T) {
	tasks := []models.Task{
		task("a", "2024-01-09", models.StatusPending, models.PriorityHigh),
		task("b", "2024-01-09", models.StatusCompleted, models.PriorityLow),
		task("c", "2024-01-15", models.StatusInProgress, models.PriorityHigh),
	}

	got := Summarize(testCtx(), tasks)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.ByStatus[models.StatusPending])
	assert.Equal(t, 1, got.ByStatus[models.StatusCompleted])
	assert.Equal(t, 2, got.ByPriority[models.PriorityHigh])
	// Completed tasks are not counted as overdue.
	assert.Equal(t, 1, got.Overdue)
}
