package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/task/handler"
	"taskboard/internal/task/models"
	"taskboard/internal/task/service"
	"taskboard/internal/task/store"
	"taskboard/internal/token"
	"taskboard/pkg/testutil"
)

type fixture struct {
	router chi.Router
	tokens *token.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := token.NewService("test-signing-key", "taskboard", time.Hour)
	svc := service.New(store.NewInMemory(), nil, nil)

	router := chi.NewRouter()
	handler.New(svc, logger, tokens).Register(router)

	return &fixture{router: router, tokens: tokens}
}

func (f *fixture) authorize(t *testing.T, req *http.Request, userID string) *http.Request {
	t.Helper()
	tok, err := f.tokens.Issue(userID)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func (f *fixture) createTask(t *testing.T, userID string, body map[string]any) models.Task {
	t.Helper()
	req := f.authorize(t, testutil.NewJSONRequest(t, http.MethodPost, "/tasks", body), userID)
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	return *testutil.UnmarshalResponse[models.Task](t, rr)
}

func TestCreateTask(t *testing.T) {
	f := newFixture(t)

	task := f.createTask(t, "user-1", map[string]any{
		"title":    "Write report",
		"due_date": "2024-03-15",
		"category": "work",
	})

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "user-1", task.OwnerID)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.StatusPending, task.Status)
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t)

	req := f.authorize(t, testutil.NewJSONRequest(t, http.MethodPost, "/tasks", map[string]any{
		"due_date": "2024-03-15",
	}), "user-1")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestTasksRequireAuthentication(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewRequest(t, http.MethodGet, "/tasks")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}

func TestListReturnsOwnTasksOnly(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, "alice", map[string]any{"title": "hers", "due_date": "2024-03-15"})
	f.createTask(t, "bob", map[string]any{"title": "his", "due_date": "2024-03-15"})

	req := f.authorize(t, testutil.NewRequest(t, http.MethodGet, "/tasks"), "alice")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	tasks := *testutil.UnmarshalResponse[[]models.Task](t, rr)
	require.Len(t, tasks, 1)
	assert.Equal(t, "hers", tasks[0].Title)
}

func TestListEmptyIsJSONArray(t *testing.T) {
	f := newFixture(t)

	req := f.authorize(t, testutil.NewRequest(t, http.MethodGet, "/tasks"), "alice")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestListWithFiltersAppliesView(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, "alice", map[string]any{
		"title": "done", "due_date": "2024-03-10", "status": "completed",
	})
	f.createTask(t, "alice", map[string]any{
		"title": "later", "due_date": "2024-03-20",
	})
	f.createTask(t, "alice", map[string]any{
		"title": "soon", "due_date": "2024-03-01",
	})

	req := f.authorize(t, testutil.NewRequest(t, http.MethodGet, "/tasks?status=all"), "alice")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	tasks := *testutil.UnmarshalResponse[[]models.Task](t, rr)
	require.Len(t, tasks, 3)
	// Pending before completed; within pending, earlier due date first.
	assert.Equal(t, "soon", tasks[0].Title)
	assert.Equal(t, "later", tasks[1].Title)
	assert.Equal(t, "done", tasks[2].Title)
}

func TestListFiltersByPriority(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, "alice", map[string]any{
		"title": "big", "due_date": "2024-03-15", "priority": "high",
	})
	f.createTask(t, "alice", map[string]any{
		"title": "small", "due_date": "2024-03-15", "priority": "low",
	})

	req := f.authorize(t, testutil.NewRequest(t, http.MethodGet, "/tasks?priority=high"), "alice")
	rr := testutil.DoRequest(f.router, req)

	tasks := *testutil.UnmarshalResponse[[]models.Task](t, rr)
	require.Len(t, tasks, 1)
	assert.Equal(t, "big", tasks[0].Title)
}

func TestUpdateTask(t *testing.T) {
	f := newFixture(t)

	created := f.createTask(t, "alice", map[string]any{"title": "draft", "due_date": "2024-03-15"})

	req := f.authorize(t, testutil.NewJSONRequest(t, http.MethodPut, "/tasks/"+created.ID, map[string]any{
		"title": "final",
	}), "alice")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	updated := testutil.UnmarshalResponse[models.Task](t, rr)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "2024-03-15", updated.DueDate)
}

func TestUpdateForeignTaskIsNotFound(t *testing.T) {
	f := newFixture(t)

	created := f.createTask(t, "alice", map[string]any{"title": "hers", "due_date": "2024-03-15"})

	req := f.authorize(t, testutil.NewJSONRequest(t, http.MethodPut, "/tasks/"+created.ID, map[string]any{
		"title": "hijacked",
	}), "bob")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestCycleTaskStatus(t *testing.T) {
	f := newFixture(t)

	created := f.createTask(t, "alice", map[string]any{"title": "x", "due_date": "2024-03-15"})

	req := f.authorize(t, testutil.NewRequest(t, http.MethodPost, "/tasks/"+created.ID+"/cycle"), "alice")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	cycled := testutil.UnmarshalResponse[models.Task](t, rr)
	assert.Equal(t, models.StatusInProgress, cycled.Status)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)

	created := f.createTask(t, "alice", map[string]any{"title": "x", "due_date": "2024-03-15"})

	req := f.authorize(t, testutil.NewRequest(t, http.MethodDelete, "/tasks/"+created.ID), "alice")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	body := *testutil.UnmarshalResponse[map[string]string](t, rr)
	assert.Equal(t, "Task deleted successfully", body["message"])

	again := f.authorize(t, testutil.NewRequest(t, http.MethodDelete, "/tasks/"+created.ID), "alice")
	rr = testutil.DoRequest(f.router, again)
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestSummary(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, "alice", map[string]any{"title": "a", "due_date": "2024-03-15"})
	f.createTask(t, "alice", map[string]any{
		"title": "b", "due_date": "2024-03-16", "status": "completed", "priority": "high",
	})

	req := f.authorize(t, testutil.NewRequest(t, http.MethodGet, "/tasks/summary"), "alice")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	summary := testutil.UnmarshalResponse[models.Summary](t, rr)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.ByStatus[models.StatusCompleted])
	assert.Equal(t, 1, summary.ByPriority[models.PriorityHigh])
}

func TestCategories(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, "alice", map[string]any{"title": "a", "due_date": "2024-03-15", "category": "work"})
	f.createTask(t, "alice", map[string]any{"title": "b", "due_date": "2024-03-15", "category": "home"})
	f.createTask(t, "alice", map[string]any{"title": "c", "due_date": "2024-03-15", "category": "work"})

	req := f.authorize(t, testutil.NewRequest(t, http.MethodGet, "/tasks/categories"), "alice")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	categories := *testutil.UnmarshalResponse[[]string](t, rr)
	assert.Equal(t, []string{"home", "work"}, categories)
}
