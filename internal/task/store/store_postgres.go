package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskboard/internal/task/models"
	"taskboard/pkg/platform/sentinel"
)

// PostgresStore persists tasks in PostgreSQL. Every query carries the owner
// predicate alongside the ID; an UPDATE or DELETE that touches zero rows is a
// scoped miss, indistinguishable from true absence by design.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed task store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const taskColumns = `id, title, description, due_date, priority, status, category, owner_id, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, task models.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.Category,
		task.OwnerID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE owner_id = $1
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *PostgresStore) Get(ctx context.Context, id, ownerID string) (models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, sentinel.ErrNotFound
		}
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *PostgresStore) Update(ctx context.Context, task models.Task) (models.Task, error) {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, due_date = $5, priority = $6,
		    status = $7, category = $8, updated_at = $9
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns + `
	`
	updated, err := scanTask(s.db.QueryRowContext(ctx, query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.Category,
		task.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, sentinel.ErrNotFound
		}
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id, ownerID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.Status,
		&task.Category,
		&task.OwnerID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}
