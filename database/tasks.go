package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
	"github.com/subhrajit77/DoDeck-The-Task-manager/utils"
)

// Tasks is the task store. Every statement filters on owner so a task
// that belongs to someone else is indistinguishable from one that does
// not exist.
type Tasks struct {
	db *sql.DB
}

func NewTasks(db *sql.DB) *Tasks {
	return &Tasks{db: db}
}

const taskColumns = "id, owner, title, description, priority, due_date, completed, created_at"

// Create persists a new task for its owner, assigning a fresh random
// ID. Generation is retried a few times in case of a collision.
func (s *Tasks) Create(ctx context.Context, t *models.Task) error {
	for attempt := 0; attempt < 3; attempt++ {
		id, err := utils.GenerateRandomID()
		if err != nil {
			return err
		}
		err = s.db.QueryRowContext(ctx,
			`INSERT INTO tasks (id, owner, title, description, priority, due_date, completed)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`,
			id, t.Owner, t.Title, t.Description, t.Priority, t.DueDate, t.Completed,
		).Scan(&t.CreatedAt)
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			return err
		}
		t.ID = id
		return nil
	}
	return errors.New("failed to generate a unique task ID")
}

// ByOwner returns all of the caller's tasks, newest created first.
func (s *Tasks) ByOwner(ctx context.Context, owner int64) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE owner = $1 ORDER BY created_at DESC", owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Owner, &t.Title, &t.Description,
			&t.Priority, &t.DueDate, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ByID fetches one task under the ownership filter.
func (s *Tasks) ByID(ctx context.Context, owner int64, id string) (*models.Task, error) {
	var t models.Task
	err := s.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND owner = $2", id, owner,
	).Scan(&t.ID, &t.Owner, &t.Title, &t.Description,
		&t.Priority, &t.DueDate, &t.Completed, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update applies a partial patch to an owned task and returns the
// stored result. The read and write both carry the owner filter, so the
// update is atomic per task row.
func (s *Tasks) Update(ctx context.Context, owner int64, id string, patch models.TaskPatch) (*models.Task, error) {
	t, err := s.ByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title=$1, description=$2, priority=$3, due_date=$4, completed=$5
		 WHERE id=$6 AND owner=$7`,
		t.Title, t.Description, t.Priority, t.DueDate, t.Completed, id, owner)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, models.ErrNotFound
	}
	return t, nil
}

// Delete removes an owned task.
func (s *Tasks) Delete(ctx context.Context, owner int64, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = $1 AND owner = $2", id, owner)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}
