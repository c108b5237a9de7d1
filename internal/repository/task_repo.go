package repository

import (
	"context"
	"errors"
	"fmt"

	"taskshare/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (owner_id, title, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		t.OwnerID, t.Title, t.Description,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, title, description, created_at
		 FROM tasks
		 WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// ListVisibleTo returns tasks the user owns plus tasks shared with them with
// can_read. Ordered by id ascending; DISTINCT keeps the result duplicate-free
// even if the unique-grant constraint were ever violated.
func (r *TaskRepository) ListVisibleTo(ctx context.Context, userID int64) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT t.id, t.owner_id, t.title, t.description, t.created_at
		 FROM tasks t
		 LEFT JOIN task_permissions p ON p.task_id = t.id
		 WHERE t.owner_id = $1 OR (p.user_id = $1 AND p.can_read)
		 ORDER BY t.id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list visible tasks: %w", err)
	}
	defer rows.Close()

	var res []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

// Update applies a patch to the task. For a full update the caller passes
// both fields set; for a partial update nil fields keep their stored value.
func (r *TaskRepository) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title = COALESCE($2, title), description = COALESCE($3, description)
		 WHERE id = $1
		 RETURNING id, owner_id, title, description, created_at`,
		id, patch.Title, patch.Description,
	).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &t, nil
}

// Delete removes the task and every permission referencing it in a single
// transaction. Deleting a task that does not exist is a no-op.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete task: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM task_permissions WHERE task_id = $1`, id); err != nil {
		return fmt.Errorf("delete task permissions: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return tx.Commit(ctx)
}
