package repository

import (
	"context"
	"errors"
	"fmt"

	"taskshare/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PermissionRepository struct {
	db *pgxpool.Pool
}

func NewPermissionRepository(db *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// Grant inserts a new permission row. A second grant for the same
// (task, user) pair is rejected with ErrConflict, never merged.
func (r *PermissionRepository) Grant(ctx context.Context, p *domain.TaskPermission) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO task_permissions (task_id, user_id, can_read, can_update)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		p.TaskID, p.UserID, p.CanRead, p.CanUpdate,
	).Scan(&p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrConflict
		}
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

func (r *PermissionRepository) Get(ctx context.Context, taskID, userID int64) (*domain.TaskPermission, error) {
	var p domain.TaskPermission
	err := r.db.QueryRow(ctx,
		`SELECT id, task_id, user_id, can_read, can_update
		 FROM task_permissions
		 WHERE task_id = $1 AND user_id = $2`,
		taskID, userID,
	).Scan(&p.ID, &p.TaskID, &p.UserID, &p.CanRead, &p.CanUpdate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}
	return &p, nil
}

// ListByTask returns every grant on the task. An empty ledger is reported as
// ErrNotFound, mirroring the API contract that a task without shares has no
// permission sub-resource.
func (r *PermissionRepository) ListByTask(ctx context.Context, taskID int64) ([]*domain.TaskPermission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, task_id, user_id, can_read, can_update
		 FROM task_permissions
		 WHERE task_id = $1
		 ORDER BY id`,
		taskID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	var res []*domain.TaskPermission
	for rows.Next() {
		var p domain.TaskPermission
		if err := rows.Scan(&p.ID, &p.TaskID, &p.UserID, &p.CanRead, &p.CanUpdate); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		res = append(res, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, domain.ErrNotFound
	}
	return res, nil
}

// Update overwrites the flags present in the patch, preserving absent ones.
func (r *PermissionRepository) Update(ctx context.Context, taskID, userID int64, patch domain.PermissionPatch) (*domain.TaskPermission, error) {
	var p domain.TaskPermission
	err := r.db.QueryRow(ctx,
		`UPDATE task_permissions
		 SET can_read = COALESCE($3, can_read), can_update = COALESCE($4, can_update)
		 WHERE task_id = $1 AND user_id = $2
		 RETURNING id, task_id, user_id, can_read, can_update`,
		taskID, userID, patch.CanRead, patch.CanUpdate,
	).Scan(&p.ID, &p.TaskID, &p.UserID, &p.CanRead, &p.CanUpdate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update permission: %w", err)
	}
	return &p, nil
}

// Revoke deletes the grant if present. Revoking an absent grant is a no-op.
func (r *PermissionRepository) Revoke(ctx context.Context, taskID, userID int64) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM task_permissions WHERE task_id = $1 AND user_id = $2`,
		taskID, userID); err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}

// ReaderIDs returns the ids of users holding a can_read grant on the task.
// Used by the event hub to address task-change notifications.
func (r *PermissionRepository) ReaderIDs(ctx context.Context, taskID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM task_permissions WHERE task_id = $1 AND can_read`,
		taskID)
	if err != nil {
		return nil, fmt.Errorf("list readers: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan reader id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
