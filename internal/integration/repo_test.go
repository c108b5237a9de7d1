package integration

import (
	"context"
	"os"
	"testing"

	"taskshare/internal/domain"
	"taskshare/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	_, err = db.Exec(context.Background(),
		`TRUNCATE task_permissions, tasks, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func TestTaskRepositoryDeleteAbsentIsNoOp(t *testing.T) {
	db := newTestDB(t)
	tasks := repository.NewTaskRepository(db)

	assert.NoError(t, tasks.Delete(context.Background(), 12345))
}

func TestPermissionRepositoryUniqueGrant(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	perms := repository.NewPermissionRepository(db)

	owner := &domain.User{Username: "alice", HashedPassword: "h"}
	grantee := &domain.User{Username: "bob", HashedPassword: "h"}
	require.NoError(t, users.Create(ctx, owner))
	require.NoError(t, users.Create(ctx, grantee))

	task := &domain.Task{OwnerID: owner.ID, Title: "t", Description: "d"}
	require.NoError(t, tasks.Create(ctx, task))

	first := &domain.TaskPermission{TaskID: task.ID, UserID: grantee.ID, CanRead: true}
	require.NoError(t, perms.Grant(ctx, first))

	second := &domain.TaskPermission{TaskID: task.ID, UserID: grantee.ID, CanUpdate: true}
	assert.ErrorIs(t, perms.Grant(ctx, second), domain.ErrConflict)

	// the original grant survives untouched
	got, err := perms.Get(ctx, task.ID, grantee.ID)
	require.NoError(t, err)
	assert.True(t, got.CanRead)
	assert.False(t, got.CanUpdate)
}

func TestPermissionRepositoryRevokeAbsentIsNoOp(t *testing.T) {
	db := newTestDB(t)
	perms := repository.NewPermissionRepository(db)

	assert.NoError(t, perms.Revoke(context.Background(), 1, 2))
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)

	require.NoError(t, users.Create(ctx, &domain.User{Username: "alice", HashedPassword: "h"}))
	err := users.Create(ctx, &domain.User{Username: "alice", HashedPassword: "h2"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPermissionPatchPreservesAbsentFlags(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	perms := repository.NewPermissionRepository(db)

	owner := &domain.User{Username: "alice", HashedPassword: "h"}
	grantee := &domain.User{Username: "bob", HashedPassword: "h"}
	require.NoError(t, users.Create(ctx, owner))
	require.NoError(t, users.Create(ctx, grantee))

	task := &domain.Task{OwnerID: owner.ID, Title: "t", Description: "d"}
	require.NoError(t, tasks.Create(ctx, task))
	require.NoError(t, perms.Grant(ctx, &domain.TaskPermission{TaskID: task.ID, UserID: grantee.ID, CanRead: true}))

	canUpdate := true
	got, err := perms.Update(ctx, task.ID, grantee.ID, domain.PermissionPatch{CanUpdate: &canUpdate})
	require.NoError(t, err)
	assert.True(t, got.CanRead, "untouched flag keeps its value")
	assert.True(t, got.CanUpdate)
}
