package authz

import (
	"context"
	"testing"

	"taskshare/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTasks map[int64]*domain.Task

func (f fakeTasks) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := f[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

type fakePerms map[[2]int64]*domain.TaskPermission

func (f fakePerms) Get(_ context.Context, taskID, userID int64) (*domain.TaskPermission, error) {
	p, ok := f[[2]int64{taskID, userID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func newTestEngine() (*Engine, *domain.User, *domain.User, *domain.User) {
	owner := &domain.User{ID: 1, Username: "alice"}
	reader := &domain.User{ID: 2, Username: "bob"}
	writer := &domain.User{ID: 3, Username: "carol"}

	tasks := fakeTasks{10: {ID: 10, OwnerID: owner.ID, Title: "t", Description: "d"}}
	perms := fakePerms{
		{10, reader.ID}: {TaskID: 10, UserID: reader.ID, CanRead: true, CanUpdate: false},
		{10, writer.ID}: {TaskID: 10, UserID: writer.ID, CanRead: false, CanUpdate: true},
	}
	return NewEngine(tasks, perms), owner, reader, writer
}

func TestDecideOwnerHasEveryCapability(t *testing.T) {
	engine, owner, _, _ := newTestEngine()

	for _, cap := range []Capability{CapabilityRead, CapabilityUpdate, CapabilityDelete, CapabilityManagePermissions} {
		task, err := engine.Decide(context.Background(), owner, 10, cap)
		require.NoError(t, err, "capability %s", cap)
		assert.Equal(t, int64(10), task.ID)
	}
}

func TestDecideGranteeReadOnly(t *testing.T) {
	engine, _, reader, _ := newTestEngine()

	_, err := engine.Decide(context.Background(), reader, 10, CapabilityRead)
	assert.NoError(t, err)

	for _, cap := range []Capability{CapabilityUpdate, CapabilityDelete, CapabilityManagePermissions} {
		_, err := engine.Decide(context.Background(), reader, 10, cap)
		assert.ErrorIs(t, err, domain.ErrForbidden, "capability %s", cap)
	}
}

func TestDecideUpdateDoesNotImplyRead(t *testing.T) {
	engine, _, _, writer := newTestEngine()

	_, err := engine.Decide(context.Background(), writer, 10, CapabilityUpdate)
	assert.NoError(t, err)

	_, err = engine.Decide(context.Background(), writer, 10, CapabilityRead)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDecideNoGrantDeniesEverything(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	stranger := &domain.User{ID: 99, Username: "mallory"}

	for _, cap := range []Capability{CapabilityRead, CapabilityUpdate, CapabilityDelete, CapabilityManagePermissions} {
		_, err := engine.Decide(context.Background(), stranger, 10, cap)
		assert.ErrorIs(t, err, domain.ErrForbidden, "capability %s", cap)
	}
}

func TestDecideMissingTaskIsNotFound(t *testing.T) {
	engine, owner, _, _ := newTestEngine()

	// not found wins over any capability outcome, even for the would-be owner
	_, err := engine.Decide(context.Background(), owner, 404, CapabilityRead)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecideDeleteNeverGrantable(t *testing.T) {
	owner := &domain.User{ID: 1}
	grantee := &domain.User{ID: 2}
	tasks := fakeTasks{10: {ID: 10, OwnerID: owner.ID}}
	// both flags set: the strongest grant the ledger can express
	perms := fakePerms{{10, grantee.ID}: {TaskID: 10, UserID: grantee.ID, CanRead: true, CanUpdate: true}}
	engine := NewEngine(tasks, perms)

	_, err := engine.Decide(context.Background(), grantee, 10, CapabilityDelete)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = engine.Decide(context.Background(), grantee, 10, CapabilityManagePermissions)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
