// Package authz is the single place where (actor, task, capability) triples
// are decided. Handlers never inspect ownership or grant flags themselves;
// scattering those checks across endpoints is how capability drift happens.
package authz

import (
	"context"
	"errors"

	"taskshare/internal/domain"
)

type Capability string

const (
	CapabilityRead              Capability = "read"
	CapabilityUpdate            Capability = "update"
	CapabilityDelete            Capability = "delete"
	CapabilityManagePermissions Capability = "manage_permissions"
)

// TaskGetter is the slice of the task registry the engine needs.
type TaskGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
}

// PermissionGetter is the slice of the permission ledger the engine needs.
type PermissionGetter interface {
	Get(ctx context.Context, taskID, userID int64) (*domain.TaskPermission, error)
}

type Engine struct {
	tasks TaskGetter
	perms PermissionGetter
}

func NewEngine(tasks TaskGetter, perms PermissionGetter) *Engine {
	return &Engine{tasks: tasks, perms: perms}
}

// Decide resolves whether the actor may exercise the capability on the task.
// It returns the task on allow so callers do not have to re-fetch it.
// ErrNotFound means the task does not exist; ErrForbidden means it exists
// but the actor lacks the capability. Decisions are never cached: a grant
// change is effective on the very next request.
func (e *Engine) Decide(ctx context.Context, actor *domain.User, taskID int64, cap Capability) (*domain.Task, error) {
	task, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		recordDecision(cap, outcomeNotFound)
		return nil, err
	}

	var perm *domain.TaskPermission
	if actor.ID != task.OwnerID {
		perm, err = e.perms.Get(ctx, taskID, actor.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	if err := decide(actor, task, perm, cap); err != nil {
		recordDecision(cap, outcomeDeny)
		return nil, err
	}
	recordDecision(cap, outcomeAllow)
	return task, nil
}

// decide is the pure decision function: no I/O, total over its inputs.
// perm is the actor's grant on the task, or nil if none exists.
//
// Owners hold every capability unconditionally. Delete and permission
// management are owner-exclusive and cannot be delegated through the
// ledger; only read and update of the task's content are grantable.
func decide(actor *domain.User, task *domain.Task, perm *domain.TaskPermission, cap Capability) error {
	if actor.ID == task.OwnerID {
		return nil
	}

	switch cap {
	case CapabilityRead:
		if perm != nil && perm.CanRead {
			return nil
		}
	case CapabilityUpdate:
		if perm != nil && perm.CanUpdate {
			return nil
		}
	case CapabilityDelete, CapabilityManagePermissions:
		// never grantable to non-owners
	}
	return domain.ErrForbidden
}
