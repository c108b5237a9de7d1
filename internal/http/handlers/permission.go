package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskshare/internal/authz"
	"taskshare/internal/domain"
	"taskshare/internal/ws"

	"github.com/gin-gonic/gin"
)

type PermissionRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	CanRead   bool  `json:"can_read"`
	CanUpdate bool  `json:"can_update"`
}

func granteeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

// ListPermissions returns every grant on the task. A task with no grants is
// reported as 404: the permission sub-resource does not exist until the
// owner shares the task.
func (h *Handler) ListPermissions(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	perms, err := h.Perms.ListByTask(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "no permissions found for this task")
		return
	}
	c.JSON(http.StatusOK, perms)
}

// CreatePermission grants another user access to the task. Owner-only.
// Granting twice for the same user is rejected; the grantee must exist.
func (h *Handler) CreatePermission(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req PermissionRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if _, err := h.Authz.Decide(c.Request.Context(), user, id, authz.CapabilityManagePermissions); err != nil {
		fail(c, err, "")
		return
	}

	exists, err := h.Users.Exists(c.Request.Context(), req.UserID)
	if err != nil {
		fail(c, err, "")
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	perm := &domain.TaskPermission{
		TaskID:    id,
		UserID:    req.UserID,
		CanRead:   req.CanRead,
		CanUpdate: req.CanUpdate,
	}
	if err := h.Perms.Grant(c.Request.Context(), perm); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "permission already exists for this user and task"})
			return
		}
		fail(c, err, "")
		return
	}

	h.notifyTask(c, user.ID, id, ws.EventPermissionGranted, req.UserID)
	c.JSON(http.StatusCreated, perm)
}

// UpdatePermission toggles grant flags. Owner-only; absent fields in the
// request body keep their stored value.
func (h *Handler) UpdatePermission(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}
	uid, ok := granteeID(c)
	if !ok {
		return
	}

	var patch domain.PermissionPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if _, err := h.Authz.Decide(c.Request.Context(), user, id, authz.CapabilityManagePermissions); err != nil {
		fail(c, err, "")
		return
	}

	perm, err := h.Perms.Update(c.Request.Context(), id, uid, patch)
	if err != nil {
		fail(c, err, "permission not found")
		return
	}

	h.notifyTask(c, user.ID, id, ws.EventPermissionUpdated, uid)
	c.JSON(http.StatusOK, perm)
}

// DeletePermission revokes a grant. Owner-only; revoking a grant that does
// not exist is a no-op.
func (h *Handler) DeletePermission(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}
	uid, ok := granteeID(c)
	if !ok {
		return
	}

	if _, err := h.Authz.Decide(c.Request.Context(), user, id, authz.CapabilityManagePermissions); err != nil {
		fail(c, err, "")
		return
	}

	if err := h.Perms.Revoke(c.Request.Context(), id, uid); err != nil {
		fail(c, err, "")
		return
	}

	h.notifyTask(c, user.ID, id, ws.EventPermissionRevoked, uid)
	c.Status(http.StatusNoContent)
}
