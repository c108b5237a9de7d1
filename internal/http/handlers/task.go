package handlers

import (
	"net/http"
	"strconv"

	"taskshare/internal/authz"
	"taskshare/internal/domain"
	"taskshare/internal/ws"

	"github.com/gin-gonic/gin"
)

type TaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type TaskResponse struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func taskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{ID: t.ID, OwnerID: t.OwnerID, Title: t.Title, Description: t.Description}
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}

// CreateTask creates a task owned by the caller. Creation needs no
// authorization decision: any authenticated user may own tasks.
func (h *Handler) CreateTask(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and description required"})
		return
	}

	task := &domain.Task{OwnerID: user.ID, Title: req.Title, Description: req.Description}
	if err := h.Tasks.Create(c.Request.Context(), task); err != nil {
		fail(c, err, "")
		return
	}

	h.notifyTask(c, user.ID, task.ID, ws.EventTaskCreated)
	c.JSON(http.StatusCreated, taskResponse(task))
}

// ListTasks returns the tasks visible to the caller: owned tasks plus tasks
// shared with can_read.
func (h *Handler) ListTasks(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	tasks, err := h.Tasks.ListVisibleTo(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err, "")
		return
	}

	res := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, taskResponse(t))
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetTask(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.Authz.Decide(c.Request.Context(), user, id, authz.CapabilityRead)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, taskResponse(task))
}

// UpdateTask fully replaces title and description (PUT).
func (h *Handler) UpdateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and description required"})
		return
	}
	h.updateTask(c, domain.TaskPatch{Title: &req.Title, Description: &req.Description})
}

// PatchTask overwrites only the fields present in the request body (PATCH),
// leaving absent fields untouched.
func (h *Handler) PatchTask(c *gin.Context) {
	var patch domain.TaskPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	h.updateTask(c, patch)
}

func (h *Handler) updateTask(c *gin.Context, patch domain.TaskPatch) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	if _, err := h.Authz.Decide(c.Request.Context(), user, id, authz.CapabilityUpdate); err != nil {
		fail(c, err, "")
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), id, patch)
	if err != nil {
		fail(c, err, "")
		return
	}

	h.notifyTask(c, task.OwnerID, task.ID, ws.EventTaskUpdated)
	c.JSON(http.StatusOK, taskResponse(task))
}

// DeleteTask removes the task and cascades to its permission entries.
// Owner-only; the capability is not grantable.
func (h *Handler) DeleteTask(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.Authz.Decide(c.Request.Context(), user, id, authz.CapabilityDelete)
	if err != nil {
		fail(c, err, "")
		return
	}

	// capture recipients before the cascade wipes the grants
	readers, _ := h.Perms.ReaderIDs(c.Request.Context(), id)

	if err := h.Tasks.Delete(c.Request.Context(), id); err != nil {
		fail(c, err, "")
		return
	}

	if h.Hub != nil {
		h.Hub.Publish(append([]int64{task.OwnerID}, readers...), ws.Event{Type: ws.EventTaskDeleted, TaskID: id})
	}
	c.Status(http.StatusNoContent)
}
