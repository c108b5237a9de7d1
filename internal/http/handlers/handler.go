package handlers

import (
	"errors"
	"net/http"

	"taskshare/internal/authz"
	"taskshare/internal/domain"
	"taskshare/internal/http/middleware"
	"taskshare/internal/repository"
	"taskshare/internal/service"
	"taskshare/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB     *pgxpool.Pool
	Users  *repository.UserRepository
	Tasks  *repository.TaskRepository
	Perms  *repository.PermissionRepository
	Authz  *authz.Engine
	Tokens *service.TokenService
	Hub    *ws.Hub
}

func NewHandler(db *pgxpool.Pool, tokens *service.TokenService, hub *ws.Hub) *Handler {
	tasks := repository.NewTaskRepository(db)
	perms := repository.NewPermissionRepository(db)
	return &Handler{
		DB:     db,
		Users:  repository.NewUserRepository(db),
		Tasks:  tasks,
		Perms:  perms,
		Authz:  authz.NewEngine(tasks, perms),
		Tokens: tokens,
		Hub:    hub,
	}
}

// fail maps a domain error to its transport status. msg overrides the error
// text in the response body; pass "" to use the error's own message.
func fail(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrConflict):
		// duplicate username and duplicate grant are reported as 400,
		// matching the original API contract
		status = http.StatusBadRequest
	}
	if msg == "" {
		if status == http.StatusInternalServerError {
			msg = "internal error"
		} else {
			msg = err.Error()
		}
	}
	c.JSON(status, gin.H{"error": msg})
}

// mustUser returns the authenticated user or aborts with 401. The auth
// middleware always sets it; the fallback guards misconfigured routes.
func mustUser(c *gin.Context) (*domain.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
		return nil, false
	}
	return user, true
}

// notifyTask sends an event to the task's owner and every user holding a
// can_read grant. Recipients are resolved at publish time so a revoked
// grant stops notifications immediately.
func (h *Handler) notifyTask(c *gin.Context, ownerID, taskID int64, eventType string, extra ...int64) {
	if h.Hub == nil {
		return
	}
	readers, err := h.Perms.ReaderIDs(c.Request.Context(), taskID)
	if err != nil {
		readers = nil
	}
	recipients := append([]int64{ownerID}, readers...)
	recipients = append(recipients, extra...)
	h.Hub.Publish(recipients, ws.Event{Type: eventType, TaskID: taskID})
}
