package ws

// Event is a task-change notification pushed to connected clients.
type Event struct {
	Type   string `json:"type"`
	TaskID int64  `json:"task_id"`
}

const (
	EventTaskCreated       = "task_created"
	EventTaskUpdated       = "task_updated"
	EventTaskDeleted       = "task_deleted"
	EventPermissionGranted = "permission_granted"
	EventPermissionUpdated = "permission_updated"
	EventPermissionRevoked = "permission_revoked"
)
