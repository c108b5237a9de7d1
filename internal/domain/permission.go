package domain

// TaskPermission is a grant from a task's owner to another user. At most one
// row exists per (task, user) pair. The flags are independent: can_update
// does not imply can_read. A grant never affects the owner, who has full
// access regardless of ledger state.
type TaskPermission struct {
	ID        int64 `db:"id" json:"id"`
	TaskID    int64 `db:"task_id" json:"task_id"`
	UserID    int64 `db:"user_id" json:"user_id"`
	CanRead   bool  `db:"can_read" json:"can_read"`
	CanUpdate bool  `db:"can_update" json:"can_update"`
}

// PermissionPatch carries a partial update of the grant flags. Nil fields
// are left untouched.
type PermissionPatch struct {
	CanRead   *bool `json:"can_read"`
	CanUpdate *bool `json:"can_update"`
}
