package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("not found")

type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Password  string    `db:"password"`
	Name      string    `db:"name"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

type Session struct {
	Token     uuid.UUID `db:"token"`
	Username  string    `db:"username"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

type ReturnRequest struct {
	ID           uuid.UUID `db:"id"`
	UserID       string    `db:"user_id"`
	OrderID      string    `db:"order_id"`
	Reason       string    `db:"reason"`
	Status       string    `db:"status"`
	RefundStatus string    `db:"refund_status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type AuditLogEntry struct {
	ID        uuid.UUID `db:"id"`
	Action    string    `db:"action"`
	Actor     string    `db:"actor"`
	ActorRole string    `db:"actor_role"`
	Details   string    `db:"details"`
	Timestamp time.Time `db:"timestamp"`
}

type ReturnStats struct {
	Total    int `db:"total"`
	Pending  int `db:"pending"`
	Approved int `db:"approved"`
	Rejected int `db:"rejected"`
	Recent   int `db:"recent"`
}

type UserReturnCount struct {
	UserID       string `db:"user_id"`
	ReturnCount  int    `db:"return_count"`
	UniqueOrders int    `db:"unique_orders"`
}

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusFailed     TaskStatus = "FAILED"
)

type OutboxTask struct {
	ID          uuid.UUID  `db:"id"`
	Status      TaskStatus `db:"status"`
	Payload     []byte     `db:"payload"`
	Topic       string     `db:"topic"`
	Attempts    int        `db:"attempts"`
	LastError   *string    `db:"last_error"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	CompletedAt *time.Time `db:"completed_at"`
}
