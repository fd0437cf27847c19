package storage

import "time"

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

type RefundStatus string

const (
	RefundNotInitiated RefundStatus = "Not Initiated"
	RefundInitiated    RefundStatus = "Refund Initiated"
	RefundSuccessful   RefundStatus = "Refund Successful"
)

const (
	MinReasonLength     = 10
	MaxReturnsPerWindow = 5
	RateLimitWindow     = 24 * time.Hour
)

// Audit actions. The transition actions are written in the same
// transaction as the transition itself.
const (
	ActionLoginSuccess    = "LOGIN_SUCCESS"
	ActionLoginFailed     = "LOGIN_FAILED"
	ActionLogout          = "LOGOUT"
	ActionReturnCreated   = "RETURN_CREATED"
	ActionReturnApproved  = "RETURN_APPROVED"
	ActionReturnRejected  = "RETURN_REJECTED"
	ActionRefundCompleted = "REFUND_COMPLETED"
)

// AuditTopic is the Kafka topic audit events are streamed to through the
// outbox.
const AuditTopic = "audit_logs"

// Actor identifies who performs an operation. Filled from the session by
// the HTTP layer.
type Actor struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == "admin"
}

// ReturnRequest is the API-facing shape. The frontend consumes the
// Mongo-style "_id" field name.
type ReturnRequest struct {
	ID           string       `json:"_id"`
	UserID       string       `json:"user_id"`
	OrderID      string       `json:"order_id"`
	Reason       string       `json:"reason"`
	Status       Status       `json:"status"`
	RefundStatus RefundStatus `json:"refund_status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type AuditLogEntry struct {
	ID        string    `json:"_id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	ActorRole string    `json:"actor_role"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

type SystemStats struct {
	TotalUsers      int `json:"total_users"`
	TotalReturns    int `json:"total_returns"`
	PendingReturns  int `json:"pending_returns"`
	ApprovedReturns int `json:"approved_returns"`
	RejectedReturns int `json:"rejected_returns"`
	ReturnsLast24h  int `json:"returns_last_24h"`
	LoginsLast24h   int `json:"logins_last_24h"`
}

type SuspiciousUser struct {
	UserID       string `json:"user_id"`
	ReturnCount  int    `json:"return_count"`
	UniqueOrders int    `json:"unique_orders"`
	RiskLevel    string `json:"risk_level"`
}
