package notification

import (
	"context"
	"time"
)

// Notification categories as stored on the record.
const (
	CategorySubmission = "budget_submission"
	CategoryDecision   = "budget_decision"
)

const EntityTypeBudgetPlan = "budget_plan"

// Notification is the durable in-app record. One row is written per
// recipient for every dispatch, whether or not a push went out, so the
// in-app history is complete regardless of deliverability.
type Notification struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	UserID     int64     `json:"user_id" gorm:"column:user_id;not null"`
	Title      string    `json:"title" gorm:"column:title;not null"`
	Body       string    `json:"body" gorm:"column:body"`
	Category   string    `json:"category" gorm:"column:category"`
	EntityType string    `json:"entity_type" gorm:"column:entity_type"`
	PlanID     *int64    `json:"plan_id,omitempty" gorm:"column:plan_id"`
	ActionPath string    `json:"action_path" gorm:"column:action_path"`
	IsRead     bool      `json:"is_read" gorm:"column:is_read;default:false"`
	Payload    string    `json:"payload,omitempty" gorm:"column:payload"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Message is one notification to deliver, before it is fanned out to
// recipients.
type Message struct {
	Title      string
	Body       string
	Category   string
	EntityType string
	PlanID     *int64
	ActionPath string
	Payload    map[string]interface{}
}

type RepositoryAPI interface {
	Insert(n *Notification) error
}

// DeviceResolverAPI resolves recipients to their currently active delivery
// tokens.
type DeviceResolverAPI interface {
	ActiveTokensForUsers(userIDs []int64) (map[int64][]string, error)
}

// PushSenderAPI is the fire-and-forget push provider boundary. One attempt
// per token; the dispatcher never retries.
type PushSenderAPI interface {
	Send(ctx context.Context, token, title, body string, data map[string]interface{}) (bool, error)
}

// AdminDirectoryAPI resolves the administrator recipients from the user
// directory.
type AdminDirectoryAPI interface {
	ListAdministratorIDs() ([]int64, error)
}
