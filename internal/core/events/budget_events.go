package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCategorySubmitted = "budget.category_submitted"
)

// CategorySubmittedEvent fires when a supervisor resubmission raised the
// number of pending items in one category, i.e. there is new work for the
// administrators to review.
type CategorySubmittedEvent struct {
	BaseEvent
	PlanID        int64  `json:"plan_id"`
	ProjectName   string `json:"project_name"`
	CategoryKey   string `json:"category_key"`
	CategoryLabel string `json:"category_label"`
	NewItems      int    `json:"new_items"`
}

func NewCategorySubmittedEvent(planID int64, projectName, categoryKey, categoryLabel string, newItems int) *CategorySubmittedEvent {
	return &CategorySubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCategorySubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"plan_id":      planID,
				"project_name": projectName,
				"category_key": categoryKey,
				"new_items":    newItems,
			},
		},
		PlanID:        planID,
		ProjectName:   projectName,
		CategoryKey:   categoryKey,
		CategoryLabel: categoryLabel,
		NewItems:      newItems,
	}
}
