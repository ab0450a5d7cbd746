package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yudapramata/rab-management/internal/core/events"
)

type EventHandler struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

func NewEventHandler(dispatcher *Dispatcher, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// HandleCategorySubmitted notifies all administrators that a category has
// new pending items. It runs on the event bus, after the blob write
// committed; its failure is logged by the bus and never reaches the
// submitting request.
func (h *EventHandler) HandleCategorySubmitted(ctx context.Context, event events.Event) error {
	submitted, ok := event.(*events.CategorySubmittedEvent)
	if !ok {
		h.logger.Error("invalid event type for category submitted handler", "event_type", event.EventType())
		return fmt.Errorf("expected CategorySubmittedEvent, got %T", event)
	}

	h.logger.Info("handling category submitted event",
		"plan_id", submitted.PlanID,
		"category", submitted.CategoryKey,
		"new_items", submitted.NewItems,
		"event_id", submitted.EventID())

	planID := submitted.PlanID
	msg := Message{
		Title:      fmt.Sprintf("Pengajuan Baru: %s", submitted.CategoryLabel),
		Body:       fmt.Sprintf("Proyek %s memiliki %d pengajuan baru pada kategori %s", submitted.ProjectName, submitted.NewItems, submitted.CategoryLabel),
		Category:   CategorySubmission,
		EntityType: EntityTypeBudgetPlan,
		PlanID:     &planID,
		ActionPath: fmt.Sprintf("/plans/%d/categories/%s", submitted.PlanID, submitted.CategoryKey),
		Payload: map[string]interface{}{
			"plan_id":   submitted.PlanID,
			"category":  submitted.CategoryKey,
			"new_items": submitted.NewItems,
		},
	}

	return h.dispatcher.NotifyAdministrators(ctx, msg)
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeCategorySubmitted, h.HandleCategorySubmitted)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeCategorySubmitted})
}
