package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/yudapramata/rab-management/internal"
	"github.com/yudapramata/rab-management/internal/budget"
)

// Dispatcher turns a state transition into delivered messages: a
// best-effort push per active device token plus an unconditional durable
// record per recipient. Push failure is logged and swallowed; a failed
// record insert is a store error the caller sees.
type Dispatcher struct {
	repo    RepositoryAPI
	devices DeviceResolverAPI
	push    PushSenderAPI
	admins  AdminDirectoryAPI
	logger  *slog.Logger
}

func NewDispatcher(repo RepositoryAPI, devices DeviceResolverAPI, push PushSenderAPI, admins AdminDirectoryAPI, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		repo:    repo,
		devices: devices,
		push:    push,
		admins:  admins,
		logger:  logger,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, recipientIDs []int64, msg Message) error {
	if len(recipientIDs) == 0 {
		d.logger.Debug("notification has no recipients", "title", msg.Title)
		return nil
	}

	tokens, err := d.devices.ActiveTokensForUsers(recipientIDs)
	if err != nil {
		// push is best effort; resolution failure must not block the
		// durable records
		d.logger.Warn("failed to resolve device tokens", "error", err)
		tokens = map[int64][]string{}
	}

	var payloadJSON string
	if len(msg.Payload) > 0 {
		raw, err := json.Marshal(msg.Payload)
		if err != nil {
			d.logger.Warn("failed to serialize notification payload", "error", err)
		} else {
			payloadJSON = string(raw)
		}
	}

	for _, userID := range recipientIDs {
		for _, token := range tokens[userID] {
			delivered, err := d.push.Send(ctx, token, msg.Title, msg.Body, msg.Payload)
			if err != nil || !delivered {
				d.logger.Warn("push delivery failed",
					"user_id", userID,
					"title", msg.Title,
					"error", err)
			}
		}

		record := &Notification{
			UserID:     userID,
			Title:      msg.Title,
			Body:       msg.Body,
			Category:   msg.Category,
			EntityType: msg.EntityType,
			PlanID:     msg.PlanID,
			ActionPath: msg.ActionPath,
			Payload:    payloadJSON,
			CreatedAt:  time.Now(),
		}
		if err := d.repo.Insert(record); err != nil {
			d.logger.Error("failed to insert notification record", "error", err, "user_id", userID)
			return internal.NewStoreError("failed to persist notification", err)
		}
	}

	return nil
}

func (d *Dispatcher) NotifyUser(ctx context.Context, userID int64, msg Message) error {
	return d.Notify(ctx, []int64{userID}, msg)
}

func (d *Dispatcher) NotifyAdministrators(ctx context.Context, msg Message) error {
	ids, err := d.admins.ListAdministratorIDs()
	if err != nil {
		return internal.NewStoreError("failed to resolve administrators", err)
	}
	if len(ids) == 0 {
		d.logger.Warn("no administrators to notify", "title", msg.Title)
		return nil
	}
	return d.Notify(ctx, ids, msg)
}

// NotifyItemDecision satisfies budget.Notifier: it tells the assigned
// supervisor the outcome of one administrator decision.
func (d *Dispatcher) NotifyItemDecision(ctx context.Context, supervisorID int64, note budget.ItemDecisionNote) error {
	var title string
	if note.Status == budget.StatusApproved {
		title = "Pengajuan Disetujui"
	} else {
		title = "Pengajuan Ditolak"
	}

	planID := note.PlanID
	msg := Message{
		Title:      title,
		Body:       fmt.Sprintf("%s pada kategori %s proyek %s telah %s", note.ItemLabel, note.Category.Label(), note.ProjectName, decisionWord(note.Status)),
		Category:   CategoryDecision,
		EntityType: EntityTypeBudgetPlan,
		PlanID:     &planID,
		ActionPath: fmt.Sprintf("/plans/%d/categories/%s", note.PlanID, note.Category),
		Payload: map[string]interface{}{
			"plan_id":  note.PlanID,
			"category": string(note.Category),
			"item":     note.ItemLabel,
			"status":   string(note.Status),
		},
	}
	return d.NotifyUser(ctx, supervisorID, msg)
}

func decisionWord(status budget.ItemStatus) string {
	if status == budget.StatusApproved {
		return "disetujui"
	}
	return "ditolak"
}
