package budget

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/yudapramata/rab-management/internal"
	"github.com/yudapramata/rab-management/internal/core/events"
)

// RepositoryAPI is the budget plan store boundary. Category blobs are
// opaque serialized text to the store.
type RepositoryAPI interface {
	GetPlan(id int64) (*BudgetPlan, error)
	GetCategoryBlob(planID int64, key CategoryKey) (string, error)
	PutCategoryBlob(planID int64, key CategoryKey, blob string) error
	UpdatePlanStatus(planID int64, status string) error
}

// ItemDecisionNote carries what the supervisor needs to know about one
// administrator decision.
type ItemDecisionNote struct {
	PlanID      int64
	ProjectName string
	Category    CategoryKey
	ItemLabel   string
	Status      ItemStatus
}

// Notifier delivers decision notifications to the assigned supervisor. The
// durable notification record write may fail and that failure propagates;
// push delivery problems never reach this interface.
type Notifier interface {
	NotifyItemDecision(ctx context.Context, supervisorID int64, note ItemDecisionNote) error
}

type Service struct {
	repo     RepositoryAPI
	notifier Notifier
	events   *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, notifier Notifier, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		events:   eventBus,
		logger:   logger,
	}
}

// SubmitCategory replaces one category blob wholesale with the normalized
// payload. When the number of Pengajuan items rose versus the stored
// version, administrators are notified asynchronously after the write has
// committed; notification problems never fail the submission.
func (s *Service) SubmitCategory(ctx context.Context, planID int64, key CategoryKey, raw json.RawMessage) (*Document, error) {
	if !key.Valid() {
		return nil, internal.NewValidationError(
			fmt.Sprintf("unknown category %q", key), internal.ErrCodeInvalidCategory)
	}

	plan, err := s.repo.GetPlan(planID)
	if err != nil {
		s.logger.Error("failed to load plan for submission", "error", err, "plan_id", planID)
		return nil, err
	}

	blob, err := s.repo.GetCategoryBlob(planID, key)
	if err != nil {
		s.logger.Error("failed to load category blob", "error", err, "plan_id", planID, "category", key)
		return nil, err
	}

	shape, _ := key.Shape()
	current := ParseDocument(shape, blob)

	doc, err := Normalize(key, raw)
	if err != nil {
		s.logger.Warn("submission rejected", "error", err, "plan_id", planID, "category", key)
		return nil, err
	}

	before := current.CountSubmitted()
	after := doc.CountSubmitted()

	out, err := doc.Marshal()
	if err != nil {
		return nil, internal.NewInternalError("failed to serialize category", err)
	}
	if err := s.repo.PutCategoryBlob(planID, key, out); err != nil {
		s.logger.Error("failed to persist category blob", "error", err, "plan_id", planID, "category", key)
		return nil, err
	}

	s.logger.Info("category submitted",
		"plan_id", planID,
		"category", key,
		"submitted_before", before,
		"submitted_after", after)

	if after > before {
		event := events.NewCategorySubmittedEvent(planID, plan.ProjectName, string(key), key.Label(), after-before)
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish submission event", "error", err, "plan_id", planID)
		}
	}

	return doc, nil
}

// GetCategory returns the parsed stored document for one category.
func (s *Service) GetCategory(ctx context.Context, planID int64, key CategoryKey) (*Document, error) {
	if !key.Valid() {
		return nil, internal.NewValidationError(
			fmt.Sprintf("unknown category %q", key), internal.ErrCodeInvalidCategory)
	}
	if _, err := s.repo.GetPlan(planID); err != nil {
		return nil, err
	}
	blob, err := s.repo.GetCategoryBlob(planID, key)
	if err != nil {
		return nil, err
	}
	shape, _ := key.Shape()
	return ParseDocument(shape, blob), nil
}

// SetItemStatus applies one administrator decision to one line item. A
// decision the item already carries is a successful no-op: nothing is
// written and nobody is notified, so a retried request cannot
// double-notify. A malformed stored blob parses as empty and surfaces as
// item-not-found on the locator rather than a crash.
func (s *Service) SetItemStatus(ctx context.Context, planID int64, key CategoryKey, loc ItemLocator, status ItemStatus) (*Document, error) {
	if !key.Valid() {
		return nil, internal.NewValidationError(
			fmt.Sprintf("unknown category %q", key), internal.ErrCodeInvalidCategory)
	}
	if !status.IsDecision() {
		return nil, internal.ErrInvalidStatus
	}

	plan, err := s.repo.GetPlan(planID)
	if err != nil {
		s.logger.Error("failed to load plan for decision", "error", err, "plan_id", planID)
		return nil, err
	}

	blob, err := s.repo.GetCategoryBlob(planID, key)
	if err != nil {
		return nil, err
	}
	shape, _ := key.Shape()
	doc := ParseDocument(shape, blob)

	change, err := doc.SetItemStatus(loc, status)
	if err != nil {
		s.logger.Warn("item not located for decision", "plan_id", planID, "category", key)
		return nil, err
	}

	if !change.Changed {
		s.logger.Info("decision already applied",
			"plan_id", planID, "category", key, "status", status)
		return doc, nil
	}

	out, err := doc.Marshal()
	if err != nil {
		return nil, internal.NewInternalError("failed to serialize category", err)
	}
	if err := s.repo.PutCategoryBlob(planID, key, out); err != nil {
		s.logger.Error("failed to persist decision", "error", err, "plan_id", planID, "category", key)
		return nil, err
	}

	s.logger.Info("item status updated",
		"plan_id", planID,
		"category", key,
		"item", change.ItemLabel,
		"previous", change.Previous,
		"status", status)

	if plan.SupervisorID == nil {
		s.logger.Debug("plan has no assigned supervisor, skipping notification", "plan_id", planID)
		return doc, nil
	}

	note := ItemDecisionNote{
		PlanID:      planID,
		ProjectName: plan.ProjectName,
		Category:    key,
		ItemLabel:   change.ItemLabel,
		Status:      status,
	}
	if err := s.notifier.NotifyItemDecision(ctx, *plan.SupervisorID, note); err != nil {
		// the blob write is already committed; the notification record is
		// the system of record for "you have been notified" and its
		// failure is the operation's failure
		s.logger.Error("failed to record supervisor notification", "error", err, "plan_id", planID)
		return nil, err
	}

	return doc, nil
}

// UpdatePlanStatus moves the plan lifecycle forward. Setting the status the
// plan already has is a successful no-op; moving backwards is rejected.
func (s *Service) UpdatePlanStatus(ctx context.Context, planID int64, status string) (*BudgetPlan, error) {
	if !ValidPlanStatus(status) {
		return nil, internal.NewValidationError(
			fmt.Sprintf("unknown plan status %q", status), internal.ErrCodeValidationFailed)
	}

	plan, err := s.repo.GetPlan(planID)
	if err != nil {
		return nil, err
	}

	if plan.PlanStatus == status {
		return plan, nil
	}
	if !CanTransitionPlanStatus(plan.PlanStatus, status) {
		return nil, internal.NewInvalidStatusError(
			fmt.Sprintf("cannot move plan from %s to %s", plan.PlanStatus, status))
	}

	if err := s.repo.UpdatePlanStatus(planID, status); err != nil {
		s.logger.Error("failed to update plan status", "error", err, "plan_id", planID)
		return nil, err
	}

	s.logger.Info("plan status updated", "plan_id", planID, "from", plan.PlanStatus, "to", status)
	plan.PlanStatus = status
	return plan, nil
}
