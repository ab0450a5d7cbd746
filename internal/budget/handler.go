package budget

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/yudapramata/rab-management/internal"
	"github.com/yudapramata/rab-management/internal/transport"
)

type ServiceAPI interface {
	SubmitCategory(ctx context.Context, planID int64, key CategoryKey, raw json.RawMessage) (*Document, error)
	GetCategory(ctx context.Context, planID int64, key CategoryKey) (*Document, error)
	SetItemStatus(ctx context.Context, planID int64, key CategoryKey, loc ItemLocator, status ItemStatus) (*Document, error)
	UpdatePlanStatus(ctx context.Context, planID int64, status string) (*BudgetPlan, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     service,
	}
}

func (h *Handler) planAndCategory(w http.ResponseWriter, r *http.Request) (int64, CategoryKey, bool) {
	planIDStr := chi.URLParam(r, "id")
	planID, err := strconv.ParseInt(planIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid plan ID", "id", planIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid plan ID")
		return 0, "", false
	}
	key := CategoryKey(chi.URLParam(r, "key"))
	return planID, key, true
}

// SubmitCategory handles the supervisor's full-category resubmission. The
// request body is the raw category array itself.
func (h *Handler) SubmitCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID, key, ok := h.planAndCategory(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.Logger.Error("SubmitCategory: failed to read body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.SubmitCategory(r.Context(), planID, key, json.RawMessage(body))
	if err != nil {
		h.Logger.Error("SubmitCategory: service error",
			"error", err, "plan_id", planID, "category", key, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SubmitCategory: category submitted",
		"plan_id", planID, "category", key, "user_id", user.ID)
	h.WriteJSON(w, http.StatusOK, NewCategoryResponse(planID, key, doc))
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := internal.UserFromContext(r.Context()); !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID, key, ok := h.planAndCategory(w, r)
	if !ok {
		return
	}

	doc, err := h.Service.GetCategory(r.Context(), planID, key)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewCategoryResponse(planID, key, doc))
}

// SetItemStatus handles the administrator's decision on one line item.
func (h *Handler) SetItemStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planID, key, ok := h.planAndCategory(w, r)
	if !ok {
		return
	}

	var dto SetItemStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SetItemStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.Service.SetItemStatus(r.Context(), planID, key, dto.Locator, ItemStatus(dto.Status))
	if err != nil {
		h.Logger.Error("SetItemStatus: service error",
			"error", err, "plan_id", planID, "category", key, "admin_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SetItemStatus: decision applied",
		"plan_id", planID, "category", key, "status", dto.Status, "admin_id", user.ID)
	h.WriteJSON(w, http.StatusOK, NewCategoryResponse(planID, key, doc))
}

func (h *Handler) UpdatePlanStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	planIDStr := chi.URLParam(r, "id")
	planID, err := strconv.ParseInt(planIDStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	var dto UpdatePlanStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.Service.UpdatePlanStatus(r.Context(), planID, dto.Status)
	if err != nil {
		h.Logger.Error("UpdatePlanStatus: service error",
			"error", err, "plan_id", planID, "admin_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, plan)
}
