package device

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/yudapramata/rab-management/internal"
	"github.com/yudapramata/rab-management/internal/transport"
)

type ServiceAPI interface {
	Register(ctx context.Context, userID int64, token string, meta Metadata) (*DeviceRegistration, error)
	DeactivateAll(ctx context.Context, userID int64) error
}

type RegisterDeviceDTO struct {
	Token       string `json:"token"`
	Platform    string `json:"platform"`
	DeviceModel string `json:"device_model"`
	AppVersion  string `json:"app_version"`
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

func (h *Handler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RegisterDeviceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RegisterDevice: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	meta := Metadata{
		Platform:    dto.Platform,
		DeviceModel: dto.DeviceModel,
		AppVersion:  dto.AppVersion,
	}
	reg, err := h.Service.Register(r.Context(), user.ID, dto.Token, meta)
	if err != nil {
		h.Logger.Error("RegisterDevice: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) DeactivateDevices(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.DeactivateAll(r.Context(), user.ID); err != nil {
		h.Logger.Error("DeactivateDevices: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
