package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vvpcampus/helpdesk/internal/helpdesk/domain"
	"github.com/vvpcampus/helpdesk/internal/helpdesk/service"
	"github.com/vvpcampus/helpdesk/pkg/httpx"
)

type DevicesHandler struct {
	DeviceService *service.DeviceService
}

type deviceRequest struct {
	Name       string `json:"name"`
	DeviceType string `json:"device_type"`
	Location   string `json:"location"`
}

type deviceResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	DeviceType string    `json:"device_type"`
	Location   string    `json:"location"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toDeviceResponse(d domain.Device) deviceResponse {
	return deviceResponse{
		ID:         d.ID,
		Name:       d.Name,
		DeviceType: d.DeviceType.String(),
		Location:   d.Location,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (h *DevicesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Request body must be valid JSON.")
		return
	}

	d, err := h.DeviceService.Create(ctx, req.Name, req.DeviceType, req.Location)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toDeviceResponse(d))
}

func (h *DevicesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.DeviceService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDeviceResponse(d))
}

func (h *DevicesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Request body must be valid JSON.")
		return
	}

	d, err := h.DeviceService.Update(ctx, r.PathValue("id"), req.Name, req.DeviceType, req.Location)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDeviceResponse(d))
}

func (h *DevicesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.DeviceService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DevicesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	devices, err := h.DeviceService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := struct {
		Devices []deviceResponse `json:"devices"`
	}{Devices: make([]deviceResponse, len(devices))}
	for n, d := range devices {
		resp.Devices[n] = toDeviceResponse(d)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleListTypes lists the valid device categories so clients can render
// the complaint form without hardcoding them.
func (h *DevicesHandler) HandleListTypes(w http.ResponseWriter, r *http.Request) {
	types := domain.DeviceTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	httpx.WriteJSON(w, http.StatusOK, struct {
		DeviceTypes []string `json:"device_types"`
	}{DeviceTypes: out})
}
