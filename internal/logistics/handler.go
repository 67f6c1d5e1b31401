package logistics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petra-erp/petra-erp/internal/platform/httpx"
	"github.com/petra-erp/petra-erp/internal/shared"
)

// Handler manages scheduling HTTP endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers logistics routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/orders/{id}/routes", h.routesForOrder)
	r.Post("/orders/{id}/schedule", h.schedule)

	r.Post("/routes/{id}/start", h.routeAction((*Service).StartRoute))
	r.Post("/routes/{id}/arrive", h.routeAction((*Service).ArriveRoute))
	r.Post("/routes/{id}/cancel", h.routeAction((*Service).CancelRoute))
	r.Post("/routes/{id}/status", h.updateStatus)

	r.Get("/availability/vehicles", h.availableVehicles)
	r.Get("/availability/crew", h.availableCrew)
}

func (h *Handler) routesForOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid service order ID")
		return
	}

	routes, err := h.service.RoutesForOrder(r.Context(), orderID)
	if err != nil {
		h.logger.Error("list routes failed", "error", err, "service_order_id", orderID)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"routes": routes})
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid service order ID")
		return
	}

	var req ScheduleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	route, err := h.service.Schedule(r.Context(), orderID, req)
	if err != nil {
		h.respondSchedulingError(w, err, orderID)
		return
	}
	httpx.JSON(w, http.StatusOK, route)
}

// routeAction adapts the start/arrive/cancel service methods to handlers.
func (h *Handler) routeAction(action func(*Service, context.Context, int64) (DeliveryRoute, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid route ID")
			return
		}

		route, err := action(h.service, r.Context(), routeID)
		if err != nil {
			h.respondSchedulingError(w, err, routeID)
			return
		}
		httpx.JSON(w, http.StatusOK, route)
	}
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	routeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid route ID")
		return
	}

	var req UpdateRouteStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}

	route, err := h.service.UpdateRouteStatus(r.Context(), routeID, req.Status)
	if err != nil {
		h.respondSchedulingError(w, err, routeID)
		return
	}
	httpx.JSON(w, http.StatusOK, route)
}

func (h *Handler) availableVehicles(w http.ResponseWriter, r *http.Request) {
	q, err := parseAvailabilityQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	vehicles, err := h.service.AvailableVehicles(r.Context(), q)
	if err != nil {
		h.respondSchedulingError(w, err, 0)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

func (h *Handler) availableCrew(w http.ResponseWriter, r *http.Request) {
	q, err := parseAvailabilityQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	employees, err := h.service.AvailableCrew(r.Context(), q)
	if err != nil {
		h.respondSchedulingError(w, err, 0)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"employees": employees})
}

// parseAvailabilityQuery reads start/end/exclude_route query params. Both
// timestamps absent yields a zero window, which the resolver treats as
// "list the whole bookable pool".
func parseAvailabilityQuery(r *http.Request) (AvailabilityQuery, error) {
	var q AvailabilityQuery

	if raw := r.URL.Query().Get("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, errors.New("start must be an RFC3339 timestamp")
		}
		q.Window.Start = t
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, errors.New("end must be an RFC3339 timestamp")
		}
		q.Window.End = t
	}
	if raw := r.URL.Query().Get("exclude_route"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, errors.New("exclude_route must be an integer")
		}
		q.ExcludeRouteID = id
	}
	return q, nil
}

func (h *Handler) respondSchedulingError(w http.ResponseWriter, err error, id int64) {
	switch {
	case errors.Is(err, ErrInvalidWindow):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", err.Error())
	case errors.Is(err, ErrNoTeamAssigned):
		httpx.Problem(w, http.StatusBadRequest, "No Team Assigned", err.Error())
	case errors.Is(err, ErrVehicleUnavailable):
		httpx.Problem(w, http.StatusConflict, "Vehicle Unavailable", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		httpx.Problem(w, http.StatusConflict, "Invalid Transition", err.Error())
	case errors.Is(err, ErrRouteNotFound), errors.Is(err, ErrOrderNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrLocked):
		httpx.Problem(w, http.StatusConflict, "Order Locked", err.Error())
	default:
		h.logger.Error("scheduling operation failed", "error", err, "id", id)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
