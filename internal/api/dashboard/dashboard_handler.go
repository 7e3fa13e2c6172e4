package dashboard

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	appMiddleware "github.com/FACorreiaa/go-hotel-concierge/app/middleware"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

type Handler struct {
	registry *Registry
	logger   *slog.Logger
}

func NewHandler(registry *Registry, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

// coordinator resolves the caller's coordinator, rejecting sessions that are
// on a different screen.
func (h *Handler) coordinator(w http.ResponseWriter, r *http.Request, screens ...types.Screen) (*Coordinator, bool) {
	session, ok := appMiddleware.SessionFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Session required")
		return nil, false
	}
	if !slices.Contains(screens, session.Screen()) {
		api.ErrorResponse(w, r, http.StatusConflict, "This trip is shown on the "+string(session.Screen())+" screen")
		return nil, false
	}
	return h.registry.For(session), true
}

// GetDashboard godoc
// @Summary      Get dashboard state
// @Description  Starts the initial load on first call and returns the current snapshot. With wait=true the call blocks until loading has finished.
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        wait query bool false "Block until attractions, itinerary and images are loaded"
// @Success      200 {object} types.DashboardSnapshot
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      409 {object} types.Response "Trip is completed"
// @Router       /dashboard [get]
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "GetDashboard")
	defer span.End()

	c, ok := h.coordinator(w, r, types.ScreenDashboard)
	if !ok {
		return
	}
	c.Start(ctx)

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		if err := c.Wait(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Wait abandoned")
			return
		}
	}

	span.SetStatus(codes.Ok, "Snapshot served")
	api.WriteJSONResponse(w, r, http.StatusOK, c.Snapshot(ctx))
}

// SelectAttraction godoc
// @Summary      Select an attraction
// @Description  Centres the map on the attraction and returns its insight, generating it if not cached.
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attraction id"
// @Success      200 {object} types.InsightResponse
// @Failure      400 {object} types.Response "Invalid attraction id"
// @Failure      404 {object} types.Response "Attraction not found"
// @Failure      409 {object} types.Response "Trip is completed"
// @Router       /dashboard/attractions/{id}/select [post]
func (h *Handler) SelectAttraction(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "SelectAttraction")
	defer span.End()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid attraction id")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid attraction id")
		return
	}
	span.SetAttributes(attribute.Int("attraction.id", id))

	c, ok := h.coordinator(w, r, types.ScreenDashboard)
	if !ok {
		return
	}
	c.Start(ctx)

	resp, err := c.SelectAttraction(ctx, id)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrAttractionNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Attraction not found")
			return
		}
		h.logger.WarnContext(ctx, "Attraction selection abandoned", slog.Any("error", err))
		return
	}

	span.SetStatus(codes.Ok, "Attraction selected")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Deselect godoc
// @Summary      Return to hotel
// @Description  Clears the selection and centres the map on the hotel.
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} types.DashboardSnapshot
// @Failure      409 {object} types.Response "Trip is completed"
// @Router       /dashboard/deselect [post]
func (h *Handler) Deselect(w http.ResponseWriter, r *http.Request) {
	c, ok := h.coordinator(w, r, types.ScreenDashboard)
	if !ok {
		return
	}
	c.Deselect()
	api.WriteJSONResponse(w, r, http.StatusOK, c.Snapshot(r.Context()))
}

// Refresh godoc
// @Summary      Refresh generated content
// @Description  Clears cached insights and souvenirs. The attraction list and images are kept. Accepted on both the dashboard and souvenir screens.
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} types.Response
// @Failure      401 {object} types.Response "Unauthorized"
// @Router       /dashboard/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, ok := h.coordinator(w, r, types.ScreenDashboard, types.ScreenSouvenir)
	if !ok {
		return
	}
	c.Refresh(r.Context())
	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{Success: true, Message: "Generated content cleared"})
}

// GetChat godoc
// @Summary      Get chat transcript
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} types.ChatTurn
// @Failure      409 {object} types.Response "Trip is completed"
// @Router       /chat [get]
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	c, ok := h.coordinator(w, r, types.ScreenDashboard)
	if !ok {
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, c.Transcript())
}

// SendChat godoc
// @Summary      Ask the concierge
// @Description  Sends a message with the conversation so far and returns the reply and updated transcript.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.ChatRequest true "Guest message"
// @Success      200 {object} types.ChatResponse
// @Failure      400 {object} types.Response "Empty message"
// @Failure      409 {object} types.Response "Trip is completed"
// @Router       /chat [post]
func (h *Handler) SendChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "SendChat")
	defer span.End()

	c, ok := h.coordinator(w, r, types.ScreenDashboard)
	if !ok {
		return
	}

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := c.Chat(ctx, req.Message)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid chat message")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Chat reply sent")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GetSouvenir godoc
// @Summary      Get trip souvenir
// @Description  Returns the caption and postcard for a completed trip.
// @Tags         Souvenir
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} types.Souvenir
// @Failure      409 {object} types.Response "Trip is not completed"
// @Router       /souvenir [get]
func (h *Handler) GetSouvenir(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DashboardHandler").Start(r.Context(), "GetSouvenir")
	defer span.End()

	c, ok := h.coordinator(w, r, types.ScreenSouvenir)
	if !ok {
		return
	}

	s, err := c.Souvenir(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.WarnContext(ctx, "Souvenir wait abandoned", slog.Any("error", err))
		return
	}

	span.SetStatus(codes.Ok, "Souvenir served")
	api.WriteJSONResponse(w, r, http.StatusOK, s)
}
