package session

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	appMiddleware "github.com/FACorreiaa/go-hotel-concierge/app/middleware"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/booking"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNameRequired):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidTravelStyle):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrBookingNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "We could not find a booking with this Order ID. Please check and try again.")
	default:
		h.logger.ErrorContext(r.Context(), "Booking lookup failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Booking lookup failed")
	}
}

// LookupBooking godoc
// @Summary      Find a booking
// @Description  Validates an order id and returns the booking personalised with the entered name, plus persona options.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        request body types.BookingLookupRequest true "Order id and name"
// @Success      200 {object} types.BookingLookupResponse
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      404 {object} types.Response "Booking Not Found"
// @Router       /bookings/lookup [post]
func (h *Handler) LookupBooking(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "LookupBooking")
	defer span.End()

	var req types.BookingLookupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.service.LookupBooking(ctx, req.OrderID, req.Name)
	if err != nil {
		span.RecordError(err)
		h.writeLookupError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.BookingLookupResponse{
		Booking:       b,
		TravelStyles:  types.TravelStyles,
		PresetAvatars: h.service.PresetAvatars(),
	})
}

// GenerateAvatar godoc
// @Summary      Generate an avatar
// @Description  Generates a persona avatar. avatar is null when generation is unavailable; the client keeps its preset.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        request body types.AvatarRequest true "Travel style"
// @Success      200 {object} types.AvatarResponse
// @Failure      400 {object} types.Response "Invalid Input"
// @Router       /avatars [post]
func (h *Handler) GenerateAvatar(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "GenerateAvatar")
	defer span.End()

	var req types.AvatarRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	style, err := types.ParseTravelStyle(req.TravelStyle)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var resp types.AvatarResponse
	if avatar, ok := h.service.GenerateAvatar(ctx, style); ok {
		resp.Avatar = &avatar
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// StartSession godoc
// @Summary      Start a guest session
// @Description  Creates the immutable guest session and returns a bearer token and the screen to render.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        request body types.StartSessionRequest true "Session parameters"
// @Success      201 {object} types.StartSessionResponse
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      404 {object} types.Response "Booking Not Found"
// @Router       /sessions [post]
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SessionHandler").Start(r.Context(), "StartSession")
	defer span.End()

	var req types.StartSessionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, token, err := h.service.Start(ctx, req)
	if err != nil {
		span.RecordError(err)
		h.writeLookupError(w, r, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, types.StartSessionResponse{
		Token:   token,
		Session: session,
		Screen:  session.Screen(),
	})
}

// GetSession godoc
// @Summary      Current session
// @Tags         Session
// @Produce      json
// @Success      200 {object} types.UserSession
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /session [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := appMiddleware.SessionFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, session)
}
