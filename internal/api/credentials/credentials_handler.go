package credentials

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-hotel-concierge/internal/api"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

type Handler struct {
	store  Store
	logger *slog.Logger
}

func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// GetStatus godoc
// @Summary      Credential status
// @Description  Reports whether a generation credential is configured. The value itself is never returned.
// @Tags         Credentials
// @Produce      json
// @Success      200 {object} types.CredentialStatus
// @Router       /credentials [get]
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, types.CredentialStatus{Configured: h.store.Exists()})
}

// Update godoc
// @Summary      Set or clear the generation credential
// @Description  Persists a runtime override. An empty apiKey clears the stored credential. Only routed when credentials.allowOverride is set.
// @Tags         Credentials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.UpdateCredentialRequest true "Credential"
// @Success      200 {object} types.CredentialStatus
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /credentials [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CredentialsHandler").Start(r.Context(), "Update")
	defer span.End()
	l := h.logger.With(slog.String("handler", "Update"))

	var req types.UpdateCredentialRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Set(req.APIKey); err != nil {
		l.ErrorContext(ctx, "Failed to store credential", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Store failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to store credential")
		return
	}

	configured := h.store.Exists()
	span.SetAttributes(attribute.Bool("credential.configured", configured))
	span.SetStatus(codes.Ok, "Credential updated")
	api.WriteJSONResponse(w, r, http.StatusOK, types.CredentialStatus{Configured: configured})
}
