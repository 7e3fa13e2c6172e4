package appMiddleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-hotel-concierge/internal/api"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

type contextKey string

const sessionKey contextKey = "guestSession"

// Claims carry only the session id; everything else lives server side.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

type SessionLookup interface {
	Get(id uuid.UUID) (*types.UserSession, bool)
}

func WithSession(ctx context.Context, s *types.UserSession) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (*types.UserSession, bool) {
	s, ok := ctx.Value(sessionKey).(*types.UserSession)
	return s, ok && s != nil
}

// Authenticate resolves the bearer token to a live guest session and stores
// it in the request context.
func Authenticate(logger *slog.Logger, verifier TokenVerifier, sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := api.BearerToken(r)
			if err != nil {
				api.ErrorResponse(w, r, http.StatusUnauthorized, err.Error())
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(ctx, "Token validation failed", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			id, err := uuid.Parse(claims.SessionID)
			if err != nil {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid session id")
				return
			}

			session, ok := sessions.Get(id)
			if !ok {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Session expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
		})
	}
}
