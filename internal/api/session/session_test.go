package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/FACorreiaa/go-hotel-concierge/app/middleware"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/booking"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/concierge"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

// MockAvatarGenerator is a mock implementation of AvatarGenerator
type MockAvatarGenerator struct {
	mock.Mock
}

func (m *MockAvatarGenerator) Avatar(ctx context.Context, style types.TravelStyle) (string, bool) {
	args := m.Called(ctx, style)
	return args.String(0), args.Bool(1)
}

func testClock() time.Time {
	return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
}

func setupService(t *testing.T) (*ServiceImpl, *MockAvatarGenerator) {
	t.Helper()
	tokens, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	avatars := new(MockAvatarGenerator)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(booking.NewStaticDirectory(testClock), avatars, NewStore(time.Hour), tokens, testClock, logger), avatars
}

func TestService_LookupBooking(t *testing.T) {
	service, _ := setupService(t)
	ctx := context.Background()

	t.Run("name is personalised", func(t *testing.T) {
		b, err := service.LookupBooking(ctx, " 1002 ", "  Mei ")
		require.NoError(t, err)
		assert.Equal(t, "Mei", b.FirstName)
		assert.Equal(t, "Anderson", b.GuestName)
		assert.Equal(t, "Waldorf Astoria Shanghai Qiantan", b.HotelName)
	})

	t.Run("empty name is rejected before lookup", func(t *testing.T) {
		_, err := service.LookupBooking(ctx, "1002", "   ")
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := service.LookupBooking(ctx, "4242", "Mei")
		assert.ErrorIs(t, err, booking.ErrBookingNotFound)
	})
}

func TestService_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults avatar and derives status", func(t *testing.T) {
		service, _ := setupService(t)
		session, token, err := service.Start(ctx, types.StartSessionRequest{OrderID: "1002", Name: "Mei", TravelStyle: "luxury"})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, session.ID)
		assert.Equal(t, types.TravelStyleLuxury, session.TravelStyle)
		assert.Equal(t, types.TripStatusDuringStay, session.Status)
		assert.Equal(t, types.ScreenDashboard, session.Screen())
		assert.Equal(t, concierge.PresetAvatars[0], session.Avatar)

		stored, ok := service.Get(session.ID)
		require.True(t, ok)
		assert.Same(t, session, stored)

		claims, err := service.tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, session.ID.String(), claims.SessionID)
	})

	t.Run("completed trip lands on souvenir", func(t *testing.T) {
		service, _ := setupService(t)
		session, _, err := service.Start(ctx, types.StartSessionRequest{OrderID: "1003", Name: "Jane", TravelStyle: "Family", Avatar: "data:image/png;base64,QUJD"})
		require.NoError(t, err)
		assert.Equal(t, types.TripStatusCompleted, session.Status)
		assert.Equal(t, types.ScreenSouvenir, session.Screen())
		assert.Equal(t, "data:image/png;base64,QUJD", session.Avatar)
	})

	t.Run("invalid style", func(t *testing.T) {
		service, _ := setupService(t)
		_, _, err := service.Start(ctx, types.StartSessionRequest{OrderID: "1002", Name: "Mei", TravelStyle: "Backpacker"})
		assert.ErrorIs(t, err, ErrInvalidTravelStyle)
	})

	t.Run("each login creates a new session", func(t *testing.T) {
		service, _ := setupService(t)
		a, _, err := service.Start(ctx, types.StartSessionRequest{OrderID: "1001", Name: "John", TravelStyle: "Solo"})
		require.NoError(t, err)
		b, _, err := service.Start(ctx, types.StartSessionRequest{OrderID: "1001", Name: "John", TravelStyle: "Solo"})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestTokenIssuer(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-a", time.Minute)
	require.NoError(t, err)
	id := uuid.New()

	token, err := issuer.Issue(id)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.SessionID)

	other, _ := NewTokenIssuer("secret-b", time.Minute)
	_, err = other.Verify(token)
	assert.Error(t, err)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Verify(token)
	assert.Error(t, err)

	_, err = NewTokenIssuer("", time.Minute)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	service, avatars := setupService(t)
	h := NewHandler(service, slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("lookup", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.LookupBooking(w, httptest.NewRequest(http.MethodPost, "/bookings/lookup", strings.NewReader(`{"orderId":"1002","name":"Mei"}`)))
		require.Equal(t, http.StatusOK, w.Code)

		var resp types.BookingLookupResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Mei", resp.Booking.FirstName)
		assert.Len(t, resp.TravelStyles, 4)
		assert.Len(t, resp.PresetAvatars, 4)
	})

	t.Run("lookup errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.LookupBooking(w, httptest.NewRequest(http.MethodPost, "/bookings/lookup", strings.NewReader(`{"orderId":"1002","name":""}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = httptest.NewRecorder()
		h.LookupBooking(w, httptest.NewRequest(http.MethodPost, "/bookings/lookup", strings.NewReader(`{"orderId":"77","name":"Mei"}`)))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("avatar unavailable returns null", func(t *testing.T) {
		avatars.On("Avatar", mock.Anything, types.TravelStyleSolo).Return("", false).Once()
		w := httptest.NewRecorder()
		h.GenerateAvatar(w, httptest.NewRequest(http.MethodPost, "/avatars", strings.NewReader(`{"travelStyle":"Solo"}`)))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"avatar":null}`, w.Body.String())
	})

	t.Run("avatar generated", func(t *testing.T) {
		avatars.On("Avatar", mock.Anything, types.TravelStyleFamily).Return("data:image/png;base64,QUJD", true).Once()
		w := httptest.NewRecorder()
		h.GenerateAvatar(w, httptest.NewRequest(http.MethodPost, "/avatars", strings.NewReader(`{"travelStyle":"family"}`)))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"avatar":"data:image/png;base64,QUJD"}`, w.Body.String())
	})

	t.Run("start then authenticate", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.StartSession(w, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"orderId":"1002","name":"Mei","travelStyle":"Solo"}`)))
		require.Equal(t, http.StatusCreated, w.Code)

		var resp types.StartSessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, types.ScreenDashboard, resp.Screen)
		require.NotEmpty(t, resp.Token)

		protected := appMiddleware.Authenticate(slog.New(slog.NewTextHandler(io.Discard, nil)), service.tokens, service)(http.HandlerFunc(h.GetSession))

		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		w = httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), resp.Session.ID.String())

		req = httptest.NewRequest(http.MethodGet, "/session", nil)
		w = httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		req = httptest.NewRequest(http.MethodGet, "/session", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w = httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
