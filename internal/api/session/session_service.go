package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-hotel-concierge/app/observability/metrics"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/booking"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/concierge"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

var (
	ErrNameRequired       = errors.New("please enter your name")
	ErrInvalidTravelStyle = errors.New("invalid travel style")
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	LookupBooking(ctx context.Context, orderID, name string) (types.Booking, error)
	GenerateAvatar(ctx context.Context, style types.TravelStyle) (string, bool)
	Start(ctx context.Context, req types.StartSessionRequest) (*types.UserSession, string, error)
	Get(id uuid.UUID) (*types.UserSession, bool)
	PresetAvatars() []string
}

// AvatarGenerator is the slice of the concierge generators login needs.
type AvatarGenerator interface {
	Avatar(ctx context.Context, style types.TravelStyle) (string, bool)
}

type ServiceImpl struct {
	directory booking.Directory
	avatars   AvatarGenerator
	store     *Store
	tokens    *TokenIssuer
	clock     booking.Clock
	logger    *slog.Logger
}

func NewServiceImpl(directory booking.Directory, avatars AvatarGenerator, store *Store, tokens *TokenIssuer, clock booking.Clock, logger *slog.Logger) *ServiceImpl {
	if clock == nil {
		clock = time.Now
	}
	return &ServiceImpl{
		directory: directory,
		avatars:   avatars,
		store:     store,
		tokens:    tokens,
		clock:     clock,
		logger:    logger.With(slog.String("component", "session")),
	}
}

// LookupBooking validates the order id and personalises the booking with the
// name the guest typed.
func (s *ServiceImpl) LookupBooking(ctx context.Context, orderID, name string) (types.Booking, error) {
	ctx, span := otel.Tracer("SessionService").Start(ctx, "LookupBooking", trace.WithAttributes(
		attribute.String("order.id", orderID),
	))
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		span.SetStatus(codes.Error, "Missing name")
		return types.Booking{}, ErrNameRequired
	}

	b, err := s.directory.ValidateUser(ctx, strings.TrimSpace(orderID), name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return types.Booking{}, err
	}
	b.FirstName = name
	span.SetStatus(codes.Ok, "Booking found")
	return b, nil
}

func (s *ServiceImpl) GenerateAvatar(ctx context.Context, style types.TravelStyle) (string, bool) {
	return s.avatars.Avatar(ctx, style)
}

func (s *ServiceImpl) Start(ctx context.Context, req types.StartSessionRequest) (*types.UserSession, string, error) {
	ctx, span := otel.Tracer("SessionService").Start(ctx, "Start", trace.WithAttributes(
		attribute.String("order.id", req.OrderID),
	))
	defer span.End()

	style, err := types.ParseTravelStyle(req.TravelStyle)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid travel style")
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidTravelStyle, err)
	}

	b, err := s.LookupBooking(ctx, req.OrderID, req.Name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return nil, "", err
	}

	avatar := strings.TrimSpace(req.Avatar)
	if avatar == "" {
		avatar = concierge.PresetAvatars[0]
	}

	now := s.clock()
	session := &types.UserSession{
		ID:          uuid.New(),
		Booking:     b,
		TravelStyle: style,
		Status:      booking.StatusOf(now, b),
		Avatar:      avatar,
		CreatedAt:   now,
	}

	token, err := s.tokens.Issue(session.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token issue failed")
		return nil, "", err
	}
	s.store.Put(session)

	metrics.Get().SessionsStartedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(session.Status))))
	s.logger.InfoContext(ctx, "Guest session started",
		slog.String("session_id", session.ID.String()),
		slog.String("order_id", b.OrderID),
		slog.String("status", string(session.Status)),
		slog.String("travel_style", string(style)))
	span.SetAttributes(attribute.String("session.id", session.ID.String()))
	span.SetStatus(codes.Ok, "Session started")
	return session, token, nil
}

func (s *ServiceImpl) Get(id uuid.UUID) (*types.UserSession, bool) {
	return s.store.Get(id)
}

func (s *ServiceImpl) PresetAvatars() []string {
	out := make([]string, len(concierge.PresetAvatars))
	copy(out, concierge.PresetAvatars)
	return out
}
