package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-hotel-concierge/app/observability/metrics"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

// DBTX is the subset of pgxpool.Pool the directory needs.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Directory = (*PostgresDirectory)(nil)

type PostgresDirectory struct {
	db     DBTX
	logger *slog.Logger
}

func NewPostgresDirectory(db DBTX, logger *slog.Logger) *PostgresDirectory {
	return &PostgresDirectory{
		db:     db,
		logger: logger.With(slog.String("component", "booking_directory")),
	}
}

const selectBookingQuery = `
        SELECT id, order_id, guest_name, first_name, hotel_name, location,
               check_in_date, check_out_date, background_image
        FROM bookings
        WHERE order_id = $1`

const selectAttractionsQuery = `
        SELECT display_id, name, type, category, icon, description, COALESCE(image_url, '')
        FROM attractions
        WHERE booking_order_id = $1
        ORDER BY position, display_id`

func observeQuery(ctx context.Context, query string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("query", query))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func (r *PostgresDirectory) ValidateUser(ctx context.Context, orderID, _ string) (types.Booking, error) {
	ctx, span := otel.Tracer("BookingDirectory").Start(ctx, "ValidateUser", trace.WithAttributes(
		attribute.String("order.id", orderID),
	))
	defer span.End()

	var (
		id                uuid.UUID
		b                 types.Booking
		checkIn, checkOut time.Time
	)
	start := time.Now()
	err := r.db.QueryRow(ctx, selectBookingQuery, orderID).Scan(
		&id, &b.OrderID, &b.GuestName, &b.FirstName, &b.HotelName, &b.Location,
		&checkIn, &checkOut, &b.BackgroundImage,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		observeQuery(ctx, "select_booking", start, nil)
		span.SetStatus(codes.Ok, "Booking not found")
		return types.Booking{}, ErrBookingNotFound
	}
	observeQuery(ctx, "select_booking", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Booking query failed")
		return types.Booking{}, fmt.Errorf("failed to query booking %s: %w", orderID, err)
	}

	b.CheckInDate = types.DateOf(checkIn)
	b.CheckOutDate = types.DateOf(checkOut)
	span.SetAttributes(attribute.String("booking.id", id.String()))
	span.SetStatus(codes.Ok, "Booking found")
	return b, nil
}

func (r *PostgresDirectory) AttractionsFor(ctx context.Context, orderID string) ([]types.Attraction, bool, error) {
	ctx, span := otel.Tracer("BookingDirectory").Start(ctx, "AttractionsFor", trace.WithAttributes(
		attribute.String("order.id", orderID),
	))
	defer span.End()

	start := time.Now()
	rows, err := r.db.Query(ctx, selectAttractionsQuery, orderID)
	if err != nil {
		observeQuery(ctx, "select_attractions", start, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Attractions query failed")
		return nil, false, fmt.Errorf("failed to query attractions for %s: %w", orderID, err)
	}
	defer rows.Close()

	var attractions []types.Attraction
	for rows.Next() {
		var (
			a        types.Attraction
			category string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &category, &a.Icon, &a.Description, &a.ImageURL); err != nil {
			observeQuery(ctx, "select_attractions", start, err)
			span.RecordError(err)
			return nil, false, fmt.Errorf("failed to scan attraction: %w", err)
		}
		parsed, ok := types.ParseAttractionCategory(category)
		if !ok {
			r.logger.WarnContext(ctx, "Skipping attraction with unknown category",
				slog.String("order_id", orderID), slog.Int("id", a.ID), slog.String("category", category))
			continue
		}
		a.Category = parsed
		attractions = append(attractions, a)
	}
	err = rows.Err()
	observeQuery(ctx, "select_attractions", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Attractions iteration failed")
		return nil, false, fmt.Errorf("error iterating attractions: %w", err)
	}

	span.SetAttributes(attribute.Int("attractions.count", len(attractions)))
	span.SetStatus(codes.Ok, "Attractions loaded")
	if len(attractions) == 0 {
		return nil, false, nil
	}
	return attractions, true, nil
}
