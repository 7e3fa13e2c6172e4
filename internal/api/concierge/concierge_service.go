package concierge

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-hotel-concierge/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-hotel-concierge/internal/api/generative_ai"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

// Generator names, used for spans, metrics and deduplication keys.
const (
	GeneratorInsight            = "insight"
	GeneratorCaption            = "souvenir_caption"
	GeneratorPostcard           = "postcard_image"
	GeneratorAvatar             = "avatar_image"
	GeneratorAttractionImage    = "attraction_image"
	GeneratorDynamicAttractions = "dynamic_attractions"
	GeneratorItinerary          = "itinerary"
	GeneratorChat               = "chat"
)

// dynamicIDBase offsets generated attraction ids away from the static directory ids.
const dynamicIDBase = 9000

const defaultAttractionIcon = "place"

var _ Service = (*ServiceImpl)(nil)

// Service is the set of content generators. None of them return errors:
// every failure is logged and replaced by the generator's fallback.
type Service interface {
	Insight(ctx context.Context, attractionName, location string, style types.TravelStyle) string
	SouvenirCaption(ctx context.Context, location string, style types.TravelStyle) string
	PostcardImage(ctx context.Context, hotelName, location string, style types.TravelStyle) (string, bool)
	Avatar(ctx context.Context, style types.TravelStyle) (string, bool)
	AttractionImage(ctx context.Context, attractionType, name string) (string, bool)
	DynamicAttractions(ctx context.Context, location string, style types.TravelStyle) []types.Attraction
	Itinerary(ctx context.Context, booking types.Booking, style types.TravelStyle) string
	Chat(ctx context.Context, message string, transcript []types.ChatTurn, hotelName string) string
}

// CredentialChecker reports whether a generation credential is configured.
type CredentialChecker interface {
	Exists() bool
}

// TokenLimits are the output ceilings per call type.
type TokenLimits struct {
	Insight     int
	Caption     int
	Itinerary   int
	Attractions int
	Image       int
}

type ServiceImpl struct {
	transport   generativeAI.Transport
	credentials CredentialChecker
	limits      TokenLimits
	logger      *slog.Logger
}

func NewServiceImpl(transport generativeAI.Transport, credentials CredentialChecker, limits TokenLimits, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		transport:   transport,
		credentials: credentials,
		limits:      limits,
		logger:      logger.With(slog.String("component", "concierge")),
	}
}

// invoke runs one generation call. It short-circuits with ErrNoCredential
// before touching the transport and records the outcome either way.
func (s *ServiceImpl) invoke(ctx context.Context, generator string, call func(ctx context.Context) (generativeAI.RawResponse, error), attrs ...attribute.KeyValue) (generativeAI.RawResponse, error) {
	ctx, span := otel.Tracer("Concierge").Start(ctx, generator, trace.WithAttributes(attrs...))
	defer span.End()

	m := metrics.Get()
	if !s.credentials.Exists() {
		span.SetAttributes(attribute.Bool("credential.configured", false))
		span.SetStatus(codes.Ok, "No credential configured")
		m.GenerationRequestsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("generator", generator), attribute.String("outcome", "skipped")))
		return nil, generativeAI.ErrNoCredential
	}

	start := time.Now()
	raw, err := call(ctx)
	m.GenerationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attribute.String("generator", generator)))

	outcome := "success"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
	} else {
		span.SetStatus(codes.Ok, "Generation completed")
	}
	m.GenerationRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("generator", generator), attribute.String("outcome", outcome)))
	return raw, err
}

// fallback logs the failure and counts the substitution.
func (s *ServiceImpl) fallback(ctx context.Context, generator string, err error) {
	reason := generativeAI.FailureReason(err)
	if reason == "" {
		reason = "empty"
	}
	metrics.Get().GenerationFallbacksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("generator", generator), attribute.String("reason", reason)))
	if errors.Is(err, generativeAI.ErrNoCredential) {
		s.logger.DebugContext(ctx, "Generation skipped, no credential configured", slog.String("generator", generator))
		return
	}
	s.logger.WarnContext(ctx, "Generation fell back to default",
		slog.String("generator", generator),
		slog.String("reason", reason),
		slog.Any("error", err))
}

// text resolves a text generation to either the model output or one of the
// generator's fallback strings.
func (s *ServiceImpl) text(ctx context.Context, generator string, fallbacks fallbackSet, raw generativeAI.RawResponse, err error) string {
	if err != nil {
		s.fallback(ctx, generator, err)
		if errors.Is(err, generativeAI.ErrNoCredential) {
			return fallbacks.noCredential
		}
		return fallbacks.failure
	}
	text := strings.TrimSpace(generativeAI.ExtractText(raw))
	if text == "" {
		s.fallback(ctx, generator, nil)
		return fallbacks.empty
	}
	return text
}

func (s *ServiceImpl) image(ctx context.Context, generator string, raw generativeAI.RawResponse, err error) (string, bool) {
	if err != nil {
		s.fallback(ctx, generator, err)
		return "", false
	}
	uri, ok := generativeAI.ExtractImageDataURI(raw)
	if !ok {
		s.fallback(ctx, generator, nil)
		return "", false
	}
	return uri, true
}

func (s *ServiceImpl) Insight(ctx context.Context, attractionName, location string, style types.TravelStyle) string {
	raw, err := s.invoke(ctx, GeneratorInsight, func(ctx context.Context) (generativeAI.RawResponse, error) {
		return s.transport.SendText(ctx, getInsightPrompt(attractionName, location, style), s.limits.Insight)
	}, attribute.String("attraction.name", attractionName), attribute.String("location", location))
	return s.text(ctx, GeneratorInsight, insightFallbacks, raw, err)
}

func (s *ServiceImpl) SouvenirCaption(ctx context.Context, location string, style types.TravelStyle) string {
	raw, err := s.invoke(ctx, GeneratorCaption, func(ctx context.Context) (generativeAI.RawResponse, error) {
		return s.transport.SendText(ctx, getCaptionPrompt(location, style), s.limits.Caption)
	}, attribute.String("location", location))
	caption := s.text(ctx, GeneratorCaption, captionFallbacks, raw, err)
	return trimQuotes(caption)
}

func (s *ServiceImpl) PostcardImage(ctx context.Context, hotelName, location string, style types.TravelStyle) (string, bool) {
	raw, err := s.invoke(ctx, GeneratorPostcard, func(ctx context.Context) (generativeAI.RawResponse, error) {
		return s.transport.SendImage(ctx, getPostcardPrompt(hotelName, location, style), s.limits.Image)
	}, attribute.String("hotel", hotelName))
	return s.image(ctx, GeneratorPostcard, raw, err)
}

func (s *ServiceImpl) Avatar(ctx context.Context, style types.TravelStyle) (string, bool) {
	raw, err := s.invoke(ctx, GeneratorAvatar, func(ctx context.Context) (generativeAI.RawResponse, error) {
		return s.transport.SendImage(ctx, getAvatarPrompt(style), s.limits.Image)
	}, attribute.String("travel_style", string(style)))
	return s.image(ctx, GeneratorAvatar, raw, err)
}

func (s *ServiceImpl) AttractionImage(ctx context.Context, attractionType, name string) (string, bool) {
	raw, err := s.invoke(ctx, GeneratorAttractionImage, func(ctx context.Context) (generativeAI.RawResponse, error) {
		return s.transport.SendImage(ctx, getAttractionImagePrompt(attractionType, name), s.limits.Image)
	}, attribute.String("attraction.name", name), attribute.String("attraction.type", attractionType))
	return s.image(ctx, GeneratorAttractionImage, raw, err)
}

type generatedAttraction struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type generatedAttractionList struct {
	Attractions []generatedAttraction `json:"attractions"`
}

func (s *ServiceImpl) DynamicAttractions(ctx context.Context, location string, style types.TravelStyle) []types.Attraction {
	raw, err := s.invoke(ctx, GeneratorDynamicAttractions, func(ctx context.Context) (generativeAI.RawResponse, error) {
		return s.transport.SendText(ctx, getDynamicAttractionsPrompt(location, style), s.limits.Attractions, generativeAI.WithJSONResponse())
	}, attribute.String("location", location))
	if err != nil {
		s.fallback(ctx, GeneratorDynamicAttractions, err)
		return []types.Attraction{}
	}

	var parsed generatedAttractionList
	if err := generativeAI.ExtractJSON(generativeAI.ExtractText(raw), &parsed); err != nil {
		s.fallback(ctx, GeneratorDynamicAttractions, err)
		return []types.Attraction{}
	}

	attractions := make([]types.Attraction, 0, len(parsed.Attractions))
	for i, item := range parsed.Attractions {
		name := strings.TrimSpace(item.Name)
		category, ok := types.ParseAttractionCategory(item.Category)
		if name == "" || !ok {
			s.logger.DebugContext(ctx, "Dropping generated attraction",
				slog.Int("index", i), slog.String("name", name), slog.String("category", item.Category))
			continue
		}
		icon := strings.TrimSpace(item.Icon)
		if icon == "" {
			icon = defaultAttractionIcon
		}
		attractions = append(attractions, types.Attraction{
			ID:          dynamicIDBase + i,
			Name:        name,
			Type:        strings.TrimSpace(item.Type),
			Category:    category,
			Icon:        icon,
			Description: strings.TrimSpace(item.Description),
		})
	}
	s.logger.InfoContext(ctx, "Generated attraction list",
		slog.String("location", location), slog.Int("count", len(attractions)))
	return attractions
}

func (s *ServiceImpl) Itinerary(ctx context.Context, booking types.Booking, style types.TravelStyle) string {
	raw, err := s.invoke(ctx, GeneratorItinerary, func(ctx context.Context) (generativeAI.RawResponse, error) {
		return s.transport.SendText(ctx, getItineraryPrompt(booking, style), s.limits.Itinerary)
	}, attribute.String("location", booking.Location))
	return s.text(ctx, GeneratorItinerary, itineraryFallbacks, raw, err)
}

func (s *ServiceImpl) Chat(ctx context.Context, message string, transcript []types.ChatTurn, hotelName string) string {
	history := make([]generativeAI.ChatMessage, 0, len(transcript))
	for _, turn := range transcript {
		role := generativeAI.RoleUser
		if turn.Speaker == types.SpeakerConcierge {
			role = generativeAI.RoleModel
		}
		history = append(history, generativeAI.ChatMessage{Role: role, Text: turn.Text})
	}

	raw, err := s.invoke(ctx, GeneratorChat, func(ctx context.Context) (generativeAI.RawResponse, error) {
		return s.transport.SendChat(ctx, history, getChatSystemInstruction(hotelName), message)
	}, attribute.Int("history.turns", len(history)))
	return s.text(ctx, GeneratorChat, chatFallbacks, raw, err)
}

func trimQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\"'“”‘’"))
}
