package generativeAI

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// maxResponseBytes bounds a single response body; inline images dominate the size.
const maxResponseBytes = 32 << 20

// CredentialSource yields the current credential on every call, so a runtime
// update is picked up without rebuilding the transport.
type CredentialSource interface {
	Get() string
}

// Transport performs exactly one request against the generation service per call.
// It does not check for a missing credential; callers own that contract.
type Transport interface {
	SendText(ctx context.Context, prompt string, maxTokens int, opts ...RequestOption) (RawResponse, error)
	SendImage(ctx context.Context, prompt string, maxTokens int) (RawResponse, error)
	SendChat(ctx context.Context, history []ChatMessage, systemInstruction, message string) (RawResponse, error)
}

// TransportConfig is shared by both transport backends.
type TransportConfig struct {
	BaseURL           string
	TextModel         string
	ImageModel        string
	ChatMaxTokens     int
	Timeout           time.Duration
	RequestsPerSecond float64
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func normalizeModel(model string) string {
	return strings.TrimPrefix(strings.TrimSpace(model), "models/")
}

var _ Transport = (*HTTPTransport)(nil)

// HTTPTransport speaks the generateContent REST protocol directly.
type HTTPTransport struct {
	baseURL       string
	textModel     string
	imageModel    string
	chatMaxTokens int
	credentials   CredentialSource
	httpClient    *http.Client
	limiter       *rate.Limiter
	logger        *slog.Logger
}

func NewHTTPTransport(cfg TransportConfig, credentials CredentialSource, logger *slog.Logger) *HTTPTransport {
	return &HTTPTransport{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		textModel:     normalizeModel(cfg.TextModel),
		imageModel:    normalizeModel(cfg.ImageModel),
		chatMaxTokens: cfg.ChatMaxTokens,
		credentials:   credentials,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: newLimiter(cfg.RequestsPerSecond),
		logger:  logger.With(slog.String("component", "generation_transport")),
	}
}

func (t *HTTPTransport) SendText(ctx context.Context, prompt string, maxTokens int, opts ...RequestOption) (RawResponse, error) {
	return t.post(ctx, "SendText", t.textModel, buildTextRequest(prompt, maxTokens, applyOptions(opts)))
}

func (t *HTTPTransport) SendImage(ctx context.Context, prompt string, maxTokens int) (RawResponse, error) {
	return t.post(ctx, "SendImage", t.imageModel, buildImageRequest(prompt, maxTokens))
}

func (t *HTTPTransport) SendChat(ctx context.Context, history []ChatMessage, systemInstruction, message string) (RawResponse, error) {
	return t.post(ctx, "SendChat", t.textModel, buildChatRequest(history, systemInstruction, message, t.chatMaxTokens))
}

func (t *HTTPTransport) endpoint(model string) string {
	return fmt.Sprintf("%s/%s:generateContent", t.baseURL, model)
}

func (t *HTTPTransport) post(ctx context.Context, op, model string, body GenerateContentRequest) (RawResponse, error) {
	ctx, span := otel.Tracer("GenerationTransport").Start(ctx, op, trace.WithAttributes(
		attribute.String("model", model),
		attribute.Int("contents.count", len(body.Contents)),
	))
	defer span.End()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Rate limiter wait aborted")
			return nil, fmt.Errorf("waiting for generation rate limiter: %w", err)
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint(model), bytes.NewReader(payload))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.credentials.Get())

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation service unreachable")
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to read generation response")
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetworkUnavailable, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode), attribute.Int("response.length", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &TransportError{StatusCode: resp.StatusCode, Body: string(data)}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation service returned non-success status")
		return nil, err
	}

	t.logger.DebugContext(ctx, "Generation call completed",
		slog.String("op", op),
		slog.String("model", model),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)))
	span.SetStatus(codes.Ok, "Generation call completed")
	return RawResponse(data), nil
}
