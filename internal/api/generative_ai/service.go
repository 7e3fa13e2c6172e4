package generativeAI

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

var _ Transport = (*GenAITransport)(nil)

// GenAITransport reaches the service through the Google GenAI SDK. Responses are
// re-encoded to JSON so the normalizer sees the same envelope as the REST path.
type GenAITransport struct {
	baseURL       string
	textModel     string
	imageModel    string
	chatMaxTokens int
	credentials   CredentialSource
	limiter       *rate.Limiter
	logger        *slog.Logger

	mu        sync.Mutex
	client    *genai.Client
	clientKey string
}

func NewGenAITransport(cfg TransportConfig, credentials CredentialSource, logger *slog.Logger) *GenAITransport {
	return &GenAITransport{
		baseURL:       sdkBaseURL(cfg.BaseURL),
		textModel:     normalizeModel(cfg.TextModel),
		imageModel:    normalizeModel(cfg.ImageModel),
		chatMaxTokens: cfg.ChatMaxTokens,
		credentials:   credentials,
		limiter:       newLimiter(cfg.RequestsPerSecond),
		logger:        logger.With(slog.String("component", "genai_transport")),
	}
}

// clientFor returns a client bound to the current credential, rebuilding it
// when the credential changed since the last call.
func (t *GenAITransport) clientFor(ctx context.Context) (*genai.Client, error) {
	key := t.credentials.Get()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil && t.clientKey == key {
		return t.client, nil
	}
	if key == "" {
		return nil, ErrNoCredential
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      key,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: t.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	t.client = client
	t.clientKey = key
	return client, nil
}

// sdkBaseURL reduces the REST endpoint base to the host root the SDK expects;
// the SDK appends the API version and model path itself.
func sdkBaseURL(base string) string {
	base = strings.TrimRight(base, "/")
	base = strings.TrimSuffix(base, "/models")
	hostStart := strings.Index(base, "://") + len("://")
	if i := strings.LastIndex(base, "/"); i >= hostStart && strings.HasPrefix(base[i+1:], "v1") {
		base = base[:i]
	}
	return base
}

func sdkConfig(s Sampling, maxTokens int) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(s.Temperature)),
		TopK:            genai.Ptr(float32(s.TopK)),
		TopP:            genai.Ptr(float32(s.TopP)),
		MaxOutputTokens: int32(maxTokens),
	}
}

func (t *GenAITransport) SendText(ctx context.Context, prompt string, maxTokens int, opts ...RequestOption) (RawResponse, error) {
	config := sdkConfig(TextSampling, maxTokens)
	if applyOptions(opts).jsonResponse {
		config.ResponseMIMEType = "application/json"
	}
	return t.generate(ctx, "SendText", t.textModel, genai.Text(prompt), config)
}

func (t *GenAITransport) SendImage(ctx context.Context, prompt string, maxTokens int) (RawResponse, error) {
	config := sdkConfig(ImageSampling, maxTokens)
	config.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	}
	return t.generate(ctx, "SendImage", t.imageModel, genai.Text(prompt), config)
}

func (t *GenAITransport) SendChat(ctx context.Context, history []ChatMessage, systemInstruction, message string) (RawResponse, error) {
	config := sdkConfig(ChatSampling, t.chatMaxTokens)
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}}
	}
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, &genai.Content{Role: turn.Role, Parts: []*genai.Part{{Text: turn.Text}}})
	}
	contents = append(contents, &genai.Content{Role: RoleUser, Parts: []*genai.Part{{Text: message}}})
	return t.generate(ctx, "SendChat", t.textModel, contents, config)
}

func (t *GenAITransport) generate(ctx context.Context, op, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (RawResponse, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, op, trace.WithAttributes(
		attribute.String("model", model),
		attribute.Int("contents.count", len(contents)),
	))
	defer span.End()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("waiting for generation rate limiter: %w", err)
		}
	}

	client, err := t.clientFor(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create client")
		return nil, err
	}

	result, err := client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &TransportError{StatusCode: apiErr.Code, Body: strings.TrimSpace(apiErr.Status + " " + apiErr.Message)}
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		span.RecordError(err)
		return nil, &MalformedContentError{Reason: "re-encoding SDK response", Err: err}
	}
	span.SetAttributes(attribute.Int("response.length", len(data)))
	span.SetStatus(codes.Ok, "Content generated successfully")
	return RawResponse(data), nil
}
