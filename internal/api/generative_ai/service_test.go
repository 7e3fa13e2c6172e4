package generativeAI

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swappableCredential lets a test change the key between calls.
type swappableCredential struct {
	mu  sync.Mutex
	key string
}

func (s *swappableCredential) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

func (s *swappableCredential) set(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
}

func newSDKTransport(t *testing.T, source CredentialSource, handler http.HandlerFunc) *GenAITransport {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGenAITransport(TransportConfig{
		BaseURL:       server.URL + "/v1beta/models",
		TextModel:     "text-model",
		ImageModel:    "image-model",
		ChatMaxTokens: 128,
	}, source, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSDKBaseURL(t *testing.T) {
	assert.Equal(t, "https://generativelanguage.googleapis.com",
		sdkBaseURL("https://generativelanguage.googleapis.com/v1beta/models"))
	assert.Equal(t, "http://127.0.0.1:8080", sdkBaseURL("http://127.0.0.1:8080/v1beta/models/"))
	assert.Equal(t, "http://127.0.0.1:8080", sdkBaseURL("http://127.0.0.1:8080"))
	assert.Empty(t, sdkBaseURL(""))
}

func TestGenAITransport_SendText(t *testing.T) {
	var got GenerateContentRequest
	transport := newSDKTransport(t, staticCredential("secret-key"), func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "text-model:generateContent"), r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"ok"}]}}]}`))
	})

	raw, err := transport.SendText(context.Background(), "hello", 256, WithJSONResponse())
	require.NoError(t, err)
	assert.Equal(t, "ok", ExtractText(raw))

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "hello", got.Contents[0].Parts[0].Text)
	assert.Equal(t, 256, got.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
}

func TestGenAITransport_SendImage(t *testing.T) {
	transport := newSDKTransport(t, staticCredential("secret-key"), func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "image-model:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"QUJD"}}]}}]}`))
	})

	raw, err := transport.SendImage(context.Background(), "a pin", 2048)
	require.NoError(t, err)
	uri, ok := ExtractImageDataURI(raw)
	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,QUJD", uri)
}

func TestGenAITransport_Failures(t *testing.T) {
	t.Run("error status becomes a TransportError", func(t *testing.T) {
		transport := newSDKTransport(t, staticCredential("secret-key"), func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad prompt","status":"INVALID_ARGUMENT"}}`))
		})

		_, err := transport.SendText(context.Background(), "hello", 10)
		require.Error(t, err)
		var transportErr *TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, http.StatusBadRequest, transportErr.StatusCode)
		assert.Equal(t, "INVALID_ARGUMENT bad prompt", transportErr.Body)
		assert.Equal(t, "transport", FailureReason(err))
	})

	t.Run("unreachable service wraps ErrNetworkUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		transport := NewGenAITransport(TransportConfig{BaseURL: url, TextModel: "m"}, staticCredential("k"),
			slog.New(slog.NewTextHandler(io.Discard, nil)))
		_, err := transport.SendText(context.Background(), "hello", 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNetworkUnavailable)
		assert.Equal(t, "network", FailureReason(err))
	})

	t.Run("missing credential never reaches the service", func(t *testing.T) {
		transport := newSDKTransport(t, staticCredential(""), func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		})

		_, err := transport.SendText(context.Background(), "hello", 10)
		assert.ErrorIs(t, err, ErrNoCredential)
	})
}

func TestGenAITransport_RebuildsClientOnCredentialChange(t *testing.T) {
	source := &swappableCredential{key: "first-key"}
	var mu sync.Mutex
	var keys []string
	transport := newSDKTransport(t, source, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("x-goog-api-key"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})
	ctx := context.Background()

	_, err := transport.SendText(ctx, "one", 10)
	require.NoError(t, err)
	first := transport.client

	_, err = transport.SendText(ctx, "two", 10)
	require.NoError(t, err)
	assert.Same(t, first, transport.client, "unchanged credential reuses the client")

	source.set("second-key")
	_, err = transport.SendText(ctx, "three", 10)
	require.NoError(t, err)
	assert.NotSame(t, first, transport.client)
	assert.Equal(t, "second-key", transport.clientKey)

	assert.Equal(t, []string{"first-key", "first-key", "second-key"}, keys)
}
