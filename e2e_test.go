package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/suite"

	"github.com/FACorreiaa/go-hotel-concierge/config"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/concierge"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/credentials"
	generativeAI "github.com/FACorreiaa/go-hotel-concierge/internal/api/generative_ai"
	"github.com/FACorreiaa/go-hotel-concierge/internal/container"
	"github.com/FACorreiaa/go-hotel-concierge/internal/router"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

const fakeImageData = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAAB"

// fakeGeneration answers generateContent calls and records the prompts it saw.
type fakeGeneration struct {
	mu      sync.Mutex
	prompts []string
	images  int
}

func (f *fakeGeneration) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req generativeAI.GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	last := req.Contents[len(req.Contents)-1]
	prompt := last.Parts[0].Text

	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	if strings.HasPrefix(r.URL.Path, "/image-model") {
		f.images++
	}
	f.mu.Unlock()

	if strings.HasPrefix(r.URL.Path, "/image-model") {
		writeCandidate(w, generativeAI.Part{InlineData: &generativeAI.InlineData{MimeType: "image/png", Data: fakeImageData}})
		return
	}

	switch {
	case strings.Contains(prompt, "hidden gems"):
		// Deliberately not JSON.
		writeCandidate(w, generativeAI.Part{Text: "Here are some places you might enjoy!"})
	case strings.Contains(prompt, "itinerary"):
		writeCandidate(w, generativeAI.Part{Text: "Day 1: Arrive and unwind."})
	case strings.Contains(prompt, "cultural fact"):
		writeCandidate(w, generativeAI.Part{Text: "Best seen at night."})
	case strings.Contains(prompt, "travel quote"):
		writeCandidate(w, generativeAI.Part{Text: `"Sun, sand and stillness."`})
	default:
		writeCandidate(w, generativeAI.Part{Text: "The spa opens at 9am."})
	}
}

func writeCandidate(w http.ResponseWriter, part generativeAI.Part) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{"content": generativeAI.Content{Role: "model", Parts: []generativeAI.Part{part}}},
		},
	})
}

func (f *fakeGeneration) count(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.prompts {
		if strings.Contains(p, substr) {
			n++
		}
	}
	return n
}

func (f *fakeGeneration) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeGeneration) imageCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.images
}

// E2ETestSuite drives the real router and services against a fake generation service.
type E2ETestSuite struct {
	suite.Suite
	generation  *fakeGeneration
	genServer   *httptest.Server
	server      *httptest.Server
	credentials *credentials.MemoryStore
	client      *http.Client
}

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{Mode: "test"}
	cfg.Generation.Backend = container.BackendREST
	cfg.Generation.BaseURL = baseURL
	cfg.Generation.TextModel = "text-model"
	cfg.Generation.ImageModel = "image-model"
	cfg.Generation.MaxTokens.Insight = 256
	cfg.Generation.MaxTokens.Caption = 64
	cfg.Generation.MaxTokens.Itinerary = 1024
	cfg.Generation.MaxTokens.Attractions = 1024
	cfg.Generation.MaxTokens.Chat = 256
	cfg.Generation.MaxTokens.Image = 2048
	cfg.Session.Secret = "e2e-secret"
	cfg.Session.TTL = time.Hour
	cfg.Directory.Backend = container.DirectoryStatic
	cfg.Credentials.AllowOverride = true
	return cfg
}

func (s *E2ETestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.generation = &fakeGeneration{}
	s.genServer = httptest.NewServer(s.generation)
	s.credentials = credentials.NewMemoryStore("test-key")

	c, err := container.NewContainer(context.Background(), testConfig(s.genServer.URL), logger,
		container.WithCredentialStore(s.credentials),
		container.WithClock(func() time.Time { return time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC) }))
	s.Require().NoError(err)

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Mount("/", router.SetupRouter(c.RouterConfig()))
	s.server = httptest.NewServer(r)
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *E2ETestSuite) TearDownTest() {
	s.server.Close()
	s.genServer.Close()
}

func (s *E2ETestSuite) request(method, path, token string, body interface{}, out interface{}) int {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *E2ETestSuite) startSession(orderID, name string) types.StartSessionResponse {
	var started types.StartSessionResponse
	code := s.request(http.MethodPost, "/api/v1/sessions", "", types.StartSessionRequest{
		OrderID: orderID, Name: name, TravelStyle: "luxury",
	}, &started)
	s.Require().Equal(http.StatusCreated, code)
	return started
}

func (s *E2ETestSuite) TestPing() {
	resp, err := s.client.Get(s.server.URL + "/ping")
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	s.Equal("pong", string(body))
}

func (s *E2ETestSuite) TestCuratedStayWorkflow() {
	var lookup types.BookingLookupResponse
	code := s.request(http.MethodPost, "/api/v1/bookings/lookup", "", types.BookingLookupRequest{OrderID: "1002", Name: "Mia"}, &lookup)
	s.Require().Equal(http.StatusOK, code)
	s.Equal("Waldorf Astoria Shanghai Qiantan", lookup.Booking.HotelName)
	s.Equal("Mia", lookup.Booking.FirstName)
	s.Equal(concierge.PresetAvatars, lookup.PresetAvatars)

	started := s.startSession("1002", "Mia")
	s.Equal(types.TripStatusDuringStay, started.Session.Status)
	s.Equal(types.ScreenDashboard, started.Screen)
	s.Equal(concierge.PresetAvatars[0], started.Session.Avatar)

	var snap types.DashboardSnapshot
	s.Require().Equal(http.StatusOK, s.request(http.MethodGet, "/api/v1/dashboard?wait=true", started.Token, nil, &snap))
	s.Equal(6, snap.AttractionCount)
	s.Equal("Day 1: Arrive and unwind.", snap.Itinerary)
	s.Len(snap.Nearby, 2)
	s.Len(snap.MustSee, 2)
	for _, v := range append(snap.Nearby, snap.MustSee...) {
		s.Equal("data:image/png;base64,"+fakeImageData, v.Image, v.Name)
	}
	s.Equal(0, s.generation.count("hidden gems"), "curated bookings never generate a list")
	s.Equal(4, s.generation.imageCalls())

	for i := 0; i < 2; i++ {
		var insight types.InsightResponse
		s.Require().Equal(http.StatusOK, s.request(http.MethodPost, "/api/v1/dashboard/attractions/4/select", started.Token, nil, &insight))
		s.Equal("Best seen at night.", insight.Insight)
		s.Equal(i == 1, insight.Cached)
		s.Equal(15, insight.Map.Zoom)
	}
	s.Equal(1, s.generation.count("cultural fact"))

	s.Require().Equal(http.StatusOK, s.request(http.MethodPost, "/api/v1/dashboard/deselect", started.Token, nil, &snap))
	s.Nil(snap.Selected)
	s.Equal(14, snap.Map.Zoom)

	s.Require().Equal(http.StatusOK, s.request(http.MethodPost, "/api/v1/dashboard/refresh", started.Token, nil, nil))
	s.Require().Equal(http.StatusOK, s.request(http.MethodPost, "/api/v1/dashboard/attractions/4/select", started.Token, nil, nil))
	s.Equal(2, s.generation.count("cultural fact"))
	s.Equal(4, s.generation.imageCalls(), "refresh keeps images")

	var chat types.ChatResponse
	s.Require().Equal(http.StatusOK, s.request(http.MethodPost, "/api/v1/chat", started.Token, types.ChatRequest{Message: "When does the spa open?"}, &chat))
	s.Equal("The spa opens at 9am.", chat.Reply)
	s.Len(chat.Transcript, 2)

	s.Equal(http.StatusConflict, s.request(http.MethodGet, "/api/v1/souvenir", started.Token, nil, nil))
}

func (s *E2ETestSuite) TestGeneratedAttractionsWorkflow() {
	started := s.startSession("1005", "Kenji")
	s.Equal(types.TripStatusUpcoming, started.Session.Status)

	var snap types.DashboardSnapshot
	s.Require().Equal(http.StatusOK, s.request(http.MethodGet, "/api/v1/dashboard?wait=true", started.Token, nil, &snap))
	s.Equal(1, s.generation.count("landmarks in Tokyo, Japan"), "list generated for the booking location")
	s.Equal(0, snap.AttractionCount, "unparsable list becomes empty")
	s.Empty(snap.Nearby)
	s.Empty(snap.MustSee)
	s.Equal(0, s.generation.imageCalls())
}

func (s *E2ETestSuite) TestCompletedTripWorkflow() {
	started := s.startSession("1003", "Jane")
	s.Equal(types.TripStatusCompleted, started.Session.Status)
	s.Equal(types.ScreenSouvenir, started.Screen)

	s.Equal(http.StatusConflict, s.request(http.MethodGet, "/api/v1/dashboard", started.Token, nil, nil))

	var souvenir types.Souvenir
	s.Require().Equal(http.StatusOK, s.request(http.MethodGet, "/api/v1/souvenir", started.Token, nil, &souvenir))
	s.Equal("Sun, sand and stillness.", souvenir.Caption)
	s.Equal("data:image/png;base64,"+fakeImageData, souvenir.PostcardImage)

	s.Require().Equal(http.StatusOK, s.request(http.MethodGet, "/api/v1/souvenir", started.Token, nil, &souvenir))
	s.Equal(1, s.generation.count("travel quote"))
}

func (s *E2ETestSuite) TestWithoutCredentialNothingIsSent() {
	started := s.startSession("1001", "John")

	s.Equal(http.StatusUnauthorized, s.request(http.MethodPut, "/api/v1/credentials", "", types.UpdateCredentialRequest{APIKey: ""}, nil))
	s.Equal("test-key", s.credentials.Get(), "anonymous callers cannot touch the credential")

	var status types.CredentialStatus
	s.Require().Equal(http.StatusOK, s.request(http.MethodPut, "/api/v1/credentials", started.Token, types.UpdateCredentialRequest{APIKey: ""}, &status))
	s.False(status.Configured)

	var avatar types.AvatarResponse
	s.Require().Equal(http.StatusOK, s.request(http.MethodPost, "/api/v1/avatars", "", types.AvatarRequest{TravelStyle: "Solo"}, &avatar))
	s.Nil(avatar.Avatar)

	var snap types.DashboardSnapshot
	s.Require().Equal(http.StatusOK, s.request(http.MethodGet, "/api/v1/dashboard?wait=true", started.Token, nil, &snap))
	s.Equal(concierge.ItineraryNoCredential, snap.Itinerary)

	var insight types.InsightResponse
	s.Require().Equal(http.StatusOK, s.request(http.MethodPost, "/api/v1/dashboard/attractions/101/select", started.Token, nil, &insight))
	s.Equal(concierge.InsightNoCredential, insight.Insight)

	var chat types.ChatResponse
	s.Require().Equal(http.StatusOK, s.request(http.MethodPost, "/api/v1/chat", started.Token, types.ChatRequest{Message: "Hello"}, &chat))
	s.Equal(concierge.ChatNoCredential, chat.Reply)

	s.Equal(0, s.generation.total())
}

func (s *E2ETestSuite) TestErrorHandling() {
	s.Equal(http.StatusNotFound, s.request(http.MethodPost, "/api/v1/bookings/lookup", "", types.BookingLookupRequest{OrderID: "9999", Name: "Ann"}, nil))
	s.Equal(http.StatusBadRequest, s.request(http.MethodPost, "/api/v1/bookings/lookup", "", types.BookingLookupRequest{OrderID: "1001", Name: "  "}, nil))
	s.Equal(http.StatusBadRequest, s.request(http.MethodPost, "/api/v1/sessions", "", types.StartSessionRequest{OrderID: "1001", Name: "Ann", TravelStyle: "Backpacker"}, nil))

	s.Equal(http.StatusUnauthorized, s.request(http.MethodGet, "/api/v1/dashboard", "", nil, nil))
	s.Equal(http.StatusUnauthorized, s.request(http.MethodGet, "/api/v1/session", "not-a-token", nil, nil))

	started := s.startSession("1001", "Ann")
	var session types.UserSession
	s.Require().Equal(http.StatusOK, s.request(http.MethodGet, "/api/v1/session", started.Token, nil, &session))
	s.Equal(started.Session.ID, session.ID)

	s.Equal(http.StatusNotFound, s.request(http.MethodPost, "/api/v1/dashboard/attractions/42/select", started.Token, nil, nil))
	s.Equal(http.StatusBadRequest, s.request(http.MethodPost, "/api/v1/chat", started.Token, types.ChatRequest{Message: ""}, nil))
}

func TestE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}
