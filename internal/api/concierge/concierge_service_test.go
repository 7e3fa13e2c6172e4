package concierge

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	generativeAI "github.com/FACorreiaa/go-hotel-concierge/internal/api/generative_ai"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

// MockTransport is a mock implementation of generativeAI.Transport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) SendText(ctx context.Context, prompt string, maxTokens int, opts ...generativeAI.RequestOption) (generativeAI.RawResponse, error) {
	args := m.Called(ctx, prompt, maxTokens, len(opts))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(generativeAI.RawResponse), args.Error(1)
}

func (m *MockTransport) SendImage(ctx context.Context, prompt string, maxTokens int) (generativeAI.RawResponse, error) {
	args := m.Called(ctx, prompt, maxTokens)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(generativeAI.RawResponse), args.Error(1)
}

func (m *MockTransport) SendChat(ctx context.Context, history []generativeAI.ChatMessage, systemInstruction, message string) (generativeAI.RawResponse, error) {
	args := m.Called(ctx, history, systemInstruction, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(generativeAI.RawResponse), args.Error(1)
}

type fakeCredentials bool

func (f fakeCredentials) Exists() bool { return bool(f) }

var testLimits = TokenLimits{Insight: 256, Caption: 64, Itinerary: 1024, Attractions: 1024, Image: 2048}

func setupService(configured bool) (*ServiceImpl, *MockTransport) {
	transport := new(MockTransport)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(transport, fakeCredentials(configured), testLimits, logger), transport
}

func textResponse(text string) generativeAI.RawResponse {
	return generativeAI.RawResponse(`{"candidates":[{"content":{"parts":[{"text":` + quote(text) + `}]}}]}`)
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

var imageResponse = generativeAI.RawResponse(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"QUJD"}}]}}]}`)

func TestService_NoCredential(t *testing.T) {
	service, transport := setupService(false)
	ctx := context.Background()
	booking := types.Booking{Location: "Tokyo, Japan", HotelName: "Conrad Tokyo"}

	assert.Equal(t, InsightNoCredential, service.Insight(ctx, "Shibuya Crossing", "Tokyo, Japan", types.TravelStyleSolo))
	assert.Equal(t, CaptionNoCredential, service.SouvenirCaption(ctx, "Tokyo, Japan", types.TravelStyleSolo))
	assert.Equal(t, ItineraryNoCredential, service.Itinerary(ctx, booking, types.TravelStyleSolo))
	assert.Equal(t, ChatNoCredential, service.Chat(ctx, "hi", nil, "Conrad Tokyo"))
	assert.Empty(t, service.DynamicAttractions(ctx, "Tokyo, Japan", types.TravelStyleSolo))

	_, ok := service.PostcardImage(ctx, "Conrad Tokyo", "Tokyo, Japan", types.TravelStyleSolo)
	assert.False(t, ok)
	_, ok = service.Avatar(ctx, types.TravelStyleSolo)
	assert.False(t, ok)
	_, ok = service.AttractionImage(ctx, "Park", "Yoyogi")
	assert.False(t, ok)

	transport.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	transport.AssertNotCalled(t, "SendImage", mock.Anything, mock.Anything, mock.Anything)
	transport.AssertNotCalled(t, "SendChat", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Insight(t *testing.T) {
	ctx := context.Background()

	t.Run("returns generated text", func(t *testing.T) {
		service, transport := setupService(true)
		transport.On("SendText", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "Yu Garden") && strings.Contains(p, "Luxury traveler")
		}), 256, 0).Return(textResponse("  Yu Garden dates to 1559. Visit at dawn.  "), nil).Once()

		got := service.Insight(ctx, "Yu Garden", "Shanghai, China", types.TravelStyleLuxury)
		assert.Equal(t, "Yu Garden dates to 1559. Visit at dawn.", got)
		transport.AssertExpectations(t)
	})

	t.Run("transport failure falls back", func(t *testing.T) {
		service, transport := setupService(true)
		transport.On("SendText", mock.Anything, mock.Anything, 256, 0).
			Return(nil, &generativeAI.TransportError{StatusCode: http.StatusInternalServerError, Body: "boom"}).Once()

		assert.Equal(t, InsightFailure, service.Insight(ctx, "Yu Garden", "Shanghai, China", types.TravelStyleLuxury))
	})

	t.Run("network failure falls back", func(t *testing.T) {
		service, transport := setupService(true)
		transport.On("SendText", mock.Anything, mock.Anything, 256, 0).
			Return(nil, generativeAI.ErrNetworkUnavailable).Once()

		assert.Equal(t, InsightFailure, service.Insight(ctx, "Yu Garden", "Shanghai, China", types.TravelStyleLuxury))
	})

	t.Run("empty response falls back", func(t *testing.T) {
		service, transport := setupService(true)
		transport.On("SendText", mock.Anything, mock.Anything, 256, 0).
			Return(generativeAI.RawResponse(`{"candidates":[]}`), nil).Once()

		assert.Equal(t, InsightEmpty, service.Insight(ctx, "Yu Garden", "Shanghai, China", types.TravelStyleLuxury))
	})
}

func TestService_SouvenirCaption(t *testing.T) {
	service, transport := setupService(true)
	transport.On("SendText", mock.Anything, mock.Anything, 64, 0).
		Return(textResponse(`"Where the ocean writes your story."`), nil).Once()

	got := service.SouvenirCaption(context.Background(), "Ithaafushi, Maldives", types.TravelStyleFamily)
	assert.Equal(t, "Where the ocean writes your story.", got)
}

func TestService_Images(t *testing.T) {
	ctx := context.Background()

	t.Run("attraction image returns data uri", func(t *testing.T) {
		service, transport := setupService(true)
		transport.On("SendImage", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "Arena") && strings.Contains(p, "Oriental Sports Center")
		}), 2048).Return(imageResponse, nil).Once()

		uri, ok := service.AttractionImage(ctx, "Arena", "Oriental Sports Center")
		require.True(t, ok)
		assert.Equal(t, "data:image/png;base64,QUJD", uri)
	})

	t.Run("text-only image response yields nothing", func(t *testing.T) {
		service, transport := setupService(true)
		transport.On("SendImage", mock.Anything, mock.Anything, 2048).Return(textResponse("no image"), nil).Once()

		_, ok := service.Avatar(ctx, types.TravelStyleBusiness)
		assert.False(t, ok)
	})

	t.Run("postcard failure yields nothing", func(t *testing.T) {
		service, transport := setupService(true)
		transport.On("SendImage", mock.Anything, mock.Anything, 2048).
			Return(nil, &generativeAI.TransportError{StatusCode: http.StatusForbidden}).Once()

		_, ok := service.PostcardImage(ctx, "Waldorf Astoria Maldives", "Ithaafushi, Maldives", types.TravelStyleLuxury)
		assert.False(t, ok)
	})
}

func TestService_DynamicAttractions(t *testing.T) {
	ctx := context.Background()

	t.Run("parses fenced json and assigns ids", func(t *testing.T) {
		service, transport := setupService(true)
		body := "```json\n" + `{"attractions":[
			{"name":"Golden Gai","type":"Bar Street","category":"Nearby","description":"Tiny bars.","icon":"local_bar"},
			{"name":"Senso-ji","type":"Temple","category":"Must-See","description":"Oldest temple."},
			{"name":"","type":"Cafe","category":"Nearby"},
			{"name":"Somewhere","type":"Cafe","category":"Elsewhere"}
		]}` + "\n```"
		transport.On("SendText", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "Tokyo, Japan")
		}), 1024, 1).Return(textResponse(body), nil).Once()

		got := service.DynamicAttractions(ctx, "Tokyo, Japan", types.TravelStyleSolo)
		require.Len(t, got, 2)
		assert.Equal(t, 9000, got[0].ID)
		assert.Equal(t, types.CategoryNearby, got[0].Category)
		assert.Equal(t, "local_bar", got[0].Icon)
		assert.Equal(t, 9001, got[1].ID)
		assert.Equal(t, types.CategoryMustSee, got[1].Category)
		assert.Equal(t, "place", got[1].Icon)
		assert.Empty(t, got[1].ImageURL)
	})

	t.Run("malformed json yields empty list", func(t *testing.T) {
		service, transport := setupService(true)
		transport.On("SendText", mock.Anything, mock.Anything, 1024, 1).
			Return(textResponse("Sorry, I can't help with that."), nil).Once()

		got := service.DynamicAttractions(ctx, "Tokyo, Japan", types.TravelStyleSolo)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestService_Itinerary(t *testing.T) {
	service, transport := setupService(true)
	booking := types.Booking{
		Location:     "London, UK",
		CheckInDate:  types.NewDate(2026, 3, 1),
		CheckOutDate: types.NewDate(2026, 3, 4),
	}
	transport.On("SendText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "2026-03-01 to 2026-03-04") && strings.Contains(p, "Business")
	}), 1024, 0).Return(textResponse("**Day 1** Theme: Royal London"), nil).Once()

	assert.Equal(t, "**Day 1** Theme: Royal London", service.Itinerary(context.Background(), booking, types.TravelStyleBusiness))
	transport.AssertExpectations(t)
}

func TestService_Chat(t *testing.T) {
	ctx := context.Background()
	transcript := []types.ChatTurn{
		{Speaker: types.SpeakerGuest, Text: "Is there a pool?"},
		{Speaker: types.SpeakerConcierge, Text: "Yes, on floor 5."},
	}

	t.Run("maps transcript roles", func(t *testing.T) {
		service, transport := setupService(true)
		wantHistory := []generativeAI.ChatMessage{
			{Role: generativeAI.RoleUser, Text: "Is there a pool?"},
			{Role: generativeAI.RoleModel, Text: "Yes, on floor 5."},
		}
		transport.On("SendChat", mock.Anything, wantHistory,
			"You are a helpful, sophisticated hotel concierge at Conrad Tokyo. Keep answers brief (under 50 words) and helpful.",
			"Opening hours?").Return(textResponse("7am to 10pm."), nil).Once()

		assert.Equal(t, "7am to 10pm.", service.Chat(ctx, "Opening hours?", transcript, "Conrad Tokyo"))
		transport.AssertExpectations(t)
	})

	t.Run("failure falls back", func(t *testing.T) {
		service, transport := setupService(true)
		transport.On("SendChat", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, generativeAI.ErrNetworkUnavailable).Once()

		assert.Equal(t, ChatFailure, service.Chat(ctx, "Opening hours?", transcript, "Conrad Tokyo"))
	})

	t.Run("empty reply falls back", func(t *testing.T) {
		service, transport := setupService(true)
		transport.On("SendChat", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(textResponse("   "), nil).Once()

		assert.Equal(t, ChatEmpty, service.Chat(ctx, "Opening hours?", transcript, "Conrad Tokyo"))
	})
}
