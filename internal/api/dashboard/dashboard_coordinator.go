package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-hotel-concierge/internal/api/booking"
	"github.com/FACorreiaa/go-hotel-concierge/internal/api/concierge"
	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

var (
	ErrAttractionNotFound = errors.New("attraction not found")
	ErrEmptyMessage       = errors.New("message is required")
)

// displayPerCategory is how many attractions of each category the dashboard shows.
const displayPerCategory = 2

const souvenirKey = "souvenir"

// Coordinator owns the generated content of one guest session: the attraction
// list, itinerary, image and insight caches, selection, chat transcript and
// souvenir. All methods are safe for concurrent use.
type Coordinator struct {
	session         *types.UserSession
	directory       booking.Directory
	generators      concierge.Service
	maxHistoryTurns int
	logger          *slog.Logger

	insights  *ContentCache[string]
	images    *ContentCache[string]
	souvenirs *ContentCache[types.Souvenir]
	flights   singleflight.Group

	startOnce sync.Once
	listReady chan struct{}
	loaded    chan struct{}

	mu                 sync.RWMutex
	attractions        []types.Attraction
	loadingAttractions bool
	itinerary          string
	loadingItinerary   bool
	selected           *types.Attraction
	insight            string
	loadingInsight     bool
	mapView            types.MapView
	transcript         []types.ChatTurn

	// chatMu serialises turns so each one sees the previous reply.
	chatMu sync.Mutex
}

func NewCoordinator(session *types.UserSession, directory booking.Directory, generators concierge.Service, maxHistoryTurns int, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		session:         session,
		directory:       directory,
		generators:      generators,
		maxHistoryTurns: maxHistoryTurns,
		logger: logger.With(
			slog.String("component", "dashboard"),
			slog.String("session_id", session.ID.String())),
		insights:  NewContentCache[string]("insight"),
		images:    NewContentCache[string]("attraction_image"),
		souvenirs: NewContentCache[types.Souvenir]("souvenir"),
		listReady: make(chan struct{}),
		loaded:    make(chan struct{}),
		mapView:   HotelView(session.Booking),
	}
}

// Start kicks off the initial load once. The work is detached from ctx so a
// client that goes away does not abandon it.
func (c *Coordinator) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		c.mu.Lock()
		c.loadingAttractions = true
		c.loadingItinerary = true
		c.mu.Unlock()

		bg := context.WithoutCancel(ctx)
		go func() {
			defer close(c.loaded)
			c.load(bg)
		}()
	})
}

// Wait blocks until the initial load, including image fan-out, has finished.
func (c *Coordinator) Wait(ctx context.Context) error {
	select {
	case <-c.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) waitForList(ctx context.Context) error {
	select {
	case <-c.listReady:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) load(ctx context.Context) {
	ctx, span := otel.Tracer("Dashboard").Start(ctx, "Load", trace.WithAttributes(
		attribute.String("booking.order_id", c.session.Booking.OrderID)))
	defer span.End()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.loadAttractions(ctx)
		c.FetchImages(ctx)
	}()
	go func() {
		defer wg.Done()
		c.loadItinerary(ctx)
	}()
	wg.Wait()
	span.SetStatus(codes.Ok, "Dashboard loaded")
}

func (c *Coordinator) loadAttractions(ctx context.Context) {
	b := c.session.Booking
	list, ok, err := c.directory.AttractionsFor(ctx, b.OrderID)
	if err != nil {
		c.logger.WarnContext(ctx, "Attraction lookup failed, generating instead", slog.Any("error", err))
	}
	if !ok {
		list = c.generators.DynamicAttractions(ctx, b.Location, c.session.TravelStyle)
	}
	if list == nil {
		list = []types.Attraction{}
	}

	c.mu.Lock()
	c.attractions = list
	c.loadingAttractions = false
	c.mu.Unlock()
	close(c.listReady)

	c.logger.InfoContext(ctx, "Attractions loaded", slog.Int("count", len(list)), slog.Bool("static", ok))
}

func (c *Coordinator) loadItinerary(ctx context.Context) {
	text := c.generators.Itinerary(ctx, c.session.Booking, c.session.TravelStyle)

	c.mu.Lock()
	c.itinerary = text
	c.loadingItinerary = false
	c.mu.Unlock()
}

// DisplaySubset picks the first Nearby and Must-See attractions in list order.
func DisplaySubset(list []types.Attraction) (nearby, mustSee []types.Attraction) {
	nearby = []types.Attraction{}
	mustSee = []types.Attraction{}
	for _, a := range list {
		switch {
		case a.Category == types.CategoryNearby && len(nearby) < displayPerCategory:
			nearby = append(nearby, a)
		case a.Category == types.CategoryMustSee && len(mustSee) < displayPerCategory:
			mustSee = append(mustSee, a)
		}
	}
	return nearby, mustSee
}

// FetchImages generates icons for every displayed attraction that has neither
// a curated image nor a cached one. Each result is cached as soon as it lands;
// failures leave the attraction without an image.
func (c *Coordinator) FetchImages(ctx context.Context) {
	c.mu.RLock()
	nearby, mustSee := DisplaySubset(c.attractions)
	c.mu.RUnlock()

	var g errgroup.Group
	for _, a := range append(nearby, mustSee...) {
		if a.ImageURL != "" {
			continue
		}
		if _, ok := c.images.Get(ctx, imageKey(a.ID)); ok {
			continue
		}
		g.Go(func() error {
			c.attractionImage(ctx, a)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Coordinator) attractionImage(ctx context.Context, a types.Attraction) (string, bool) {
	key := imageKey(a.ID)
	epoch := c.images.Epoch()
	v, err := c.shared(ctx, concierge.GeneratorAttractionImage, key, epoch, func() interface{} {
		img, ok := c.generators.AttractionImage(ctx, a.Type, a.Name)
		if !ok {
			return ""
		}
		c.images.Put(key, img, epoch)
		return img
	})
	if err != nil {
		return "", false
	}
	img := v.(string)
	return img, img != ""
}

// shared runs fn once per (generator, key, epoch) no matter how many callers
// ask concurrently. A caller whose ctx ends stops waiting; fn keeps running.
func (c *Coordinator) shared(ctx context.Context, generator, key string, epoch uint64, fn func() interface{}) (interface{}, error) {
	ch := c.flights.DoChan(fmt.Sprintf("%s|%s|%d", generator, key, epoch), func() (interface{}, error) {
		return fn(), nil
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func imageKey(id int) string {
	return strconv.Itoa(id)
}

func insightKey(location, name string) string {
	return location + "\x00" + strings.ToLower(strings.TrimSpace(name))
}

func (c *Coordinator) find(id int) (types.Attraction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.attractions {
		if a.ID == id {
			return a, true
		}
	}
	return types.Attraction{}, false
}

func (c *Coordinator) view(ctx context.Context, a types.Attraction) types.AttractionView {
	v := types.AttractionView{Attraction: a, Image: a.ImageURL}
	if v.Image == "" {
		if img, ok := c.images.Get(ctx, imageKey(a.ID)); ok {
			v.Image = img
		}
	}
	return v
}

// SelectAttraction centres the map on the attraction and returns its insight,
// generating it on a cache miss.
func (c *Coordinator) SelectAttraction(ctx context.Context, id int) (types.InsightResponse, error) {
	ctx, span := otel.Tracer("Dashboard").Start(ctx, "SelectAttraction", trace.WithAttributes(
		attribute.Int("attraction.id", id)))
	defer span.End()

	if err := c.waitForList(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Attraction list not ready")
		return types.InsightResponse{}, err
	}
	a, ok := c.find(id)
	if !ok {
		span.SetStatus(codes.Error, "Attraction not found")
		return types.InsightResponse{}, ErrAttractionNotFound
	}

	b := c.session.Booking
	mapView := AttractionView(b, a)
	key := insightKey(b.Location, a.Name)

	if text, hit := c.insights.Get(ctx, key); hit {
		c.setSelection(a, mapView, text, false)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "Insight served from cache")
		return types.InsightResponse{Attraction: c.view(ctx, a), Insight: text, Cached: true, Map: mapView}, nil
	}

	c.setSelection(a, mapView, "", true)
	epoch := c.insights.Epoch()
	bg := context.WithoutCancel(ctx)
	v, err := c.shared(ctx, concierge.GeneratorInsight, key, epoch, func() interface{} {
		text := c.generators.Insight(bg, a.Name, b.Location, c.session.TravelStyle)
		if !c.insights.Put(key, text, epoch) {
			c.logger.DebugContext(bg, "Discarded insight from before refresh", slog.String("attraction", a.Name))
		}
		c.settleInsight(a.ID, text)
		return text
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insight wait abandoned")
		return types.InsightResponse{}, err
	}
	text := v.(string)

	span.SetAttributes(attribute.Bool("cache.hit", false))
	span.SetStatus(codes.Ok, "Insight generated")
	return types.InsightResponse{Attraction: c.view(ctx, a), Insight: text, Map: mapView}, nil
}

func (c *Coordinator) setSelection(a types.Attraction, mapView types.MapView, insight string, loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &a
	c.insight = insight
	c.loadingInsight = loading
	c.mapView = mapView
}

// settleInsight shows text if the attraction is still the selected one. It runs
// inside the shared generation so the view settles even when nobody waits.
func (c *Coordinator) settleInsight(id int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected != nil && c.selected.ID == id {
		c.insight = text
		c.loadingInsight = false
	}
}

// Deselect returns the map to the hotel. Cached content is kept.
func (c *Coordinator) Deselect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	c.insight = ""
	c.loadingInsight = false
	c.mapView = HotelView(c.session.Booking)
}

// Refresh forgets generated insights and souvenirs. The attraction list and
// images stay as they are.
func (c *Coordinator) Refresh(ctx context.Context) {
	epoch := c.insights.Clear()
	c.souvenirs.Clear()
	c.logger.InfoContext(ctx, "Generated content cleared", slog.Uint64("epoch", epoch))
}

// Chat sends the message with the prior conversation and records both turns.
// The whole transcript is resubmitted unless maxHistoryTurns is set.
func (c *Coordinator) Chat(ctx context.Context, message string) (types.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return types.ChatResponse{}, ErrEmptyMessage
	}

	c.chatMu.Lock()
	defer c.chatMu.Unlock()

	c.mu.Lock()
	history := c.transcript
	if c.maxHistoryTurns > 0 {
		// Keep whole exchanges so the history still opens with a guest turn.
		limit := c.maxHistoryTurns - c.maxHistoryTurns%2
		if len(history) > limit {
			history = history[len(history)-limit:]
		}
	}
	history = append([]types.ChatTurn(nil), history...)
	c.transcript = append(c.transcript, types.ChatTurn{Speaker: types.SpeakerGuest, Text: message})
	c.mu.Unlock()

	reply := c.generators.Chat(context.WithoutCancel(ctx), message, history, c.session.Booking.HotelName)

	c.mu.Lock()
	c.transcript = append(c.transcript, types.ChatTurn{Speaker: types.SpeakerConcierge, Text: reply})
	c.mu.Unlock()

	return types.ChatResponse{Reply: reply, Transcript: c.Transcript()}, nil
}

func (c *Coordinator) Transcript() []types.ChatTurn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.ChatTurn, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Souvenir fetches the caption and postcard together, once per refresh epoch.
func (c *Coordinator) Souvenir(ctx context.Context) (types.Souvenir, error) {
	if s, ok := c.souvenirs.Get(ctx, souvenirKey); ok {
		return s, nil
	}

	b := c.session.Booking
	style := c.session.TravelStyle
	epoch := c.souvenirs.Epoch()
	bg := context.WithoutCancel(ctx)
	v, err := c.shared(ctx, souvenirKey, souvenirKey, epoch, func() interface{} {
		var s types.Souvenir
		var g errgroup.Group
		g.Go(func() error {
			s.Caption = c.generators.SouvenirCaption(bg, b.Location, style)
			return nil
		})
		g.Go(func() error {
			if img, ok := c.generators.PostcardImage(bg, b.HotelName, b.Location, style); ok {
				s.PostcardImage = img
			}
			return nil
		})
		_ = g.Wait()
		c.souvenirs.Put(souvenirKey, s, epoch)
		return s
	})
	if err != nil {
		return types.Souvenir{}, err
	}
	return v.(types.Souvenir), nil
}

// Snapshot returns a consistent copy of what the dashboard should render.
func (c *Coordinator) Snapshot(ctx context.Context) types.DashboardSnapshot {
	c.mu.RLock()
	attractions := c.attractions
	snap := types.DashboardSnapshot{
		SessionID:          c.session.ID,
		City:               c.session.Booking.City(),
		LoadingAttractions: c.loadingAttractions,
		LoadingItinerary:   c.loadingItinerary,
		AttractionCount:    len(c.attractions),
		Itinerary:          c.itinerary,
		Insight:            c.insight,
		LoadingInsight:     c.loadingInsight,
		Map:                c.mapView,
		TranscriptLength:   len(c.transcript),
	}
	var selected *types.Attraction
	if c.selected != nil {
		s := *c.selected
		selected = &s
	}
	c.mu.RUnlock()

	nearby, mustSee := DisplaySubset(attractions)
	snap.Nearby = make([]types.AttractionView, 0, len(nearby))
	for _, a := range nearby {
		snap.Nearby = append(snap.Nearby, c.view(ctx, a))
	}
	snap.MustSee = make([]types.AttractionView, 0, len(mustSee))
	for _, a := range mustSee {
		snap.MustSee = append(snap.MustSee, c.view(ctx, a))
	}
	if selected != nil {
		v := c.view(ctx, *selected)
		snap.Selected = &v
	}
	return snap
}
