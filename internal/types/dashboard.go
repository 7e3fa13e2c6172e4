package types

import "github.com/google/uuid"

// MapView describes where the embedded map is centred.
type MapView struct {
	Query         string `json:"query"`
	Zoom          int    `json:"zoom"`
	EmbedURL      string `json:"embedUrl"`
	DirectionsURL string `json:"directionsUrl,omitempty"`
}

// AttractionView is an attraction together with its resolved image reference.
// An empty Image means the client shows its placeholder.
type AttractionView struct {
	Attraction
	Image string `json:"image,omitempty"`
}

type DashboardSnapshot struct {
	SessionID          uuid.UUID        `json:"sessionId"`
	City               string           `json:"city"`
	LoadingAttractions bool             `json:"loadingAttractions"`
	LoadingItinerary   bool             `json:"loadingItinerary"`
	AttractionCount    int              `json:"attractionCount"`
	Nearby             []AttractionView `json:"nearby"`
	MustSee            []AttractionView `json:"mustSee"`
	Itinerary          string           `json:"itinerary"`
	Selected           *AttractionView  `json:"selected,omitempty"`
	Insight            string           `json:"insight,omitempty"`
	LoadingInsight     bool             `json:"loadingInsight"`
	Map                MapView          `json:"map"`
	TranscriptLength   int              `json:"transcriptLength"`
}

type InsightResponse struct {
	Attraction AttractionView `json:"attraction"`
	Insight    string         `json:"insight"`
	Cached     bool           `json:"cached"`
	Map        MapView        `json:"map"`
}

type Souvenir struct {
	Caption       string `json:"caption"`
	PostcardImage string `json:"postcardImage,omitempty"`
}
