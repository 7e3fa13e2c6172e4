package dashboard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

const (
	hotelZoom      = 14
	attractionZoom = 15
)

// escape matches encodeURIComponent closely enough for map queries.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func embedURL(query string, zoom int) string {
	return fmt.Sprintf("https://maps.google.com/maps?q=%s&t=&z=%d&ie=UTF8&iwloc=&output=embed", escape(query), zoom)
}

func HotelView(b types.Booking) types.MapView {
	q := b.HotelName + " " + b.Location
	return types.MapView{Query: q, Zoom: hotelZoom, EmbedURL: embedURL(q, hotelZoom)}
}

func AttractionView(b types.Booking, a types.Attraction) types.MapView {
	q := a.Name + " " + b.Location
	return types.MapView{
		Query:         q,
		Zoom:          attractionZoom,
		EmbedURL:      embedURL(q, attractionZoom),
		DirectionsURL: "https://www.google.com/maps/dir/?api=1&destination=" + escape(q),
	}
}
