package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date; time-of-day and zone are dropped on construction.
type Date struct {
	time.Time
}

// DateOf returns the calendar date of t as observed in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days away.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	parsed, err := ParseDate(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type TravelStyle string

const (
	TravelStyleBusiness TravelStyle = "Business"
	TravelStyleFamily   TravelStyle = "Family"
	TravelStyleSolo     TravelStyle = "Solo"
	TravelStyleLuxury   TravelStyle = "Luxury"
)

// TravelStyles lists the closed set of personas in display order.
var TravelStyles = []TravelStyle{TravelStyleBusiness, TravelStyleFamily, TravelStyleSolo, TravelStyleLuxury}

// ParseTravelStyle matches case-insensitively against the known personas.
func ParseTravelStyle(s string) (TravelStyle, error) {
	for _, style := range TravelStyles {
		if strings.EqualFold(strings.TrimSpace(s), string(style)) {
			return style, nil
		}
	}
	return "", fmt.Errorf("unknown travel style %q", s)
}

type TripStatus string

const (
	TripStatusUpcoming   TripStatus = "UPCOMING"
	TripStatusDuringStay TripStatus = "DURING_STAY"
	TripStatusCompleted  TripStatus = "COMPLETED"
)

// Screen names the guest-facing view a session lands on.
type Screen string

const (
	ScreenDashboard Screen = "dashboard"
	ScreenSouvenir  Screen = "souvenir"
)

// Screen maps the trip lifecycle onto the view that should be rendered.
func (s TripStatus) Screen() Screen {
	if s == TripStatusCompleted {
		return ScreenSouvenir
	}
	return ScreenDashboard
}

type Booking struct {
	OrderID         string `json:"orderId"`
	GuestName       string `json:"guestName"`
	FirstName       string `json:"firstName"`
	HotelName       string `json:"hotelName"`
	Location        string `json:"location"`
	CheckInDate     Date   `json:"checkInDate"`
	CheckOutDate    Date   `json:"checkOutDate"`
	BackgroundImage string `json:"backgroundImage"`
}

// City is the part of the location before the first comma.
func (b Booking) City() string {
	city, _, _ := strings.Cut(b.Location, ",")
	return strings.TrimSpace(city)
}

// UserSession is created once at login and never mutated afterwards.
type UserSession struct {
	ID          uuid.UUID   `json:"id"`
	Booking     Booking     `json:"booking"`
	TravelStyle TravelStyle `json:"travelStyle"`
	Status      TripStatus  `json:"status"`
	Avatar      string      `json:"avatar,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func (s *UserSession) Screen() Screen {
	return s.Status.Screen()
}
