package booking

import (
	"context"
	"errors"
	"time"

	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

var ErrBookingNotFound = errors.New("booking not found")

// Directory is the booking lookup boundary. The guest name is accepted but
// does not take part in matching.
type Directory interface {
	ValidateUser(ctx context.Context, orderID, name string) (types.Booking, error)
	// AttractionsFor reports false when the booking has no curated list.
	AttractionsFor(ctx context.Context, orderID string) ([]types.Attraction, bool, error)
}

// Clock returns the current time; tests pin it.
type Clock func() time.Time

var _ Directory = (*StaticDirectory)(nil)

type bookingSeed struct {
	booking       types.Booking
	checkInOffset int
	stayNights    int
}

// StaticDirectory serves the demo bookings. Dates are relative to the clock's
// today so every lifecycle stage stays reachable.
type StaticDirectory struct {
	clock       Clock
	bookings    map[string]bookingSeed
	attractions map[string][]types.Attraction
}

func NewStaticDirectory(clock Clock) *StaticDirectory {
	if clock == nil {
		clock = time.Now
	}
	return &StaticDirectory{
		clock:       clock,
		bookings:    staticBookings(),
		attractions: staticAttractions(),
	}
}

func (d *StaticDirectory) ValidateUser(_ context.Context, orderID, _ string) (types.Booking, error) {
	seed, ok := d.bookings[orderID]
	if !ok {
		return types.Booking{}, ErrBookingNotFound
	}
	today := types.DateOf(d.clock())
	b := seed.booking
	b.CheckInDate = today.AddDays(seed.checkInOffset)
	b.CheckOutDate = b.CheckInDate.AddDays(seed.stayNights)
	return b, nil
}

func (d *StaticDirectory) AttractionsFor(_ context.Context, orderID string) ([]types.Attraction, bool, error) {
	list, ok := d.attractions[orderID]
	if !ok {
		return nil, false, nil
	}
	out := make([]types.Attraction, len(list))
	copy(out, list)
	return out, true, nil
}

func staticBookings() map[string]bookingSeed {
	return map[string]bookingSeed{
		"1001": {booking: types.Booking{
			OrderID: "1001", GuestName: "Smith", FirstName: "John",
			HotelName: "Hilton London Metropole", Location: "London, UK",
			BackgroundImage: "https://images.unsplash.com/photo-1513635269975-59663e0ac1ad?q=80&w=2070&auto=format&fit=crop",
		}, checkInOffset: 5, stayNights: 5},
		"1002": {booking: types.Booking{
			OrderID: "1002", GuestName: "Anderson", FirstName: "Anderson",
			HotelName: "Waldorf Astoria Shanghai Qiantan", Location: "Shanghai, China",
			BackgroundImage: "https://images.unsplash.com/photo-1548919973-5cef591cdbc9?q=80&w=2070&auto=format&fit=crop",
		}, checkInOffset: -2, stayNights: 4},
		"1003": {booking: types.Booking{
			OrderID: "1003", GuestName: "Doe", FirstName: "Jane",
			HotelName: "Waldorf Astoria Maldives", Location: "Ithaafushi, Maldives",
			BackgroundImage: "https://images.unsplash.com/photo-1573843981267-be1999ff37cd?q=80&w=1974&auto=format&fit=crop",
		}, checkInOffset: -10, stayNights: 5},
		"1004": {booking: types.Booking{
			OrderID: "1004", GuestName: "Lee", FirstName: "David",
			HotelName: "Conrad Chongqing", Location: "Chongqing, China",
			BackgroundImage: "https://images.unsplash.com/photo-1534234828569-1d227f4d2b28?q=80&w=2070&auto=format&fit=crop",
		}, checkInOffset: 15, stayNights: 5},
		// 1005 has no curated attractions; its list is generated.
		"1005": {booking: types.Booking{
			OrderID: "1005", GuestName: "Tanaka", FirstName: "Kenji",
			HotelName: "Conrad Tokyo", Location: "Tokyo, Japan",
			BackgroundImage: "https://images.unsplash.com/photo-1540959733332-eab4deabeeaf?q=80&w=2094&auto=format&fit=crop",
		}, checkInOffset: 1, stayNights: 4},
	}
}

func attraction(id int, name, kind string, category types.AttractionCategory, icon, description string) types.Attraction {
	return types.Attraction{ID: id, Name: name, Type: kind, Category: category, Icon: icon, Description: description}
}

func staticAttractions() map[string][]types.Attraction {
	nearby, mustSee := types.CategoryNearby, types.CategoryMustSee
	return map[string][]types.Attraction{
		"1001": {
			attraction(101, "Hyde Park", "Park", nearby, "park", "Massive green space right at your doorstep."),
			attraction(102, "Paddington Basin", "Canal", nearby, "water", "Modern waterside dining and boat trips."),
			attraction(103, "Oxford Street", "Shopping", nearby, "shopping_bag", "Europe's busiest shopping street."),
			attraction(104, "London Eye", "Landmark", mustSee, "attractions", "Observation wheel on the South Bank."),
			attraction(105, "Big Ben", "Landmark", mustSee, "schedule", "The Great Bell of the striking clock."),
			attraction(106, "British Museum", "Culture", mustSee, "museum", "Human history, art and culture."),
		},
		"1002": {
			attraction(1, "Qiantan Taikoo Li", "Luxury Shopping", nearby, "shopping_bag", "Open-plan wellness-themed retail complex."),
			attraction(2, "Oriental Sports Center", "Arena", nearby, "stadium", `Iconic sporting venue also known as the "Sea Crown".`),
			attraction(3, "West Bund Art Center", "Art Gallery", nearby, "palette", "Contemporary art exhibitions."),
			attraction(4, "The Bund", "Waterfront", mustSee, "camera_alt", "Famous waterfront promenade."),
			attraction(5, "Shanghai Tower", "Skyscraper", mustSee, "visibility", "Tallest building in China."),
			attraction(6, "Yu Garden", "Classical Garden", mustSee, "temple_buddhist", "Classical Chinese garden."),
		},
		"1003": {
			attraction(201, "House Reef", "Nature", nearby, "scuba_diving", "Vibrant coral reef teeming with marine life."),
			attraction(202, "Sunset Bar", "Dining", nearby, "cocktail_bell", "Overwater bar with perfect sunset views."),
			attraction(203, "Aqua Wellness", "Spa", nearby, "spa", "Hydrotherapy pool."),
			attraction(204, "Male City Tour", "Culture", mustSee, "location_city", "The capital city of Maldives."),
			attraction(205, "Sandbank Picnic", "Adventure", mustSee, "umbrella", "Private picnic on a secluded sandbank."),
			attraction(206, "Dolphin Cruise", "Wildlife", mustSee, "sailing", "Sunset cruise to spot dolphins."),
		},
		"1004": {
			attraction(301, "Jiefangbei Square", "Shopping", nearby, "shopping_bag", "The central business district and heart of Chongqing."),
			attraction(302, "Hongya Cave", "Landmark", mustSee, "castle", "Stunning stilt house complex lit up at night."),
			attraction(303, "Spicy Hot Pot", "Dining", nearby, "restaurant", "Authentic Chongqing mala hot pot experience."),
			attraction(304, "Liziba Station", "Transport", mustSee, "train", "Famous light rail train passing through a building."),
			attraction(305, "Yangtze River Cableway", "Adventure", mustSee, "cable_car", "Scenic ride across the Yangtze River."),
			attraction(306, "Raffles City", "Architecture", nearby, "apartment", "Futuristic skyscraper complex at the river confluence."),
		},
	}
}
