package booking

import (
	"time"

	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

// TripStatus compares calendar dates only; both ends of the stay count as
// DuringStay.
func TripStatus(now time.Time, checkIn, checkOut types.Date) types.TripStatus {
	today := types.DateOf(now)
	switch {
	case today.Before(checkIn.Time):
		return types.TripStatusUpcoming
	case today.After(checkOut.Time):
		return types.TripStatusCompleted
	default:
		return types.TripStatusDuringStay
	}
}

func StatusOf(now time.Time, b types.Booking) types.TripStatus {
	return TripStatus(now, b.CheckInDate, b.CheckOutDate)
}
