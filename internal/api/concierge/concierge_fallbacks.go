package concierge

// Fallback strings substituted when generation is unavailable (no credential),
// fails, or returns nothing usable.
const (
	InsightNoCredential = "Please configure your API Key to access AI insights."
	InsightFailure      = "Our concierge service is momentarily unavailable."
	InsightEmpty        = "Information unavailable at the moment."

	CaptionNoCredential = "To travel is to live."
	CaptionFailure      = "A moment in time."
	CaptionEmpty        = "Memories made here."

	ItineraryNoCredential = "Itinerary generation offline."
	ItineraryFailure      = "Itinerary service momentarily unavailable."
	ItineraryEmpty        = "Could not generate itinerary."

	ChatNoCredential = "System offline."
	ChatFailure      = "I am having trouble connecting to the concierge network."
	ChatEmpty        = "I'm sorry, I couldn't understand that."
)

// fallbackSet picks a string by outcome.
type fallbackSet struct {
	noCredential string
	failure      string
	empty        string
}

var (
	insightFallbacks   = fallbackSet{InsightNoCredential, InsightFailure, InsightEmpty}
	captionFallbacks   = fallbackSet{CaptionNoCredential, CaptionFailure, CaptionEmpty}
	itineraryFallbacks = fallbackSet{ItineraryNoCredential, ItineraryFailure, ItineraryEmpty}
	chatFallbacks      = fallbackSet{ChatNoCredential, ChatFailure, ChatEmpty}
)

// PresetAvatars is the catalogue offered before, or instead of, a generated avatar.
var PresetAvatars = []string{
	"https://img.freepik.com/free-psd/3d-illustration-person-with-sunglasses_23-2149436188.jpg",
	"https://img.freepik.com/free-psd/3d-illustration-person-with-pink-hair_23-2149436186.jpg",
	"https://img.freepik.com/free-psd/3d-illustration-person-with-glasses_23-2149436191.jpg",
	"https://img.freepik.com/free-psd/3d-illustration-person_23-2149436192.jpg",
}
