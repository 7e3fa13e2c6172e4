package concierge

import (
	"fmt"

	"github.com/FACorreiaa/go-hotel-concierge/internal/types"
)

func getInsightPrompt(attractionName, location string, style types.TravelStyle) string {
	return fmt.Sprintf(`
Act as a luxury hotel concierge.
Write a short, engaging 2-sentence cultural fact or tip about %s in %s.
Tailor the tone for a %s traveler.`, attractionName, location, style)
}

func getCaptionPrompt(location string, style types.TravelStyle) string {
	return fmt.Sprintf(`
Generate a short, inspiring travel quote (max 10 words) for a postcard from %s.
The vibe should be %s.
Do not include quotes or attribution, just the text.`, location, style)
}

func getPostcardPrompt(hotelName, location string, style types.TravelStyle) string {
	return fmt.Sprintf(`
A beautiful, artistic travel poster illustration of %s in %s.
Style: %s vibe, high-end digital art, warm lighting, scenic view.
The image should look like a premium collectible postcard.
No text overlay.`, hotelName, location, style)
}

func getAvatarPrompt(style types.TravelStyle) string {
	return fmt.Sprintf(`
Generate a 3D icon of a cute traveler avatar.
Style: Pixar/Disney 3D animation style.
Lighting: Bright studio lighting, soft shadows.
Background: Plain white or very soft light gray background (clean).
Character: %s traveler, friendly expression, vibrant colors.
Composition: Centered headshot icon.
Do not include complex backgrounds or dark moody lighting.`, style)
}

func getAttractionImagePrompt(attractionType, name string) string {
	return fmt.Sprintf(`
Generate a cute 3D icon representing a %s (related to %s).
Style: High-quality 3D render, toy-like, clay material, soft studio lighting, bright colors, isolated on plain white background.
The object should look like a collectible miniature.
If the type is generic, create a 3D map pin or location marker.
Minimalist, single object.`, attractionType, name)
}

func getDynamicAttractionsPrompt(location string, style types.TravelStyle) string {
	return fmt.Sprintf(`
Identify exactly 3 "Nearby" hidden gems/activities and exactly 3 "Must-See" famous landmarks in %s.
Target Audience: %s traveler.
Return ONLY a JSON object with this structure:
{
  "attractions": [
    {
      "name": "string",
      "type": "Short type e.g. Cafe, Park, Temple",
      "category": "Nearby" or "Must-See",
      "description": "Short engaging description, max 10 words",
      "icon": "Material Symbol name"
    }
  ]
}
For 'icon', suggest a valid Material Symbol name (snake_case) that represents the place (e.g. 'restaurant', 'park', 'museum', 'photo_camera').`, location, style)
}

func getItineraryPrompt(booking types.Booking, style types.TravelStyle) string {
	return fmt.Sprintf(`
Create a brief, daily itinerary for a trip to %s.
Traveler Style: %s.
Dates: %s to %s.
Format: Markdown, bullet points.
Focus: Provide a "Theme of the Day" and 2 key activities per day.
Keep it concise and exciting.`, booking.Location, style, booking.CheckInDate, booking.CheckOutDate)
}

func getChatSystemInstruction(hotelName string) string {
	return fmt.Sprintf("You are a helpful, sophisticated hotel concierge at %s. Keep answers brief (under 50 words) and helpful.", hotelName)
}
