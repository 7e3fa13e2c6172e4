package types

import "strings"

type AttractionCategory string

const (
	CategoryNearby  AttractionCategory = "Nearby"
	CategoryMustSee AttractionCategory = "Must-See"
)

// ParseAttractionCategory tolerates the spellings generators tend to return
// ("must see", "MustSee", "nearby").
func ParseAttractionCategory(s string) (AttractionCategory, bool) {
	normalized := strings.ToLower(strings.NewReplacer("-", "", " ", "", "_", "").Replace(s))
	switch normalized {
	case "nearby":
		return CategoryNearby, true
	case "mustsee":
		return CategoryMustSee, true
	}
	return "", false
}

type Attraction struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Category    AttractionCategory `json:"category"`
	Icon        string             `json:"icon"`
	Description string             `json:"description"`
	ImageURL    string             `json:"imageUrl,omitempty"`
}
