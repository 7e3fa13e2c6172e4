package types

type BookingLookupRequest struct {
	OrderID string `json:"orderId"`
	Name    string `json:"name"`
}

type BookingLookupResponse struct {
	Booking       Booking       `json:"booking"`
	TravelStyles  []TravelStyle `json:"travelStyles"`
	PresetAvatars []string      `json:"presetAvatars"`
}

type AvatarRequest struct {
	TravelStyle string `json:"travelStyle"`
}

type AvatarResponse struct {
	Avatar *string `json:"avatar"`
}

type StartSessionRequest struct {
	OrderID     string `json:"orderId"`
	Name        string `json:"name"`
	TravelStyle string `json:"travelStyle"`
	Avatar      string `json:"avatar,omitempty"`
}

type StartSessionResponse struct {
	Token   string       `json:"token"`
	Session *UserSession `json:"session"`
	Screen  Screen       `json:"screen"`
}

type CredentialStatus struct {
	Configured bool `json:"configured"`
}

type UpdateCredentialRequest struct {
	APIKey string `json:"apiKey"`
}
