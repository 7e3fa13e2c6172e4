package types

type Speaker string

const (
	SpeakerGuest     Speaker = "guest"
	SpeakerConcierge Speaker = "concierge"
)

type ChatTurn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply      string     `json:"reply"`
	Transcript []ChatTurn `json:"transcript"`
}
