package generativeAI

import "encoding/json"

// RawResponse is the undecoded JSON body returned by the generation service.
type RawResponse []byte

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type GenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopK             int     `json:"topK"`
	TopP             float64 `json:"topP"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type GenerateContentRequest struct {
	Contents          []Content        `json:"contents"`
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
	SafetySettings    []SafetySetting  `json:"safetySettings,omitempty"`
}

// ChatMessage is one prior turn handed to SendChat. Role is "user" or "model".
type ChatMessage struct {
	Role string
	Text string
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Sampling holds the fixed sampling parameters of one request shape.
type Sampling struct {
	Temperature float64
	TopK        int
	TopP        float64
}

var (
	TextSampling  = Sampling{Temperature: 0.7, TopK: 20, TopP: 0.8}
	ChatSampling  = Sampling{Temperature: 0.7, TopK: 20, TopP: 0.8}
	ImageSampling = Sampling{Temperature: 0.6, TopK: 20, TopP: 0.8}
)

const blockMediumAndAbove = "BLOCK_MEDIUM_AND_ABOVE"

// ImageSafetyCategories are filtered at BLOCK_MEDIUM_AND_ABOVE on every image request.
var ImageSafetyCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// RequestOption adjusts an outgoing request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	jsonResponse bool
}

// WithJSONResponse asks the service for an application/json response body.
func WithJSONResponse() RequestOption {
	return func(o *requestOptions) { o.jsonResponse = true }
}

func applyOptions(opts []RequestOption) requestOptions {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func generationConfig(s Sampling, maxTokens int, o requestOptions) GenerationConfig {
	cfg := GenerationConfig{
		Temperature:     s.Temperature,
		TopK:            s.TopK,
		TopP:            s.TopP,
		MaxOutputTokens: maxTokens,
	}
	if o.jsonResponse {
		cfg.ResponseMimeType = "application/json"
	}
	return cfg
}

func buildTextRequest(prompt string, maxTokens int, o requestOptions) GenerateContentRequest {
	return GenerateContentRequest{
		Contents:         []Content{{Role: RoleUser, Parts: []Part{{Text: prompt}}}},
		GenerationConfig: generationConfig(TextSampling, maxTokens, o),
	}
}

func buildImageRequest(prompt string, maxTokens int) GenerateContentRequest {
	safety := make([]SafetySetting, 0, len(ImageSafetyCategories))
	for _, category := range ImageSafetyCategories {
		safety = append(safety, SafetySetting{Category: category, Threshold: blockMediumAndAbove})
	}
	return GenerateContentRequest{
		Contents:         []Content{{Role: RoleUser, Parts: []Part{{Text: prompt}}}},
		GenerationConfig: generationConfig(ImageSampling, maxTokens, requestOptions{}),
		SafetySettings:   safety,
	}
}

func buildChatRequest(history []ChatMessage, systemInstruction, message string, maxTokens int) GenerateContentRequest {
	contents := make([]Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, Content{Role: turn.Role, Parts: []Part{{Text: turn.Text}}})
	}
	contents = append(contents, Content{Role: RoleUser, Parts: []Part{{Text: message}}})

	req := GenerateContentRequest{
		Contents:         contents,
		GenerationConfig: generationConfig(ChatSampling, maxTokens, requestOptions{}),
	}
	if systemInstruction != "" {
		req.SystemInstruction = &Content{Parts: []Part{{Text: systemInstruction}}}
	}
	return req
}

// MarshalJSON keeps RawResponse printable in logs and test failures.
func (r RawResponse) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	if !json.Valid(r) {
		return json.Marshal(string(r))
	}
	return r, nil
}
