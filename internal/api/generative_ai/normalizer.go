package generativeAI

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"
)

type envelope struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Image *struct {
		URL string `json:"url"`
	} `json:"image"`
	Images []json.RawMessage `json:"images"`
	Data   []json.RawMessage `json:"data"`
}

type imageItem struct {
	URL                string `json:"url"`
	B64JSON            string `json:"b64_json"`
	Base64             string `json:"base64"`
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

const defaultImageMime = "image/png"

// ExtractText concatenates the text parts of the first candidate. Any shape
// it does not recognise yields "".
func ExtractText(raw RawResponse) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range env.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// ExtractImageDataURI finds the first image in a response and returns it as a
// displayable URI. Inline candidate data wins over the alternate shapes.
func ExtractImageDataURI(raw RawResponse) (string, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", false
	}

	for _, candidate := range env.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return dataURI(part.InlineData.MimeType, part.InlineData.Data), true
			}
		}
	}

	if env.Image != nil && env.Image.URL != "" {
		return env.Image.URL, true
	}
	for _, list := range [][]json.RawMessage{env.Images, env.Data} {
		for _, item := range list {
			if uri, ok := imageFromItem(item); ok {
				return uri, true
			}
		}
	}
	return "", false
}

func imageFromItem(item json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		s = strings.TrimSpace(s)
		switch {
		case s == "":
			return "", false
		case strings.HasPrefix(s, "data:"), strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
			return s, true
		case looksLikeBase64(s):
			return dataURI("", s), true
		default:
			return "", false
		}
	}

	var obj imageItem
	if err := json.Unmarshal(item, &obj); err != nil {
		return "", false
	}
	if obj.URL != "" {
		return obj.URL, true
	}
	for _, b64 := range []string{obj.B64JSON, obj.Base64, obj.BytesBase64Encoded} {
		if b64 != "" {
			return dataURI(obj.MimeType, b64), true
		}
	}
	return "", false
}

func dataURI(mimeType, b64 string) string {
	if mimeType == "" {
		mimeType = defaultImageMime
	}
	return "data:" + mimeType + ";base64," + b64
}

func looksLikeBase64(s string) bool {
	if len(s) < 16 {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return true
	}
	_, err = base64.RawStdEncoding.DecodeString(s)
	return err == nil
}

var fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// ExtractJSON decodes the first JSON object found in model text into dst. A
// fenced code block takes precedence over a bare object.
func ExtractJSON(text string, dst any) error {
	candidate := ""
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		candidate = strings.TrimSpace(m[1])
	}
	if candidate == "" || !strings.HasPrefix(candidate, "{") {
		span, ok := firstObject(text)
		if !ok {
			return &MalformedContentError{Reason: "no JSON object in generated text"}
		}
		candidate = span
	}
	if err := json.Unmarshal([]byte(candidate), dst); err != nil {
		return &MalformedContentError{Reason: "decoding generated JSON", Err: err}
	}
	return nil
}

// firstObject returns the first balanced {...} span, skipping braces that
// appear inside string literals.
func firstObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
