package generation

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/lumis-app/lumis-backend/internal/provider"
)

// Output is the canonical result of one generation: a single string for
// text-bearing features, a single base64-encoded blob for image-bearing
// ones. Exactly one of the two fields is set.
type Output struct {
	Text        string `json:"text,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// NormalizationError means no known payload shape matched. Treated as fatal
// for the whole request: a malformed response from one provider does not
// fall through to the next candidate.
type NormalizationError struct {
	Reason string
}

func (e *NormalizationError) Error() string {
	return "normalize: " + e.Reason
}

// Field names probed, in priority order, when a provider returns a
// structured object instead of a bare payload. Providers are heterogeneous
// and uncontrolled, hence the permissiveness.
var (
	textFields  = []string{"text", "content", "output", "message", "completion"}
	imageFields = []string{"b64_json", "base64", "image", "image_base64", "mask", "output", "result", "data", "artifacts"}
)

// normalizeText converts a raw text payload into canonical Output.
// Accepted shapes: string, raw bytes, or an object exposing the text under
// one of the known field names. Idempotent: a canonical string maps to
// itself.
func normalizeText(p provider.Payload) (Output, error) {
	switch v := p.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return Output{}, &NormalizationError{Reason: "empty text payload"}
		}
		return Output{Text: v}, nil
	case []byte:
		if len(v) == 0 {
			return Output{}, &NormalizationError{Reason: "empty text payload"}
		}
		return Output{Text: string(v)}, nil
	case map[string]any:
		for _, field := range textFields {
			if s, ok := v[field].(string); ok && strings.TrimSpace(s) != "" {
				return Output{Text: s}, nil
			}
		}
		return Output{}, &NormalizationError{Reason: "no known text field in object payload"}
	}
	return Output{}, &NormalizationError{Reason: fmt.Sprintf("unsupported text payload type %T", p)}
}

// normalizeImage converts a raw image payload into canonical Output.
// Accepted shapes, in order: raw binary, already-base64 string, data-URI
// string, or a structured object exposing the blob under one of the known
// field names (including one level of list nesting, as in OpenAI's
// {"data":[{"b64_json":…}]}). Idempotent: a canonical base64 string maps
// to itself.
func normalizeImage(p provider.Payload) (Output, error) {
	switch v := p.(type) {
	case []byte:
		if len(v) == 0 {
			return Output{}, &NormalizationError{Reason: "empty image payload"}
		}
		return Output{ImageBase64: base64.StdEncoding.EncodeToString(v)}, nil
	case string:
		return imageFromString(v)
	case map[string]any:
		return imageFromObject(v)
	case []any:
		if len(v) > 0 {
			return normalizeImage(v[0])
		}
		return Output{}, &NormalizationError{Reason: "empty list payload"}
	}
	return Output{}, &NormalizationError{Reason: fmt.Sprintf("unsupported image payload type %T", p)}
}

func imageFromString(s string) (Output, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Output{}, &NormalizationError{Reason: "empty image payload"}
	}

	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return Output{}, &NormalizationError{Reason: "malformed data URI"}
		}
		s = s[idx+1:]
	}

	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return Output{}, &NormalizationError{Reason: "string payload is not base64"}
	}

	return Output{ImageBase64: s}, nil
}

func imageFromObject(obj map[string]any) (Output, error) {
	for _, field := range imageFields {
		val, ok := obj[field]
		if !ok || val == nil {
			continue
		}

		switch v := val.(type) {
		case string:
			if out, err := imageFromString(v); err == nil {
				return out, nil
			}
		case map[string]any, []any:
			if out, err := normalizeImage(v); err == nil {
				return out, nil
			}
		}
	}
	return Output{}, &NormalizationError{Reason: "no known image field in object payload"}
}

// decodeImageBase64 decodes a canonical image blob back to bytes, used when
// a normalized payload (the segmentation mask) feeds the compositor.
func decodeImageBase64(s string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &NormalizationError{Reason: "mask payload is not base64"}
	}
	return raw, nil
}
