// Package share converts configurations to and from their portable forms:
// a pretty-printed JSON document and the compact CROSSHAIR_ share code.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rook-computer/crosshair/internal/crosshair"
)

// Prefix marks a share code.
const Prefix = "CROSSHAIR_"

var (
	ErrMissingPrefix  = errors.New("missing " + Prefix + " prefix")
	ErrInvalidPayload = errors.New("payload is not a crosshair configuration")
)

// DecodeError is returned for input that cannot be turned back into a
// configuration. It wraps ErrMissingPrefix or ErrInvalidPayload, and the
// underlying cause when there is one.
type DecodeError struct {
	Kind  error
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause == nil {
		return "decode crosshair: " + e.Kind.Error()
	}
	return fmt.Sprintf("decode crosshair: %v: %v", e.Kind, e.Cause)
}

func (e *DecodeError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// EncodeJSON is the export document: cfg pretty-printed with two-space
// indentation.
func EncodeJSON(cfg crosshair.Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// EncodeShareCode returns Prefix followed by the base64 of cfg's compact JSON.
func EncodeShareCode(cfg crosshair.Config) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return Prefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeShareCode is the inverse of EncodeShareCode. Surrounding whitespace
// is ignored; unpadded base64 is accepted.
func DecodeShareCode(text string) (crosshair.Config, error) {
	text = strings.TrimSpace(text)
	payload, ok := strings.CutPrefix(text, Prefix)
	if !ok {
		return crosshair.Config{}, &DecodeError{Kind: ErrMissingPrefix}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		var rawErr error
		if data, rawErr = base64.RawStdEncoding.DecodeString(payload); rawErr != nil {
			return crosshair.Config{}, &DecodeError{Kind: ErrInvalidPayload, Cause: err}
		}
	}
	return decodeConfig(data)
}

// DecodeJSON reads an exported JSON document.
func DecodeJSON(data []byte) (crosshair.Config, error) {
	return decodeConfig(data)
}

// DecodeJSONOnto is DecodeJSON with base supplying the fields the document
// does not carry.
func DecodeJSONOnto(base crosshair.Config, data []byte) (crosshair.Config, error) {
	return decodeConfigOnto(base, data)
}

// decodeConfig requires a JSON object. Fields it does not carry keep their
// default values.
func decodeConfig(data []byte) (crosshair.Config, error) {
	return decodeConfigOnto(crosshair.Default(), data)
}

func decodeConfigOnto(base crosshair.Config, data []byte) (crosshair.Config, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return crosshair.Config{}, &DecodeError{Kind: ErrInvalidPayload, Cause: errors.New("not a JSON object")}
	}
	cfg := base
	if err := json.Unmarshal(trimmed, &cfg); err != nil {
		return crosshair.Config{}, &DecodeError{Kind: ErrInvalidPayload, Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return crosshair.Config{}, &DecodeError{Kind: ErrInvalidPayload, Cause: err}
	}
	return cfg, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// ExportFileName derives the download name for an exported configuration.
func ExportFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "crosshair.json"
	}
	name = whitespace.ReplaceAllString(name, "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	return name + ".json"
}
