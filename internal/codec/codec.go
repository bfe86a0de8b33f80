// Package codec holds the encode/decode helpers shared by the question
// model and the export layer: the base64 envelope used for repository file
// contents and the strict JSON source parse.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrParse = errors.New("invalid json")

// DecodeBase64 decodes a base64 transport envelope. Malformed input yields
// an empty string; file contents in this domain are plain source text, so a
// bad envelope degrades to "no content" instead of failing the whole record.
func DecodeBase64(s string) string {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(raw)
}

// EncodeBase64 wraps text back into the transport envelope. It mirrors
// DecodeBase64's swallow contract even though encoding cannot fail.
func EncodeBase64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Parse is a strict JSON parse of pasted or uploaded source text: exactly
// one value, nothing trailing. Numbers are kept as json.Number so untouched
// records serialize back with their original literals.
func Parse(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing content after json value", ErrParse)
	}
	return v, nil
}

// MarshalPretty renders a value the way the editor's live JSON view and the
// zip export do: two-space indented, trailing newline omitted.
func MarshalPretty(v any) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json: %w", err)
	}
	return string(raw), nil
}
