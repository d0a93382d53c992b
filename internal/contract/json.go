package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidJSON marks a structured response that could not be decoded.
// Unlike the label/value parser, the JSON contract is all-or-nothing:
// callers fail fast rather than degrade.
var ErrInvalidJSON = errors.New("invalid structured response")

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareJSONRe   = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON locates a JSON object inside response text, preferring a
// fenced code block over a bare object, and returns its raw bytes after
// checking that they decode. Returns ErrInvalidJSON (wrapped) when no
// object is found or the object does not parse.
func ExtractJSON(raw string) (json.RawMessage, error) {
	var jsonText string

	if m := fencedJSONRe.FindStringSubmatch(raw); m != nil {
		jsonText = m[1]
	} else if m := bareJSONRe.FindString(raw); m != "" {
		jsonText = m
	} else {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrInvalidJSON)
	}

	var probe any
	if err := json.Unmarshal([]byte(jsonText), &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	return json.RawMessage(jsonText), nil
}
