package contract

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSON_Fenced(t *testing.T) {
	raw := "Here is the parsed problem:\n```json\n{\"problem\": \"What is 2+2?\", \"solution\": \"4\"}\n```\nDone."
	got, err := ExtractJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var m map[string]string
	if err := json.Unmarshal(got, &m); err != nil {
		t.Fatalf("returned bytes do not decode: %v", err)
	}
	if m["problem"] != "What is 2+2?" {
		t.Errorf("problem = %q", m["problem"])
	}
}

func TestExtractJSON_Bare(t *testing.T) {
	raw := `{"problem": "p", "solution": "s", "difficulty": "easy", "topic": "algebra"}`
	if _, err := ExtractJSON(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, err := ExtractJSON("I could not parse that problem, sorry.")
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestExtractJSON_Malformed(t *testing.T) {
	_, err := ExtractJSON(`{"problem": "unterminated}`)
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}
