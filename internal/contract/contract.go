// Package contract decodes the free-text label/value format the
// generative agents are instructed to produce. The service is under no
// obligation to honor its instructions, so this is a best-effort decoder:
// it never fails on malformed text, it degrades — out-of-range integers
// are clamped, missing fields take declared defaults, and every such
// degradation is recorded on the result's diagnostic trail. Deciding that
// a degraded result is unusable is the caller's job.
package contract

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind selects the value-extraction rule for a field.
type Kind int

const (
	// Text matches lazily up to the next recognized label or end of
	// string, then trims. Missing text fields resolve to empty string.
	Text Kind = iota

	// Int parses a decimal integer and clamps it to [Min, Max].
	Int

	// Enum matches one of Values case-insensitively and normalizes it to
	// the declared casing.
	Enum
)

// Field describes one labeled field in a text contract.
type Field struct {
	// Label is the uppercase marker in the wire format, without the
	// trailing colon: "PROBLEM", "SCORE", "RECOMMENDATION".
	Label string

	Kind Kind

	// Min and Max bound Int fields inclusively.
	Min, Max int

	// Default is used when the field is absent: the integer value for
	// Int fields (string form), the canonical value for Enum fields.
	// Ignored for Text fields, which default to "".
	Default string

	// Values lists the canonical spellings for Enum fields.
	Values []string
}

// ClampEvent records an out-of-range integer that was pulled to a bound.
type ClampEvent struct {
	Label   string
	Raw     int
	Clamped int
}

// Diagnostics is the trail of degradations applied during one parse.
type Diagnostics struct {
	// Clamped lists integer fields whose raw value was out of range.
	Clamped []ClampEvent

	// Missing lists fields that were absent and resolved to a default.
	Missing []string
}

// Clean reports whether the parse applied no degradations.
func (d Diagnostics) Clean() bool {
	return len(d.Clamped) == 0 && len(d.Missing) == 0
}

// Result maps field labels to extracted values.
type Result struct {
	texts map[string]string
	ints  map[string]int
	Diags Diagnostics
}

// Text returns the value of a Text or Enum field. Unknown labels return "".
func (r *Result) Text(label string) string {
	return r.texts[label]
}

// Int returns the value of an Int field. Unknown labels return 0.
func (r *Result) Int(label string) int {
	return r.ints[label]
}

// Parse extracts every field from raw. It never fails: the returned
// Result is always complete, with defaults standing in for anything the
// text did not supply.
func Parse(raw string, fields []Field) *Result {
	res := &Result{
		texts: make(map[string]string),
		ints:  make(map[string]int),
	}

	terminator := labelAlternation(fields)

	for _, f := range fields {
		switch f.Kind {
		case Text:
			res.parseText(raw, f, terminator)
		case Int:
			res.parseInt(raw, f)
		case Enum:
			res.parseEnum(raw, f)
		}
	}

	return res
}

// labelAlternation builds the regex alternation of every label in the
// contract, used to terminate lazy text-block matches.
func labelAlternation(fields []Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = regexp.QuoteMeta(f.Label)
	}
	return "(?:" + strings.Join(parts, "|") + "):"
}

func (r *Result) parseText(raw string, f Field, terminator string) {
	re := regexp.MustCompile(`(?is)` + regexp.QuoteMeta(f.Label) + `:\s*(.*?)(?:` + terminator + `|$)`)
	m := re.FindStringSubmatch(raw)
	if m == nil {
		r.texts[f.Label] = ""
		r.Diags.Missing = append(r.Diags.Missing, f.Label)
		return
	}
	r.texts[f.Label] = strings.TrimSpace(m[1])
}

func (r *Result) parseInt(raw string, f Field) {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(f.Label) + `:\s*(-?\d+)`)
	m := re.FindStringSubmatch(raw)
	if m == nil {
		r.ints[f.Label] = atoiOr(f.Default, f.Min)
		r.Diags.Missing = append(r.Diags.Missing, f.Label)
		return
	}

	// The pattern guarantees digits; overflow falls back to the default.
	v, err := strconv.Atoi(m[1])
	if err != nil {
		r.ints[f.Label] = atoiOr(f.Default, f.Min)
		r.Diags.Missing = append(r.Diags.Missing, f.Label)
		return
	}

	switch {
	case v < f.Min:
		r.Diags.Clamped = append(r.Diags.Clamped, ClampEvent{Label: f.Label, Raw: v, Clamped: f.Min})
		v = f.Min
	case v > f.Max:
		r.Diags.Clamped = append(r.Diags.Clamped, ClampEvent{Label: f.Label, Raw: v, Clamped: f.Max})
		v = f.Max
	}
	r.ints[f.Label] = v
}

func (r *Result) parseEnum(raw string, f Field) {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(f.Label) + `:\s*([A-Za-z_-]+)`)
	m := re.FindStringSubmatch(raw)
	if m != nil {
		for _, v := range f.Values {
			if strings.EqualFold(m[1], v) {
				r.texts[f.Label] = v
				return
			}
		}
	}
	r.texts[f.Label] = f.Default
	r.Diags.Missing = append(r.Diags.Missing, f.Label)
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
