package parser

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceRe     = regexp.MustCompile(`\s+`)
	thousandsRe = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// FoldDiacritics strips combining marks: "Tydzień" -> "Tydzien". "ł" has no
// decomposition and is mapped by hand.
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.NewReplacer("ł", "l", "Ł", "L").Replace(out)
}

// NormalizeHeader trims, lowercases, folds diacritics and collapses inner
// whitespace, so "  Dni\nPracy " and "dni pracy" compare equal.
func NormalizeHeader(name string) string {
	name = strings.TrimSpace(name)
	name = spaceRe.ReplaceAllString(name, " ")
	return strings.ToLower(FoldDiacritics(name))
}

// ContainsAny reports whether text contains any keyword.
func ContainsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ToFloat parses a cell leniently. Thousand separators, decimal commas,
// percent signs and surrounding spaces are accepted; anything else is 0.
func ToFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return 0
	}
	switch {
	case thousandsRe.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, ",") && !strings.Contains(s, "."):
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ToInt parses a cell leniently and truncates toward zero.
func ToInt(s string) int {
	return int(ToFloat(s))
}

// Num is a JSON number that also accepts numeric strings and null.
type Num float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Num) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Num(ToFloat(s))
		return nil
	}
	switch string(b) {
	case "true":
		*n = 1
		return nil
	case "false":
		*n = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*n = 0
		return nil
	}
	*n = Num(f)
	return nil
}

// Int truncates toward zero.
func (n Num) Int() int { return int(n) }

// Float returns the value as float64.
func (n Num) Float() float64 { return float64(n) }

// ParseBool reads checklist-style cells: tak/yes/true/x/1 are true.
func ParseBool(s string) bool {
	switch NormalizeHeader(s) {
	case "tak", "yes", "y", "true", "x", "1", "ok", "✓":
		return true
	}
	return false
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"2.1.2006",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate normalizes a date cell to YYYY-MM-DD.
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	// Excel serial day number
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 20000 && f < 80000 {
		base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		return base.AddDate(0, 0, int(f)).Format("2006-01-02"), true
	}
	return "", false
}
