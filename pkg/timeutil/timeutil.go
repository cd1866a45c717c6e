package timeutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrInvalidFormat matches any *FormatError.
	ErrInvalidFormat = errors.New("invalid time format")
	// ErrInvalidRange matches any *RangeError.
	ErrInvalidRange = errors.New("invalid time range")
)

// FormatError reports a time expression that could not be parsed.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time format: %q (expected seconds, MM:SS, HH:MM:SS or 1h30m45s)", e.Input)
}

func (e *FormatError) Is(target error) bool { return target == ErrInvalidFormat }

// RangeError reports an end time that is not after the start time.
type RangeError struct {
	Start float64
	End   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("end time (%s) must be after start time (%s)",
		strconv.FormatFloat(e.End, 'f', -1, 64), strconv.FormatFloat(e.Start, 'f', -1, 64))
}

func (e *RangeError) Is(target error) bool { return target == ErrInvalidRange }

var unitFactors = map[byte]float64{
	'h': 3600,
	'm': 60,
	's': 1,
}

// Parse converts a time expression into seconds.
// Accepted forms: plain seconds ("90", "45.5"), MM:SS, HH:MM:SS and unit
// composites ("1h30m45s", "90m", "2h 15m"). Empty input means zero.
func Parse(expr string) (float64, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return 0, nil
	}

	if isNumeric(s) {
		return parseNumber(s, s)
	}

	if strings.Contains(s, ":") {
		return parseColon(s)
	}

	if strings.ContainsAny(s, "hms") {
		return parseUnits(s)
	}

	return parseNumber(s, s)
}

// parseColon handles M:S and H:M:S.
func parseColon(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, &FormatError{Input: s}
	}

	var total float64
	for _, p := range parts {
		v, err := parseNumber(p, s)
		if err != nil {
			return 0, err
		}
		total = total*60 + v
	}
	return total, nil
}

// parseUnits handles unit-suffixed expressions. A lone "<number><unit>" is
// converted directly; everything else goes through the scanner.
func parseUnits(s string) (float64, error) {
	last := s[len(s)-1]
	if factor, ok := unitFactors[last]; ok && countUnits(s) == 1 && isNumeric(s[:len(s)-1]) {
		v, err := parseNumber(s[:len(s)-1], s)
		if err != nil {
			return 0, err
		}
		return v * factor, nil
	}
	return scanUnits(s)
}

// scanUnits walks the expression once, accumulating digits until a unit
// letter flushes them into the total. A trailing bare number counts as
// seconds, wherever it appears.
func scanUnits(s string) (float64, error) {
	var total float64
	var buf strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isDigit(c) || c == '.':
			buf.WriteByte(c)
		case unicode.IsSpace(rune(c)):
		default:
			factor, ok := unitFactors[c]
			if !ok || buf.Len() == 0 {
				return 0, &FormatError{Input: s}
			}
			v, err := parseNumber(buf.String(), s)
			if err != nil {
				return 0, err
			}
			total += v * factor
			buf.Reset()
		}
	}

	if buf.Len() > 0 {
		v, err := parseNumber(buf.String(), s)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func countUnits(s string) int {
	n := 0
	for u := range unitFactors {
		if strings.IndexByte(s, u) >= 0 {
			n++
		}
	}
	return n
}

// parseNumber accepts plain decimal literals with an optional sign and
// exponent. Go-only syntax such as hex floats is rejected.
func parseNumber(field, input string) (float64, error) {
	if strings.IndexFunc(field, notDecimal) >= 0 {
		return 0, &FormatError{Input: input}
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &FormatError{Input: input}
	}
	return v, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) && s[i] != '.' {
			return false
		}
	}
	return true
}

func notDecimal(r rune) bool {
	return !strings.ContainsRune("0123456789.+-eE", r)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// FormatCompact formats seconds as MM-SS for use in filenames.
// Minutes are not wrapped at 60 (3661s renders as 61-01).
func FormatCompact(seconds float64) string {
	mins := int(seconds / 60)
	secs := int(seconds) % 60
	return fmt.Sprintf("%02d-%02d", mins, secs)
}

// FormatReadable formats seconds as HH:MM:SS, or MM:SS when under an hour.
func FormatReadable(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// ValidateRange returns end-start, or a *RangeError when end <= start.
func ValidateRange(start, end float64) (float64, error) {
	if end <= start {
		return 0, &RangeError{Start: start, End: end}
	}
	return end - start, nil
}
