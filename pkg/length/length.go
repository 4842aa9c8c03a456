// Package length models declared column and cell widths.
//
// A Length is one of Auto, Fixed (pixels), Percent or Relative ("n*").
// Only the payload of the active type is meaningful.
package length

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid is returned when a width string cannot be parsed.
var ErrInvalid = errors.New("invalid length")

type Type int

const (
	Auto Type = iota
	Fixed
	Percent
	Relative
)

func (t Type) String() string {
	switch t {
	case Fixed:
		return "fixed"
	case Percent:
		return "percent"
	case Relative:
		return "relative"
	default:
		return "auto"
	}
}

type Length struct {
	Type  Type
	Value float64
}

func AutoLength() Length { return Length{} }

func FixedPx(px int) Length { return Length{Type: Fixed, Value: float64(px)} }

func Pct(pct float64) Length { return Length{Type: Percent, Value: pct} }

func Rel(n int) Length { return Length{Type: Relative, Value: float64(n)} }

func (l Length) IsAuto() bool     { return l.Type == Auto }
func (l Length) IsFixed() bool    { return l.Type == Fixed }
func (l Length) IsPercent() bool  { return l.Type == Percent }
func (l Length) IsRelative() bool { return l.Type == Relative }

func (l Length) IsZero() bool     { return l.Value == 0 }
func (l Length) IsPositive() bool { return l.Value > 0 }
func (l Length) IsNegative() bool { return l.Value < 0 }

// Int returns the value truncated to whole pixels (or relative units).
func (l Length) Int() int { return int(l.Value) }

// Percent returns the percentage as the float32 the width passes compute with.
func (l Length) Percent() float32 { return float32(l.Value) }

// ValueFor resolves the length against maximum. Auto and Relative lengths
// resolve to zero; they are handled by their own distribution steps.
func (l Length) ValueFor(maximum int) int {
	switch l.Type {
	case Fixed:
		return l.Int()
	case Percent:
		return int(float32(maximum) * l.Percent() / 100)
	default:
		return 0
	}
}

func (l Length) String() string {
	switch l.Type {
	case Fixed:
		return strconv.Itoa(l.Int()) + "px"
	case Percent:
		return strconv.FormatFloat(l.Value, 'g', -1, 64) + "%"
	case Relative:
		return strconv.Itoa(l.Int()) + "*"
	default:
		return "auto"
	}
}

// ParseAttribute parses an HTML width attribute: "120", "120px", "50%", "3*",
// "*". An empty value is Auto.
func ParseAttribute(s string) (Length, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return AutoLength(), nil
	}
	switch {
	case strings.HasSuffix(s, "%"):
		v, err := parseNumber(strings.TrimSuffix(s, "%"))
		if err != nil {
			return Length{}, fmt.Errorf("width %q: %w", s, err)
		}
		return Pct(v), nil
	case strings.HasSuffix(s, "*"):
		num := strings.TrimSpace(strings.TrimSuffix(s, "*"))
		if num == "" {
			return Rel(1), nil
		}
		v, err := parseNumber(num)
		if err != nil {
			return Length{}, fmt.Errorf("width %q: %w", s, err)
		}
		return Rel(int(v)), nil
	}
	v, err := parseNumber(strings.TrimSuffix(strings.ToLower(s), "px"))
	if err != nil {
		return Length{}, fmt.Errorf("width %q: %w", s, err)
	}
	return FixedPx(int(v)), nil
}

// How many CSS pixels one unit is worth (CSS 2.1 §4.3.2).
var unitToPixels = map[string]float64{
	"px": 1,
	"pt": 1. / 0.75,
	"pc": 16,
	"in": 96,
	"cm": 96. / 2.54,
	"mm": 96. / 25.4,
}

// ParseCSS parses a CSS width value. Em lengths are resolved against fontSize.
func ParseCSS(s string, fontSize float64) (Length, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "auto" {
		return AutoLength(), nil
	}
	if strings.HasSuffix(s, "%") {
		v, err := parseNumber(strings.TrimSuffix(s, "%"))
		if err != nil {
			return Length{}, fmt.Errorf("css width %q: %w", s, err)
		}
		return Pct(v), nil
	}
	if strings.HasSuffix(s, "em") && !strings.HasSuffix(s, "rem") {
		v, err := parseNumber(strings.TrimSuffix(s, "em"))
		if err != nil {
			return Length{}, fmt.Errorf("css width %q: %w", s, err)
		}
		return FixedPx(int(v * fontSize)), nil
	}
	for unit, factor := range unitToPixels {
		if strings.HasSuffix(s, unit) {
			v, err := parseNumber(strings.TrimSuffix(s, unit))
			if err != nil {
				return Length{}, fmt.Errorf("css width %q: %w", s, err)
			}
			return FixedPx(int(v * factor)), nil
		}
	}
	// Unitless lengths are only valid for zero.
	v, err := parseNumber(s)
	if err != nil || v != 0 {
		return Length{}, fmt.Errorf("css width %q: %w", s, ErrInvalid)
	}
	return FixedPx(0), nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrInvalid
	}
	return v, nil
}
