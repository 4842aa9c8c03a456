// Package css resolves the handful of style properties table layout reads:
// widths, padding, border widths, border-spacing, border-collapse,
// box-sizing and font-size. Values come from inline style attributes and
// from the presentational HTML attributes that map onto them.
package css

import (
	"strconv"
	"strings"

	"louis14tables/pkg/length"
)

const DefaultFontSize = 16.0

type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// SetDefault sets a property only if it is not already present. Used for
// presentational attributes, which lose to inline style.
func (s *Style) SetDefault(property, value string) {
	if _, ok := s.Properties[property]; !ok {
		s.Properties[property] = value
	}
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// ParseLength parses a pixel length value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Horizontal returns left + right.
func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns top + bottom.
func (e BoxEdge) Vertical() float64 { return e.Top + e.Bottom }

func (e BoxEdge) IsZero() bool {
	return e.Top == 0 && e.Right == 0 && e.Bottom == 0 && e.Left == 0
}

// GetPadding returns the padding values for all four sides
func (s *Style) GetPadding() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("padding-top"),
		Right:  s.getLengthOrZero("padding-right"),
		Bottom: s.getLengthOrZero("padding-bottom"),
		Left:   s.getLengthOrZero("padding-left"),
	}
}

// GetBorderWidth returns the border width for all four sides. A side whose
// border-style is none or hidden has no width.
func (s *Style) GetBorderWidth() BoxEdge {
	if bs, ok := s.Get("border-style"); ok && (bs == "none" || bs == "hidden") {
		return BoxEdge{}
	}
	return BoxEdge{
		Top:    s.getLengthOrZero("border-top-width"),
		Right:  s.getLengthOrZero("border-right-width"),
		Bottom: s.getLengthOrZero("border-bottom-width"),
		Left:   s.getLengthOrZero("border-left-width"),
	}
}

// getLengthOrZero returns the length value or 0 if not found
func (s *Style) getLengthOrZero(property string) float64 {
	val, ok := s.GetLength(property)
	if !ok || val < 0 {
		return 0
	}
	return val
}

// GetFontSize returns the font-size in pixels (default: 16px)
func (s *Style) GetFontSize() float64 {
	if size, ok := s.GetLength("font-size"); ok && size > 0 {
		return size
	}
	return DefaultFontSize
}

// GetWidth returns the declared width. Unparseable values are treated as
// auto, as a style engine would drop the declaration.
func (s *Style) GetWidth() length.Length {
	val, ok := s.Get("width")
	if !ok {
		return length.AutoLength()
	}
	l, err := length.ParseCSS(val, s.GetFontSize())
	if err != nil {
		return length.AutoLength()
	}
	return l
}

// GetBorderSpacing returns the horizontal border-spacing in pixels.
func (s *Style) GetBorderSpacing() float64 {
	val, ok := s.Get("border-spacing")
	if !ok {
		return 0
	}
	parts := strings.Fields(val)
	if len(parts) == 0 {
		return 0
	}
	v, ok := ParseLength(parts[0])
	if !ok || v < 0 {
		return 0
	}
	return v
}

type BorderCollapse string

const (
	BorderCollapseSeparate BorderCollapse = "separate"
	BorderCollapseCollapse BorderCollapse = "collapse"
)

func (s *Style) GetBorderCollapse() BorderCollapse {
	if v, ok := s.Get("border-collapse"); ok && v == "collapse" {
		return BorderCollapseCollapse
	}
	return BorderCollapseSeparate
}

type BoxSizing string

const (
	BoxSizingContentBox BoxSizing = "content-box"
	BoxSizingBorderBox  BoxSizing = "border-box"
)

func (s *Style) GetBoxSizing() BoxSizing {
	if v, ok := s.Get("box-sizing"); ok && v == "border-box" {
		return BoxSizingBorderBox
	}
	return BoxSizingContentBox
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	ApplyDeclarations(style, styleAttr)
	return style
}

// ApplyDeclarations parses "prop: value; ..." into style, expanding the
// shorthands layout cares about.
func ApplyDeclarations(style *Style, decls string) {
	for _, decl := range strings.Split(decls, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		property := strings.TrimSpace(strings.ToLower(parts[0]))
		value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(parts[1]), "!important"))
		expandShorthand(style, property, strings.ToLower(strings.TrimSpace(value)))
	}
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, "", value)
	case "border-width":
		expandBoxProperty(style, "border", "-width", value)
	case "border":
		expandBorderProperty(style, value)
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands margin/padding/border-width shorthand
// Supports: "10px" (all), "10px 20px" (vertical horizontal),
// "10px 20px 30px" (top h bottom), "10px 20px 30px 40px" (t r b l)
func expandBoxProperty(style *Style, prefix, suffix, value string) {
	parts := strings.Fields(value)
	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(prefix+"-top"+suffix, top)
	style.Set(prefix+"-right"+suffix, right)
	style.Set(prefix+"-bottom"+suffix, bottom)
	style.Set(prefix+"-left"+suffix, left)
}

var borderWidthKeywords = map[string]string{
	"thin":   "1px",
	"medium": "3px",
	"thick":  "5px",
}

// expandBorderProperty expands border shorthand
// Format: "1px solid black" or "thin dotted #FF0000"
func expandBorderProperty(style *Style, value string) {
	width := "3px"
	for _, part := range strings.Fields(value) {
		if kw, ok := borderWidthKeywords[part]; ok {
			width = kw
			continue
		}
		if _, ok := ParseLength(part); ok {
			width = part
			continue
		}
		switch part {
		case "none", "hidden", "solid", "dotted", "dashed", "double", "groove", "ridge", "inset", "outset":
			style.Set("border-style", part)
		default:
			style.Set("border-color", part)
		}
	}
	for _, side := range []string{"top", "right", "bottom", "left"} {
		style.Set("border-"+side+"-width", width)
	}
}

type Color struct {
	R, G, B uint8
}

var namedColors = map[string]Color{
	"red":       {255, 0, 0},
	"green":     {0, 128, 0},
	"blue":      {0, 0, 255},
	"yellow":    {255, 255, 0},
	"cyan":      {0, 255, 255},
	"magenta":   {255, 0, 255},
	"white":     {255, 255, 255},
	"black":     {0, 0, 0},
	"gray":      {128, 128, 128},
	"orange":    {255, 165, 0},
	"purple":    {128, 0, 128},
	"pink":      {255, 192, 203},
	"lime":      {0, 255, 0},
	"navy":      {0, 0, 128},
	"teal":      {0, 128, 128},
	"silver":    {192, 192, 192},
	"lightgray": {211, 211, 211},
}

// ParseColor understands named colors and #rgb / #rrggbb.
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if c, ok := namedColors[colorStr]; ok {
		return c, true
	}
	hex := strings.TrimPrefix(colorStr, "#")
	if hex == colorStr {
		return Color{}, false
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

// GetBackgroundColor returns the background color, if any.
func (s *Style) GetBackgroundColor() (Color, bool) {
	if v, ok := s.Get("background-color"); ok {
		return ParseColor(v)
	}
	if v, ok := s.Get("background"); ok {
		return ParseColor(v)
	}
	return Color{}, false
}
