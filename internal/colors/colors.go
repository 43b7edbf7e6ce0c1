// Package colors assigns category colors. Without an override, a category's
// color is a deterministic hash into a fixed palette, using the same 32-bit
// arithmetic the web client uses so both sides agree without coordination.
package colors

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// Palette is the fixed category palette shared with the web client.
var Palette = []string{
	"#667eea", "#f093fb", "#4ecdc4", "#45b7d1", "#96ceb4", "#feca57",
	"#ff6b6b", "#c44569", "#f8b500", "#6c5ce7", "#00cec9", "#fd79a8",
	"#fdcb6e", "#6c5ce7", "#00b894", "#e17055",
}

// Resolve returns the user's override for category if one exists, otherwise
// the deterministic palette color.
func Resolve(category string, overrides map[string]string, palette []string) string {
	if c, ok := overrides[category]; ok {
		return c
	}
	return DefaultColor(category, palette)
}

// DefaultColor hashes category into palette. The web client folds UTF-16
// code units with h = code + ((h << 5) - h), where only the shift operand is
// coerced to 32 bits and the running value stays exact; changing either half
// of that breaks color agreement with every already-rendered client. The
// running value is bounded by len(category) * 2^31, so int64 holds it
// exactly.
func DefaultColor(category string, palette []string) string {
	var h int64
	for _, code := range utf16.Encode([]rune(category)) {
		shifted := int32(h) << 5
		h = int64(code) + int64(shifted) - h
	}

	if h < 0 {
		h = -h
	}
	return palette[h%int64(len(palette))]
}

// TextColor picks a readable text color for a hex background using the
// standard luma weights: dark text above 0.5 luminance, light below.
func TextColor(hexColor string) string {
	hex := strings.TrimPrefix(hexColor, "#")
	if len(hex) != 6 {
		return "#ffffff"
	}
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return "#ffffff"
	}

	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance > 0.5 {
		return "#2d2d2d"
	}
	return "#ffffff"
}
