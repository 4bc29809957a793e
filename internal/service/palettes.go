package service

import (
	"strings"

	"github.com/tripmaster/trip-scout/internal/domain"
)

// colorPalettes keys on the lowercased city part of the destination. The
// frontend uses these to theme the generated guide.
var colorPalettes = map[string]domain.ColorMap{
	"barcelona": {
		"primary":   "#c41e3a",
		"accent":    "#f4a261",
		"secondary": "#2a9d8f",
		"neutral":   "#f5e6d3",
	},
	"paris": {
		"primary":   "#1a1a2e",
		"accent":    "#d4a574",
		"secondary": "#16213e",
		"neutral":   "#f0e6d2",
	},
	"tokyo": {
		"primary":   "#8B0000",
		"accent":    "#FFD700",
		"secondary": "#1a1a1a",
		"neutral":   "#f5f5f5",
	},
	"default": {
		"primary":   "#2c3e50",
		"accent":    "#e67e22",
		"secondary": "#34495e",
		"neutral":   "#ecf0f1",
	},
}

func colorPalette(location string) domain.ColorMap {
	key := strings.TrimSpace(strings.ToLower(strings.SplitN(location, ",", 2)[0]))
	if palette, ok := colorPalettes[key]; ok {
		return palette
	}
	return colorPalettes["default"]
}
