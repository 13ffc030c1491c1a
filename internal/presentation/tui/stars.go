package tui

import (
	"strings"

	"github.com/muesli/termenv"
)

var rarityColors = map[int]string{
	6: "#f97316",
	5: "#facc15",
	4: "#c084fc",
	3: "#60a5fa",
}

// Stars renders rarity as star glyphs, coloured per rarity when the
// terminal supports it.
func Stars(rarity int) string {
	s := strings.Repeat("★", rarity)
	color, ok := rarityColors[rarity]
	if !ok {
		return s
	}
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color(color)).Bold().String()
}

// PlainStars renders rarity without colour, for markdown and logs.
func PlainStars(rarity int) string {
	return strings.Repeat("★", rarity)
}
