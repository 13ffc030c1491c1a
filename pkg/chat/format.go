package chat

import (
	"strings"

	"github.com/zojize/exusiai-bot/pkg/domain"
)

// starGlyphs is indexed by rarity.
var starGlyphs = []string{"", "☆", "☆", "☆", "☆", "★", "⭐"}

// Stars repeats the rarity's glyph rarity times, e.g. "★★★★★" for 5.
func Stars(rarity int) string {
	if rarity < 0 || rarity >= len(starGlyphs) {
		return ""
	}
	return strings.Repeat(starGlyphs[rarity], rarity)
}

// FormatPulls renders one line per pull: stars, class and display name.
func FormatPulls(pulls []domain.Pull) string {
	lines := make([]string, len(pulls))
	for i, p := range pulls {
		parts := []string{Stars(p.Rarity)}
		if p.Operator.Class != "" {
			parts = append(parts, p.Operator.Class)
		}
		parts = append(parts, p.Operator.DisplayName())
		lines[i] = strings.Join(parts, " ")
	}
	return strings.Join(lines, "\n")
}
