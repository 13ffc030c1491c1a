package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/gacha"
	"github.com/zojize/exusiai-bot/pkg/probtree"
)

func samplePulls() []domain.Pull {
	return []domain.Pull{
		{Operator: domain.Operator{Name: "Exusiai", CNName: "能天使", Class: "Sniper"}, Rarity: 6, RateUp: true},
		{Operator: domain.Operator{Name: "Fang"}, Rarity: 3, Pity: 1},
		{Operator: domain.Operator{Name: "Kroos"}, Rarity: 3, Pity: 2},
	}
}

func TestPullsMarkdown(t *testing.T) {
	out := PullsMarkdown("standard", samplePulls())

	assert.Contains(t, out, "## standard")
	assert.Contains(t, out, "| 1 | ★★★★★★ | 能天使 | Sniper | ✓ | 0 |")
	assert.Contains(t, out, "6★ × 1, 3★ × 2")
}

func TestPullsText(t *testing.T) {
	out := PullsText(samplePulls(), false)
	assert.Contains(t, out, "★★★★★★ 能天使 [UP]\n")
	assert.Contains(t, out, "★★★ Fang\n")
}

func TestInfoMarkdown(t *testing.T) {
	rates := []gacha.RarityRate{{Rarity: 6, Rate: probtree.MustFloat(0.02)}}
	cfg := domain.PityConfig{}.WithDefaults()

	out := InfoMarkdown("standard", "Standard", []domain.Operator{{Name: "Exusiai", Rarity: 6}}, rates, true, cfg)
	assert.Contains(t, out, "## Standard (standard)")
	assert.Contains(t, out, "| ★★★★★★ | 0.02 |")
	assert.Contains(t, out, "**Rate-up:** ★★★★★★ Exusiai")
	assert.Contains(t, out, "after 50 pulls without 6★, +2% per pull")

	off := InfoMarkdown("standard", "", nil, rates, false, cfg)
	assert.Contains(t, off, "**Pity:** off")
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★", PlainStars(3))
	assert.Contains(t, Stars(6), "★★★★★★")
	assert.Equal(t, "★", Stars(1))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.NotEmpty(t, buf.String())
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# Title")
	assert.NoError(t, err)
	assert.Contains(t, out, "Title")
}
