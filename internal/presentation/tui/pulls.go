package tui

import (
	"fmt"
	"strings"

	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/gacha"
)

// PullsMarkdown renders pulls as a markdown table with a summary line.
func PullsMarkdown(banner string, pulls []domain.Pull) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", banner)
	sb.WriteString("| # | Rarity | Operator | Class | Rate-up | Pity |\n")
	sb.WriteString("|---|--------|----------|-------|---------|------|\n")

	counts := make(map[int]int)
	for i, p := range pulls {
		up := ""
		if p.RateUp {
			up = "✓"
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %d |\n",
			i+1, PlainStars(p.Rarity), p.Operator.DisplayName(), p.Operator.Class, up, p.Pity)
		counts[p.Rarity]++
	}

	sb.WriteString("\n")
	var parts []string
	for r := domain.MaxRarity; r >= domain.MinRarity; r-- {
		if counts[r] > 0 {
			parts = append(parts, fmt.Sprintf("%d★ × %d", r, counts[r]))
		}
	}
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString("\n")
	return sb.String()
}

// PullsText renders one line per pull for plain output.
func PullsText(pulls []domain.Pull, colour bool) string {
	var sb strings.Builder
	for _, p := range pulls {
		stars := PlainStars(p.Rarity)
		if colour {
			stars = Stars(p.Rarity)
		}
		up := ""
		if p.RateUp {
			up = " [UP]"
		}
		fmt.Fprintf(&sb, "%s %s%s\n", stars, p.Operator.DisplayName(), up)
	}
	return sb.String()
}

// InfoMarkdown renders banner details.
func InfoMarkdown(name, title string, rateUps []domain.Operator, rates []gacha.RarityRate, pity bool, cfg domain.PityConfig) string {
	var sb strings.Builder
	heading := name
	if title != "" {
		heading = fmt.Sprintf("%s (%s)", title, name)
	}
	fmt.Fprintf(&sb, "## %s\n\n", heading)

	sb.WriteString("| Rarity | Rate |\n|--------|------|\n")
	for _, r := range rates {
		fmt.Fprintf(&sb, "| %s | %s |\n", PlainStars(r.Rarity), r.Rate)
	}

	if len(rateUps) > 0 {
		sb.WriteString("\n**Rate-up:** ")
		names := make([]string, len(rateUps))
		for i, op := range rateUps {
			names[i] = fmt.Sprintf("%s %s", PlainStars(op.Rarity), op.DisplayName())
		}
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString("\n")
	}

	if pity {
		fmt.Fprintf(&sb, "\n**Pity:** after %d pulls without %d★, +%.0f%% per pull\n", cfg.Threshold, cfg.Rarity, cfg.Step*100)
	} else {
		sb.WriteString("\n**Pity:** off\n")
	}
	return sb.String()
}
