package observability

import (
	"context"
	"log/slog"

	"github.com/zojize/exusiai-bot/pkg/domain"
)

// LogHooks writes every event to logger. Pulls are logged at debug level.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnPull: func(ctx context.Context, e *domain.PullEvent) {
			logger.DebugContext(ctx, "pull",
				"banner", e.Banner,
				"user", e.User,
				"operator", e.Pull.Operator.Name,
				"rarity", e.Pull.Rarity,
				"rate_up", e.Pull.RateUp,
				"pity", e.Pull.Pity,
			)
		},
		OnPityBoost: func(ctx context.Context, e *domain.PityEvent) {
			logger.InfoContext(ctx, "pity_boost",
				"banner", e.Banner,
				"user", e.User,
				"counter", e.Counter,
				"rarity", e.Rarity,
				"rate", e.Rate.String(),
			)
		},
		OnBannerChange: func(ctx context.Context, e *domain.BannerEvent) {
			logger.InfoContext(ctx, "banner_change",
				"banner", e.Banner,
				"previous", e.Previous,
			)
		},
	}
}
