package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zojize/exusiai-bot/pkg/domain"
)

// Metrics holds the Prometheus collectors of the runtime.
type Metrics struct {
	Pulls      *prometheus.CounterVec
	PityBoosts *prometheus.CounterVec
	PityRate   *prometheus.GaugeVec
	Banners    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg registers nothing, which suits tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Pulls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exusiai_pulls_total",
				Help: "Total number of pulls by banner and rarity",
			},
			[]string{"banner", "rarity"},
		),
		PityBoosts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exusiai_pity_boosts_total",
				Help: "Total number of pulls drawn with a pity-raised rate",
			},
			[]string{"banner"},
		),
		PityRate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "exusiai_pity_rate",
				Help: "Most recent pity-raised rate",
			},
			[]string{"banner"},
		),
		Banners: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exusiai_banner_changes_total",
				Help: "Total number of banner switches and reloads",
			},
			[]string{"banner"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Pulls, m.PityBoosts, m.PityRate, m.Banners)
	}
	return m
}

// Hooks records every event into the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnPull: func(ctx context.Context, e *domain.PullEvent) {
			m.Pulls.WithLabelValues(e.Banner, strconv.Itoa(e.Pull.Rarity)).Inc()
		},
		OnPityBoost: func(ctx context.Context, e *domain.PityEvent) {
			m.PityBoosts.WithLabelValues(e.Banner).Inc()
			m.PityRate.WithLabelValues(e.Banner).Set(e.Rate.Float64())
		},
		OnBannerChange: func(ctx context.Context, e *domain.BannerEvent) {
			m.Banners.WithLabelValues(e.Banner).Inc()
		},
	}
}
