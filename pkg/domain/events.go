package domain

import (
	"context"
	"time"

	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPull         EventType = "pull"
	EventPityBoost    EventType = "pity_boost"
	EventBannerChange EventType = "banner_change"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Banner    string    `json:"banner"`
}

// NewEventBase stamps an event of type t for banner.
func NewEventBase(t EventType, banner string) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t, Banner: banner}
}

// PullEvent is emitted after every single pull.
type PullEvent struct {
	EventBase
	User string `json:"user"`
	Pull Pull   `json:"pull"`
}

// PityEvent is emitted when pity raises a rarity's rate before a pull.
type PityEvent struct {
	EventBase
	User    string               `json:"user"`
	Counter int                  `json:"counter"`
	Rarity  int                  `json:"rarity"`
	Rate    probtree.Probability `json:"rate"`
}

// BannerEvent is emitted when the active banner changes or is reloaded.
type BannerEvent struct {
	EventBase
	Previous string `json:"previous,omitempty"`
}

// Hooks defines callbacks for runtime observability.
type Hooks struct {
	OnPull         func(context.Context, *PullEvent)
	OnPityBoost    func(context.Context, *PityEvent)
	OnBannerChange func(context.Context, *BannerEvent)
}

// ChainHooks returns Hooks that call each of hooks in order.
func ChainHooks(hooks ...Hooks) Hooks {
	return Hooks{
		OnPull: func(ctx context.Context, e *PullEvent) {
			for _, h := range hooks {
				if h.OnPull != nil {
					h.OnPull(ctx, e)
				}
			}
		},
		OnPityBoost: func(ctx context.Context, e *PityEvent) {
			for _, h := range hooks {
				if h.OnPityBoost != nil {
					h.OnPityBoost(ctx, e)
				}
			}
		},
		OnBannerChange: func(ctx context.Context, e *BannerEvent) {
			for _, h := range hooks {
				if h.OnBannerChange != nil {
					h.OnBannerChange(ctx, e)
				}
			}
		},
	}
}
