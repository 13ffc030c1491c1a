package domain

import "github.com/zojize/exusiai-bot/pkg/probtree"

// Pull is the outcome of one recruitment.
type Pull struct {
	Operator Operator             `json:"operator"`
	Rarity   int                  `json:"rarity"`
	RateUp   bool                 `json:"rate_up"`
	Pity     int                  `json:"pity"` // Pulls since the last pity-rarity hit, before this one.
	Rate     probtree.Probability `json:"rate"` // Rarity rate in effect for this pull.
}
