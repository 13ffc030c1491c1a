package chat

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// MaxLuck is the highest daily luck value.
const MaxLuck = 100

// Luck returns user's luck for the day containing t, in [0, MaxLuck]. The
// value is fixed for a user and ISO calendar date.
func Luck(user string, t time.Time) int {
	year, week := t.ISOWeek()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s\x00%d-W%02d-%d", user, year, week, weekday)
	return int(probtree.NewSource(h.Sum64()).Int64N(MaxLuck + 1))
}

func (c *commands) luck(ctx context.Context, msg Message, argv []string) (Reply, error) {
	return Reply{Text: fmt.Sprintf("@%s 今天的人品值是：%d。", msg.User, Luck(msg.User, c.now()))}, nil
}
