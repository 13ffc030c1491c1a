package chat_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zojize/exusiai-bot"
	"github.com/zojize/exusiai-bot/internal/logging"
	"github.com/zojize/exusiai-bot/internal/testutils"
	"github.com/zojize/exusiai-bot/pkg/adapters/memory"
	"github.com/zojize/exusiai-bot/pkg/chat"
	"github.com/zojize/exusiai-bot/pkg/domain"
)

func newDispatcher(t *testing.T, opts ...chat.Option) (*chat.Dispatcher, *exusiai.Gacha) {
	t.Helper()
	cat := testutils.Catalog()
	g, err := exusiai.New("", exusiai.WithLoader(memory.NewLoader(cat)), exusiai.WithSeed(3))
	require.NoError(t, err)

	d := chat.NewDispatcher(opts...)
	chat.Register(d, g)
	return d, g
}

func TestParse(t *testing.T) {
	tests := []struct {
		text string
		argv []string
		ok   bool
	}{
		{".十连", []string{"十连"}, true},
		{"。卡池 exusiai", []string{"卡池", "exusiai"}, true},
		{"  .pull   5 ", []string{"pull", "5"}, true},
		{"hello", nil, false},
		{".", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			argv, ok := chat.Parse(chat.DefaultPrefixes, tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.argv, argv)
		})
	}
}

func TestDispatch_Pull10(t *testing.T) {
	d, _ := newDispatcher(t)

	reply, err := d.Dispatch(context.Background(), chat.Message{User: "doctor", Text: ".十连"})
	require.NoError(t, err)

	lines := strings.Split(reply.Text, "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "@doctor 的十连寻访结果: ", lines[0])
}

func TestDispatch_PullWithoutSpace(t *testing.T) {
	d, _ := newDispatcher(t)

	reply, err := d.Dispatch(context.Background(), chat.Message{User: "doctor", Text: ".单抽3"})
	require.NoError(t, err)
	assert.Len(t, strings.Split(reply.Text, "\n"), 4)

	reply, err = d.Dispatch(context.Background(), chat.Message{User: "doctor", Text: ".pull 0"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "1 到 300")
}

func TestDispatch_Banner(t *testing.T) {
	d, g := newDispatcher(t)
	ctx := context.Background()

	reply, err := d.Dispatch(ctx, chat.Message{User: "a", Text: ".卡池 exusiai"})
	require.NoError(t, err)
	assert.Equal(t, "卡池已设置为 exusiai", reply.Text)
	assert.Equal(t, "exusiai", g.Banner().Name)

	reply, err = d.Dispatch(ctx, chat.Message{User: "a", Text: ".banner nope"})
	require.NoError(t, err)
	assert.Equal(t, "卡池设置失败", reply.Text)

	reply, err = d.Dispatch(ctx, chat.Message{User: "a", Text: ".卡池信息"})
	require.NoError(t, err)
	assert.Equal(t, "当前概率UP干员：能天使", reply.Text)

	reply, err = d.Dispatch(ctx, chat.Message{User: "a", Text: ".BANNERS"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "exusiai (当前)")
}

func TestDispatch_Pity(t *testing.T) {
	d, g := newDispatcher(t)
	ctx := context.Background()

	reply, err := d.Dispatch(ctx, chat.Message{User: "a", Text: ".保底 关"})
	require.NoError(t, err)
	assert.Equal(t, "已关闭保底", reply.Text)
	assert.False(t, g.PityEnabled())

	reply, err = d.Dispatch(ctx, chat.Message{User: "a", Text: ".pity"})
	require.NoError(t, err)
	assert.Equal(t, "保底已关闭", reply.Text)

	_, err = d.Dispatch(ctx, chat.Message{User: "a", Text: ".pity on"})
	require.NoError(t, err)
	assert.True(t, g.PityEnabled())

	reply, err = d.Dispatch(ctx, chat.Message{User: "a", Text: ".保底"})
	require.NoError(t, err)
	assert.Equal(t, "@a 已经 0 抽没有出 6★，下一抽 6★ 概率 2%", reply.Text)
}

func TestDispatch_Errors(t *testing.T) {
	d, _ := newDispatcher(t)
	ctx := context.Background()

	_, err := d.Dispatch(ctx, chat.Message{User: "a", Text: "just chatting"})
	assert.ErrorIs(t, err, chat.ErrNotCommand)

	_, err = d.Dispatch(ctx, chat.Message{User: "a", Text: ".rd"})
	assert.ErrorIs(t, err, chat.ErrUnknownCommand)
}

func TestLuck(t *testing.T) {
	morning := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)

	v := chat.Luck("alice", morning)
	assert.GreaterOrEqual(t, v, 0)
	assert.LessOrEqual(t, v, chat.MaxLuck)
	assert.Equal(t, v, chat.Luck("alice", evening), "same user, same day")

	// Over a month the roll must move at least once.
	changed := false
	for day := 1; day <= 30 && !changed; day++ {
		changed = chat.Luck("alice", morning.AddDate(0, 0, day)) != v
	}
	assert.True(t, changed)
}

func TestDispatch_Luck(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	cat := testutils.Catalog()
	g, err := exusiai.New("", exusiai.WithLoader(memory.NewLoader(cat)))
	require.NoError(t, err)
	d := chat.NewDispatcher()
	chat.Register(d, g, chat.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	want := fmt.Sprintf("@alice 今天的人品值是：%d。", chat.Luck("alice", now))
	for _, text := range []string{".jrrp", ".今日人品", "。JRRP"} {
		reply, err := d.Dispatch(ctx, chat.Message{User: "alice", Text: text})
		require.NoError(t, err, text)
		assert.Equal(t, want, reply.Text, text)
	}
}

func TestHelp(t *testing.T) {
	d, _ := newDispatcher(t)
	reply, err := d.Dispatch(context.Background(), chat.Message{User: "a", Text: ".help"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, ".十连 (pull10): ten-pull")
	assert.Contains(t, reply.Text, ".卡池列表 (banners): list banners")
}

func TestFormatPulls(t *testing.T) {
	pulls := []domain.Pull{
		{Operator: domain.Operator{Name: "Exusiai", CNName: "能天使", Class: "Sniper"}, Rarity: 6},
		{Operator: domain.Operator{Name: "Fang"}, Rarity: 3},
	}
	assert.Equal(t, "⭐⭐⭐⭐⭐⭐ Sniper 能天使\n☆☆☆ Fang", chat.FormatPulls(pulls))
	assert.Empty(t, chat.Stars(9))
}

func TestCooldown(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	d, _ := newDispatcher(t, chat.WithMiddleware(chat.Cooldown(10*time.Second, clock)))
	ctx := context.Background()

	_, err := d.Dispatch(ctx, chat.Message{User: "a", Text: ".卡池"})
	require.NoError(t, err)

	now = now.Add(3 * time.Second)
	reply, err := d.Dispatch(ctx, chat.Message{User: "a", Text: ".卡池"})
	require.NoError(t, err)
	assert.Equal(t, "@a 请 7 秒后再试", reply.Text)

	reply, err = d.Dispatch(ctx, chat.Message{User: "b", Text: ".卡池"})
	require.NoError(t, err)
	assert.Equal(t, "当前卡池: standard", reply.Text, "users cool down separately")

	now = now.Add(7 * time.Second)
	reply, err = d.Dispatch(ctx, chat.Message{User: "a", Text: ".卡池"})
	require.NoError(t, err)
	assert.Equal(t, "当前卡池: standard", reply.Text)
}

func TestRecover(t *testing.T) {
	d := chat.NewDispatcher(chat.WithMiddleware(chat.Chain(chat.Recover(logging.NewNop()))))
	d.Add("boom", "", func(ctx context.Context, msg chat.Message, argv []string) (chat.Reply, error) {
		panic(errors.New("kaboom"))
	})

	_, err := d.Dispatch(context.Background(), chat.Message{User: "a", Text: ".boom"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}
