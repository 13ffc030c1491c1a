package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zojize/exusiai-bot"
	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/gacha"
	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// Gacha is the part of *exusiai.Gacha the commands use.
type Gacha interface {
	Banner() domain.Banner
	Banners() []domain.Banner
	SetBanner(ctx context.Context, name string) error
	SetPity(enabled bool) error
	PityEnabled() bool
	Info() exusiai.Info
	Reload(ctx context.Context) error
	Pull(ctx context.Context, user string, n int) ([]domain.Pull, error)
	Status(ctx context.Context, user string) (gacha.Status, error)
	ResetPity(ctx context.Context, user string) error
}

// CommandOption configures the commands installed by Register.
type CommandOption func(*commands)

// WithClock replaces time.Now for date-dependent commands.
func WithClock(now func() time.Time) CommandOption {
	return func(c *commands) {
		c.now = now
	}
}

// Register adds the recruitment commands and the daily luck roll to d.
func Register(d *Dispatcher, g Gacha, opts ...CommandOption) {
	c := &commands{g: g, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	d.Add("十连", "ten-pull", c.pull10, "pull10")
	d.Add("单抽", "pull once, or n times", c.pull, "pull")
	d.Add("卡池", "show or switch the banner", c.banner, "banner")
	d.Add("卡池列表", "list banners", c.banners, "banners")
	d.Add("卡池信息", "show rate-up operators", c.info, "info")
	d.Add("保底", "show pity, or turn it on/off", c.pity, "pity")
	d.Add("重置保底", "reset your pity counter", c.resetPity, "resetpity")
	d.Add("更新卡池", "reload banner data", c.reload, "reload")
	d.Add("今日人品", "today's luck, 0 to 100", c.luck, "jrrp")
	d.Add("帮助", "list commands", func(ctx context.Context, msg Message, argv []string) (Reply, error) {
		return Reply{Text: d.Help()}, nil
	}, "help")
}

type commands struct {
	g   Gacha
	now func() time.Time
}

func (c *commands) pull10(ctx context.Context, msg Message, argv []string) (Reply, error) {
	pulls, err := c.g.Pull(ctx, msg.User, 10)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("@%s 的十连寻访结果: \n%s", msg.User, FormatPulls(pulls))}, nil
}

func (c *commands) pull(ctx context.Context, msg Message, argv []string) (Reply, error) {
	n := 1
	if len(argv) > 1 {
		v, err := strconv.Atoi(argv[1])
		if err != nil || v < 1 || v > gacha.MaxPulls {
			return Reply{Text: fmt.Sprintf("抽数必须是 1 到 %d 之间的整数", gacha.MaxPulls)}, nil
		}
		n = v
	}
	pulls, err := c.g.Pull(ctx, msg.User, n)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("@%s 的寻访结果: \n%s", msg.User, FormatPulls(pulls))}, nil
}

func (c *commands) banner(ctx context.Context, msg Message, argv []string) (Reply, error) {
	if len(argv) < 2 {
		return Reply{Text: fmt.Sprintf("当前卡池: %s", c.g.Banner().Name)}, nil
	}
	name := strings.Join(argv[1:], " ")
	if err := c.g.SetBanner(ctx, name); err != nil {
		if errors.Is(err, domain.ErrBannerNotFound) {
			return Reply{Text: "卡池设置失败"}, nil
		}
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("卡池已设置为 %s", name)}, nil
}

func (c *commands) banners(ctx context.Context, msg Message, argv []string) (Reply, error) {
	current := c.g.Banner().Name
	var sb strings.Builder
	sb.WriteString("可选卡池列表: \n")
	for _, b := range c.g.Banners() {
		sb.WriteString(b.Name)
		if b.Name == current {
			sb.WriteString(" (当前)")
		}
		sb.WriteString("\n")
	}
	return Reply{Text: sb.String()}, nil
}

func (c *commands) info(ctx context.Context, msg Message, argv []string) (Reply, error) {
	info := c.g.Info()
	if len(info.RateUps) == 0 {
		return Reply{Text: "当前卡池没有概率UP干员。"}, nil
	}
	names := make([]string, len(info.RateUps))
	for i, op := range info.RateUps {
		names[i] = op.DisplayName()
	}
	return Reply{Text: fmt.Sprintf("当前概率UP干员：%s", strings.Join(names, ", "))}, nil
}

func (c *commands) pity(ctx context.Context, msg Message, argv []string) (Reply, error) {
	if len(argv) > 1 {
		switch strings.ToLower(argv[1]) {
		case "开", "on":
			if err := c.g.SetPity(true); err != nil {
				return Reply{}, err
			}
			return Reply{Text: "已开启保底"}, nil
		case "关", "off":
			if err := c.g.SetPity(false); err != nil {
				return Reply{}, err
			}
			return Reply{Text: "已关闭保底"}, nil
		default:
			return Reply{Text: "用法: 保底 [开|关]"}, nil
		}
	}

	if !c.g.PityEnabled() {
		return Reply{Text: "保底已关闭"}, nil
	}
	st, err := c.g.Status(ctx, msg.User)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("@%s 已经 %d 抽没有出 %d★，下一抽 %d★ 概率 %s",
		msg.User, st.Counter, st.Rarity, st.Rarity, percent(st.Rate))}, nil
}

func (c *commands) resetPity(ctx context.Context, msg Message, argv []string) (Reply, error) {
	if err := c.g.ResetPity(ctx, msg.User); err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("@%s 的保底已重置", msg.User)}, nil
}

func (c *commands) reload(ctx context.Context, msg Message, argv []string) (Reply, error) {
	if err := c.g.Reload(ctx); err != nil {
		return Reply{}, err
	}
	return Reply{Text: "卡池数据已更新"}, nil
}

func percent(p probtree.Probability) string {
	return p.Decimal().Shift(2).String() + "%"
}
