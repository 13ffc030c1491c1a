package gacha

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zojize/exusiai-bot/internal/logging"
	"github.com/zojize/exusiai-bot/pkg/adapters/memory"
	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/pity"
	"github.com/zojize/exusiai-bot/pkg/ports"
	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// MaxPulls caps the number of pulls in one call.
const MaxPulls = 300

// RarityRate is the rate of one rarity node.
type RarityRate struct {
	Rarity int                  `json:"rarity"`
	Rate   probtree.Probability `json:"rate"`
}

// Status describes a user's pity on the machine's banner.
type Status struct {
	Counter int                  `json:"counter"`
	Rarity  int                  `json:"rarity"`
	Rate    probtree.Probability `json:"rate"` // Pity rarity rate for the next pull.
}

// Machine draws from one banner. It is safe for concurrent use.
type Machine struct {
	banner domain.Banner
	pity   domain.PityConfig

	mu   sync.Mutex // guards tree and src
	tree *probtree.Node
	src  probtree.Source

	counters   *pity.Manager
	pityActive bool
	hooks      domain.Hooks
	logger     *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithSource sets the randomness used for draws.
func WithSource(src probtree.Source) Option {
	return func(m *Machine) {
		m.src = src
	}
}

// WithSeed makes draws reproducible.
func WithSeed(seed uint64) Option {
	return WithSource(probtree.NewSource(seed))
}

// WithCounters sets the pity counter manager.
func WithCounters(counters *pity.Manager) Option {
	return func(m *Machine) {
		m.counters = counters
	}
}

// WithPity toggles pity regardless of the banner configuration.
func WithPity(enabled bool) Option {
	return func(m *Machine) {
		m.pityActive = enabled
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks domain.Hooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger configures a logger for the Machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// NewMachine builds the tree for b and prepares a machine around it.
// Without options pity counters are kept in memory and draws use a
// time-seeded source.
func NewMachine(cat *domain.Catalog, b domain.Banner, opts ...Option) (*Machine, error) {
	tree, err := BuildTree(cat, b)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		banner:     b,
		pity:       b.Pity.WithDefaults(),
		tree:       tree,
		pityActive: !b.Pity.Disabled,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.src == nil {
		m.src = probtree.NewSource(uint64(time.Now().UnixNano()))
	}
	if m.counters == nil {
		m.counters = pity.NewManager(memory.NewStore(), pity.WithLogger(m.logger))
	}
	return m, nil
}

// Banner returns the banner the machine draws from.
func (m *Machine) Banner() domain.Banner {
	return m.banner
}

// PityEnabled reports whether pulls consult the pity counter.
func (m *Machine) PityEnabled() bool {
	return m.pityActive
}

// Pull performs n pulls for user. n must be within 1..MaxPulls.
// With pity enabled the user's counter is read once, advanced through the
// pulls and saved at the end; a failed call leaves it unchanged.
func (m *Machine) Pull(ctx context.Context, user string, n int) ([]domain.Pull, error) {
	if n < 1 || n > MaxPulls {
		return nil, fmt.Errorf("%w: %d (want 1 to %d)", domain.ErrInvalidCount, n, MaxPulls)
	}

	var (
		pulls  []domain.Pull
		boosts []*domain.PityEvent
	)
	run := func(counter int) (int, error) {
		var err error
		pulls, boosts, counter, err = m.draw(user, n, counter)
		return counter, err
	}

	var err error
	if m.pityActive {
		err = m.counters.Update(ctx, ports.PityKey(m.banner.Name, user), run)
	} else {
		_, err = run(0)
	}
	if err != nil {
		return nil, err
	}

	m.emit(ctx, user, pulls, boosts)
	return pulls, nil
}

// Pull10 performs a ten-pull.
func (m *Machine) Pull10(ctx context.Context, user string) ([]domain.Pull, error) {
	return m.Pull(ctx, user, 10)
}

func (m *Machine) draw(user string, n, counter int) ([]domain.Pull, []*domain.PityEvent, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.tree.ResetChildren()

	pulls := make([]domain.Pull, 0, n)
	var boosts []*domain.PityEvent

	for i := 0; i < n; i++ {
		m.tree.ResetChildren()

		if m.pityActive {
			boost, err := m.applyPity(user, counter)
			if err != nil {
				return nil, nil, 0, err
			}
			if boost != nil {
				boosts = append(boosts, boost)
			}
		}

		leaf, err := m.tree.ChoiceRecursive(m.src)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("draw failed: %w", err)
		}
		pool, ok := leaf.Value().(*Pool)
		if !ok || len(pool.Operators) == 0 {
			return nil, nil, 0, fmt.Errorf("%w: %s", domain.ErrEmptyPool, leaf.PathString())
		}

		op := pool.Operators[m.src.Int64N(int64(len(pool.Operators)))]
		pulls = append(pulls, domain.Pull{
			Operator: op,
			Rarity:   pool.Rarity,
			RateUp:   pool.RateUp,
			Pity:     counter,
			Rate:     leaf.Parent().Probability(),
		})

		if pool.Rarity == m.pity.Rarity {
			counter = 0
		} else {
			counter++
		}
	}

	m.logger.Debug("Pulls drawn", "banner", m.banner.Name, "user", user, "count", n, "pity", counter)
	return pulls, boosts, counter, nil
}

// applyPity raises the pity rarity for a counter past the threshold.
// The tree must be reset and m.mu held.
func (m *Machine) applyPity(user string, counter int) (*domain.PityEvent, error) {
	if counter < m.pity.Threshold {
		return nil, nil
	}
	name := RarityName(m.pity.Rarity)
	node, ok := m.tree.ChildByName(name)
	if !ok {
		return nil, nil
	}

	rate, err := BoostedRate(node.InitialProbability(), m.pity, counter)
	if err != nil {
		return nil, err
	}
	if err := m.tree.SetChildProbabilityByName(name, rate); err != nil {
		return nil, fmt.Errorf("failed to apply pity: %w", err)
	}

	return &domain.PityEvent{
		EventBase: domain.NewEventBase(domain.EventPityBoost, m.banner.Name),
		User:      user,
		Counter:   counter,
		Rarity:    m.pity.Rarity,
		Rate:      rate,
	}, nil
}

// BoostedRate returns base + step*(counter-threshold+1), capped at 1.
// Counters below the threshold return base.
func BoostedRate(base probtree.Probability, cfg domain.PityConfig, counter int) (probtree.Probability, error) {
	over := counter - cfg.Threshold + 1
	if over <= 0 {
		return base, nil
	}
	d := base.Decimal().Add(decimal.NewFromFloat(cfg.Step).Mul(decimal.NewFromInt(int64(over))))
	if d.GreaterThan(probtree.One.Decimal()) {
		return probtree.One, nil
	}
	return probtree.FromDecimal(d)
}

func (m *Machine) emit(ctx context.Context, user string, pulls []domain.Pull, boosts []*domain.PityEvent) {
	if m.hooks.OnPityBoost != nil {
		for _, b := range boosts {
			m.hooks.OnPityBoost(ctx, b)
		}
	}
	if m.hooks.OnPull != nil {
		for _, p := range pulls {
			m.hooks.OnPull(ctx, &domain.PullEvent{
				EventBase: domain.NewEventBase(domain.EventPull, m.banner.Name),
				User:      user,
				Pull:      p,
			})
		}
	}
}

// Rates reports the rarity rates currently on the tree, highest rarity first.
// Outside of a pull these are the banner's base rates.
func (m *Machine) Rates() []RarityRate {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]RarityRate, 0, m.tree.Len())
	for _, c := range m.tree.Children() {
		rarity, err := strconv.Atoi(c.Name())
		if err != nil {
			continue
		}
		out = append(out, RarityRate{Rarity: rarity, Rate: c.Probability()})
	}
	return out
}

// Status reports user's counter and the pity rarity rate their next pull
// would use.
func (m *Machine) Status(ctx context.Context, user string) (Status, error) {
	st := Status{Rarity: m.pity.Rarity}

	m.mu.Lock()
	node, ok := m.tree.ChildByName(RarityName(m.pity.Rarity))
	if ok {
		st.Rate = node.InitialProbability()
	}
	m.mu.Unlock()

	if !m.pityActive {
		return st, nil
	}

	n, err := m.counters.Get(ctx, ports.PityKey(m.banner.Name, user))
	if err != nil {
		return st, err
	}
	st.Counter = n
	if ok {
		rate, err := BoostedRate(st.Rate, m.pity, n)
		if err != nil {
			return st, err
		}
		st.Rate = rate
	}
	return st, nil
}

// ResetPity clears user's counter.
func (m *Machine) ResetPity(ctx context.Context, user string) error {
	return m.counters.Reset(ctx, ports.PityKey(m.banner.Name, user))
}

// View calls fn with the tree while holding the machine lock.
// fn must not keep or mutate the tree.
func (m *Machine) View(fn func(root *probtree.Node)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.tree)
}
