package exusiai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zojize/exusiai-bot/internal/logging"
	"github.com/zojize/exusiai-bot/pkg/adapters/file"
	"github.com/zojize/exusiai-bot/pkg/adapters/memory"
	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/gacha"
	"github.com/zojize/exusiai-bot/pkg/pity"
	"github.com/zojize/exusiai-bot/pkg/ports"
	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// ErrNotWatchable is returned by Watch when the loader cannot report changes.
var ErrNotWatchable = errors.New("loader does not support watching")

// Gacha is the high-level entry point: a catalog, the selected banner and
// the machine drawing from it. It is safe for concurrent use.
type Gacha struct {
	loader   ports.CatalogLoader
	store    ports.PityStore
	locker   ports.Locker
	counters *pity.Manager
	src      probtree.Source
	hooks    domain.Hooks
	logger   *slog.Logger

	initialBanner string

	mu      sync.RWMutex
	catalog *domain.Catalog
	machine *gacha.Machine
	pity    bool
}

// Info summarizes the selected banner.
type Info struct {
	Banner  string             `json:"banner"`
	Title   string             `json:"title,omitempty"`
	RateUps []domain.Operator  `json:"rateups"`
	Rates   []gacha.RarityRate `json:"rates"`
	Pity    bool               `json:"pity"`
	Config  domain.PityConfig  `json:"pity_config"`
}

// Option defines a functional option for configuring the Gacha.
type Option func(*Gacha)

// WithLoader injects a custom CatalogLoader, bypassing the data directory.
func WithLoader(l ports.CatalogLoader) Option {
	return func(g *Gacha) {
		g.loader = l
	}
}

// WithPityStore sets where pity counters are kept. Defaults to memory.
func WithPityStore(s ports.PityStore) Option {
	return func(g *Gacha) {
		g.store = s
	}
}

// WithLocker enables distributed locking of pity counters.
func WithLocker(l ports.Locker) Option {
	return func(g *Gacha) {
		g.locker = l
	}
}

// WithSource sets the randomness used for draws.
func WithSource(src probtree.Source) Option {
	return func(g *Gacha) {
		g.src = src
	}
}

// WithSeed makes draws reproducible.
func WithSeed(seed uint64) Option {
	return WithSource(probtree.NewSource(seed))
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gacha) {
		g.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(g *Gacha) {
		g.hooks = hooks
	}
}

// WithBanner selects the banner at startup. Defaults to the first one.
func WithBanner(name string) Option {
	return func(g *Gacha) {
		g.initialBanner = name
	}
}

// WithPity toggles pity. Enabled by default.
func WithPity(enabled bool) Option {
	return func(g *Gacha) {
		g.pity = enabled
	}
}

// New loads the catalog and selects a banner.
// By default the catalog is read from the files under dataDir. If a loader
// is provided through WithLoader, dataDir may be empty.
func New(dataDir string, opts ...Option) (*Gacha, error) {
	g := &Gacha{pity: true}
	for _, opt := range opts {
		opt(g)
	}

	if g.loader == nil {
		if dataDir == "" {
			return nil, fmt.Errorf("dataDir is required when no custom loader is provided")
		}
		g.loader = file.NewLoader(dataDir)
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	if g.store == nil {
		g.store = memory.NewStore()
	}
	if g.src == nil {
		g.src = probtree.NewSource(uint64(time.Now().UnixNano()))
	}
	// Machines are replaced on banner switches while older ones may still be drawing.
	g.src = &lockedSource{src: g.src}

	counterOpts := []pity.Option{pity.WithLogger(g.logger)}
	if g.locker != nil {
		counterOpts = append(counterOpts, pity.WithLocker(g.locker))
	}
	g.counters = pity.NewManager(g.store, counterOpts...)

	if err := g.Reload(context.Background()); err != nil {
		return nil, err
	}
	return g, nil
}

// Reload re-reads the catalog and rebuilds the selected banner. If the banner
// no longer exists, the initial or first banner is selected instead.
func (g *Gacha) Reload(ctx context.Context) error {
	cat, err := g.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(cat.Banners) == 0 {
		return fmt.Errorf("%w: catalog has no banners", domain.ErrBannerNotFound)
	}

	g.mu.Lock()
	previous := ""
	if g.machine != nil {
		previous = g.machine.Banner().Name
	}

	name := previous
	if _, err := cat.Banner(name); err != nil {
		name = g.initialBanner
		if name == "" {
			name = cat.Banners[0].Name
		}
	}
	b, err := cat.Banner(name)
	if err != nil {
		g.mu.Unlock()
		return err
	}
	m, err := g.newMachine(cat, b, g.pity)
	if err != nil {
		g.mu.Unlock()
		return err
	}
	g.catalog = cat
	g.machine = m
	g.mu.Unlock()

	g.logger.Info("Catalog loaded", "banner", b.Name, "banners", len(cat.Banners), "operators", len(cat.Operators))
	if b.Name != previous {
		g.fireBannerChange(ctx, b.Name, previous)
	}
	return nil
}

// SetBanner switches to the named banner.
func (g *Gacha) SetBanner(ctx context.Context, name string) error {
	g.mu.Lock()
	b, err := g.catalog.Banner(name)
	if err != nil {
		g.mu.Unlock()
		return err
	}
	m, err := g.newMachine(g.catalog, b, g.pity)
	if err != nil {
		g.mu.Unlock()
		return err
	}
	previous := g.machine.Banner().Name
	g.machine = m
	g.mu.Unlock()

	g.logger.Info("Banner selected", "banner", name, "previous", previous)
	g.fireBannerChange(ctx, name, previous)
	return nil
}

// SetPity toggles pity for subsequent pulls. Stored counters are kept.
func (g *Gacha) SetPity(enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if enabled == g.pity {
		return nil
	}
	m, err := g.newMachine(g.catalog, g.machine.Banner(), enabled)
	if err != nil {
		return err
	}
	g.pity = enabled
	g.machine = m
	return nil
}

// PityEnabled reports whether pity is on.
func (g *Gacha) PityEnabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pity
}

// Banner returns the selected banner.
func (g *Gacha) Banner() domain.Banner {
	return g.current().Banner()
}

// Banners lists every banner in catalog order.
func (g *Gacha) Banners() []domain.Banner {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.Banner(nil), g.catalog.Banners...)
}

// Catalog returns the loaded catalog. It must not be modified.
func (g *Gacha) Catalog() *domain.Catalog {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.catalog
}

// Info describes the selected banner.
func (g *Gacha) Info() Info {
	g.mu.RLock()
	m, cat, enabled := g.machine, g.catalog, g.pity
	g.mu.RUnlock()

	b := m.Banner()
	info := Info{
		Banner: b.Name,
		Title:  b.Title,
		Rates:  m.Rates(),
		Pity:   enabled,
		Config: b.Pity.WithDefaults(),
	}
	for _, name := range b.RateUps {
		if op, ok := cat.Operator(name); ok {
			info.RateUps = append(info.RateUps, op)
		}
	}
	return info
}

// Pull performs n pulls for user on the selected banner.
func (g *Gacha) Pull(ctx context.Context, user string, n int) ([]domain.Pull, error) {
	return g.current().Pull(ctx, user, n)
}

// Pull10 performs a ten-pull.
func (g *Gacha) Pull10(ctx context.Context, user string) ([]domain.Pull, error) {
	return g.current().Pull10(ctx, user)
}

// Status reports user's pity on the selected banner.
func (g *Gacha) Status(ctx context.Context, user string) (gacha.Status, error) {
	return g.current().Status(ctx, user)
}

// ResetPity clears user's counter on the selected banner.
func (g *Gacha) ResetPity(ctx context.Context, user string) error {
	return g.current().ResetPity(ctx, user)
}

// View calls fn with the selected banner's tree. fn must not keep or
// mutate the tree.
func (g *Gacha) View(fn func(root *probtree.Node)) {
	g.current().View(fn)
}

// Watch reloads the catalog whenever the loader reports a change, until ctx
// is done. Reload failures are logged and the previous catalog stays active.
func (g *Gacha) Watch(ctx context.Context) error {
	w, ok := g.loader.(ports.Watchable)
	if !ok {
		return ErrNotWatchable
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		for range changes {
			if err := g.Reload(ctx); err != nil {
				g.logger.Error("Reload failed", "error", err)
			}
		}
	}()
	return nil
}

func (g *Gacha) current() *gacha.Machine {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.machine
}

func (g *Gacha) newMachine(cat *domain.Catalog, b domain.Banner, enabled bool) (*gacha.Machine, error) {
	return gacha.NewMachine(cat, b,
		gacha.WithSource(g.src),
		gacha.WithCounters(g.counters),
		gacha.WithPity(enabled && !b.Pity.Disabled),
		gacha.WithHooks(g.hooks),
		gacha.WithLogger(g.logger.With("banner", b.Name)),
	)
}

func (g *Gacha) fireBannerChange(ctx context.Context, name, previous string) {
	if g.hooks.OnBannerChange == nil {
		return
	}
	g.hooks.OnBannerChange(ctx, &domain.BannerEvent{
		EventBase: domain.NewEventBase(domain.EventBannerChange, name),
		Previous:  previous,
	})
}

// lockedSource serializes a Source shared by several machines.
type lockedSource struct {
	mu  sync.Mutex
	src probtree.Source
}

func (s *lockedSource) Int64N(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int64N(n)
}
