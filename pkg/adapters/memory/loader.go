package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/zojize/exusiai-bot/pkg/domain"
)

// Loader implements ports.CatalogLoader over a catalog held in memory.
type Loader struct {
	mu      sync.RWMutex
	catalog domain.Catalog
}

// NewLoader creates a loader serving cat. The catalog is copied.
func NewLoader(cat *domain.Catalog) *Loader {
	l := &Loader{}
	if cat != nil {
		l.catalog = cloneCatalog(cat)
	}
	return l
}

// NewFromOperators builds a loader from loose values, improving DX for tests.
func NewFromOperators(ops []domain.Operator, banners ...domain.Banner) *Loader {
	return NewLoader(&domain.Catalog{Operators: ops, Banners: banners})
}

// Load validates and returns a copy of the held catalog.
func (l *Loader) Load(ctx context.Context) (*domain.Catalog, error) {
	l.mu.RLock()
	cat := cloneCatalog(&l.catalog)
	l.mu.RUnlock()

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &cat, nil
}

// Replace swaps the held catalog. The next Load observes it.
func (l *Loader) Replace(cat *domain.Catalog) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.catalog = cloneCatalog(cat)
}

func cloneCatalog(cat *domain.Catalog) domain.Catalog {
	out := domain.Catalog{
		Operators: append([]domain.Operator(nil), cat.Operators...),
		Banners:   make([]domain.Banner, len(cat.Banners)),
	}
	for i, b := range cat.Banners {
		b.RateUps = append([]string(nil), b.RateUps...)
		b.Pool = append([]string(nil), b.Pool...)
		b.Rates = cloneRates(b.Rates)
		b.RateUpShare = cloneRates(b.RateUpShare)
		out.Banners[i] = b
	}
	return out
}

func cloneRates(m map[int]float64) map[int]float64 {
	if m == nil {
		return nil
	}
	out := make(map[int]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
