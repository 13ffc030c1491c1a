package ports

import (
	"context"

	"github.com/zojize/exusiai-bot/pkg/domain"
)

// CatalogLoader defines how the runtime retrieves operator and banner data.
// This allows the storage layer (files, memory) to be decoupled.
type CatalogLoader interface {
	// Load returns a validated catalog. Each call reflects the current
	// backing data, which is how a reload is performed.
	Load(ctx context.Context) (*domain.Catalog, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload in long running servers.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying data changes.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
