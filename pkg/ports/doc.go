/*
Package ports defines the driven ports (interfaces) of the gacha runtime.

These interfaces decouple the banner logic from external implementations,
allowing the runtime to work with various data sources and storage backends.

# Key Interfaces

  - CatalogLoader: Responsible for loading operators and banners (e.g., from files or memory).
  - PityStore: Responsible for persisting per-user pity counters (e.g., in memory or Redis).
  - Watchable: Optional loader capability to signal that the data changed.
*/
package ports
