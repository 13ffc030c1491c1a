/*
Package domain contains the gacha data model shared by the banner runtime
and its adapters.

It is kept free of I/O: loaders, stores and transports live in the adapters
packages and speak in these types.

# Key Entities

  - Operator: a collectible unit with a rarity from 1 to 6 stars.
  - Banner: a recruitment pool with per-rarity rates, rate-up operators and pity rules.
  - Catalog: every known operator and banner, as loaded from data files.
  - Pull: the outcome of a single recruitment.
  - Hooks: callbacks fired by the runtime for logging and metrics.
*/
package domain
