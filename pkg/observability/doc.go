/*
Package observability provides tools for monitoring the gacha runtime.

Metrics and structured logging are both delivered as domain.Hooks, so the
runtime never depends on a metrics library. Combine them with
domain.ChainHooks.
*/
package observability
