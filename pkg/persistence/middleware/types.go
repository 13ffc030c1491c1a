package middleware

import "github.com/zojize/exusiai-bot/pkg/ports"

// Middleware allows wrapping a PityStore to add behavior.
type Middleware func(ports.PityStore) ports.PityStore

// Chain applies mw to store so that the first middleware is the outermost.
func Chain(store ports.PityStore, mw ...Middleware) ports.PityStore {
	for i := len(mw) - 1; i >= 0; i-- {
		store = mw[i](store)
	}
	return store
}
