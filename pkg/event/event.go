// Package event provides a simple synchronous/async event dispatcher.
//
// Services fire domain events; listeners registered at boot (internal/kernel)
// turn them into metrics and log lines.
package event

import (
	"sync"
)

// Event names fired by cafefront.
const (
	OrderPlaced    = "order.placed"
	CartItemAdded  = "cart.item_added"
	SessionCleared = "session.cleared"
	LoginSucceeded = "auth.login"
	LoginFailed    = "auth.login_failed"
)

// OrderPlacedPayload accompanies OrderPlaced.
type OrderPlacedPayload struct {
	OrderID int
	Lines   int
	Guest   bool
}

// CartItemAddedPayload accompanies CartItemAdded.
type CartItemAddedPayload struct {
	MenuItemID int
	Quantity   int
}

// SessionClearedPayload accompanies SessionCleared. Reason is "unauthorized"
// or "logout".
type SessionClearedPayload struct {
	Reason string
}

// LoginPayload accompanies LoginSucceeded and LoginFailed.
type LoginPayload struct {
	Username string
	Reason   string
}

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

func snapshot(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently.
// It returns immediately without waiting for handlers to complete.
func FireAsync(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		go h(payload)
	}
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
