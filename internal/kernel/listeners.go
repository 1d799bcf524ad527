package kernel

import (
	"sync"

	"github.com/shashiranjanraj/cafefront/pkg/event"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
	"github.com/shashiranjanraj/cafefront/pkg/metrics"
)

var listenOnce sync.Once

// registerListeners turns domain events into metrics and log lines.
func registerListeners() {
	listenOnce.Do(func() {
		event.Listen(event.OrderPlaced, func(p interface{}) {
			e, _ := p.(event.OrderPlacedPayload)
			customer := "member"
			if e.Guest {
				customer = "guest"
			}
			metrics.OrdersPlaced.WithLabelValues(customer).Inc()
			logger.Info("order placed", "order_id", e.OrderID, "lines", e.Lines, "customer", customer)
		})

		event.Listen(event.CartItemAdded, func(p interface{}) {
			e, _ := p.(event.CartItemAddedPayload)
			metrics.CartItemsAdded.Inc()
			logger.Debug("cart item added", "menu_item_id", e.MenuItemID, "quantity", e.Quantity)
		})

		event.Listen(event.SessionCleared, func(p interface{}) {
			e, _ := p.(event.SessionClearedPayload)
			metrics.SessionsCleared.Inc()
			logger.Info("session cleared", "reason", e.Reason)
		})

		event.Listen(event.LoginSucceeded, func(p interface{}) {
			e, _ := p.(event.LoginPayload)
			metrics.LoginAttempts.WithLabelValues("success").Inc()
			logger.Info("admin signed in", "username", e.Username)
		})

		event.Listen(event.LoginFailed, func(p interface{}) {
			e, _ := p.(event.LoginPayload)
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			logger.Warn("admin sign-in failed", "username", e.Username, "reason", e.Reason)
		})
	})
}
