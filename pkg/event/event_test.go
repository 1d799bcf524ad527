package event_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/cafefront/pkg/event"
)

func TestFireReachesEveryListenerInOrder(t *testing.T) {
	t.Cleanup(event.Flush)

	var got []string
	event.Listen(event.OrderPlaced, func(p interface{}) {
		got = append(got, "first")
		assert.Equal(t, 12, p.(event.OrderPlacedPayload).OrderID)
	})
	event.Listen(event.OrderPlaced, func(interface{}) { got = append(got, "second") })
	event.Listen(event.CartItemAdded, func(interface{}) { got = append(got, "other") })

	event.Fire(event.OrderPlaced, event.OrderPlacedPayload{OrderID: 12})

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestFireAsync(t *testing.T) {
	t.Cleanup(event.Flush)

	var wg sync.WaitGroup
	wg.Add(2)
	event.Listen(event.SessionCleared, func(interface{}) { wg.Done() })
	event.Listen(event.SessionCleared, func(interface{}) { wg.Done() })

	event.FireAsync(event.SessionCleared, event.SessionClearedPayload{Reason: "logout"})
	wg.Wait()
}

func TestFlush(t *testing.T) {
	called := false
	event.Listen(event.LoginSucceeded, func(interface{}) { called = true })
	event.Flush()

	event.Fire(event.LoginSucceeded, nil)
	assert.False(t, called)
}
