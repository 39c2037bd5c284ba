package mq

import (
	"errors"
	"sync"
)

type Publisher interface {
	Publish(topic string, payload []byte) error
}

type Subscriber interface {
	Subscribe(topic string, handler func([]byte) error) error
}

type Noop struct{}

func (Noop) Publish(topic string, payload []byte) error               { return nil }
func (Noop) Subscribe(topic string, handler func([]byte) error) error { return nil }

var ErrNilHandler = errors.New("mq: nil handler")

// Bus is a synchronous in-process broker. Publish runs every handler of the
// topic on the caller's goroutine, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]func([]byte) error
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]func([]byte) error)}
}

func (b *Bus) Subscribe(topic string, handler func([]byte) error) error {
	if handler == nil {
		return ErrNilHandler
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

// Publish returns the joined errors of all failing handlers. A failing
// handler does not stop delivery to the rest.
func (b *Bus) Publish(topic string, payload []byte) error {
	b.mu.RLock()
	hs := make([]func([]byte) error, len(b.handlers[topic]))
	copy(hs, b.handlers[topic])
	b.mu.RUnlock()

	var errs []error
	for _, h := range hs {
		if err := h(payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
