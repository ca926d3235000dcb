package event

import (
	"context"
	"fmt"

	"github.com/pantryshop/storefront/config"
	"github.com/pantryshop/storefront/constants"
)

type EventBus interface {
	Publish(topic string, payload any) error
	Subscribe(ctx context.Context, topic string, handler func(payload []byte)) error
	Close() error
}

// NewInProcEventBus returns a new in-memory event bus. Used when event config driver=="memory" or omitted.
func NewInProcEventBus() *WatermillEventBus {
	return NewWatermillInMemBus()
}

// NewEventBusFromConfig returns an EventBus based on config. Supported: memory (default), nats (with url).
// Unknown drivers fail cleanly.
func NewEventBusFromConfig(cfg *config.EventConfig) (EventBus, error) {
	if cfg == nil || cfg.Driver == "" || cfg.Driver == constants.EventDriverMemory {
		return NewWatermillInMemBus(), nil
	}
	switch cfg.Driver {
	case constants.EventDriverNATS:
		if cfg.URL == "" {
			return nil, fmt.Errorf("NATS driver requires url")
		}
		bus, err := NewWatermillNATSBus(constants.DefaultServiceName, constants.DefaultServiceName+"-api", cfg.URL)
		if err != nil {
			return nil, err
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported event bus driver: %s", cfg.Driver)
	}
}
