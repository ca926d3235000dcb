package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	stan "github.com/nats-io/stan.go"
)

// WatermillEventBus satisfies our EventBus interface using Watermill.
type WatermillEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	// shared is set when publisher and subscriber are the same Pub/Sub.
	shared bool
}

// NewWatermillInMemBus returns a Watermill-based, in-memory bus.
func NewWatermillInMemBus() *WatermillEventBus {
	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 100}, NewLogger())
	return &WatermillEventBus{publisher: ps, subscriber: ps, shared: true}
}

// NewWatermillNATSBus returns a NATS streaming backed bus.
func NewWatermillNATSBus(clusterID, clientID, url string) (*WatermillEventBus, error) {
	logger := NewLogger()
	pub, err := nats.NewStreamingPublisher(nats.StreamingPublisherConfig{
		ClusterID: clusterID,
		ClientID:  clientID + "-pub",
		StanOptions: []stan.Option{
			stan.NatsURL(url),
		},
		Marshaler: nats.GobMarshaler{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("nats publisher: %w", err)
	}
	sub, err := nats.NewStreamingSubscriber(nats.StreamingSubscriberConfig{
		ClusterID: clusterID,
		ClientID:  clientID + "-sub",
		StanOptions: []stan.Option{
			stan.NatsURL(url),
		},
		CloseTimeout:   30 * time.Second,
		AckWaitTimeout: 30 * time.Second,
		Unmarshaler:    nats.GobMarshaler{},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("nats subscriber: %w", err)
	}
	return &WatermillEventBus{publisher: pub, subscriber: sub}, nil
}

// Publish sends payload on topic. Byte slices and strings are sent as is,
// anything else is JSON encoded.
func (b *WatermillEventBus) Publish(topic string, payload any) error {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		var err error
		data, err = json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return b.publisher.Publish(topic, msg)
}

// Subscribe delivers every message on topic to handler until ctx is done.
func (b *WatermillEventBus) Subscribe(ctx context.Context, topic string, handler func(payload []byte)) error {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	go func() {
		for msg := range ch {
			handler(msg.Payload)
			msg.Ack()
		}
	}()
	return nil
}

func (b *WatermillEventBus) Close() error {
	if b.shared {
		return b.publisher.Close()
	}
	return errors.Join(b.publisher.Close(), b.subscriber.Close())
}
