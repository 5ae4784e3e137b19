package pubsub

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

const (
	EventTradeSettled = "TRADE_SETTLED"
	EventTradeFailed  = "TRADE_FAILED"
	EventPoolClosed   = "POOL_CLOSED"
)

var (
	// Events are the topics published by the daemon.
	Events = []string{EventTradeSettled, EventTradeFailed, EventPoolClosed}

	ErrUnknownEvent = fmt.Errorf("unknown event")
	// ErrWebhookManagerNotInitialized is returned when managing webhooks
	// without a pubsub backend.
	ErrWebhookManagerNotInitialized = fmt.Errorf(
		"webhook manager is not initialized",
	)
)

// Service publishes the daemon events. Without a pubsub backend every
// publish is a no-op.
type Service struct {
	pubsub ports.SecurePubSub
}

func NewService(pubsub ports.SecurePubSub) *Service {
	return &Service{pubsub}
}

func (s *Service) SecurePubSub() ports.SecurePubSub {
	return s.pubsub
}

func (s *Service) AddWebhook(event, endpoint, secret string) (string, error) {
	if s.pubsub == nil {
		return "", ErrWebhookManagerNotInitialized
	}
	if !isKnownEvent(event) {
		return "", ErrUnknownEvent
	}
	return s.pubsub.Subscribe(event, endpoint, secret)
}

func (s *Service) RemoveWebhook(id string) error {
	if s.pubsub == nil {
		return ErrWebhookManagerNotInitialized
	}
	return s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id)
}

// ListWebhooks returns the webhooks subscribed to the given event, or all
// of them if event is empty.
func (s *Service) ListWebhooks(event string) ([]ports.Subscription, error) {
	if s.pubsub == nil {
		return nil, ErrWebhookManagerNotInitialized
	}
	if event != ports.UnspecifiedTopic && !isKnownEvent(event) {
		return nil, ErrUnknownEvent
	}
	return s.pubsub.ListSubscriptionsForTopic(event), nil
}

// Listen returns a channel of the events published for the given topics
// along with the func to stop listening.
func (s *Service) Listen(events ...string) (<-chan ports.Message, func(), error) {
	if s.pubsub == nil {
		return nil, nil, ErrWebhookManagerNotInitialized
	}
	for _, e := range events {
		if !isKnownEvent(e) {
			return nil, nil, ErrUnknownEvent
		}
	}
	ch, stop := s.pubsub.Listen(events...)
	return ch, stop, nil
}

func (s *Service) PublishTradeSettledEvent(trade domain.Trade) error {
	if s.pubsub == nil {
		return nil
	}
	payload := map[string]interface{}{
		"event": EventTradeSettled,
		"trade": getTradePayload(trade),
	}
	return s.publish(EventTradeSettled, payload)
}

func (s *Service) PublishTradeFailedEvent(trade domain.Trade) error {
	if s.pubsub == nil {
		return nil
	}
	payload := map[string]interface{}{
		"event": EventTradeFailed,
		"trade": getTradePayload(trade),
	}
	return s.publish(EventTradeFailed, payload)
}

func (s *Service) PublishPoolClosedEvent(closure domain.PoolClosure) error {
	if s.pubsub == nil {
		return nil
	}
	payload := map[string]interface{}{
		"event": EventPoolClosed,
		"pool":  getClosurePayload(closure),
	}
	return s.publish(EventPoolClosed, payload)
}

func (s *Service) publish(event string, payload map[string]interface{}) error {
	message, _ := json.Marshal(payload)
	if err := s.pubsub.Publish(event, string(message)); err != nil {
		return err
	}
	log.Debugf("published %s event", event)
	return nil
}

func isKnownEvent(event string) bool {
	if event == ports.AnyTopic {
		return true
	}
	for _, e := range Events {
		if e == event {
			return true
		}
	}
	return false
}
