package application

import (
	"github.com/tswap-network/tswap-daemon/internal/core/application/pubsub"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

const (
	EventTradeSettled = pubsub.EventTradeSettled
	EventTradeFailed  = pubsub.EventTradeFailed
	EventPoolClosed   = pubsub.EventPoolClosed
)

var (
	ErrUnknownEvent                 = pubsub.ErrUnknownEvent
	ErrWebhookManagerNotInitialized = pubsub.ErrWebhookManagerNotInitialized
)

type PubSubService interface {
	SecurePubSub() ports.SecurePubSub
	Listen(events ...string) (<-chan ports.Message, func(), error)
	PublishTradeSettledEvent(trade domain.Trade) error
	PublishTradeFailedEvent(trade domain.Trade) error
	PublishPoolClosedEvent(closure domain.PoolClosure) error
}

func NewPubSubService(pubsubSvc ports.SecurePubSub) PubSubService {
	return pubsub.NewService(pubsubSvc)
}
