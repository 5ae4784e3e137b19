package operator

import (
	"context"

	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

func (s *service) AddWebhook(
	_ context.Context, event, endpoint, secret string,
) (string, error) {
	return s.pubsub.AddWebhook(event, endpoint, secret)
}

func (s *service) RemoveWebhook(_ context.Context, id string) error {
	return s.pubsub.RemoveWebhook(id)
}

func (s *service) ListWebhooks(
	_ context.Context, event string,
) ([]ports.Subscription, error) {
	return s.pubsub.ListWebhooks(event)
}
