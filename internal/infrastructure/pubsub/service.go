package pubsub

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
	"github.com/tswap-network/tswap-daemon/pkg/circuitbreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRateLimit = 10

	requestTimeout = 15 * time.Second
)

var ErrSubscriptionNotFound = ports.ErrSubscriptionNotFound

type service struct {
	store      *store
	listeners  *listeners
	httpClient *client
	cb         *gobreaker.CircuitBreaker
	limiter    ratelimit.Limiter
}

// NewService returns a pubsub service that persists webhooks in the given
// datadir, or in memory if empty. Outgoing webhook requests are limited to
// rateLimit per second.
func NewService(datadir string, rateLimit int) (ports.SecurePubSub, error) {
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	store, err := newStore(datadir, nil)
	if err != nil {
		return nil, fmt.Errorf("opening pubsub db: %w", err)
	}

	return &service{
		store:      store,
		listeners:  newListeners(),
		httpClient: newHTTPClient(requestTimeout),
		cb:         circuitbreaker.NewCircuitBreaker("webhooks"),
		limiter:    ratelimit.New(rateLimit),
	}, nil
}

func (ws *service) Store() ports.PubSubStore {
	return ws
}

// Close stops all listeners and closes the internal store.
func (ws *service) Close() error {
	ws.listeners.close()
	return ws.store.Close()
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	if err := ws.store.add(*sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (ws *service) Unsubscribe(_, id string) error {
	return ws.store.remove(id)
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ws.listSubscriptionsForTopic(topic).toPortable()
}

func (ws *service) Listen(topics ...string) (<-chan ports.Message, func()) {
	return ws.listeners.add(topics...)
}

// Publish delivers the message to the in-process listeners first, then to
// every webhook subscribed to the topic or to any topic.
func (ws *service) Publish(topic string, message string) error {
	ws.listeners.dispatch(topic, message)
	return ws.publishForTopic(topic, message)
}

func (ws *service) listSubscriptionsForTopic(topic string) subscriptions {
	subs, err := ws.store.getByTopic(topic)
	if err != nil {
		log.WithError(err).Warnf("pubsub: failed to list webhooks for %s", topic)
		return nil
	}
	if topic != ports.AnyTopic && topic != ports.UnspecifiedTopic {
		subsForAnyTopic, err := ws.store.getByTopic(ports.AnyTopic)
		if err != nil {
			log.WithError(err).Warn("pubsub: failed to list webhooks for any topic")
			return subs
		}
		subs = append(subs, subsForAnyTopic...)
	}
	return subs
}

func (ws *service) publishForTopic(topic, message string) error {
	subs := ws.listSubscriptionsForTopic(topic)

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return ws.doRequest(sub, message) })
	}
	return eg.Wait()
}

func (ws *service) doRequest(sub Subscription, payload string) error {
	ws.limiter.Take()

	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if sub.IsSecured() {
			token := jwt.New(jwt.SigningMethodHS256)
			secret := []byte(sub.Secret)
			tokenString, err := token.SignedString(secret)
			if err != nil {
				return nil, err
			}
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("webhook %s: %d %s", sub.ID, status, resp)
		}
		return nil, nil
	})

	return err
}
