package ports

import "errors"

const AnyTopic = "*"
const UnspecifiedTopic = ""

var ErrSubscriptionNotFound = errors.New("webhook not found")

type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// Message is an event delivered to in-process listeners.
type Message interface {
	Topic() string
	Payload() string
}

// PubSubStore defines the methods to manage the internal store of a
// SecurePubSub service.
type PubSubStore interface {
	// Close should be used to gracefully close the connection with the store.
	Close() error
}

// SecurePubSub defines the methods of a pubsub service and its internal store.
// Webhook subscriptions are persisted, and notified with a signed bearer
// token when they come with a secret. In-process listeners are not
// persisted.
type SecurePubSub interface {
	// Store returns the internal store.
	Store() PubSubStore
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id for a topic.
	Unsubscribe(topic, id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed for
	// a certain topic.
	ListSubscriptionsForTopic(topic string) []Subscription
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic will receive the message.
	Publish(topic string, message string) error
	// Listen returns a channel receiving the messages published for the
	// given topics, and the function to stop listening.
	Listen(topics ...string) (<-chan Message, func())
}
