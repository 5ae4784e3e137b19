package pubsub

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

const listenerBufferSize = 64

type message struct {
	topic   string
	payload string
}

func (m message) Topic() string {
	return m.topic
}

func (m message) Payload() string {
	return m.payload
}

type listener struct {
	topics map[string]struct{}
	ch     chan ports.Message
}

func (l listener) accepts(topic string) bool {
	if len(l.topics) <= 0 {
		return true
	}
	_, ok := l.topics[topic]
	if !ok {
		_, ok = l.topics[ports.AnyTopic]
	}
	return ok
}

// listeners dispatches published messages to in-process consumers. A slow
// consumer loses messages instead of blocking the publisher.
type listeners struct {
	lock *sync.RWMutex
	byID map[string]listener
}

func newListeners() *listeners {
	return &listeners{&sync.RWMutex{}, make(map[string]listener)}
}

func (l *listeners) add(topics ...string) (<-chan ports.Message, func()) {
	ll := listener{
		topics: make(map[string]struct{}),
		ch:     make(chan ports.Message, listenerBufferSize),
	}
	for _, topic := range topics {
		ll.topics[topic] = struct{}{}
	}
	id := uuid.New().String()

	l.lock.Lock()
	l.byID[id] = ll
	l.lock.Unlock()

	// The channel is closed by whoever removes the listener first, either
	// stop or close.
	stop := func() {
		l.lock.Lock()
		defer l.lock.Unlock()
		if _, ok := l.byID[id]; !ok {
			return
		}
		delete(l.byID, id)
		close(ll.ch)
	}
	return ll.ch, stop
}

func (l *listeners) dispatch(topic, payload string) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	for id, ll := range l.byID {
		if !ll.accepts(topic) {
			continue
		}
		select {
		case ll.ch <- message{topic, payload}:
		default:
			log.Warnf("pubsub: listener %s is full, dropped %s message", id, topic)
		}
	}
}

func (l *listeners) close() {
	l.lock.Lock()
	defer l.lock.Unlock()

	for id, ll := range l.byID {
		close(ll.ch)
		delete(l.byID, id)
	}
}
