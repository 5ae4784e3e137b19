package httpinterface

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-daemon/internal/core/application"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// eventsHandler streams the events published by the daemon over a websocket.
type eventsHandler struct {
	pubsubSvc application.PubSubService
	upgrader  websocket.Upgrader
}

func newEventsHandler(pubsubSvc application.PubSubService) *eventsHandler {
	return &eventsHandler{
		pubsubSvc: pubsubSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *eventsHandler) register(r *httprouter.Router) {
	r.GET("/v1/events", h.stream)
}

// stream subscribes to the comma-separated list of events given with the
// events query param, or to all of them if missing.
func (h *eventsHandler) stream(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	messages, stop, err := h.pubsubSvc.Listen(
		parseEvents(r.URL.Query().Get("events"))...,
	)
	if err != nil {
		writeAppError(w, err)
		return
	}
	defer stop()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("failed to upgrade events connection")
		return
	}
	defer conn.Close()

	// The reader only serves control frames and detects the peer going away.
	done := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case msg, ok := <-messages:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(
				websocket.TextMessage, []byte(msg.Payload()),
			); err != nil {
				log.WithError(err).Debug("failed to write event")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
