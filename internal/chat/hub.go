// Package chat pushes guess words and list changes to websocket subscribers.
package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/redactle/redactle-server/internal/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// WordsMessage carries the words of one chat message.
type WordsMessage struct {
	Type  string      `json:"type"`
	Words []game.Word `json:"words"`
}

// ListsMessage carries the list names after the lists directory changed.
type ListsMessage struct {
	Type  string   `json:"type"`
	Lists []string `json:"lists"`
}

type subscriber struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks websocket subscribers and fans messages out to them.
type Hub struct {
	subscribers map[string]*subscriber
	broadcast   chan []byte
	register    chan *subscriber
	unregister  chan *subscriber
	done        chan struct{}
	mu          sync.RWMutex
	upgrader    websocket.Upgrader
}

// NewHub creates a hub. Call Run before serving connections.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
		broadcast:   make(chan []byte, sendBuffer),
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber),
		done:        make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The page is served from anywhere, including local files.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run handles registration and fan-out until ctx is done, then closes every
// subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, s := range h.subscribers {
				delete(h.subscribers, id)
				close(s.send)
			}
			h.mu.Unlock()
			return

		case s := <-h.register:
			h.mu.Lock()
			h.subscribers[s.id] = s
			n := len(h.subscribers)
			h.mu.Unlock()
			log.Printf("Subscriber %s connected (%d total)", s.id, n)

		case s := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[s.id]; ok {
				delete(h.subscribers, s.id)
				close(s.send)
			}
			n := len(h.subscribers)
			h.mu.Unlock()
			log.Printf("Subscriber %s disconnected (%d total)", s.id, n)

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, s := range h.subscribers {
				select {
				case s.send <- message:
				default:
					// Slow subscriber, drop it.
					delete(h.subscribers, id)
					close(s.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Publish queues v, encoded as JSON, for every subscriber.
func (h *Hub) Publish(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Warning: failed to encode broadcast: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Printf("Warning: broadcast queue full, dropping message")
	}
}

// PublishChat splits a chat message into words and publishes them. Messages
// without words are not published.
func (h *Hub) PublishChat(text string) {
	words := game.Words(text)
	if len(words) == 0 {
		return
	}
	h.Publish(WordsMessage{Type: "words", Words: words})
}

// PublishLists publishes the current list names.
func (h *Hub) PublishLists(names []string) {
	if names == nil {
		names = []string{}
	}
	h.Publish(ListsMessage{Type: "lists", Lists: names})
}

// ServeHTTP upgrades the request to a websocket and registers the subscriber.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Warning: websocket upgrade failed: %v", err)
		return
	}

	s := &subscriber{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- s:
	case <-h.done:
		conn.Close()
		return
	}

	go s.writePump()
	go s.readPump()
}

// readPump discards inbound frames; it exists to process control frames and
// notice when the peer goes away.
func (s *subscriber) readPump() {
	defer func() {
		select {
		case s.hub.unregister <- s:
		case <-s.hub.done:
		}
		s.conn.Close()
	}()

	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Warning: subscriber %s closed unexpectedly: %v", s.id, err)
			}
			return
		}
	}
}

// writePump sends one JSON document per websocket message.
func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
