package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

// Event types pushed to dashboards.
const (
	EventStockUpdate    = "stock_update"
	EventWalletUpdate   = "gang_wallet_update"
	EventAttendance     = "attendance_update"
	EventPresenceUpdate = "presence_update"
	EventAnnouncement   = "announcement_update"
)

// Event is the envelope of every broadcast frame.
type Event struct {
	Type    string      `json:"type"`
	Action  string      `json:"action,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	At      time.Time   `json:"at"`
}

// BroadcastBuffer is how many encoded events may wait for Run.
const BroadcastBuffer = 256

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, BroadcastBuffer),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			n := len(h.Clients)
			h.mutex.Unlock()
			logrus.WithField("clients", n).Debug("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount returns the number of connected sockets.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Publish encodes an event and queues it for broadcast in call order without
// blocking the caller. Events are dropped when the queue is full or the hub is nil.
func (h *Hub) Publish(eventType, action, message string, data interface{}) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(Event{
		Type:    eventType,
		Action:  action,
		Data:    data,
		Message: message,
		At:      time.Now(),
	})
	if err != nil {
		logrus.WithError(err).WithField("type", eventType).Warn("ws event not encodable")
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		logrus.WithField("type", eventType).Warn("ws broadcast queue full, dropping event")
	}
}
