package notify

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"timesheet-backend/internal/metrics"
	"timesheet-backend/internal/models"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type message struct {
	employeeID   int
	notification *models.Notification
}

// Hub fans notifications out to the websocket connections of each employee
type Hub struct {
	clients    map[int]map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan message
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[int]map[*websocket.Conn]bool),
		broadcast: make(chan message, 64),
	}
}

// Run delivers published notifications until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Publish queues a notification for an employee. It never blocks; when the
// queue is full the push is dropped (the notification is still persisted).
func (h *Hub) Publish(employeeID int, n *models.Notification) {
	select {
	case h.broadcast <- message{employeeID: employeeID, notification: n}:
	default:
		log.Printf("[Notify] Queue full, dropping push for employee %d", employeeID)
	}
}

// Serve upgrades the request and keeps the connection registered until the client goes away
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, employeeID int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Notify] WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	h.clientsMux.Lock()
	if h.clients[employeeID] == nil {
		h.clients[employeeID] = make(map[*websocket.Conn]bool)
	}
	h.clients[employeeID][conn] = true
	h.clientsMux.Unlock()
	metrics.WebsocketClients.Inc()

	defer h.remove(employeeID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Clients returns the number of open connections of an employee
func (h *Hub) Clients(employeeID int) int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients[employeeID])
}

func (h *Hub) remove(employeeID int, conn *websocket.Conn) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	if conns, ok := h.clients[employeeID]; ok {
		if conns[conn] {
			delete(conns, conn)
			metrics.WebsocketClients.Dec()
		}
		if len(conns) == 0 {
			delete(h.clients, employeeID)
		}
	}
}

// deliver writes outside the lock so a slow connection cannot hold up
// registrations. Only the Run goroutine writes to connections.
func (h *Hub) deliver(msg message) {
	h.clientsMux.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients[msg.employeeID]))
	for conn := range h.clients[msg.employeeID] {
		conns = append(conns, conn)
	}
	h.clientsMux.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg.notification); err != nil {
			conn.Close()
			h.remove(msg.employeeID, conn)
		}
	}
}

func (h *Hub) closeAll() {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for id, conns := range h.clients {
		for conn := range conns {
			conn.Close()
			metrics.WebsocketClients.Dec()
		}
		delete(h.clients, id)
	}
}
