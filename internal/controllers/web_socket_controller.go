package controllers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"parking_recommender/internal/metrics"
)

const writeWait = 5 * time.Second

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OccupancyMessage is pushed to every subscriber of a lot when a stall
// changes state.
type OccupancyMessage struct {
	LotID     string    `json:"lot_id"`
	StallID   string    `json:"stall_id"`
	EventType string    `json:"event_type"`
	Occupied  bool      `json:"occupied"`
	Ts        time.Time `json:"ts"`
}

// LotHub manages active WebSocket connections per lot and broadcasts
// occupancy updates to them.
type LotHub struct {
	lotClients map[string]map[*websocket.Conn]bool
	broadcast  chan OccupancyMessage
	done       chan struct{}
	mu         sync.Mutex
}

// NewLotHub creates a hub and starts its broadcast goroutine.
func NewLotHub() *LotHub {
	hub := &LotHub{
		lotClients: make(map[string]map[*websocket.Conn]bool),
		broadcast:  make(chan OccupancyMessage, 100),
		done:       make(chan struct{}),
	}
	go hub.run()
	return hub
}

// run is the only writer to client connections.
func (h *LotHub) run() {
	for {
		select {
		case msg := <-h.broadcast:
			h.deliver(msg)
		case <-h.done:
			return
		}
	}
}

func (h *LotHub) deliver(msg OccupancyMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.lotClients[msg.LotID] {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"lot_id":   msg.LotID,
				"conn_ptr": fmt.Sprintf("%p", conn),
			}).Info("Client write failed during broadcast, unregistering.")
			h.remove(msg.LotID, conn)
			conn.Close()
		}
	}
}

// RegisterClient adds a connection to a lot's subscribers.
func (h *LotHub) RegisterClient(lotID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.lotClients[lotID]; !ok {
		h.lotClients[lotID] = make(map[*websocket.Conn]bool)
	}
	h.lotClients[lotID][conn] = true
	metrics.WebSocketClients.Inc()
	logrus.WithFields(logrus.Fields{
		"lot_id":   lotID,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client registered with LotHub.")
}

// UnregisterClient removes a connection; unknown connections are ignored.
func (h *LotHub) UnregisterClient(lotID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(lotID, conn)
}

func (h *LotHub) remove(lotID string, conn *websocket.Conn) {
	clients, ok := h.lotClients[lotID]
	if !ok || !clients[conn] {
		return
	}
	delete(clients, conn)
	metrics.WebSocketClients.Dec()
	if len(clients) == 0 {
		delete(h.lotClients, lotID)
		logrus.WithField("lot_id", lotID).Debug("Removed lot entry as no clients are left.")
	}
	logrus.WithFields(logrus.Fields{
		"lot_id":   lotID,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client unregistered from LotHub.")
}

// Clients counts the subscribers of a lot.
func (h *LotHub) Clients(lotID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lotClients[lotID])
}

// Publish queues a message without blocking; it is dropped when the queue
// is full.
func (h *LotHub) Publish(msg OccupancyMessage) {
	select {
	case h.broadcast <- msg:
	default:
		logrus.WithField("lot_id", msg.LotID).Warn("Occupancy broadcast channel full, dropping message.")
	}
}

// Close stops the broadcast goroutine.
func (h *LotHub) Close() {
	close(h.done)
}

// HandleLotWebSocket streams occupancy changes of one lot. Clients only
// listen; anything they send is ignored.
func (h *Handler) HandleLotWebSocket(c *gin.Context) {
	lotID := c.Param("lot_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	h.hub.RegisterClient(lotID, conn)
	defer h.hub.UnregisterClient(lotID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("lot_id", lotID).Info("Lot WebSocket closed.")
			} else {
				logrus.WithError(err).WithField("lot_id", lotID).Warn("Error reading from lot WebSocket")
			}
			return
		}
		logrus.WithField("lot_id", lotID).Debug("Lot client sent unexpected message. Ignoring.")
	}
}
