package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/service/metrics"
	applogger "HealthPull/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// AlertHub fans triggered alerts out to connected WebSocket clients.
// Slow clients are dropped rather than buffered indefinitely.
type AlertHub struct {
	upgrader websocket.Upgrader
	l        *applogger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewAlertHub() *AlertHub {
	return &AlertHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// SetLogger injects a structured logger.
func (h *AlertHub) SetLogger(l *applogger.Logger) { h.l = l }

// Serve upgrades the request and keeps the connection registered until the
// client goes away. Inbound frames are discarded.
func (h *AlertHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		if h.l != nil {
			h.l.Warn("alerts.stream upgrade_error", applogger.Error(err))
		}
		return nil // Upgrade already wrote the response
	}
	h.register(conn)

	go h.pingLoop(conn)
	go h.readLoop(conn)
	return nil
}

func (h *AlertHub) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.AlertStreamClients.Set(float64(n))
	if h.l != nil {
		h.l.Debug("alerts.stream client_connected", applogger.Int("clients", n))
	}
}

func (h *AlertHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()
	_ = conn.Close()
	metrics.AlertStreamClients.Set(float64(n))
	if h.l != nil {
		h.l.Debug("alerts.stream client_disconnected", applogger.Int("clients", n))
	}
}

func (h *AlertHub) readLoop(conn *websocket.Conn) {
	defer h.unregister(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *AlertHub) pingLoop(conn *websocket.Conn) {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	for range t.C {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			h.unregister(conn)
			return
		}
	}
}

// BroadcastAlerts sends each alert as a JSON text frame to every client.
func (h *AlertHub) BroadcastAlerts(alerts []models.HealthAlert) {
	if len(alerts) == 0 {
		return
	}
	payloads := make([][]byte, 0, len(alerts))
	for _, a := range alerts {
		b, err := json.Marshal(map[string]interface{}{
			"id":             a.ID,
			"category":       a.Category,
			"severity":       a.Severity,
			"title":          a.Title,
			"message":        a.Message,
			"recommendation": a.Recommendation,
			"created_at":     a.CreatedAt,
		})
		if err != nil {
			continue
		}
		payloads = append(payloads, b)
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		for _, b := range payloads {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				h.unregister(conn)
				break
			}
		}
	}
}

// Close disconnects every client.
func (h *AlertHub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
	metrics.AlertStreamClients.Set(0)
}
