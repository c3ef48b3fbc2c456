package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"FuelDesk/internal/domain/models"
	"FuelDesk/internal/usecase"
	xlogger "FuelDesk/pkg/logger"
)

const (
	streamBuffer  = 16
	pingInterval  = 30 * time.Second
	writeDeadline = 10 * time.Second
)

type streamClient struct {
	send chan StatePayload
}

// StateHub pushes every UiState transition to connected pages. A client whose
// buffer is full misses that update; the next one carries the full state.
type StateHub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	last    StatePayload
	clients map[*streamClient]struct{}
}

// NewStateHub creates a hub fed by every transition of console.
func NewStateHub(logger *xlogger.Logger, console *usecase.Console) *StateHub {
	h := &StateHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		last:    NewStatePayload(console.State()),
		clients: make(map[*streamClient]struct{}),
	}
	console.Subscribe(h.Observe)
	return h
}

// subscribe registers a client and queues the latest state for it.
func (h *StateHub) subscribe() *streamClient {
	c := &streamClient{send: make(chan StatePayload, streamBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	c.send <- h.last
	h.clients[c] = struct{}{}
	return c
}

func (h *StateHub) unsubscribe(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Clients returns the number of open streams.
func (h *StateHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish sends p to every client without blocking.
func (h *StateHub) Publish(p StatePayload) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = p
	for c := range h.clients {
		select {
		case c.send <- p:
		default:
		}
	}
}

// Observe is a StateStore observer.
func (h *StateHub) Observe(_, next models.UiState) {
	h.Publish(NewStatePayload(next))
}

// Serve upgrades the request and streams states until the client goes away.
// The latest state is sent first.
func (h *StateHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("state stream upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	client := h.subscribe()
	defer h.unsubscribe(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case p, ok := <-client.send:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteJSON(p); err != nil {
					h.logger.Debug("state stream write failed", xlogger.Error(err))
					_ = conn.Close()
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					_ = conn.Close()
					return
				}
			}
		}
	}()

	// Reads only detect the close; pages never send anything.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Debug("state stream closed", xlogger.Error(err))
			}
			break
		}
	}
	h.unsubscribe(client)
	<-done
	return nil
}
