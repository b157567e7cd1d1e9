package v1

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/adarshamigo11/task-portal/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type SnapshotService interface {
	Snapshot() domain.Snapshot
	Subscribe(fn func(domain.Snapshot)) func()
}

// EventsHandler streams a fresh state snapshot to every connected consumer
// after each applied mutation, the push half of the snapshot publisher.
type EventsHandler struct {
	svc SnapshotService

	clients      map[*client]struct{}
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *client
	unregister   chan *client
}

func NewEventsHandler(svc SnapshotService) *EventsHandler {
	h := &EventsHandler{
		svc:        svc,
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *client),
		unregister: make(chan *client),
	}

	svc.Subscribe(func(snap domain.Snapshot) {
		payload, err := json.Marshal(snap)
		if err != nil {
			zap.L().Error("encoding snapshot event failed", zap.Error(err))
			return
		}
		select {
		case h.broadcast <- payload:
		default:
			// A full buffer means consumers are behind; the next snapshot
			// supersedes this one anyway.
		}
	})

	return h
}

func (h *EventsHandler) Run() {
	for {
		select {
		case c := <-h.register:
			h.clientsMutex.Lock()
			h.clients[c] = struct{}{}
			h.clientsMutex.Unlock()
		case c := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.clientsMutex.Unlock()
		case message := <-h.broadcast:
			h.clientsMutex.Lock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

// HandleGetState godoc
// @Summary      Read a full state snapshot
// @Tags         state
// @Produce      json
// @Success      200  {object}  domain.Snapshot
// @Router       /state [get]
// @Security     BearerAuth
func (h *EventsHandler) HandleGetState(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.svc.Snapshot())
}

// HandleWebSocket godoc
// @Summary      Subscribe to state snapshots over a websocket
// @Description  Sends the current snapshot on connect, then one message per applied mutation.
// @Tags         state
// @Success      101  {string}  string  "Switching Protocols to WebSocket"
// @Router       /state/events [get]
// @Security     BearerAuth
func (h *EventsHandler) HandleWebSocket(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 16),
	}

	if initial, err := json.Marshal(h.svc.Snapshot()); err == nil {
		c.send <- initial
	}
	h.register <- c

	go c.writePump()
	go c.readPump(h)
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}

	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// The stream is one-way; inbound reads only detect the close.
func (c *client) readPump(h *EventsHandler) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}
