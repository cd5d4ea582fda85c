package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"

	charts "github.com/midbel/dashcharts"
	"github.com/midbel/dashcharts/host"
	"github.com/midbel/dashcharts/svgdraw"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// inbound is a message sent by the browser: a container resize or a pointer
// event, in viewport coordinates.
type inbound struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type outbound struct {
	Type     string        `json:"type"`
	Chart    string        `json:"chart,omitempty"`
	Datum    charts.Record `json:"datum,omitempty"`
	Tooltip  *charts.Pos   `json:"tooltip,omitempty"`
	Lines    []string      `json:"lines,omitempty"`
	SVG      string        `json:"svg,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// Client is one browser showing one chart. It owns the mount of that chart.
type Client struct {
	logger *slog.Logger
	hub    *Hub
	conn   *ws.Conn
	send   chan []byte
	id     string
	chart  string
	mount  *host.Mount

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, w http.ResponseWriter, r *http.Request, chart string) (*Client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	return &Client{
		logger: hub.logger.With(slog.String("client", id), slog.String("chart", chart)),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		id:     id,
		chart:  chart,
	}, nil
}

// Attach mounts the chart. Every render, the first one included, is pushed
// to the browser.
func (c *Client) Attach(kind charts.Kind, cfg charts.Config) {
	c.mount = host.New(kind, cfg)
	c.mount.OnRender(c.pushFrame)
}

func (c *Client) Refresh(kind charts.Kind, cfg charts.Config) {
	if c.mount == nil {
		c.Attach(kind, cfg)
		return
	}
	c.mount.SetConfig(kind, cfg)
}

func (c *Client) pushFrame(frame charts.Frame) {
	var buf bytes.Buffer
	if err := svgdraw.Write(&buf, frame, svgdraw.DefaultOptions()); err != nil {
		c.logger.Warn("chart rendering failed", slog.Any("error", err))
		return
	}
	msg := outbound{
		Type:  "render",
		Chart: c.chart,
		SVG:   buf.String(),
	}
	for _, w := range frame.Warnings {
		msg.Warnings = append(msg.Warnings, w.String())
	}
	c.push(msg)
}

func (c *Client) push(msg outbound) {
	buf, err := json.Marshal(msg)
	if err != nil {
		c.logger.Warn("message encoding failed", slog.Any("error", err))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- buf:
	default:
		c.logger.Warn("client send buffer full, dropping message")
	}
}

func (c *Client) handle(msg inbound) {
	switch msg.Type {
	case "resize":
		c.mount.Resize(msg.Width, msg.Height)
	case "move":
		hover := c.mount.PointerMove(msg.X, msg.Y)
		c.push(c.hoverMessage("hover", hover))
	case "leave":
		c.mount.PointerLeave()
		c.push(outbound{Type: "hover", Chart: c.chart})
	case "click":
		hover := c.mount.Click(msg.X, msg.Y)
		if hover.Active {
			c.push(c.hoverMessage("click", hover))
		}
	default:
		c.logger.Debug("unknown message", slog.String("type", msg.Type))
	}
}

func (c *Client) hoverMessage(kind string, hover charts.HoverState) outbound {
	msg := outbound{
		Type:  kind,
		Chart: c.chart,
	}
	if !hover.Active {
		return msg
	}
	msg.Datum = hover.Datum
	msg.Tooltip = &hover.Tooltip
	msg.Lines = c.mount.Frame().Tooltip(hover)
	return msg
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Warn("web socket set read deadline failed", slog.Any("error", err))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var msg inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure) {
				c.logger.Warn("web socket read failed", slog.Any("error", err))
			}
			return
		}
		c.handle(msg)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Warn("web socket set write deadline failed", slog.Any("error", err))
				return
			}
			if !ok {
				if err := c.conn.WriteMessage(ws.CloseMessage, []byte{}); err != nil {
					c.logger.Warn("web socket close message failed", slog.Any("error", err))
				}
				return
			}
			if err := c.conn.WriteMessage(ws.TextMessage, message); err != nil {
				c.logger.Warn("web socket write failed", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Warn("web socket set write deadline failed", slog.Any("error", err))
				return
			}
			if err := c.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				c.logger.Warn("web socket ping message failed", slog.Any("error", err))
				return
			}
		}
	}
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	clients    map[*Client]bool
	mutex      sync.Mutex
	logger     *slog.Logger
	done       chan struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// Each calls fn for every registered client.
func (h *Hub) Each(fn func(*Client)) {
	h.mutex.Lock()
	list := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mutex.Unlock()
	for _, c := range list {
		fn(c)
	}
}

func (h *Hub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				go client.close()
			}
			h.mutex.Unlock()
			return
		case client := <-h.Register:
			h.logger.Debug("registering client", slog.String("client", client.id))
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
		case client := <-h.Unregister:
			h.logger.Debug("unregistering client", slog.String("client", client.id))
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mutex.Unlock()
		case message := <-h.Broadcast:
			h.Each(func(client *Client) {
				client.mu.Lock()
				defer client.mu.Unlock()
				if client.closed {
					return
				}
				select {
				case client.send <- message:
				default:
					h.logger.Warn("client send buffer full, dropping message", slog.String("client", client.id))
				}
			})
		}
	}
}

func (c *Client) close() {
	if c.mount != nil {
		c.mount.Close()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
