package v1

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/edcastillob/rifas/internal/api/handler/v1/response"
	"github.com/edcastillob/rifas/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type feedClient struct {
	conn     *websocket.Conn
	send     chan []byte
	raffleID uint
}

type feedEvent struct {
	raffleID uint
	payload  []byte
}

// TicketFeed fans ticket-update events out to WebSocket viewers of a raffle's
// grid. The feed is advisory only: the reservation write path never consults
// it.
type TicketFeed struct {
	clients    map[uint]map[*feedClient]bool
	broadcast  chan feedEvent
	register   chan *feedClient
	unregister chan *feedClient
}

func NewTicketFeed() *TicketFeed {
	return &TicketFeed{
		clients:    make(map[uint]map[*feedClient]bool),
		broadcast:  make(chan feedEvent),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
	}
}

func (f *TicketFeed) Run() {
	for {
		select {
		case client := <-f.register:
			f.add(client)
		case client := <-f.unregister:
			f.remove(client)
		case event := <-f.broadcast:
			f.fanOut(event)
		}
	}
}

func (f *TicketFeed) add(client *feedClient) {
	if f.clients[client.raffleID] == nil {
		f.clients[client.raffleID] = make(map[*feedClient]bool)
	}
	f.clients[client.raffleID][client] = true
}

func (f *TicketFeed) remove(client *feedClient) {
	viewers, ok := f.clients[client.raffleID]
	if !ok || !viewers[client] {
		return
	}

	delete(viewers, client)
	close(client.send)
	if len(viewers) == 0 {
		delete(f.clients, client.raffleID)
	}
}

func (f *TicketFeed) fanOut(event feedEvent) {
	viewers := f.clients[event.raffleID]
	for client := range viewers {
		select {
		case client.send <- event.payload:
		default:
			// Slow client: drop the subscription rather than block the hub.
			close(client.send)
			delete(viewers, client)
		}
	}

	if len(viewers) == 0 {
		delete(f.clients, event.raffleID)
	}
}

// Publish pushes one updated ticket row to every viewer of the raffle.
func (f *TicketFeed) Publish(raffleID uint, ticket domain.Ticket) {
	payload, err := json.Marshal(ticket)
	if err != nil {
		zap.L().Error("failed to marshal ticket event", zap.Error(err))
		return
	}

	f.broadcast <- feedEvent{raffleID: raffleID, payload: payload}
}

// HandleTicketFeed godoc
// @Summary      Subscribe to ticket updates for one raffle
// @Description  Upgrades to a WebSocket; the server pushes a JSON ticket row
// @Description  whenever a ticket of the raffle changes.
// @Tags         tickets
// @Produce      json
// @Param        raffleID  path  int  true  "Raffle ID"
// @Success      101  {string}  string  "Switching Protocols to WebSocket"
// @Failure      400  {object}  response.Err
// @Router       /raffles/{raffleID}/tickets/feed [get]
func (f *TicketFeed) HandleTicketFeed(ctx *gin.Context) {
	raffleID, respErr := parseRaffleID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		conn:     conn,
		send:     make(chan []byte, 256),
		raffleID: raffleID,
	}
	f.register <- client

	go client.writePump()
	go client.readPump(f)
}

func (c *feedClient) writePump() {
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

// readPump discards client frames; the feed is one-way. It exists to detect
// disconnects and tear the subscription down.
func (c *feedClient) readPump(f *TicketFeed) {
	defer func() {
		f.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("websocket closed unexpectedly", zap.Error(err))
			}
			break
		}
	}
}
