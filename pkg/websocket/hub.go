package websocket

import (
	"encoding/json"
	"log"
	"time"
)

// Hub fans server events out to websocket clients grouped by room. Rooms are
// keyed "game:<userID>": a game room only ever holds connections belonging to
// the one human playing against the bot, possibly from several tabs.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	join       chan joinReq
	broadcast  chan Broadcast
	stop       chan struct{}

	rooms map[string]map[*Client]bool
}

type joinReq struct {
	Client *Client
	Room   string
}

type Broadcast struct {
	Room    string
	Type    string
	Payload any
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinReq),
		broadcast:  make(chan Broadcast, 256),
		stop:       make(chan struct{}),
		rooms:      map[string]map[*Client]bool{},
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.stop:
			return
		case c := <-h.register:
			if c.Room == "" {
				continue
			}
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = map[*Client]bool{}
			}
			h.rooms[c.Room][c] = true
		case c := <-h.unregister:
			h.removeClient(c)
		case jr := <-h.join:
			h.moveClientToRoom(jr.Client, jr.Room)
		case b := <-h.broadcast:
			h.broadcastToRoom(b.Room, b.Type, b.Payload)
		}
	}
}

// Stop makes Run return; pending enqueue attempts become no-ops via the
// select in each public method.
func (h *Hub) Stop() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.stop:
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stop:
	}
}

func (h *Hub) Join(c *Client, room string) {
	select {
	case h.join <- joinReq{Client: c, Room: room}:
	case <-h.stop:
	}
}

func (h *Hub) Broadcast(room, typ string, payload any) {
	select {
	case h.broadcast <- Broadcast{Room: room, Type: typ, Payload: payload}:
	case <-h.stop:
	default:
		log.Printf("ws broadcast drop: room=%s type=%s", room, typ)
	}
}

func (h *Hub) removeClient(c *Client) {
	if clients, ok := h.rooms[c.Room]; ok {
		if clients[c] {
			delete(clients, c)
			c.CloseOnce.Do(func() { close(c.Send) })
		}
		if len(clients) == 0 {
			delete(h.rooms, c.Room)
		}
	}
}

func (h *Hub) moveClientToRoom(c *Client, room string) {
	if room == "" || room == c.Room {
		return
	}
	if clients, ok := h.rooms[c.Room]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, c.Room)
		}
	}
	c.Room = room
	if h.rooms[room] == nil {
		h.rooms[room] = map[*Client]bool{}
	}
	h.rooms[room][c] = true
}

func (h *Hub) broadcastToRoom(room, typ string, payload any) {
	clients := h.rooms[room]
	if len(clients) == 0 {
		return
	}
	msg := map[string]any{
		"type":      typ,
		"payload":   payload,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws broadcast marshal: room=%s type=%s err=%v", room, typ, err)
		return
	}

	for c := range clients {
		select {
		case c.Send <- data:
		default:
			// Backpressure / dead client.
			h.removeClient(c)
		}
	}
}
