package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/l361580688-ux/Crazy-Eights/internal/auth"
	"github.com/l361580688-ux/Crazy-Eights/internal/config"
	"github.com/l361580688-ux/Crazy-Eights/internal/game/crazyeights"
	ws "github.com/l361580688-ux/Crazy-Eights/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			// Non-browser clients (no Origin) are allowed.
			return true
		}
		if cfgDevAllowAll() {
			return true
		}
		if cfgIsDev() {
			return isLocalhostOrigin(origin) || isAllowedOrigin(origin)
		}
		return isAllowedOrigin(origin)
	},
}

// set by config at startup
var originMu sync.RWMutex
var allowedOrigins = map[string]bool{}
var devMode = false
var devAllowAll = false

func SetWebSocketOriginPolicy(isDev bool, allowAllDev bool, origins []string) {
	originMu.Lock()
	defer originMu.Unlock()
	devMode = isDev
	devAllowAll = allowAllDev
	allowedOrigins = map[string]bool{}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			allowedOrigins[o] = true
		}
	}
}

func cfgIsDev() bool {
	originMu.RLock()
	defer originMu.RUnlock()
	return devMode
}
func cfgDevAllowAll() bool {
	originMu.RLock()
	defer originMu.RUnlock()
	return devMode && devAllowAll
}
func isAllowedOrigin(origin string) bool {
	originMu.RLock()
	defer originMu.RUnlock()
	return allowedOrigins[origin]
}

func isLocalhostOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// WebSocketHandler upgrades the connection and registers the client in the
// user's game room. Every connection belongs to exactly one room, so a second
// tab simply joins the same feed.
func WebSocketHandler(hubProvider func() (*ws.Hub, bool), gm *GameManager, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromHeaderOrQuery(c, cfg)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := auth.ParseAndValidateToken(token, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		room := gameRoom(claims.UserID)
		hub, ok := hubProvider()
		if !ok || hub == nil {
			// Should never happen; treat as an internal error (still HTTP at this point).
			log.Printf("WebSocketHandler hubProvider returned nil: user_id=%d", claims.UserID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocketHandler upgrade failed: method=%s path=%s remote=%s origin=%q err=%v",
				c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.Request.Header.Get("Origin"), err,
			)
			return
		}

		client := ws.NewClient(conn, hub, room, claims.UserID)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump(func(msg []byte) {
			handleWSMessage(client, gm, msg)
		})

		// Send a direct "connected" ack, with the current game if one is live.
		ack := map[string]any{
			"user_id": client.UserID,
			"room":    room,
		}
		if view, err := gm.Snapshot(client.UserID); err == nil {
			ack["game"] = view
		}
		_ = sendDirect(client, "connected", ack)
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// handleWSMessage routes game actions arriving over the socket. Successful
// actions are acked directly; the resulting state reaches the room through
// the GameManager notifier, same as for HTTP moves.
func handleWSMessage(client *ws.Client, gm *GameManager, msg []byte) {
	var in inboundMessage
	if err := json.Unmarshal(msg, &in); err != nil {
		_ = sendDirect(client, "error", map[string]any{"error": "invalid json"})
		return
	}

	switch in.Type {
	case "ping":
		_ = sendDirect(client, "pong", nil)
	case "start_game":
		if _, _, err := gm.Start(client.UserID); err != nil {
			_ = sendDirect(client, "error", map[string]any{"error": "could not start game"})
			return
		}
		_ = sendDirect(client, "start_ok", nil)
	case "play_card":
		var p struct {
			CardID string `json:"card_id"`
		}
		if err := json.Unmarshal(in.Payload, &p); err != nil || strings.TrimSpace(p.CardID) == "" {
			_ = sendDirect(client, "error", map[string]any{"error": "invalid play payload"})
			return
		}
		if _, note, err := gm.Play(client.UserID, strings.TrimSpace(p.CardID)); err != nil {
			_ = sendDirect(client, "error", map[string]any{"error": wsErrorText(err, note)})
			return
		}
		_ = sendDirect(client, "play_ok", nil)
	case "draw_card":
		if _, note, err := gm.Draw(client.UserID); err != nil {
			_ = sendDirect(client, "error", map[string]any{"error": wsErrorText(err, note)})
			return
		}
		_ = sendDirect(client, "draw_ok", nil)
	case "choose_suit":
		var p struct {
			Suit string `json:"suit"`
		}
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			_ = sendDirect(client, "error", map[string]any{"error": "invalid suit payload"})
			return
		}
		suit, err := crazyeights.ParseSuit(p.Suit)
		if err != nil {
			_ = sendDirect(client, "error", map[string]any{"error": "invalid suit"})
			return
		}
		if _, note, err := gm.PickSuit(client.UserID, suit); err != nil {
			_ = sendDirect(client, "error", map[string]any{"error": wsErrorText(err, note)})
			return
		}
		_ = sendDirect(client, "suit_ok", nil)
	default:
		_ = sendDirect(client, "error", map[string]any{"error": "unknown message type"})
	}
}

// wsErrorText prefers the engine's human-facing rejection note over the raw
// error so the socket and HTTP surfaces show the same wording.
func wsErrorText(err error, note string) string {
	if note != "" {
		return note
	}
	return err.Error()
}

func sendDirect(c *ws.Client, typ string, payload any) error {
	msg := map[string]any{
		"type":      typ,
		"payload":   payload,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case c.Send <- b:
	default:
		log.Printf("ws send drop: user_id=%d room=%s type=%s", c.UserID, c.Room, typ)
	}
	return nil
}

func tokenFromHeaderOrQuery(c *gin.Context, cfg config.Config) string {
	authz := c.GetHeader("Authorization")
	if authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if token, err := c.Cookie(auth.AuthCookieName); err == nil && token != "" {
		return token
	}
	if cfg.WSAllowQueryTokens {
		return strings.TrimSpace(c.Query("token"))
	}
	return ""
}
