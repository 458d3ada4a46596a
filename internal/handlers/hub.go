package handlers

import (
	"strconv"

	ws "github.com/l361580688-ux/Crazy-Eights/pkg/websocket"
)

// hubProvider is set by main at startup so HTTP handlers can push realtime
// updates. A nil or false provider degrades to HTTP-only operation.
var hubProvider func() (*ws.Hub, bool)

func SetHubProvider(p func() (*ws.Hub, bool)) {
	hubProvider = p
}

func gameRoom(userID int64) string {
	return "game:" + strconv.FormatInt(userID, 10)
}

// NotifyUser broadcasts an event to the user's game room. Wired into the
// GameManager so engine transitions (including delayed bot moves) reach the
// browser without polling.
func NotifyUser(userID int64, event string, payload any) {
	if hubProvider == nil {
		return
	}
	hub, ok := hubProvider()
	if !ok || hub == nil {
		return
	}
	hub.Broadcast(gameRoom(userID), event, payload)
}
