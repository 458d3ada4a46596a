package handlers

import (
	"net/http"

	"github.com/l361580688-ux/Crazy-Eights/internal/game/crazyeights"
	"github.com/l361580688-ux/Crazy-Eights/internal/tracing"

	"github.com/gin-gonic/gin"
)

type playRequest struct {
	CardID string `json:"card_id"`
}

type suitRequest struct {
	Suit string `json:"suit"`
}

func StartGameHandler(gm *GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.StartGame")
		defer span.End()

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		view, note, err := gm.Start(userID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"game": view, "notice": note})
	}
}

func CurrentGameHandler(gm *GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		view, err := gm.Snapshot(userID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"game": view})
	}
}

func PlayCardHandler(gm *GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.PlayCard")
		defer span.End()

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req playRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.CardID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		view, note, err := gm.Play(userID, req.CardID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"game": view, "notice": note})
	}
}

func DrawCardHandler(gm *GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		view, note, err := gm.Draw(userID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"game": view, "notice": note})
	}
}

func ChooseSuitHandler(gm *GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req suitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		suit, err := crazyeights.ParseSuit(req.Suit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suit"})
			return
		}
		view, note, err := gm.PickSuit(userID, suit)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"game": view, "notice": note})
	}
}

func QuitGameHandler(gm *GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if err := gm.Quit(userID); err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func GameMovesHandler(gm *GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		moves, err := gm.Moves(userID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"moves": moves})
	}
}
