package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/l361580688-ux/Crazy-Eights/internal/models"

	"github.com/gin-gonic/gin"
)

// writeAPIError maps sentinel errors to HTTP responses. Out-of-turn and
// out-of-phase actions are conflicts; rule violations are bad requests.
// Anything unknown is logged and reported generically.
func writeAPIError(c *gin.Context, err error) {
	if err == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrGameNotFound) ||
		errors.Is(err, models.ErrNoActiveGame) || errors.Is(err, sql.ErrNoRows) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	switch {
	case errors.Is(err, models.ErrInvalidJSON):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
	case errors.Is(err, models.ErrInvalidCard):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid card"})
	case errors.Is(err, models.ErrInvalidSuit):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid suit"})
	case errors.Is(err, models.ErrCardNotInHand):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "card not in hand"})
	case errors.Is(err, models.ErrIllegalPlay):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "card matches neither suit nor rank"})
	case errors.Is(err, models.ErrNotYourTurn):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "not your turn"})
	case errors.Is(err, models.ErrNotPlaying):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "game is not in play"})
	case errors.Is(err, models.ErrNotPickingSuit):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "not picking a suit"})
	case errors.Is(err, models.ErrGameOver):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "game is over"})
	case errors.Is(err, models.ErrNoStartingCard):
		log.Printf("fatal deal error: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not deal a valid game"})
	default:
		log.Printf("internal error: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
