package handlers

import (
	"database/sql"

	"github.com/l361580688-ux/Crazy-Eights/internal/config"

	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(rg *gin.RouterGroup, db *sql.DB, cfg config.Config) {
	rg.POST("/auth/register", RegisterHandler(db, cfg))
	rg.POST("/auth/login", LoginHandler(db, cfg))
	rg.GET("/auth/me", MeHandler(db, cfg))
	rg.POST("/auth/logout", LogoutHandler(cfg))
}

func RegisterGameRoutes(rg *gin.RouterGroup, db *sql.DB, gm *GameManager) {
	rg.POST("/games", StartGameHandler(gm))
	rg.GET("/games/current", CurrentGameHandler(gm))
	rg.POST("/games/current/play", PlayCardHandler(gm))
	rg.POST("/games/current/draw", DrawCardHandler(gm))
	rg.POST("/games/current/suit", ChooseSuitHandler(gm))
	rg.POST("/games/current/quit", QuitGameHandler(gm))
	rg.GET("/games/current/moves", GameMovesHandler(gm))
	rg.POST("/games/current/chat", ChatbotHandler(gm))

	rg.GET("/me/results", ResultsHandler(db))
	rg.GET("/scoreboard", ScoreboardHandler(db))
	rg.GET("/scoreboard/:userId", UserStatsHandler(db))
	rg.GET("/leaderboard", LeaderboardHandler(db))
}
