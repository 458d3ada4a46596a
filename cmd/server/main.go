package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/l361580688-ux/Crazy-Eights/internal/config"
	"github.com/l361580688-ux/Crazy-Eights/internal/database"
	"github.com/l361580688-ux/Crazy-Eights/internal/handlers"
	"github.com/l361580688-ux/Crazy-Eights/internal/middleware"
	"github.com/l361580688-ux/Crazy-Eights/internal/tracing"
	"github.com/l361580688-ux/Crazy-Eights/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	shutdownTracing, err := tracing.InitTracer(context.Background(), tracing.Config{
		ServiceName: "crazy-eights",
		Environment: cfg.AppEnv,
		PrettyPrint: cfg.AppEnv == "development",
	})
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown error: %v", err)
		}
	}()

	db, err := database.OpenAndMigrate(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("db open/migrate: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}()

	hubRef := websocket.NewHubRef(websocket.NewHub())
	go func() {
		for {
			panicked := false
			currentHub, ok := hubRef.Get()
			if !ok || currentHub == nil {
				// Should never happen (we always Store a *Hub), but avoid nil deref.
				time.Sleep(1 * time.Second)
				hubRef.Set(websocket.NewHub())
				continue
			}
			func() {
				defer func() {
					if r := recover(); r != nil {
						panicked = true
						log.Printf("hub.Run panic: %v\n%s", r, debug.Stack())
					}
				}()
				currentHub.Run()
			}()

			// If hub.Run returned normally (e.g., Stop() called), exit.
			// Only restart on panic.
			if !panicked {
				return
			}
			// Ensure any existing clients stop attempting to enqueue work to a dead hub.
			// This makes Register/Join/Unregister/Broadcast no-ops instead of potentially blocking forever.
			currentHub.Stop()
			// Reinitialize hub to ensure clean state.
			hubRef.Set(websocket.NewHub())
			time.Sleep(1 * time.Second)
		}
	}()

	handlers.SetWebSocketOriginPolicy(cfg.AppEnv == "development", cfg.DevWebSocketsAllowAll, cfg.WSAllowedOrigins)
	handlers.SetHubProvider(hubRef.Get)

	gm := handlers.NewGameManager(db, cfg.BotDelay)
	gm.SetNotifier(handlers.NotifyUser)

	r := gin.Default()
	r.Use(otelgin.Middleware("crazy-eights"))
	r.Use(middleware.DevCORS(cfg))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	api := r.Group("/api")
	handlers.RegisterAuthRoutes(api, db, cfg)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg))
	handlers.RegisterGameRoutes(protected, db, gm)

	// WebSocket endpoint is auth-gated via token query param or Authorization header.
	r.GET("/ws", handlers.WebSocketHandler(hubRef.Get, gm, cfg))

	// cfg.Addr is fully resolved by config.LoadFromEnv() (BACKEND_ADDR or PORT).
	addr := cfg.Addr

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %v", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	if h, ok := hubRef.Get(); ok && h != nil {
		h.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}
