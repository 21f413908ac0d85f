package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"

	"kaul/internal/config"
	"kaul/internal/engine"
	"kaul/internal/handlers"
	"kaul/internal/middleware"
	"kaul/internal/store"
	"kaul/internal/utils"
	"kaul/internal/websocket"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	metrics := utils.NewMetricsCollector()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to initialize store", "type", cfg.Store.Type, "error", err)
		os.Exit(1)
	}
	defer st.Close(context.Background())
	logger.Info("store ready", "type", cfg.Store.Type)

	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, st, metrics, logger)

	hub := websocket.NewHub(logger)
	go hub.Run()

	server := handlers.NewServer(system, eng, metrics, logger, hub)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	route := func(handler http.HandlerFunc) http.HandlerFunc {
		return middleware.ApplyCORS(server.WithRequestLog(handler), corsConfig)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", route(server.HandleHealth()))
	mux.HandleFunc("/subjects", route(server.HandleGetSubjects()))
	mux.HandleFunc("/vote", route(server.HandleVote()))
	mux.HandleFunc("/api/v1/counter/increment", route(server.HandleCounterIncrement()))
	mux.HandleFunc("/login", route(server.HandleLogin()))
	mux.HandleFunc("/ws", server.HandleWebSocket())

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
