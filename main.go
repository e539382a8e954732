package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/db"
	"github.com/besuhoff/dungeon-maze-go/internal/handlers"
	"github.com/besuhoff/dungeon-maze-go/internal/logger"
	"github.com/besuhoff/dungeon-maze-go/internal/server"
)

// CORS middleware
func corsMiddleware(frontendURL string, next http.HandlerFunc) http.HandlerFunc {
	// Strip any path from the frontend URL
	origin := frontendURL
	if idx := strings.Index(origin, "://"); idx != -1 {
		if pathIdx := strings.Index(origin[idx+3:], "/"); pathIdx != -1 {
			origin = origin[:idx+3+pathIdx]
		}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func main() {
	logger.Init()
	log := logger.Log

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	host := flag.String("host", cfg.Server.Host, "Host to listen on")
	port := flag.String("port", cfg.Server.Port, "Port to listen on")
	certFile := flag.String("cert", cfg.Server.TLSCert, "TLS certificate file (required for HTTPS)")
	keyFile := flag.String("key", cfg.Server.TLSKey, "TLS key file (required for HTTPS)")
	useTLS := flag.Bool("tls", cfg.Server.UseTLS, "Enable TLS/HTTPS")
	flag.Parse()

	// The run archive is optional
	var archive server.Archive
	var runs handlers.RunLister
	if cfg.Server.MongoDBURL != "" {
		if err := db.Connect(cfg.Server.MongoDBURL); err != nil {
			log.WithError(err).Fatal("Failed to connect to MongoDB")
		}
		defer db.Disconnect()

		repo := db.NewRunRepository()
		archive = repo
		runs = repo
	} else {
		log.Info("MONGODB_URL not set, run archive disabled")
	}

	// Create game server
	gameServer := server.NewGameServer(cfg, archive, log)
	go gameServer.Run()

	levelHandler := handlers.NewLevelHandler(cfg, log)
	runHandler := handlers.NewRunHandler(runs, log)

	// Setup HTTP routes
	http.HandleFunc("/ws", gameServer.HandleWebSocket)
	http.HandleFunc("/api/v1/levels/", corsMiddleware(cfg.Server.FrontendURL, levelHandler.HandleGetPlan))
	http.HandleFunc("/api/v1/runs", corsMiddleware(cfg.Server.FrontendURL, runHandler.HandleListRuns))

	// Health check
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf("%s:%s", *host, *port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      nil, // Uses DefaultServeMux
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP/HTTPS server
	go func() {
		if *useTLS || *certFile != "" {
			if *certFile == "" || *keyFile == "" {
				log.Fatal("TLS enabled but certificate or key file not provided. Use -cert and -key flags or TLS_CERT and TLS_KEY environment variables.")
			}
			log.Infof("Starting game server with TLS on %s", addr)
			if err := httpServer.ListenAndServeTLS(*certFile, *keyFile); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Fatal("ListenAndServeTLS error")
			}
		} else {
			log.Infof("Starting game server on %s", addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Fatal("ListenAndServe error")
			}
		}
	}()

	log.Infof("WebSocket (JSON): ws://%s/ws?level=1", addr)
	log.Infof("WebSocket (Binary): ws://%s/ws?level=1&protocol=binary", addr)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Received shutdown signal, shutting down gracefully...")

	// Stop simulations and close websockets first
	gameServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	} else {
		log.Info("HTTP server shut down successfully")
	}

	log.Info("Server stopped")
}
