package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/db"
	"github.com/besuhoff/dungeon-maze-go/internal/game"
	"github.com/besuhoff/dungeon-maze-go/internal/replay"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Archive stores finished runs and hands back earlier recordings.
type Archive interface {
	Insert(ctx context.Context, run *db.Run) error
	LatestRecording(ctx context.Context, level int) (*replay.Recording, error)
}

// GameServer hosts one level simulation per websocket connection.
type GameServer struct {
	cfg        *config.Config
	log        logrus.FieldLogger
	archive    Archive
	clients    map[string]*WebsocketClient
	register   chan *WebsocketClient
	unregister chan *WebsocketClient
	shutdown   chan struct{}
	done       chan struct{}
	mu         sync.RWMutex
}

// NewGameServer creates a new game server. archive may be nil, in which
// case runs are neither stored nor replayed from earlier sessions.
func NewGameServer(cfg *config.Config, archive Archive, log logrus.FieldLogger) *GameServer {
	return &GameServer{
		cfg:        cfg,
		log:        log,
		archive:    archive,
		clients:    make(map[string]*WebsocketClient),
		register:   make(chan *WebsocketClient),
		unregister: make(chan *WebsocketClient),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run tracks connected clients until Shutdown is called.
func (gs *GameServer) Run() {
	defer close(gs.done)
	for {
		select {
		case <-gs.shutdown:
			gs.log.Info("Game server loop shutting down...")
			gs.mu.Lock()
			for _, client := range gs.clients {
				client.stop()
			}
			gs.clients = make(map[string]*WebsocketClient)
			gs.mu.Unlock()
			return

		case client := <-gs.register:
			gs.mu.Lock()
			gs.clients[client.ID] = client
			count := len(gs.clients)
			gs.mu.Unlock()
			client.log.WithField("clients", count).Info("Client connected")

		case client := <-gs.unregister:
			gs.mu.Lock()
			if _, ok := gs.clients[client.ID]; ok {
				delete(gs.clients, client.ID)
				client.stop()
				client.log.Info("Client disconnected")
			}
			gs.mu.Unlock()
		}
	}
}

// Shutdown stops the loop and every client. It waits for Run to return.
func (gs *GameServer) Shutdown() {
	close(gs.shutdown)
	<-gs.done
}

// ClientCount returns the number of connected clients.
func (gs *GameServer) ClientCount() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return len(gs.clients)
}

func (gs *GameServer) leave(c *WebsocketClient) {
	select {
	case gs.unregister <- c:
	case <-gs.done:
	}
}

// HandleWebSocket starts a level for the client:
// /ws?level=N[&protocol=binary]
func (gs *GameServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	lvl := 1
	if raw := r.URL.Query().Get("level"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "Invalid level", http.StatusBadRequest)
			return
		}
		lvl = n
	}
	useBinary := r.URL.Query().Get("protocol") == "binary"

	sim, err := gs.loadLevel(r.Context(), lvl)
	if err != nil {
		gs.log.WithError(err).WithField("level", lvl).Error("Failed to load level")
		http.Error(w, "Failed to load level", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		gs.log.WithError(err).Error("WebSocket upgrade error")
		return
	}

	id := uuid.New().String()
	client := &WebsocketClient{
		ID:        id,
		Conn:      conn,
		Send:      make(chan []byte, 64),
		Server:    gs,
		UseBinary: useBinary,
		sim:       sim,
		done:      make(chan struct{}),
		log:       gs.log.WithField("client_id", id),
	}

	select {
	case gs.register <- client:
	case <-gs.done:
		conn.Close()
		return
	}

	client.sendLevel()
	go client.writePump()
	go client.readPump()
	go client.play()
}

// loadLevel builds a simulation, seeding its replay enemies with the last
// archived recording of the level when there is one.
func (gs *GameServer) loadLevel(ctx context.Context, lvl int) (*game.Simulation, error) {
	return gs.loadLevelWith(ctx, lvl, nil)
}

func (gs *GameServer) loadLevelWith(ctx context.Context, lvl int, rec *replay.Recording) (*game.Simulation, error) {
	if rec == nil && gs.archive != nil {
		ctx, cancel := context.WithTimeout(ctx, config.RunSaveTimeout)
		defer cancel()
		latest, err := gs.archive.LatestRecording(ctx, lvl)
		switch {
		case err == nil:
			rec = latest
		case errors.Is(err, db.ErrNoRuns):
		default:
			gs.log.WithError(err).WithField("level", lvl).Warn("Failed to fetch archived recording")
		}
	}
	return game.Load(gs.cfg, lvl, rec, gs.log)
}

// archiveRun stores a finished level in the background.
func (gs *GameServer) archiveRun(sim *game.Simulation) {
	if gs.archive == nil {
		return
	}
	run, err := db.NewRun(sim.Recording(), sim.Ticks(), string(sim.Status()), sim.Maze().Fingerprint().String())
	if err != nil {
		gs.log.WithError(err).Warn("Failed to pack run")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.RunSaveTimeout)
		defer cancel()
		if err := gs.archive.Insert(ctx, run); err != nil {
			gs.log.WithError(err).WithField("level", run.Level).Error("Failed to archive run")
			return
		}
		gs.log.WithFields(logrus.Fields{"level": run.Level, "ticks": run.Ticks}).Info("Run archived")
	}()
}
