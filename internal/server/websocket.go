package server

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/game"
	"github.com/besuhoff/dungeon-maze-go/internal/protocol"
	"github.com/besuhoff/dungeon-maze-go/internal/types"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// WebsocketClient represents a connected client and the level it plays
type WebsocketClient struct {
	ID        string
	Conn      *websocket.Conn
	Send      chan []byte
	Server    *GameServer
	UseBinary bool // Whether client prefers binary protocol

	log      logrus.FieldLogger
	done     chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	input types.Input
	sim   *game.Simulation
}

func (c *WebsocketClient) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *WebsocketClient) readPump() {
	defer c.Server.leave(c)

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("WebSocket error")
			}
			return
		}

		in, err := protocol.UnmarshalInput(message, messageType == websocket.BinaryMessage)
		if err != nil {
			c.log.WithError(err).Debug("Dropping client message")
			c.send(protocol.ToProtoError(err))
			continue
		}

		c.mu.Lock()
		c.input = in
		c.mu.Unlock()
	}
}

func (c *WebsocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	// Send as binary or text based on client preference
	msgType := websocket.TextMessage
	if c.UseBinary {
		msgType = websocket.BinaryMessage
	}

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(msgType, message); err != nil {
				c.Server.leave(c)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Server.leave(c)
				return
			}
		}
	}
}

// play runs the client's simulation at the fixed loop rate. A completed
// level is archived and the next one starts with its recording.
func (c *WebsocketClient) play() {
	ticker := time.NewTicker(config.GameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		in := c.input
		sim := c.sim
		c.mu.Unlock()

		res := sim.Tick(in)
		c.sendSnapshot(sim)
		if !res.Completed() {
			continue
		}

		c.Server.archiveRun(sim)
		rec := sim.Recording()
		next, err := c.Server.loadLevelWith(context.Background(), sim.Plan().Level+1, &rec)
		if err != nil {
			c.log.WithError(err).Error("Failed to load next level")
			c.send(protocol.ToProtoError(err))
			c.Server.leave(c)
			return
		}

		c.mu.Lock()
		c.sim = next
		c.input = types.Input{}
		c.mu.Unlock()
		c.sendLevel()
	}
}

func (c *WebsocketClient) sendLevel() {
	c.mu.Lock()
	sim := c.sim
	c.mu.Unlock()

	msg, err := protocol.ToProtoLevel(sim.Plan().Level, sim.Maze())
	if err != nil {
		c.log.WithError(err).Error("Error building level message")
		return
	}
	c.send(msg)
}

func (c *WebsocketClient) sendSnapshot(sim *game.Simulation) {
	msg, err := protocol.ToProtoSnapshot(sim.Snapshot())
	if err != nil {
		c.log.WithError(err).Error("Error building snapshot")
		return
	}
	c.send(msg)
}

func (c *WebsocketClient) send(msg *structpb.Struct) {
	var (
		data []byte
		err  error
	)
	if c.UseBinary {
		data, err = protocol.MarshalBinary(msg)
	} else {
		data, err = protocol.MarshalJSON(msg)
	}
	if err != nil {
		c.log.WithError(err).Error("Error marshaling message")
		return
	}
	select {
	case c.Send <- data:
	case <-c.done:
	default:
		// Buffer full, the next snapshot supersedes this one
	}
}
