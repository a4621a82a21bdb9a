package network

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/shipduel/shared/messages"
	"github.com/automoto/shipduel/shared/netconfig"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "joined"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("ClientState(%d)", int(s))
}

// Handler receives the match messages of the server. Methods are called on
// necs goroutines and must only enqueue.
type Handler interface {
	OnJoinAccepted(msg messages.JoinAccepted)
	OnSpawnPlayer(msg messages.SpawnPlayer)
	OnStartGame(msg messages.StartGame)
	OnPlayerInput(msg messages.PlayerInput)
	OnValidateFrame(msg messages.ValidateFrame)
	OnWinGame(msg messages.WinGame)
}

// Client manages a WebSocket connection to the game server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state      ClientState
	lastError  error
	clientID   netconfig.ClientID
	player     netconfig.PlayerNumber
	serverName string
	conn       *websocket.Conn

	rtt *RTTEstimator

	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins
}

func NewClient(clientID netconfig.ClientID) *Client {
	return &Client{
		state:      StateDisconnected,
		clientID:   clientID,
		player:     netconfig.InvalidPlayer,
		rtt:        NewRTTEstimator(),
		snapshotCh: make(chan esync.WorldSnapshot, 1),
	}
}

// Connect dials the server in a background goroutine and initiates the join
// handshake. Match messages are forwarded to h.
func (c *Client) Connect(address, version string, h Handler) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		if err := c.SendMessage(messages.JoinRequest{ClientID: c.clientID, Version: version}); err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		log.Printf("[client] join accepted: player=%d server=%s", msg.PlayerNumber, msg.ServerName)
		c.mu.Lock()
		c.player = msg.PlayerNumber
		c.serverName = msg.ServerName
		c.state = StateJoinedGame
		c.mu.Unlock()
		h.OnJoinAccepted(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, msg messages.SpawnPlayer) {
		h.OnSpawnPlayer(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.StartGame) {
		log.Printf("[client] match starts at %s", time.UnixMilli(msg.StartTime).Format(time.TimeOnly))
		h.OnStartGame(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.PlayerInput) {
		h.OnPlayerInput(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.ValidateFrame) {
		h.OnValidateFrame(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.WinGame) {
		h.OnWinGame(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.Ping) {
		if msg.ClientID != c.clientID {
			return
		}
		c.rtt.Observe(time.Since(time.UnixMilli(msg.Time)))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) ClientID() netconfig.ClientID {
	return c.clientID
}

func (c *Client) Player() netconfig.PlayerNumber {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.player
}

func (c *Client) ServerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverName
}

// RTT is the round-trip estimator fed by ping echoes.
func (c *Client) RTT() *RTTEstimator {
	return c.rtt
}

// Ping sends a timestamped ping; the echo updates the RTT estimate.
func (c *Client) Ping(now time.Time) error {
	return c.SendMessage(messages.Ping{Time: now.UnixMilli(), ClientID: c.clientID})
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}
