package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/shipduel/components"
	"github.com/automoto/shipduel/config"
	"github.com/automoto/shipduel/game"
	"github.com/automoto/shipduel/network/debugdb"
	"github.com/automoto/shipduel/rollback"
	"github.com/automoto/shipduel/shared/messages"
	"github.com/automoto/shipduel/shared/netcomponents"
	"github.com/automoto/shipduel/shared/netconfig"
	"github.com/automoto/shipduel/systems"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

// Server hosts one match. Router callbacks only enqueue into the match; the
// game loop ticks it and mirrors the validated world to spectators.
type Server struct {
	world     donburi.World
	match     *game.ServerManager
	mirror    *systems.Mirror
	loop      *GameLoop
	transport *transports.WsServerTransport
	debugDB   *debugdb.DB

	// Track which network client owns which client id
	peers   map[netconfig.ClientID]*router.NetworkClient
	clients map[*router.NetworkClient]netconfig.ClientID
	mu      sync.RWMutex
}

// NewServer creates a server for settings. Components must be registered
// with protocol.RegisterComponents first.
func NewServer(settings config.ServerSettings) (*Server, error) {
	world := donburi.NewWorld()

	s := &Server{
		world:   world,
		peers:   make(map[netconfig.ClientID]*router.NetworkClient),
		clients: make(map[*router.NetworkClient]netconfig.ClientID),
	}

	opts := []game.ServerOption{game.WithStartDelay(settings.StartDelay)}
	if settings.DebugDBPath != "" {
		db, err := debugdb.Open(settings.DebugDBPath)
		if err != nil {
			return nil, fmt.Errorf("debug db: %w", err)
		}
		s.debugDB = db
		opts = append(opts, game.WithServerRecorder(db))
	}

	manager := game.NewManager(rollback.WithHoldLimit(netconfig.Frame(settings.HoldLimit)))
	s.match = game.NewServerManager(settings.Name, s, manager, opts...)

	s.mirror = systems.NewMirror(world)
	s.mirror.OnCreate = func(entity *donburi.Entity, component donburi.IComponentType) error {
		switch component {
		case netcomponents.NetShip:
			return srvsync.NetworkSync(world, entity, srvsync.WithInterp(netcomponents.NetShip))
		case netcomponents.NetBullet:
			return srvsync.NetworkSync(world, entity, srvsync.WithInterp(netcomponents.NetBullet))
		default:
			return srvsync.NetworkSync(world, entity, component)
		}
	}
	s.loop = NewGameLoop(s, netconfig.FixedPeriod)

	// Set up the world for esync
	srvsync.UseEsync(world)

	s.setupRouterCallbacks()
	return s, nil
}

// Serve runs the game loop and the WebSocket transport until ctx is done.
func (s *Server) Serve(ctx context.Context, port uint) error {
	go s.loop.Run()
	defer s.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.transport = transports.NewWsServerTransport(port, "", nil)
		errCh <- s.transport.Start()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("transport: %w", err)
	case <-ctx.Done():
		return nil
	}
}

// Stop halts the game loop and flushes the debug database.
func (s *Server) Stop() {
	s.loop.Stop()
	if s.debugDB != nil {
		if err := s.debugDB.Close(); err != nil {
			log.Printf("[server] close debug db: %v", err)
		}
	}
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[server] connection %s opened", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.onJoin(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.PlayerInput) {
		if id, ok := s.clientOf(client); ok {
			s.match.Input(id, msg)
		}
	})

	// Pings are echoed unchanged; the client measures the round trip.
	router.On(func(client *router.NetworkClient, msg messages.Ping) {
		if err := client.SendMessage(msg); err != nil {
			log.Printf("[server] ping echo to %s: %v", client.Id(), err)
		}
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] client error: %v", err)
	})
}

func (s *Server) onJoin(client *router.NetworkClient, msg messages.JoinRequest) {
	s.mu.Lock()
	if old, ok := s.peers[msg.ClientID]; ok && old != client {
		delete(s.clients, old)
	}
	s.peers[msg.ClientID] = client
	s.clients[client] = msg.ClientID
	s.mu.Unlock()

	s.match.Join(msg.ClientID, msg)
}

func (s *Server) onDisconnect(client *router.NetworkClient, err error) {
	if err != nil {
		log.Printf("[server] connection %s closed with error: %v", client.Id(), err)
	} else {
		log.Printf("[server] connection %s closed", client.Id())
	}

	s.mu.Lock()
	id, exists := s.clients[client]
	if exists {
		delete(s.clients, client)
		if s.peers[id] == client {
			delete(s.peers, id)
		}
	}
	s.mu.Unlock()

	if exists {
		s.match.Leave(id)
	}
}

func (s *Server) clientOf(client *router.NetworkClient) (netconfig.ClientID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.clients[client]
	return id, ok
}

// Send implements game.Outbox.
func (s *Server) Send(client netconfig.ClientID, msg any) {
	s.mu.RLock()
	peer, ok := s.peers[client]
	s.mu.RUnlock()
	if !ok {
		return
	}
	if err := peer.SendMessage(msg); err != nil {
		log.Printf("[server] send %T to client %d: %v", msg, client, err)
	}
}

// Broadcast implements game.Outbox.
func (s *Server) Broadcast(msg any) {
	s.mu.RLock()
	peers := make(map[netconfig.ClientID]*router.NetworkClient, len(s.peers))
	for id, peer := range s.peers {
		peers[id] = peer
	}
	s.mu.RUnlock()

	for id, peer := range peers {
		if err := peer.SendMessage(msg); err != nil {
			log.Printf("[server] broadcast %T to client %d: %v", msg, id, err)
		}
	}
}

// tick runs one fixed step of the match and refreshes the spectator mirror.
func (s *Server) tick(now time.Time) {
	if err := s.match.Tick(now); err != nil {
		log.Printf("[server] tick: %v", err)
	}

	data := s.match.MatchData()
	var syncErr error
	s.match.Rollback().View(func(w *components.World) {
		syncErr = s.mirror.Sync(w, data)
	})
	if syncErr != nil {
		log.Printf("[server] mirror: %v", syncErr)
	}
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

// PlayerCount returns the number of connected players
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.peers)
}
