package game

import (
	"errors"
	"log"
	"time"

	"github.com/automoto/shipduel/rollback"
	"github.com/automoto/shipduel/shared/messages"
	"github.com/automoto/shipduel/shared/netcomponents"
	"github.com/automoto/shipduel/shared/netconfig"
	"github.com/automoto/shipduel/systems"
)

var (
	ErrMatchFull     = errors.New("game: match full")
	ErrUnknownClient = errors.New("game: unknown client")
)

// Outbox delivers server messages. Implementations must not block.
type Outbox interface {
	Send(client netconfig.ClientID, msg any)
	Broadcast(msg any)
}

type joinEvent struct {
	client netconfig.ClientID
	req    messages.JoinRequest
}

type inputEvent struct {
	client netconfig.ClientID
	msg    messages.PlayerInput
}

type leaveEvent struct {
	client netconfig.ClientID
}

// ServerManager is the authority of a match. It assigns player slots,
// relays inputs between clients, validates every frame for which all inputs
// arrived, and decides the winner.
type ServerManager struct {
	*Manager

	outbox     Outbox
	recorder   Recorder
	name       string
	startDelay time.Duration

	clients   map[netconfig.ClientID]netconfig.PlayerNumber
	connected map[netconfig.ClientID]bool
	spawns    [netconfig.MaxPlayers]*messages.SpawnPlayer
	start     *messages.StartGame
	finished  bool

	events rollback.Inbox[any]
}

// ServerOption configures a ServerManager.
type ServerOption func(*ServerManager)

// WithServerRecorder copies every accepted input packet and every
// validation to r.
func WithServerRecorder(r Recorder) ServerOption {
	return func(s *ServerManager) {
		s.recorder = r
	}
}

// WithStartDelay sets how long after the last join the first frame starts.
func WithStartDelay(d time.Duration) ServerOption {
	return func(s *ServerManager) {
		s.startDelay = d
	}
}

func NewServerManager(name string, outbox Outbox, manager *Manager, opts ...ServerOption) *ServerManager {
	s := &ServerManager{
		Manager:    manager,
		outbox:     outbox,
		recorder:   nopRecorder{},
		name:       name,
		startDelay: 3 * time.Second,
		clients:    make(map[netconfig.ClientID]netconfig.PlayerNumber),
		connected:  make(map[netconfig.ClientID]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ServerManager) Join(client netconfig.ClientID, req messages.JoinRequest) {
	s.events.Push(joinEvent{client: client, req: req})
}

func (s *ServerManager) Input(client netconfig.ClientID, msg messages.PlayerInput) {
	s.events.Push(inputEvent{client: client, msg: msg})
}

func (s *ServerManager) Leave(client netconfig.ClientID) {
	s.events.Push(leaveEvent{client: client})
}

func (s *ServerManager) Started() bool {
	return s.start != nil
}

func (s *ServerManager) Finished() bool {
	return s.finished
}

// PlayerOf returns the slot of a joined client.
func (s *ServerManager) PlayerOf(client netconfig.ClientID) (netconfig.PlayerNumber, bool) {
	p, ok := s.clients[client]
	return p, ok
}

// MatchData summarizes the authoritative match for spectators.
func (s *ServerManager) MatchData() netcomponents.NetMatchData {
	v := s.rollback.ValidatedChecksums()
	return netcomponents.NetMatchData{
		Frame:     uint32(s.rollback.LastValidatedFrame()),
		Checksums: toWire(v),
		Winner:    uint8(s.Winner()),
		Players:   len(s.clients),
	}
}

// Tick applies queued client events and validates as far as every player's
// input allows. It never simulates past the validated frame.
func (s *ServerManager) Tick(now time.Time) error {
	for _, ev := range s.events.Drain() {
		var err error
		switch ev := ev.(type) {
		case joinEvent:
			err = s.handleJoin(now, ev)
		case inputEvent:
			err = s.handleInput(ev)
		case leaveEvent:
			s.handleLeave(ev.client)
		}
		if err != nil && !errors.Is(err, ErrMatchFull) && !errors.Is(err, ErrUnknownClient) {
			return err
		}
	}

	if s.start == nil || s.finished {
		return nil
	}
	if err := s.validate(); err != nil {
		return err
	}

	if winner := s.CheckWinner(); winner != netconfig.InvalidPlayer {
		s.finish(winner)
	}
	return nil
}

func (s *ServerManager) handleJoin(now time.Time, ev joinEvent) error {
	if player, ok := s.clients[ev.client]; ok {
		log.Printf("[server] client %d rejoined as player %d", ev.client, player)
		s.connected[ev.client] = true
		s.welcome(ev.client, player)
		return nil
	}

	player, ok := s.freeSlot()
	if !ok {
		log.Printf("[server] rejecting client %d: match full", ev.client)
		s.outbox.Send(ev.client, messages.JoinRejected{Reason: "match full"})
		return ErrMatchFull
	}

	pos, rot := systems.SpawnTransform(player)
	if _, err := s.SpawnPlayer(player, pos, rot); err != nil {
		return err
	}
	spawn := &messages.SpawnPlayer{
		ClientID:     ev.client,
		PlayerNumber: player,
		X:            pos.X,
		Y:            pos.Y,
		Rotation:     float32(rot),
	}
	s.spawns[player] = spawn
	s.clients[ev.client] = player
	s.connected[ev.client] = true
	log.Printf("[server] client %d (version %q) joined as player %d", ev.client, ev.req.Version, player)

	s.welcome(ev.client, player)
	for id := range s.clients {
		if id != ev.client {
			s.outbox.Send(id, *spawn)
		}
	}

	if s.start == nil && len(s.clients) == netconfig.MaxPlayers {
		s.start = &messages.StartGame{StartTime: now.Add(s.startDelay).UnixMilli()}
		log.Printf("[server] match full, starting at %s", time.UnixMilli(s.start.StartTime).Format(time.TimeOnly))
		s.outbox.Broadcast(*s.start)
	}
	return nil
}

// welcome brings a client up to date: its slot, every spawned ship, and the
// start time if already known.
func (s *ServerManager) welcome(client netconfig.ClientID, player netconfig.PlayerNumber) {
	s.outbox.Send(client, messages.JoinAccepted{ClientID: client, PlayerNumber: player, ServerName: s.name})
	for _, spawn := range s.spawns {
		if spawn != nil {
			s.outbox.Send(client, *spawn)
		}
	}
	if s.start != nil {
		s.outbox.Send(client, *s.start)
	}
}

// freeSlot returns the lowest slot no client owns. A slot given up before
// the start keeps its ship, which the next owner takes over.
func (s *ServerManager) freeSlot() (netconfig.PlayerNumber, bool) {
	var owned [netconfig.MaxPlayers]bool
	for _, p := range s.clients {
		owned[p] = true
	}
	for p, taken := range owned {
		if !taken {
			return netconfig.PlayerNumber(p), true
		}
	}
	return netconfig.InvalidPlayer, false
}

func (s *ServerManager) handleInput(ev inputEvent) error {
	player, ok := s.clients[ev.client]
	if !ok {
		return ErrUnknownClient
	}
	if player != ev.msg.PlayerNumber {
		log.Printf("[server] client %d sent input for player %d, owns %d", ev.client, ev.msg.PlayerNumber, player)
		return nil
	}
	if err := s.SetPlayerInputs(player, ev.msg.Frame, ev.msg.Inputs); err != nil {
		return err
	}
	s.recorder.RecordInput(ev.msg)
	for id := range s.clients {
		if id != ev.client && s.connected[id] {
			s.outbox.Send(id, ev.msg)
		}
	}
	return nil
}

func (s *ServerManager) handleLeave(client netconfig.ClientID) {
	player, ok := s.clients[client]
	if !ok {
		return
	}
	log.Printf("[server] client %d (player %d) left", client, player)
	if s.start == nil {
		delete(s.clients, client)
		delete(s.connected, client)
		return
	}
	s.connected[client] = false
	if s.finished {
		return
	}
	for id, p := range s.clients {
		if s.connected[id] {
			s.finish(p)
			return
		}
	}
	s.finish(netconfig.InvalidPlayer)
}

// validate confirms the newest frame every player has sent input for.
func (s *ServerManager) validate() error {
	target, ok := s.validationTarget()
	if !ok || target <= s.rollback.LastValidatedFrame() {
		return nil
	}
	v, err := s.Validate(target)
	if err != nil {
		if errors.Is(err, rollback.ErrFrameNotReady) {
			return nil
		}
		return err
	}
	s.recorder.RecordValidation(v.Frame, v.Checksums)
	s.outbox.Broadcast(messages.ValidateFrame{Frame: v.Frame, PhysicsStates: toWire(v.Checksums)})
	return nil
}

func (s *ServerManager) validationTarget() (netconfig.Frame, bool) {
	var target netconfig.Frame
	found := false
	for p, spawn := range s.spawns {
		if spawn == nil {
			continue
		}
		last := s.rollback.LastReceivedFrame(netconfig.PlayerNumber(p))
		if !found || last < target {
			target = last
			found = true
		}
	}
	return target, found
}

func (s *ServerManager) finish(winner netconfig.PlayerNumber) {
	s.finished = true
	s.WinGame(winner)
	log.Printf("[server] match finished, winner %d", winner)
	s.outbox.Broadcast(messages.WinGame{Winner: winner})
}
