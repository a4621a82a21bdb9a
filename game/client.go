package game

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/automoto/shipduel/rollback"
	"github.com/automoto/shipduel/shared/gamemath"
	"github.com/automoto/shipduel/shared/messages"
	"github.com/automoto/shipduel/shared/netconfig"
)

// Sender delivers a message to the server.
type Sender interface {
	SendMessage(msg any) error
}

// ClientManager runs the match on a client. Network callbacks only enqueue
// messages through the On* methods; Tick applies them at a frame boundary,
// confirms validated frames, and predicts the next local frame.
type ClientManager struct {
	*Manager

	sender   Sender
	recorder Recorder

	clientID  netconfig.ClientID
	player    netconfig.PlayerNumber
	state     netconfig.MatchState
	startTime time.Time
	hasStart  bool

	events  rollback.Inbox[any]
	pending []messages.ValidateFrame
}

// ClientOption configures a ClientManager.
type ClientOption func(*ClientManager)

// WithRecorder copies every sent input packet and every confirmed
// validation to r.
func WithRecorder(r Recorder) ClientOption {
	return func(c *ClientManager) {
		c.recorder = r
	}
}

func NewClientManager(clientID netconfig.ClientID, sender Sender, manager *Manager, opts ...ClientOption) *ClientManager {
	c := &ClientManager{
		Manager:  manager,
		sender:   sender,
		recorder: nopRecorder{},
		clientID: clientID,
		player:   netconfig.InvalidPlayer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ClientManager) ClientID() netconfig.ClientID {
	return c.clientID
}

// Player is InvalidPlayer until the server accepted the join.
func (c *ClientManager) Player() netconfig.PlayerNumber {
	return c.player
}

func (c *ClientManager) MatchState() netconfig.MatchState {
	return c.state
}

func (c *ClientManager) OnJoinAccepted(msg messages.JoinAccepted) { c.events.Push(msg) }
func (c *ClientManager) OnSpawnPlayer(msg messages.SpawnPlayer)   { c.events.Push(msg) }
func (c *ClientManager) OnStartGame(msg messages.StartGame)       { c.events.Push(msg) }
func (c *ClientManager) OnPlayerInput(msg messages.PlayerInput)   { c.events.Push(msg) }
func (c *ClientManager) OnValidateFrame(msg messages.ValidateFrame) {
	c.events.Push(msg)
}
func (c *ClientManager) OnWinGame(msg messages.WinGame) { c.events.Push(msg) }

// Tick advances the client by at most one frame. local is the input of the
// local player for the next frame. A desync is returned as a
// *rollback.DesyncError and ends the match.
func (c *ClientManager) Tick(now time.Time, local netconfig.Input) error {
	remoteDirty, err := c.applyEvents()
	if err != nil {
		return err
	}

	if !c.state.Has(netconfig.MatchStarted) {
		if !c.hasStart || now.Before(c.startTime) {
			return nil
		}
		c.state |= netconfig.MatchStarted
		log.Printf("[client] match started as player %d", c.player)
	}
	if c.state.Has(netconfig.MatchFinished) {
		return nil
	}

	if err := c.confirmPending(); err != nil {
		return err
	}
	if remoteDirty {
		if err := c.rollback.SimulateToCurrentFrame(); err != nil {
			return err
		}
	}

	if c.player == netconfig.InvalidPlayer {
		log.Printf("[client] match running without a player slot")
		return nil
	}

	next := c.rollback.CurrentFrame() + 1
	if err := c.rollback.SetPlayerInput(c.player, local, next); err != nil {
		return err
	}
	if err := c.rollback.StartNewFrame(next); err != nil {
		if errors.Is(err, rollback.ErrPredictionWindow) {
			return nil
		}
		return err
	}

	msg := messages.PlayerInput{
		PlayerNumber: c.player,
		Frame:        next,
		Inputs:       c.rollback.Inputs(c.player, next),
	}
	c.recorder.RecordInput(msg)
	if err := c.sender.SendMessage(msg); err != nil {
		return fmt.Errorf("send input for frame %d: %w", next, err)
	}
	return nil
}

// applyEvents handles every queued message in arrival order. It reports
// whether remote input changed the speculative frames.
func (c *ClientManager) applyEvents() (bool, error) {
	remoteDirty := false
	for _, ev := range c.events.Drain() {
		switch msg := ev.(type) {
		case messages.JoinAccepted:
			c.player = msg.PlayerNumber
		case messages.SpawnPlayer:
			pos := gamemath.Vec2{X: msg.X, Y: msg.Y}
			if _, err := c.SpawnPlayer(msg.PlayerNumber, pos, gamemath.Degree(msg.Rotation)); err != nil {
				return remoteDirty, fmt.Errorf("spawn player %d: %w", msg.PlayerNumber, err)
			}
		case messages.StartGame:
			c.startTime = time.UnixMilli(msg.StartTime)
			c.hasStart = true
		case messages.PlayerInput:
			if msg.PlayerNumber == c.player {
				continue
			}
			if err := c.SetPlayerInputs(msg.PlayerNumber, msg.Frame, msg.Inputs); err != nil {
				return remoteDirty, fmt.Errorf("input of player %d: %w", msg.PlayerNumber, err)
			}
			remoteDirty = true
		case messages.ValidateFrame:
			c.pending = append(c.pending, msg)
		case messages.WinGame:
			c.WinGame(msg.Winner)
			c.state |= netconfig.MatchFinished
			log.Printf("[client] player %d won", msg.Winner)
		}
	}
	return remoteDirty, nil
}

// confirmPending confirms validations in order. A frame whose inputs have not
// all arrived stays queued together with everything after it.
func (c *ClientManager) confirmPending() error {
	for len(c.pending) > 0 {
		msg := c.pending[0]
		remote := fromWire(msg.PhysicsStates)
		err := c.rollback.ConfirmFrame(msg.Frame, remote)
		if errors.Is(err, rollback.ErrFrameNotReady) {
			return nil
		}
		if err != nil {
			var derr *rollback.DesyncError
			if errors.As(err, &derr) {
				c.state |= netconfig.MatchDesynced | netconfig.MatchFinished
			}
			return err
		}
		c.recorder.RecordValidation(msg.Frame, remote)
		c.pending = c.pending[1:]
	}
	return nil
}
