package rollback

import (
	"fmt"
	"log"
	"sync"

	"github.com/automoto/shipduel/components"
	"github.com/automoto/shipduel/shared/netconfig"
)

// State is the phase the frame driver is in.
type State uint8

const (
	StateIdle State = iota
	StateAdvancing
	StateReconciling
	StateDesynced
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAdvancing:
		return "advancing"
	case StateReconciling:
		return "reconciling"
	case StateDesynced:
		return "desynced"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Stepper runs one fixed simulation step. It must be a pure function of the
// world and the inputs: same world and inputs, same result on every peer.
type Stepper interface {
	FixedUpdate(w *components.World, inputs [netconfig.MaxPlayers]netconfig.Input)
}

// StepperFunc adapts a function to Stepper.
type StepperFunc func(w *components.World, inputs [netconfig.MaxPlayers]netconfig.Input)

func (f StepperFunc) FixedUpdate(w *components.World, inputs [netconfig.MaxPlayers]netconfig.Input) {
	f(w, inputs)
}

// Validation is the outcome of validating a frame: the checksums a server
// broadcasts and a client compares against.
type Validation struct {
	Frame     netconfig.Frame
	Checksums Checksums
}

// Option configures a Manager.
type Option func(*Manager)

// WithHoldLimit stops repeating a player's last input after the given number
// of frames without a fresh one. Zero holds forever.
func WithHoldLimit(frames netconfig.Frame) Option {
	return func(m *Manager) {
		m.inputs = NewInputLedger(frames)
	}
}

// Manager drives the two timelines. The world always shows currentFrame; the
// baseline snapshot holds lastValidatedFrame. Every exported method takes the
// same lock, so a reconciliation always runs to completion before anything
// else touches the state.
type Manager struct {
	mu sync.Mutex

	world     *components.World
	baseline  Snapshot
	inputs    *InputLedger
	lifecycle *LifecycleLedger
	stepper   Stepper

	players [netconfig.MaxPlayers]components.Entity

	currentFrame       netconfig.Frame
	lastValidatedFrame netconfig.Frame
	// testedFrame is the frame being simulated; lifecycle events are tagged
	// with it.
	testedFrame netconfig.Frame
	validated   Checksums
	state       State
}

// NewManager creates a driver over an empty world. The empty world is the
// baseline for frame 0.
func NewManager(stepper Stepper, opts ...Option) *Manager {
	m := &Manager{
		world:     components.NewWorld(),
		inputs:    NewInputLedger(0),
		lifecycle: NewLifecycleLedger(),
		stepper:   stepper,
	}
	for i := range m.players {
		m.players[i] = components.InvalidEntity
	}
	for _, opt := range opts {
		opt(m)
	}
	m.world.SetObserver(recorder{m})
	m.baseline = Capture(m.world, 0)
	return m
}

// recorder tags world lifecycle events with the frame being simulated.
type recorder struct {
	m *Manager
}

func (r recorder) EntityCreated(e components.Entity) {
	r.m.lifecycle.RecordCreation(e, r.m.testedFrame)
}

func (r recorder) EntityDestroyed(e components.Entity) {
	r.m.lifecycle.RecordDestruction(e, r.m.testedFrame)
}

// SpawnPlayer builds a permanent player entity with build and binds it to the
// slot. Players exist from the baseline onward, so the world is rewound, the
// entity is created outside the lifecycle ledger, the baseline is recaptured,
// and the speculative frames are replayed on top. Spawning an occupied slot
// returns the existing entity.
func (m *Manager) SpawnPlayer(player netconfig.PlayerNumber, build func(w *components.World) components.Entity) (components.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int(player) >= netconfig.MaxPlayers {
		return components.InvalidEntity, ErrInvalidPlayer
	}
	if m.state == StateDesynced {
		return components.InvalidEntity, ErrDesynced
	}
	if e := m.players[player]; e != components.InvalidEntity {
		return e, nil
	}

	m.state = StateReconciling
	if err := m.rewind(); err != nil {
		return components.InvalidEntity, err
	}
	m.world.SetObserver(nil)
	e := build(m.world)
	m.world.SetObserver(recorder{m})
	m.players[player] = e

	m.baseline = Capture(m.world, m.lastValidatedFrame)
	m.validated = ComputeChecksums(m.world, m.players)
	m.simulate(m.lastValidatedFrame+1, m.currentFrame)
	m.state = StateIdle
	return e, nil
}

// SetPlayerInput records input for player at frame. Input at or before the
// validated frame is stale and dropped. Input too far ahead of the validated
// frame to be replayed is dropped as well; input packets repeat the window, so
// it arrives again once validation catches up.
func (m *Manager) SetPlayerInput(player netconfig.PlayerNumber, input netconfig.Input, frame netconfig.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int(player) >= netconfig.MaxPlayers {
		return ErrInvalidPlayer
	}
	if m.state == StateDesynced {
		return ErrDesynced
	}
	if frame <= m.lastValidatedFrame || frame >= m.lastValidatedFrame+netconfig.MaxInputs {
		return nil
	}
	m.inputs.SetInput(player, input, frame)
	return nil
}

// StartNewFrame advances the speculative timeline to frame, running one fixed
// step per new frame. Frames at or before currentFrame are ignored.
func (m *Manager) StartNewFrame(frame netconfig.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateDesynced {
		return ErrDesynced
	}
	if frame <= m.currentFrame {
		return nil
	}
	if frame >= m.lastValidatedFrame+netconfig.MaxInputs {
		return fmt.Errorf("start frame %d, validated %d: %w", frame, m.lastValidatedFrame, ErrPredictionWindow)
	}

	m.state = StateAdvancing
	m.inputs.Advance(frame)
	m.simulate(m.currentFrame+1, frame)
	m.currentFrame = frame
	m.state = StateIdle
	return nil
}

// SimulateToCurrentFrame rewinds to the baseline and replays up to
// currentFrame with the latest inputs.
func (m *Manager) SimulateToCurrentFrame() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateDesynced {
		return ErrDesynced
	}
	m.state = StateReconciling
	if err := m.rewind(); err != nil {
		return err
	}
	m.simulate(m.lastValidatedFrame+1, m.currentFrame)
	m.state = StateIdle
	return nil
}

// ValidateFrame makes frame the new baseline and returns its checksums. It is
// the server side of validation. Frames at or before the validated one return
// the current baseline unchanged. ErrFrameNotReady means a spawned player's
// input for frame has not arrived yet.
func (m *Manager) ValidateFrame(frame netconfig.Frame) (Validation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateDesynced {
		return Validation{}, ErrDesynced
	}
	return m.validate(frame)
}

// ConfirmFrame validates frame and compares the result with the
// authoritative checksums. A mismatch returns a *DesyncError and leaves the
// manager desynced for good. Confirmations older than the validated frame are
// ignored.
func (m *Manager) ConfirmFrame(frame netconfig.Frame, remote Checksums) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateDesynced {
		return ErrDesynced
	}
	if frame < m.lastValidatedFrame {
		return nil
	}
	v, err := m.validate(frame)
	if err != nil {
		return err
	}
	player, ok := Compare(v.Checksums, remote)
	if ok {
		return nil
	}

	m.state = StateDesynced
	derr := &DesyncError{
		Frame:  v.Frame,
		Player: player,
		Local:  v.Checksums[player],
		Remote: remote[player],
	}
	log.Printf("[rollback] %v", derr)
	return derr
}

// Ready reports whether every spawned player has input for frame.
func (m *Manager) Ready(frame netconfig.Frame) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready(frame)
}

func (m *Manager) validate(frame netconfig.Frame) (Validation, error) {
	if frame <= m.lastValidatedFrame {
		return Validation{Frame: m.lastValidatedFrame, Checksums: m.validated}, nil
	}
	if !m.ready(frame) {
		return Validation{}, fmt.Errorf("validate frame %d: %w", frame, ErrFrameNotReady)
	}
	if frame > m.currentFrame {
		m.inputs.Advance(frame)
		m.currentFrame = frame
	}

	m.state = StateReconciling
	if err := m.rewind(); err != nil {
		return Validation{}, err
	}
	m.simulate(m.lastValidatedFrame+1, frame)
	m.lifecycle.ReconcileToFrame(m.world, frame)

	m.validated = ComputeChecksums(m.world, m.players)
	m.baseline = Capture(m.world, frame)
	m.lastValidatedFrame = frame

	m.simulate(frame+1, m.currentFrame)
	m.state = StateIdle
	return Validation{Frame: frame, Checksums: m.validated}, nil
}

func (m *Manager) ready(frame netconfig.Frame) bool {
	for p, e := range m.players {
		if e == components.InvalidEntity {
			continue
		}
		if m.inputs.LastReceivedFrame(netconfig.PlayerNumber(p)) < frame {
			return false
		}
	}
	return true
}

// rewind brings the world back to lastValidatedFrame: speculative entities are
// retracted first, then every component store is replaced from the baseline.
func (m *Manager) rewind() error {
	m.lifecycle.ReconcileToFrame(m.world, m.lastValidatedFrame)
	return m.baseline.Restore(m.world)
}

func (m *Manager) simulate(from, to netconfig.Frame) {
	for f := from; f <= to; f++ {
		m.testedFrame = f
		var in [netconfig.MaxPlayers]netconfig.Input
		for p := range in {
			in[p], _ = m.inputs.GetInputAt(netconfig.PlayerNumber(p), f)
		}
		m.stepper.FixedUpdate(m.world, in)
	}
}

func (m *Manager) CurrentFrame() netconfig.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentFrame
}

func (m *Manager) LastValidatedFrame() netconfig.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastValidatedFrame
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ValidatedChecksums returns the checksums computed at lastValidatedFrame.
func (m *Manager) ValidatedChecksums() Checksums {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validated
}

// Inputs returns player's input window ending at frame, newest first.
func (m *Manager) Inputs(player netconfig.PlayerNumber, frame netconfig.Frame) [netconfig.MaxInputs]netconfig.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputs.InputWindow(player, frame)
}

// InputHead is the newest frame held by the input ledger.
func (m *Manager) InputHead() netconfig.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputs.Head()
}

func (m *Manager) LastReceivedFrame(player netconfig.PlayerNumber) netconfig.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputs.LastReceivedFrame(player)
}

// PlayerEntity returns the entity bound to player, false when the slot is
// empty or invalid.
func (m *Manager) PlayerEntity(player netconfig.PlayerNumber) (components.Entity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playerEntity(player)
}

func (m *Manager) PlayerCharacter(player netconfig.PlayerNumber) (components.PlayerCharacter, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.playerEntity(player)
	if !ok {
		return components.PlayerCharacter{}, false
	}
	return m.world.Players.Get(e), true
}

func (m *Manager) Body(player netconfig.PlayerNumber) (components.Body, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.playerEntity(player)
	if !ok {
		return components.Body{}, false
	}
	return m.world.Bodies.Get(e), true
}

func (m *Manager) Transform(player netconfig.PlayerNumber) (components.Transform, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.playerEntity(player)
	if !ok {
		return components.Transform{}, false
	}
	return m.world.Transforms.Get(e), true
}

// EachLive visits every live entity carrying mask at currentFrame.
func (m *Manager) EachLive(mask components.Mask, fn func(w *components.World, e components.Entity)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.world.EachLive(mask, func(e components.Entity) {
		fn(m.world, e)
	})
}

// View gives fn read access to the world at currentFrame. fn must not keep the
// pointer or mutate the world.
func (m *Manager) View(fn func(w *components.World)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.world)
}

func (m *Manager) playerEntity(player netconfig.PlayerNumber) (components.Entity, bool) {
	if int(player) >= netconfig.MaxPlayers {
		return components.InvalidEntity, false
	}
	e := m.players[player]
	if e == components.InvalidEntity || !m.world.Entities.Exists(e) {
		return components.InvalidEntity, false
	}
	return e, true
}
