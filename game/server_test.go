package game

import (
	"testing"
	"time"

	"github.com/automoto/shipduel/rollback"
	"github.com/automoto/shipduel/shared/messages"
	"github.com/automoto/shipduel/shared/netconfig"
)

type sent struct {
	to  netconfig.ClientID
	msg any
}

// recordingOutbox keeps every message; broadcasts use client 0.
type recordingOutbox struct {
	sent []sent
}

const broadcast netconfig.ClientID = 0

func (o *recordingOutbox) Send(client netconfig.ClientID, msg any) {
	o.sent = append(o.sent, sent{to: client, msg: msg})
}

func (o *recordingOutbox) Broadcast(msg any) {
	o.sent = append(o.sent, sent{to: broadcast, msg: msg})
}

func (o *recordingOutbox) reset() {
	o.sent = nil
}

func messagesOf[T any](o *recordingOutbox, to netconfig.ClientID) []T {
	var out []T
	for _, s := range o.sent {
		if s.to != to {
			continue
		}
		if m, ok := s.msg.(T); ok {
			out = append(out, m)
		}
	}
	return out
}

type memoryRecorder struct {
	inputs      []messages.PlayerInput
	validations []netconfig.Frame
}

func (r *memoryRecorder) RecordInput(msg messages.PlayerInput) {
	r.inputs = append(r.inputs, msg)
}

func (r *memoryRecorder) RecordValidation(frame netconfig.Frame, _ rollback.Checksums) {
	r.validations = append(r.validations, frame)
}

func inputPacket(player netconfig.PlayerNumber, frame netconfig.Frame, in netconfig.Input) messages.PlayerInput {
	msg := messages.PlayerInput{PlayerNumber: player, Frame: frame}
	for i := range msg.Inputs {
		if netconfig.Frame(i) > frame {
			break
		}
		msg.Inputs[i] = in
	}
	return msg
}

func fullServer(t *testing.T, opts ...ServerOption) (*ServerManager, *recordingOutbox, time.Time) {
	t.Helper()
	out := &recordingOutbox{}
	s := NewServerManager("test", out, NewManager(), opts...)
	now := time.UnixMilli(1_000_000)
	s.Join(11, messages.JoinRequest{ClientID: 11})
	s.Join(22, messages.JoinRequest{ClientID: 22})
	if err := s.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	return s, out, now
}

func TestServerJoinAssignsSlotsAndStarts(t *testing.T) {
	s, out, now := fullServer(t, WithStartDelay(time.Second))

	for client, want := range map[netconfig.ClientID]netconfig.PlayerNumber{11: 0, 22: 1} {
		accepted := messagesOf[messages.JoinAccepted](out, client)
		if len(accepted) != 1 || accepted[0].PlayerNumber != want || accepted[0].ServerName != "test" {
			t.Errorf("client %d accepted = %+v", client, accepted)
		}
		if p, ok := s.PlayerOf(client); !ok || p != want {
			t.Errorf("PlayerOf(%d) = %d, %v", client, p, ok)
		}
	}

	// the first client learns about the second ship after it joined
	if spawns := messagesOf[messages.SpawnPlayer](out, 11); len(spawns) != 2 {
		t.Errorf("client 11 saw %d spawns, want 2", len(spawns))
	}
	if spawns := messagesOf[messages.SpawnPlayer](out, 22); len(spawns) != 2 {
		t.Errorf("client 22 saw %d spawns, want 2", len(spawns))
	}

	starts := messagesOf[messages.StartGame](out, broadcast)
	if len(starts) != 1 {
		t.Fatalf("start broadcasts = %d", len(starts))
	}
	if want := now.Add(time.Second).UnixMilli(); starts[0].StartTime != want {
		t.Errorf("start time = %d, want %d", starts[0].StartTime, want)
	}
	if !s.Started() {
		t.Error("server not started")
	}
}

func TestServerRejectsThirdClient(t *testing.T) {
	s, out, now := fullServer(t)
	out.reset()

	s.Join(33, messages.JoinRequest{ClientID: 33})
	if err := s.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if rejected := messagesOf[messages.JoinRejected](out, 33); len(rejected) != 1 {
		t.Errorf("client 33 rejections = %d", len(rejected))
	}
	if _, ok := s.PlayerOf(33); ok {
		t.Error("third client got a slot")
	}
}

func TestServerRejoinKeepsSlot(t *testing.T) {
	s, out, now := fullServer(t)
	out.reset()

	s.Join(22, messages.JoinRequest{ClientID: 22})
	if err := s.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	accepted := messagesOf[messages.JoinAccepted](out, 22)
	if len(accepted) != 1 || accepted[0].PlayerNumber != 1 {
		t.Errorf("rejoin accepted = %+v", accepted)
	}
	if starts := messagesOf[messages.StartGame](out, 22); len(starts) != 1 {
		t.Errorf("rejoining client got %d start messages", len(starts))
	}
}

func TestServerValidatesSlowestPlayer(t *testing.T) {
	rec := &memoryRecorder{}
	s, out, now := fullServer(t, WithServerRecorder(rec))
	out.reset()

	s.Input(11, inputPacket(0, 5, netconfig.InputUp))
	s.Input(22, inputPacket(1, 3, netconfig.InputLeft))
	if err := s.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}

	validations := messagesOf[messages.ValidateFrame](out, broadcast)
	if len(validations) != 1 || validations[0].Frame != 3 {
		t.Fatalf("validations = %+v, want frame 3", validations)
	}
	if s.Rollback().LastValidatedFrame() != 3 {
		t.Errorf("last validated = %d", s.Rollback().LastValidatedFrame())
	}
	want := toWire(s.Rollback().ValidatedChecksums())
	if validations[0].PhysicsStates != want {
		t.Errorf("broadcast checksums %v, validated %v", validations[0].PhysicsStates, want)
	}

	if relayed := messagesOf[messages.PlayerInput](out, 22); len(relayed) != 1 || relayed[0].PlayerNumber != 0 {
		t.Errorf("relay to client 22 = %+v", relayed)
	}
	if relayed := messagesOf[messages.PlayerInput](out, 11); len(relayed) != 1 || relayed[0].PlayerNumber != 1 {
		t.Errorf("relay to client 11 = %+v", relayed)
	}
	if len(rec.inputs) != 2 || len(rec.validations) != 1 {
		t.Errorf("recorded %d inputs, %d validations", len(rec.inputs), len(rec.validations))
	}

	// nothing new to validate
	out.reset()
	if err := s.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if v := messagesOf[messages.ValidateFrame](out, broadcast); len(v) != 0 {
		t.Errorf("repeated validation %+v", v)
	}
}

func TestServerDropsForeignInput(t *testing.T) {
	s, out, now := fullServer(t)
	out.reset()

	s.Input(11, inputPacket(1, 4, netconfig.InputShoot))
	s.Input(99, inputPacket(0, 4, netconfig.InputShoot))
	if err := s.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if got := s.Rollback().LastReceivedFrame(1); got != 0 {
		t.Errorf("player 1 input accepted from client 11, last received %d", got)
	}
	if len(out.sent) != 0 {
		t.Errorf("unexpected messages %+v", out.sent)
	}
}

func TestServerLeaveAwardsRemainingPlayer(t *testing.T) {
	s, out, now := fullServer(t)
	out.reset()

	s.Leave(11)
	if err := s.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	wins := messagesOf[messages.WinGame](out, broadcast)
	if len(wins) != 1 || wins[0].Winner != 1 {
		t.Fatalf("win broadcasts = %+v", wins)
	}
	if !s.Finished() || s.Winner() != 1 {
		t.Errorf("finished %v winner %d", s.Finished(), s.Winner())
	}
}

func TestServerTickBeforeStartDoesNotValidate(t *testing.T) {
	out := &recordingOutbox{}
	s := NewServerManager("test", out, NewManager())
	s.Join(11, messages.JoinRequest{ClientID: 11})
	s.Input(11, inputPacket(0, 2, netconfig.InputUp))
	if err := s.Tick(time.Now()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if s.Started() {
		t.Error("started with one player")
	}
	if v := messagesOf[messages.ValidateFrame](out, broadcast); len(v) != 0 {
		t.Errorf("validated before start: %+v", v)
	}
}

func TestServerLeaveBeforeStartFreesSlot(t *testing.T) {
	out := &recordingOutbox{}
	s := NewServerManager("test", out, NewManager())
	now := time.UnixMilli(1_000_000)

	s.Join(11, messages.JoinRequest{ClientID: 11})
	if err := s.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	s.Leave(11)
	s.Join(22, messages.JoinRequest{ClientID: 22})
	if err := s.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if _, ok := s.PlayerOf(11); ok {
		t.Error("departed client still owns a slot")
	}
	if p, ok := s.PlayerOf(22); !ok || p != 0 {
		t.Fatalf("PlayerOf(22) = %d, %v, want slot 0", p, ok)
	}
	if s.Started() {
		t.Fatal("started with one connected player")
	}
	spawns := messagesOf[messages.SpawnPlayer](out, 22)
	if len(spawns) != 1 || spawns[0].ClientID != 22 || spawns[0].PlayerNumber != 0 {
		t.Errorf("client 22 spawns = %+v", spawns)
	}

	s.Join(33, messages.JoinRequest{ClientID: 33})
	if err := s.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if p, ok := s.PlayerOf(33); !ok || p != 1 {
		t.Fatalf("PlayerOf(33) = %d, %v, want slot 1", p, ok)
	}
	if !s.Started() {
		t.Fatal("match did not start with two players")
	}
	if rejected := messagesOf[messages.JoinRejected](out, 33); len(rejected) != 0 {
		t.Errorf("client 33 rejected: %+v", rejected)
	}

	out.reset()
	s.Input(22, inputPacket(0, 3, netconfig.InputUp))
	s.Input(33, inputPacket(1, 3, netconfig.InputLeft))
	if err := s.Tick(now); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if v := messagesOf[messages.ValidateFrame](out, broadcast); len(v) != 1 || v[0].Frame != 3 {
		t.Errorf("validations = %+v, want frame 3", v)
	}
}
