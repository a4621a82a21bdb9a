package debugdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/automoto/shipduel/rollback"
	"github.com/automoto/shipduel/shared/messages"
	"github.com/automoto/shipduel/shared/netconfig"
)

func openTemp(t *testing.T, name string) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func packet(player netconfig.PlayerNumber, frame netconfig.Frame, newest netconfig.Input) messages.PlayerInput {
	msg := messages.PlayerInput{PlayerNumber: player, Frame: frame}
	msg.Inputs[0] = newest
	msg.Inputs[1] = netconfig.InputShoot
	return msg
}

func TestRecordInputs(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t, "inputs.db")

	db.RecordInput(packet(0, 1, netconfig.InputUp|netconfig.InputLeft))
	db.RecordInput(packet(1, 1, netconfig.InputDown))
	db.RecordInput(packet(0, 2, netconfig.InputNone))
	if err := db.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	rows, err := db.Inputs(ctx, 0)
	if err != nil {
		t.Fatalf("inputs: %v", err)
	}
	want := []InputRow{
		{Player: 0, Frame: 1, Input: netconfig.InputUp | netconfig.InputLeft},
		{Player: 0, Frame: 2, Input: netconfig.InputNone},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v", rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestRecordValidations(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t, "validations.db")

	db.RecordValidation(10, rollback.Checksums{0x1234, 0xffff})
	if err := db.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got, ok, err := db.Validation(ctx, 10)
	if err != nil || !ok {
		t.Fatalf("validation: %v %v", ok, err)
	}
	if got != (rollback.Checksums{0x1234, 0xffff}) {
		t.Errorf("checksums = %v", got)
	}
	if _, ok, _ := db.Validation(ctx, 11); ok {
		t.Error("frame 11 reported as validated")
	}
}

func TestFirstMismatch(t *testing.T) {
	ctx := context.Background()
	a := openTemp(t, "a.db")
	b := openTemp(t, "b.db")

	for f := netconfig.Frame(1); f <= 5; f++ {
		a.RecordValidation(f, rollback.Checksums{rollback.PhysicsState(f), 7})
		sum := rollback.PhysicsState(f)
		if f >= 4 {
			sum++
		}
		b.RecordValidation(f, rollback.Checksums{sum, 7})
	}
	if err := a.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if err := b.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	frame, ok, err := FirstMismatch(ctx, a, b)
	if err != nil || !ok || frame != 4 {
		t.Errorf("first mismatch = %d, %v, %v; want 4", frame, ok, err)
	}
	if _, ok, _ := FirstMismatch(ctx, a, a); ok {
		t.Error("recording differs from itself")
	}
}

func TestClosedDB(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.RecordInput(packet(0, 1, netconfig.InputUp))
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	db.RecordInput(packet(0, 2, netconfig.InputUp))
	if err := db.Flush(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("flush after close = %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("open with empty path succeeded")
	}
}
