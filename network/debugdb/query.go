package debugdb

import (
	"context"
	"fmt"

	"github.com/automoto/shipduel/rollback"
	"github.com/automoto/shipduel/shared/netconfig"
)

// InputRow is one recorded input.
type InputRow struct {
	Player netconfig.PlayerNumber
	Frame  netconfig.Frame
	Input  netconfig.Input
}

// Inputs returns the recorded inputs of player in insertion order.
func (db *DB) Inputs(ctx context.Context, player netconfig.PlayerNumber) ([]InputRow, error) {
	rows, err := db.sqlDB.QueryContext(ctx,
		`SELECT frame, up, down, "left", "right", shoot FROM inputs WHERE player_number = ? ORDER BY input_id`,
		int(player))
	if err != nil {
		return nil, fmt.Errorf("query inputs: %w", err)
	}
	defer rows.Close()

	var out []InputRow
	for rows.Next() {
		var frame int64
		var up, down, left, right, shoot bool
		if err := rows.Scan(&frame, &up, &down, &left, &right, &shoot); err != nil {
			return nil, fmt.Errorf("scan input: %w", err)
		}
		row := InputRow{Player: player, Frame: netconfig.Frame(frame)}
		for _, b := range []struct {
			set  bool
			flag netconfig.Input
		}{
			{up, netconfig.InputUp},
			{down, netconfig.InputDown},
			{left, netconfig.InputLeft},
			{right, netconfig.InputRight},
			{shoot, netconfig.InputShoot},
		} {
			if b.set {
				row.Input |= b.flag
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Validation returns the checksums recorded for frame, false when the frame
// was never validated.
func (db *DB) Validation(ctx context.Context, frame netconfig.Frame) (rollback.Checksums, bool, error) {
	rows, err := db.sqlDB.QueryContext(ctx,
		`SELECT player_number, checksum FROM validations WHERE frame = ? ORDER BY validation_id`,
		int64(frame))
	if err != nil {
		return rollback.Checksums{}, false, fmt.Errorf("query validations: %w", err)
	}
	defer rows.Close()

	var out rollback.Checksums
	found := false
	for rows.Next() {
		var player, sum int
		if err := rows.Scan(&player, &sum); err != nil {
			return rollback.Checksums{}, false, fmt.Errorf("scan validation: %w", err)
		}
		if player >= 0 && player < netconfig.MaxPlayers {
			out[player] = rollback.PhysicsState(sum)
			found = true
		}
	}
	return out, found, rows.Err()
}

// FirstMismatch compares the validations of two recordings frame by frame and
// returns the first frame whose checksums differ.
func FirstMismatch(ctx context.Context, a, b *DB) (netconfig.Frame, bool, error) {
	rows, err := a.sqlDB.QueryContext(ctx, `SELECT DISTINCT frame FROM validations ORDER BY frame`)
	if err != nil {
		return 0, false, fmt.Errorf("query frames: %w", err)
	}
	var frames []netconfig.Frame
	for rows.Next() {
		var f int64
		if err := rows.Scan(&f); err != nil {
			rows.Close()
			return 0, false, fmt.Errorf("scan frame: %w", err)
		}
		frames = append(frames, netconfig.Frame(f))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, false, err
	}

	for _, f := range frames {
		sa, _, err := a.Validation(ctx, f)
		if err != nil {
			return 0, false, err
		}
		sb, ok, err := b.Validation(ctx, f)
		if err != nil {
			return 0, false, err
		}
		if ok && sa != sb {
			return f, true, nil
		}
	}
	return 0, false, nil
}
