// Package debugdb records every input packet and validation of a match into
// a SQLite file, so desyncs can be replayed and diffed offline.
package debugdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/automoto/shipduel/rollback"
	"github.com/automoto/shipduel/shared/messages"
	"github.com/automoto/shipduel/shared/netconfig"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS inputs (
	input_id      INTEGER PRIMARY KEY AUTOINCREMENT,
	player_number INTEGER NOT NULL,
	frame         INTEGER NOT NULL,
	up            INTEGER NOT NULL,
	down          INTEGER NOT NULL,
	"left"        INTEGER NOT NULL,
	"right"       INTEGER NOT NULL,
	shoot         INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS validations (
	validation_id INTEGER PRIMARY KEY AUTOINCREMENT,
	frame         INTEGER NOT NULL,
	player_number INTEGER NOT NULL,
	checksum      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS validations_frame ON validations (frame);
`

// queueSize bounds the records waiting for the writer. Recording never
// blocks the tick; records beyond it are dropped and counted.
const queueSize = 4096

var ErrClosed = errors.New("debugdb: closed")

type inputRecord struct {
	player netconfig.PlayerNumber
	frame  netconfig.Frame
	input  netconfig.Input
}

type validationRecord struct {
	frame     netconfig.Frame
	checksums rollback.Checksums
}

type flushRequest struct {
	done chan error
}

// DB is an asynchronous recorder. Writes happen on one goroutine in batched
// transactions.
type DB struct {
	sqlDB   *sql.DB
	records chan any
	done    chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// Open creates or opens the database at path and starts the writer.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("debug db path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	db := &DB{
		sqlDB:   sqlDB,
		records: make(chan any, queueSize),
		done:    make(chan struct{}),
	}
	go db.run()
	return db, nil
}

// RecordInput stores the newest input of a packet, the one for msg.Frame.
func (db *DB) RecordInput(msg messages.PlayerInput) {
	db.enqueue(inputRecord{player: msg.PlayerNumber, frame: msg.Frame, input: msg.Inputs[0]})
}

// RecordValidation stores one checksum row per player slot.
func (db *DB) RecordValidation(frame netconfig.Frame, checksums rollback.Checksums) {
	db.enqueue(validationRecord{frame: frame, checksums: checksums})
}

// Dropped is the number of records lost to a full queue.
func (db *DB) Dropped() int64 {
	return db.dropped.Load()
}

// Flush waits until every record queued before the call is committed.
func (db *DB) Flush(ctx context.Context) error {
	req := flushRequest{done: make(chan error, 1)}
	db.mu.RLock()
	if db.closed {
		db.mu.RUnlock()
		return ErrClosed
	}
	select {
	case db.records <- req:
		db.mu.RUnlock()
	case <-ctx.Done():
		db.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close commits the queued records and closes the database.
func (db *DB) Close() error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return nil
	}
	db.closed = true
	close(db.records)
	db.mu.Unlock()

	<-db.done
	if n := db.dropped.Load(); n > 0 {
		log.Printf("[debugdb] %d records dropped", n)
	}
	return db.sqlDB.Close()
}

func (db *DB) enqueue(rec any) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		return
	}
	select {
	case db.records <- rec:
	default:
		db.dropped.Add(1)
	}
}

func (db *DB) run() {
	defer close(db.done)
	for rec := range db.records {
		batch := []any{rec}
	fill:
		for len(batch) < queueSize {
			select {
			case next, ok := <-db.records:
				if !ok {
					break fill
				}
				batch = append(batch, next)
			default:
				break fill
			}
		}
		err := db.write(batch)
		if err != nil {
			log.Printf("[debugdb] write %d records: %v", len(batch), err)
		}
		for _, r := range batch {
			if f, ok := r.(flushRequest); ok {
				f.done <- err
			}
		}
	}
}

func (db *DB) write(batch []any) error {
	tx, err := db.sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range batch {
		switch r := r.(type) {
		case inputRecord:
			in := r.input
			_, err = tx.Exec(
				`INSERT INTO inputs (player_number, frame, up, down, "left", "right", shoot) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				int(r.player), int64(r.frame),
				in.Has(netconfig.InputUp), in.Has(netconfig.InputDown),
				in.Has(netconfig.InputLeft), in.Has(netconfig.InputRight),
				in.Has(netconfig.InputShoot),
			)
		case validationRecord:
			for p, sum := range r.checksums {
				_, err = tx.Exec(
					`INSERT INTO validations (frame, player_number, checksum) VALUES (?, ?, ?)`,
					int64(r.frame), p, int(sum),
				)
				if err != nil {
					break
				}
			}
		}
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
	}
	return tx.Commit()
}
