package indexdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"stronghold.rts/internal/sim/rts"
)

// SQLiteIndex is a secondary read-model index of campaigns, actions and
// events. It never feeds back into the engine, so it cannot affect
// determinism; writes happen on a single background goroutine.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqAction reqKind = iota + 1
	reqEvent
	reqCampaign
)

type req struct {
	kind reqKind

	action rts.ActionLogEntry
	event  rts.EventLogEntry

	campaignID       uint64
	campaignStart    uint64
	campaignDuration uint64
	campaignStock    [4]int64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		// High buffer: a burst of settlements should not stall the engine loop.
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads; NORMAL is a decent
	// durability/perf tradeoff for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS campaigns (
			id INTEGER PRIMARY KEY,
			start_tick INTEGER NOT NULL,
			duration_ticks INTEGER NOT NULL,
			stock_wood INTEGER NOT NULL,
			stock_rock INTEGER NOT NULL,
			stock_food INTEGER NOT NULL,
			stock_gold INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS actions (
			seq INTEGER PRIMARY KEY,
			tick INTEGER NOT NULL,
			player TEXT NOT NULL,
			action TEXT NOT NULL,
			ok INTEGER NOT NULL,
			code TEXT NOT NULL,
			digest TEXT NOT NULL,
			act_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_player_tick ON actions(player, tick);`,
		`CREATE TABLE IF NOT EXISTS events (
			seq INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			object TEXT NOT NULL,
			action TEXT NOT NULL,
			value_json TEXT NOT NULL,
			PRIMARY KEY (seq, action)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_action_tick ON events(action, tick);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) loop() {
	for r := range s.ch {
		switch r.kind {
		case reqAction:
			s.insertAction(r.action)
		case reqEvent:
			s.insertEvent(r.event)
		case reqCampaign:
			s.insertCampaign(r)
		}
	}
}

func (s *SQLiteIndex) insertAction(a rts.ActionLogEntry) {
	actJSON, _ := json.Marshal(a.Act)
	name := ""
	if a.Act != nil {
		name = a.Act.Action
	}
	_, _ = s.db.Exec(
		`INSERT OR REPLACE INTO actions (seq, tick, player, action, ok, code, digest, act_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Seq, a.Tick, a.Player, name, boolInt(a.OK), a.Code, a.Digest, string(actJSON),
	)
}

func (s *SQLiteIndex) insertEvent(e rts.EventLogEntry) {
	valueJSON, _ := json.Marshal(e.Event.Value)
	_, _ = s.db.Exec(
		`INSERT OR REPLACE INTO events (seq, tick, object, action, value_json)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Seq, e.Tick, e.Event.Object, e.Event.Action, string(valueJSON),
	)
}

func (s *SQLiteIndex) insertCampaign(r req) {
	_, _ = s.db.Exec(
		`INSERT OR REPLACE INTO campaigns (id, start_tick, duration_ticks, stock_wood, stock_rock, stock_food, stock_gold, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.campaignID, r.campaignStart, r.campaignDuration,
		r.campaignStock[0], r.campaignStock[1], r.campaignStock[2], r.campaignStock[3],
		time.Now().UTC().Format(time.RFC3339),
	)
}

// WriteAction implements rts.ActionLogger. Drops entries once closed or
// when the buffer is full; the zstd journal is the durable record.
func (s *SQLiteIndex) WriteAction(a rts.ActionLogEntry) error {
	if s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqAction, action: a}:
	default:
	}
	return nil
}

// WriteEvent implements rts.EventLogger.
func (s *SQLiteIndex) WriteEvent(e rts.EventLogEntry) error {
	if s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqEvent, event: e}:
	default:
	}
	return nil
}

func (s *SQLiteIndex) RecordCampaign(id, start, duration uint64, stock [4]int64) {
	if s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{
		kind:             reqCampaign,
		campaignID:       id,
		campaignStart:    start,
		campaignDuration: duration,
		campaignStock:    stock,
	}:
	default:
	}
}

// ActionCount reports indexed actions; used by tooling and tests.
func (s *SQLiteIndex) ActionCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM actions`).Scan(&n)
	return n, err
}

func (s *SQLiteIndex) EventCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
