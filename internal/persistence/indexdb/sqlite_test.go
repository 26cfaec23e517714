package indexdb

import (
	"path/filepath"
	"testing"
	"time"

	"stronghold.rts/internal/protocol"
	"stronghold.rts/internal/sim/rts"
)

func openTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func waitCount(t *testing.T, count func() (int, error), want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		n, err := count()
		if err == nil && n == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("count = %d (err=%v), want %d", n, err, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSQLiteIndex_ActionsAndEvents(t *testing.T) {
	idx := openTestIndex(t)

	for i := 1; i <= 3; i++ {
		err := idx.WriteAction(rts.ActionLogEntry{
			Seq:    uint64(i),
			Tick:   uint64(i * 10),
			Player: "alice",
			Act:    &protocol.ActMsg{ID: "a", Action: protocol.ActSendExpedition},
			OK:     true,
			Digest: "d",
		})
		if err != nil {
			t.Fatalf("write action: %v", err)
		}
	}
	if err := idx.WriteEvent(rts.EventLogEntry{
		Seq:  3,
		Tick: 30,
		Event: protocol.Event{
			Object: protocol.EventObject,
			Action: protocol.EvExpeditionSent,
			Value:  map[string]any{"slot": 0},
		},
	}); err != nil {
		t.Fatalf("write event: %v", err)
	}

	waitCount(t, idx.ActionCount, 3)
	waitCount(t, idx.EventCount, 1)
}

func TestSQLiteIndex_DuplicateSeqUpserts(t *testing.T) {
	idx := openTestIndex(t)

	entry := rts.ActionLogEntry{
		Seq:    7,
		Tick:   5,
		Player: "bob",
		Act:    &protocol.ActMsg{ID: "r", Action: protocol.ActStartRefine},
		Digest: "x",
	}
	_ = idx.WriteAction(entry)
	_ = idx.WriteAction(entry)

	// INSERT OR REPLACE keyed on seq: replays do not duplicate rows.
	waitCount(t, idx.ActionCount, 1)
}

func TestSQLiteIndex_RecordCampaign(t *testing.T) {
	idx := openTestIndex(t)

	idx.RecordCampaign(1, 0, 1410, [4]int64{1000, 900, 800, 700})
	idx.RecordCampaign(2, 1500, 1410, [4]int64{500, 500, 500, 500})

	waitCount(t, func() (int, error) {
		var n int
		err := idx.db.QueryRow(`SELECT COUNT(*) FROM campaigns`).Scan(&n)
		return n, err
	}, 2)

	var stockWood int64
	if err := idx.db.QueryRow(`SELECT stock_wood FROM campaigns WHERE id = 2`).Scan(&stockWood); err != nil {
		t.Fatalf("query: %v", err)
	}
	if stockWood != 500 {
		t.Fatalf("stock_wood = %d, want 500", stockWood)
	}
}

func TestSQLiteIndex_WritesAfterCloseAreDropped(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Must not panic or block.
	if err := idx.WriteAction(rts.ActionLogEntry{Seq: 1}); err != nil {
		t.Fatalf("write after close: %v", err)
	}
	if err := idx.WriteEvent(rts.EventLogEntry{Seq: 1}); err != nil {
		t.Fatalf("write event after close: %v", err)
	}
	idx.RecordCampaign(1, 0, 1, [4]int64{1, 1, 1, 1})
}
