package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"stronghold.rts/internal/protocol"
	"stronghold.rts/internal/sim/rts"
)

func readJournalLines(t *testing.T, dir string) [][]byte {
	t.Helper()
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var lines [][]byte
	for _, e := range ents {
		if !strings.HasSuffix(e.Name(), ".jsonl.zst") {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		dec, err := zstd.NewReader(f)
		if err != nil {
			t.Fatalf("zstd: %v", err)
		}
		sc := bufio.NewScanner(dec)
		for sc.Scan() {
			line := append([]byte(nil), sc.Bytes()...)
			lines = append(lines, line)
		}
		dec.Close()
		_ = f.Close()
		if err := sc.Err(); err != nil {
			t.Fatalf("scan: %v", err)
		}
	}
	return lines
}

func TestActionJournal_WriteAndReadBack(t *testing.T) {
	dir := t.TempDir()
	j := NewActionJournal(dir)

	entries := []rts.ActionLogEntry{
		{Seq: 1, Tick: 0, Player: "alice", Act: &protocol.ActMsg{ID: "c1", Action: protocol.ActCreateCampaign}, OK: true, Digest: "aa"},
		{Seq: 2, Tick: 5, Player: "alice", Act: &protocol.ActMsg{ID: "e1", Action: protocol.ActSendExpedition, Resource: 2, Pawns: 10}, OK: true, Digest: "bb"},
		{Seq: 3, Tick: 5, Player: "bob", Act: &protocol.ActMsg{ID: "x", Action: protocol.ActStartRefine, Wood: 1, Rock: 1}, OK: false, Code: protocol.ErrWoodRange, Digest: "bb"},
	}
	for _, e := range entries {
		if err := j.WriteAction(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	lines := readJournalLines(t, filepath.Join(dir, "actions"))
	if len(lines) != len(entries) {
		t.Fatalf("lines = %d, want %d", len(lines), len(entries))
	}
	for i, line := range lines {
		var got rts.ActionLogEntry
		if err := json.Unmarshal(line, &got); err != nil {
			t.Fatalf("unmarshal line %d: %v", i, err)
		}
		if got.Seq != entries[i].Seq || got.Player != entries[i].Player || got.Code != entries[i].Code {
			t.Fatalf("line %d = %+v, want %+v", i, got, entries[i])
		}
		if got.Act == nil || got.Act.Action != entries[i].Act.Action {
			t.Fatalf("line %d act mismatch", i)
		}
	}
}

func TestEventJournal_WriteAndReadBack(t *testing.T) {
	dir := t.TempDir()
	j := NewEventJournal(dir)

	if err := j.WriteEvent(rts.EventLogEntry{
		Seq:  1,
		Tick: 0,
		Event: protocol.Event{
			Object: protocol.EventObject,
			Action: protocol.EvCampaignCreated,
			Value:  map[string]any{"id": float64(1)},
		},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	lines := readJournalLines(t, filepath.Join(dir, "events"))
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	var got rts.EventLogEntry
	if err := json.Unmarshal(lines[0], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Event.Object != "rts" || got.Event.Action != protocol.EvCampaignCreated {
		t.Fatalf("event = %+v", got.Event)
	}
}
