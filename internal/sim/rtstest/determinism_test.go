package rtstest

import (
	"testing"

	"stronghold.rts/internal/protocol"
	"stronghold.rts/internal/sim/rts"
)

// runScenario drives a fixed multi-player sequence touching every
// subsystem: campaign, gathering, refining, training and raiding.
func runScenario(h *Harness) {
	cfg := h.E.Config()
	h.MustCampaign("alice")

	h.MustAct("alice", protocol.ActMsg{ID: "e1", Action: protocol.ActSendExpedition, Resource: 0, Pawns: 24})
	h.MustAct("bob", protocol.ActMsg{ID: "e2", Action: protocol.ActSendExpedition, Resource: 2, Pawns: 10})
	h.MustAct("alice", protocol.ActMsg{ID: "r1", Action: protocol.ActStartRefine, Wood: 30, Rock: 21})
	h.MustAct("bob", protocol.ActMsg{ID: "t1", Action: protocol.ActTrainSoldiers, UnitType: 0, Amount: 6})

	h.Advance(cfg.DayTicks)
	h.MustAct("alice", protocol.ActMsg{ID: "e3", Action: protocol.ActReturnExpedition, Resource: 0, Slot: 0})
	h.MustAct("alice", protocol.ActMsg{ID: "r2", Action: protocol.ActCollectRefine})
	h.MustAct("bob", protocol.ActMsg{ID: "t2", Action: protocol.ActClaimSoldiers, UnitType: 0})

	h.MustAct("bob", protocol.ActMsg{ID: "w1", Action: protocol.ActSendRaid, Defender: "alice", Army: &[3]int64{6, 0, 0}})
	h.Advance(cfg.RaidDurationTicks)
	h.MustAct("bob", protocol.ActMsg{ID: "w2", Action: protocol.ActReturnRaid, Defender: "alice"})

	// One rejected action; failures must not perturb the digest stream.
	h.Act("alice", protocol.ActMsg{ID: "x1", Action: protocol.ActStartRefine, Wood: 10, Rock: 14})
}

func TestDeterminism_SameSequenceSameDigest(t *testing.T) {
	h1 := NewHarness(t, rts.Config{})
	h2 := NewHarness(t, rts.Config{})
	runScenario(h1)
	runScenario(h2)

	d1, d2 := h1.E.Digest(), h2.E.Digest()
	if d1 == "" {
		t.Fatalf("empty digest")
	}
	if d1 != d2 {
		t.Fatalf("digests diverged:\n%s\n%s", d1, d2)
	}
}

func TestDeterminism_DifferentSequenceDifferentDigest(t *testing.T) {
	h1 := NewHarness(t, rts.Config{})
	h2 := NewHarness(t, rts.Config{})
	runScenario(h1)
	runScenario(h2)

	h2.MustAct("carol", protocol.ActMsg{ID: "e9", Action: protocol.ActSendExpedition, Resource: 1, Pawns: 1})
	if h1.E.Digest() == h2.E.Digest() {
		t.Fatalf("digest failed to distinguish states")
	}
}

func TestDeterminism_SnapshotRoundTrip(t *testing.T) {
	h := NewHarness(t, rts.Config{})
	runScenario(h)

	snap := h.E.ExportSnapshot()
	restored := rts.NewFromSnapshot(snap)

	if got, want := restored.Digest(), h.E.Digest(); got != want {
		t.Fatalf("restored digest mismatch:\n%s\n%s", got, want)
	}
	if restored.CurrentTick() != h.E.CurrentTick() {
		t.Fatalf("restored tick = %d, want %d", restored.CurrentTick(), h.E.CurrentTick())
	}
	if restored.AppliedActions() != h.E.AppliedActions() {
		t.Fatalf("restored seq = %d, want %d", restored.AppliedActions(), h.E.AppliedActions())
	}

	// The restored engine continues identically to the original.
	h2 := NewHarnessWithEngine(t, restored, h.Now)
	for _, eng := range []*Harness{h, h2} {
		eng.Advance(1)
		eng.MustAct("alice", protocol.ActMsg{ID: "e5", Action: protocol.ActSendExpedition, Resource: 3, Pawns: 2})
	}
	if h.E.Digest() != h2.E.Digest() {
		t.Fatalf("digests diverged after resume")
	}
}

func TestDeterminism_SnapshotExportIsStable(t *testing.T) {
	h := NewHarness(t, rts.Config{})
	runScenario(h)

	s1 := h.E.ExportSnapshot()
	s2 := h.E.ExportSnapshot()
	if len(s1.Players) != len(s2.Players) || len(s1.Raids) != len(s2.Raids) {
		t.Fatalf("export sizes differ")
	}
	for i := range s1.Players {
		if s1.Players[i] != s2.Players[i] {
			t.Fatalf("player export order unstable at %d", i)
		}
	}
	for i := range s1.Raids {
		if s1.Raids[i] != s2.Raids[i] {
			t.Fatalf("raid export order unstable at %d", i)
		}
	}
}
