package rtstest

import (
	"context"
	"testing"
	"time"

	"stronghold.rts/internal/protocol"
	"stronghold.rts/internal/sim/rts"
)

type recordingLogger struct {
	actions []rts.ActionLogEntry
	events  []rts.EventLogEntry
}

func (r *recordingLogger) WriteAction(e rts.ActionLogEntry) error {
	r.actions = append(r.actions, e)
	return nil
}

func (r *recordingLogger) WriteEvent(e rts.EventLogEntry) error {
	r.events = append(r.events, e)
	return nil
}

func TestEngine_UnknownActionAndQuery(t *testing.T) {
	h := NewHarness(t, rts.Config{})

	h.ExpectCode(h.Act("alice", protocol.ActMsg{ID: "a", Action: "EXPLODE"}), protocol.ErrBadRequest)
	h.ExpectCode(h.Get(protocol.GetMsg{ID: "q", Query: "WHAT"}), protocol.ErrBadRequest)
}

func TestEngine_ClockNeverRunsBackwards(t *testing.T) {
	h := NewHarness(t, rts.Config{})
	h.Now = 100
	h.MustCampaign("alice")
	h.MustAct("alice", protocol.ActMsg{ID: "e", Action: protocol.ActSendExpedition, Resource: 0, Pawns: 10})

	// A misbehaving clock handing out an earlier tick is clamped, so
	// elapsed-time arithmetic cannot underflow.
	h.Now = 50
	r := h.Act("alice", protocol.ActMsg{ID: "r", Action: protocol.ActReturnExpedition, Resource: 0, Slot: 0})
	if !r.OK {
		t.Fatalf("return rejected: code=%s", r.Code)
	}
	if got := r.Value.(rts.ExpeditionReturnView).Elapsed; got != 0 {
		t.Fatalf("elapsed = %d, want 0 after clamp", got)
	}
	if h.E.CurrentTick() != 100 {
		t.Fatalf("tick = %d, want 100", h.E.CurrentTick())
	}
}

func TestEngine_JournalsEveryActionWithDigest(t *testing.T) {
	h := NewHarness(t, rts.Config{})
	rec := &recordingLogger{}
	h.E.SetActionLogger(rec)
	h.E.SetEventLogger(rec)

	h.MustCampaign("alice")
	h.MustAct("alice", protocol.ActMsg{ID: "e", Action: protocol.ActSendExpedition, Resource: 0, Pawns: 5})
	h.Act("alice", protocol.ActMsg{ID: "bad", Action: protocol.ActStartRefine, Wood: 1, Rock: 1})

	// Three actions journaled, rejections included; two events (the
	// rejected refine emits none).
	if len(rec.actions) != 3 {
		t.Fatalf("journaled actions = %d, want 3", len(rec.actions))
	}
	if len(rec.events) != 2 {
		t.Fatalf("journaled events = %d, want 2", len(rec.events))
	}
	for i, a := range rec.actions {
		if a.Seq != uint64(i+1) {
			t.Fatalf("action %d seq = %d, want %d", i, a.Seq, i+1)
		}
		if a.Digest == "" {
			t.Fatalf("action %d missing digest", i)
		}
	}
	if rec.actions[2].OK || rec.actions[2].Code != protocol.ErrWoodRange {
		t.Fatalf("rejected action journaled as %+v", rec.actions[2])
	}

	// The rejection left no trace in state: digest unchanged across it.
	if rec.actions[1].Digest != rec.actions[2].Digest {
		t.Fatalf("rejected action perturbed the digest")
	}

	// Queries are not journaled.
	h.Get(protocol.GetMsg{ID: "q", Query: protocol.GetPlayer, Player: "alice"})
	if len(rec.actions) != 3 {
		t.Fatalf("query was journaled")
	}
}

func TestEngine_RejectedCallsLeaveNoTrace(t *testing.T) {
	h := NewHarness(t, rts.Config{})
	h.MustCampaign("alice")
	before := h.E.Digest()

	// Every rejection below is first contact from "ghost"; none may install
	// a player record, so the state digest must not move.
	h.ExpectCode(h.Act("ghost", protocol.ActMsg{ID: "1", Action: protocol.ActStartRefine, Wood: 1, Rock: 1}), protocol.ErrWoodRange)
	h.ExpectCode(h.Act("ghost", protocol.ActMsg{ID: "2", Action: protocol.ActSendExpedition, Resource: 0, Pawns: 101}), protocol.ErrInsufficientIdlePawns)
	h.ExpectCode(h.Act("ghost", protocol.ActMsg{ID: "3", Action: protocol.ActReturnExpedition, Resource: 0, Slot: 0}), protocol.ErrSlotEmpty)
	h.ExpectCode(h.Act("ghost", protocol.ActMsg{ID: "4", Action: protocol.ActClaimSoldiers, UnitType: 0}), protocol.ErrNothingTraining)
	h.ExpectCode(h.Act("ghost", protocol.ActMsg{ID: "5", Action: protocol.ActCollectRefine}), protocol.ErrSlotEmpty)
	h.ExpectCode(sendRaid(h, "ghost", "wraith", [3]int64{1, 0, 0}), protocol.ErrInsufficientArmy)

	if got := h.E.Digest(); got != before {
		t.Fatalf("rejected calls changed the digest: %s -> %s", before, got)
	}
}

func TestEngine_RunLoopAnswersInOrder(t *testing.T) {
	e := rts.New(rts.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := fixedClock(7)
	go e.Run(ctx, clock)

	stock := [4]int64{100, 100, 100, 100}
	resp1 := make(chan rts.Result, 1)
	resp2 := make(chan rts.Result, 1)
	e.Inbox() <- rts.ActionEnvelope{
		Player: "alice",
		Act:    &protocol.ActMsg{ID: "c", Action: protocol.ActCreateCampaign, Stock: &stock},
		Resp:   resp1,
	}
	e.Inbox() <- rts.ActionEnvelope{
		Get:  &protocol.GetMsg{ID: "q", Query: protocol.GetCampaign},
		Resp: resp2,
	}

	r1 := waitResult(t, resp1)
	if !r1.OK {
		t.Fatalf("create rejected: code=%s", r1.Code)
	}
	if r1.Tick != 7 {
		t.Fatalf("tick = %d, want 7", r1.Tick)
	}
	r2 := waitResult(t, resp2)
	if !r2.OK {
		t.Fatalf("campaign query rejected: code=%s", r2.Code)
	}
	if !r2.Value.(rts.CampaignView).Active {
		t.Fatalf("campaign not active right after creation")
	}
}

type fixedClock uint64

func (c fixedClock) Now() uint64 { return uint64(c) }

func waitResult(t *testing.T, ch chan rts.Result) rts.Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for engine result")
		return rts.Result{}
	}
}
