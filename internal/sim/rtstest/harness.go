package rtstest

import (
	"testing"

	"stronghold.rts/internal/protocol"
	"stronghold.rts/internal/sim/rts"
)

// Harness is a small black-box helper for driving an engine via exported
// APIs. It submits envelopes through StepOnce at an explicit logical tick
// (Now), so tests control time directly and never sleep.
//
// It intentionally avoids touching engine internals so tests can live
// outside the rts package.
type Harness struct {
	T *testing.T
	E *rts.Engine

	// Now is the tick stamped on the next submitted call. Tests advance it
	// explicitly; it never moves on its own.
	Now uint64
}

func NewHarness(t *testing.T, cfg rts.Config) *Harness {
	t.Helper()
	return &Harness{T: t, E: rts.New(cfg)}
}

// NewHarnessWithEngine is like NewHarness, but uses an already-constructed
// engine. Useful for snapshot round-trip tests.
func NewHarnessWithEngine(t *testing.T, e *rts.Engine, now uint64) *Harness {
	t.Helper()
	if e == nil {
		t.Fatalf("NewHarnessWithEngine: nil engine")
	}
	return &Harness{T: t, E: e, Now: now}
}

func (h *Harness) Advance(ticks uint64) {
	h.Now += ticks
}

// Act submits one mutating action at the current tick.
func (h *Harness) Act(player string, act protocol.ActMsg) rts.Result {
	h.T.Helper()
	act.Type = protocol.TypeAct
	act.ProtocolVersion = protocol.Version
	res := h.E.StepOnce([]rts.ActionEnvelope{{
		Player: rts.PlayerID(player),
		Act:    &act,
	}}, h.Now)
	return res[0]
}

// MustAct is Act but fails the test on a rejected action.
func (h *Harness) MustAct(player string, act protocol.ActMsg) rts.Result {
	h.T.Helper()
	res := h.Act(player, act)
	if !res.OK {
		h.T.Fatalf("action %s rejected: code=%s msg=%q", act.Action, res.Code, res.Message)
	}
	return res
}

// Get submits one read-only query at the current tick.
func (h *Harness) Get(get protocol.GetMsg) rts.Result {
	h.T.Helper()
	get.Type = protocol.TypeGet
	get.ProtocolVersion = protocol.Version
	res := h.E.StepOnce([]rts.ActionEnvelope{{
		Get: &get,
	}}, h.Now)
	return res[0]
}

// CreateCampaign installs a fresh campaign with the given world stock.
func (h *Harness) CreateCampaign(player string, stock [4]int64) rts.Result {
	h.T.Helper()
	return h.Act(player, protocol.ActMsg{
		ID:     "c1",
		Action: protocol.ActCreateCampaign,
		Stock:  &stock,
	})
}

// MustCampaign creates a campaign with a large uniform stock and fails the
// test if it is rejected. Most scenarios just need an active campaign.
func (h *Harness) MustCampaign(player string) {
	h.T.Helper()
	res := h.CreateCampaign(player, [4]int64{1 << 40, 1 << 40, 1 << 40, 1 << 40})
	if !res.OK {
		h.T.Fatalf("create campaign rejected: code=%s msg=%q", res.Code, res.Message)
	}
}

// Player reads a player view without creating a record.
func (h *Harness) Player(name string) rts.PlayerView {
	h.T.Helper()
	res := h.Get(protocol.GetMsg{ID: "q", Query: protocol.GetPlayer, Player: name})
	if !res.OK {
		h.T.Fatalf("get player %q: code=%s msg=%q", name, res.Code, res.Message)
	}
	v, ok := res.Value.(rts.PlayerView)
	if !ok {
		h.T.Fatalf("get player %q: unexpected value type %T", name, res.Value)
	}
	return v
}

// ExpectCode fails the test unless the result is a rejection with the
// given error code.
func (h *Harness) ExpectCode(res rts.Result, code string) {
	h.T.Helper()
	if res.OK {
		h.T.Fatalf("expected rejection %s, got success (value=%v)", code, res.Value)
	}
	if res.Code != code {
		h.T.Fatalf("expected code %s, got %s (msg=%q)", code, res.Code, res.Message)
	}
}
