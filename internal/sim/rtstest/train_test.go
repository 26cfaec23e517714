package rtstest

import (
	"testing"

	"stronghold.rts/internal/protocol"
	"stronghold.rts/internal/sim/rts"
)

func trainSoldiers(h *Harness, player string, unitType int, amount int64) rts.Result {
	return h.Act(player, protocol.ActMsg{
		ID:       "t",
		Action:   protocol.ActTrainSoldiers,
		UnitType: unitType,
		Amount:   amount,
	})
}

func claimSoldiers(h *Harness, player string, unitType int) rts.Result {
	return h.Act(player, protocol.ActMsg{
		ID:       "cl",
		Action:   protocol.ActClaimSoldiers,
		UnitType: unitType,
	})
}

func TestTrain_CostsAndClaim(t *testing.T) {
	h := NewHarness(t, rts.Config{})
	cfg := h.E.Config()
	h.MustCampaign("alice")

	start := h.Player("alice")
	if r := trainSoldiers(h, "alice", 0, 5); !r.OK {
		t.Fatalf("train rejected: code=%s", r.Code)
	}

	mid := h.Player("alice")
	cost := cfg.UnitCosts[0]
	if mid.Resources[cost.Resource] != start.Resources[cost.Resource]-5*cost.PerUnit {
		t.Fatalf("resource %d = %d, want %d",
			cost.Resource, mid.Resources[cost.Resource], start.Resources[cost.Resource]-5*cost.PerUnit)
	}
	if mid.Pawns != start.Pawns-5 {
		t.Fatalf("idle pawns = %d, want %d", mid.Pawns, start.Pawns-5)
	}

	h.Advance(cfg.TrainDwellTicks)
	c := claimSoldiers(h, "alice", 0)
	if !c.OK {
		t.Fatalf("claim rejected: code=%s", c.Code)
	}
	view := c.Value.(rts.TrainingClaimView)
	if view.Amount != 5 || view.Army != 5 {
		t.Fatalf("claim view = %+v, want amount=5 army=5", view)
	}

	after := h.Player("alice")
	if after.Pawns != start.Pawns {
		t.Fatalf("pawns not returned: %d, want %d", after.Pawns, start.Pawns)
	}
	if after.Army[0] != 5 {
		t.Fatalf("army[0] = %d, want 5", after.Army[0])
	}
}

func TestTrain_OneBatchPerUnitType(t *testing.T) {
	h := NewHarness(t, rts.Config{})
	h.MustCampaign("alice")

	if r := trainSoldiers(h, "alice", 1, 3); !r.OK {
		t.Fatalf("train rejected: code=%s", r.Code)
	}
	h.ExpectCode(trainSoldiers(h, "alice", 1, 2), protocol.ErrTrainingPending)

	// Other unit types are independent channels.
	if r := trainSoldiers(h, "alice", 2, 2); !r.OK {
		t.Fatalf("parallel unit type rejected: code=%s", r.Code)
	}
}

func TestTrain_DwellEnforced(t *testing.T) {
	h := NewHarness(t, rts.Config{})
	cfg := h.E.Config()
	h.MustCampaign("alice")

	if r := trainSoldiers(h, "alice", 0, 2); !r.OK {
		t.Fatalf("train rejected: code=%s", r.Code)
	}
	h.Advance(cfg.TrainDwellTicks - 1)
	h.ExpectCode(claimSoldiers(h, "alice", 0), protocol.ErrTrainTooSoon)

	h.Advance(1)
	if c := claimSoldiers(h, "alice", 0); !c.OK {
		t.Fatalf("claim at dwell boundary rejected: code=%s", c.Code)
	}
	h.ExpectCode(claimSoldiers(h, "alice", 0), protocol.ErrNothingTraining)
}

func TestTrain_Validation(t *testing.T) {
	h := NewHarness(t, rts.Config{})

	h.ExpectCode(trainSoldiers(h, "alice", 0, 5), protocol.ErrNoCampaign)

	h.MustCampaign("alice")
	h.ExpectCode(trainSoldiers(h, "alice", -1, 5), protocol.ErrBadRequest)
	h.ExpectCode(trainSoldiers(h, "alice", 3, 5), protocol.ErrBadRequest)
	// Amount zero is the claim path, not a malformed start.
	h.ExpectCode(trainSoldiers(h, "alice", 0, 0), protocol.ErrNothingTraining)
	h.ExpectCode(trainSoldiers(h, "alice", 0, -2), protocol.ErrBadRequest)
	h.ExpectCode(trainSoldiers(h, "alice", 0, 200), protocol.ErrInsufficientIdlePawns)

	// 20 rock-costing units at 5 rock apiece exceeds the starting 50.
	h.ExpectCode(trainSoldiers(h, "alice", 0, 20), protocol.ErrInsufficientResources)

	h.ExpectCode(claimSoldiers(h, "alice", 0), protocol.ErrNothingTraining)
	h.ExpectCode(claimSoldiers(h, "alice", 3), protocol.ErrBadRequest)
}

func TestTrain_ZeroAmountClaims(t *testing.T) {
	h := NewHarness(t, rts.Config{})
	cfg := h.E.Config()
	h.MustCampaign("alice")

	// The single training entry point dispatches on amount: zero claims.
	h.ExpectCode(trainSoldiers(h, "alice", 0, 0), protocol.ErrNothingTraining)

	if r := trainSoldiers(h, "alice", 0, 6); !r.OK {
		t.Fatalf("train rejected: code=%s", r.Code)
	}
	h.Advance(cfg.TrainDwellTicks)
	c := trainSoldiers(h, "alice", 0, 0)
	if !c.OK {
		t.Fatalf("zero-amount claim rejected: code=%s", c.Code)
	}
	if got := c.Value.(rts.TrainingClaimView).Amount; got != 6 {
		t.Fatalf("claimed amount = %d, want 6", got)
	}
	if got := h.Player("alice").Army[0]; got != 6 {
		t.Fatalf("army[0] = %d, want 6", got)
	}
}

func TestTrain_ClaimSurvivesCampaignExpiry(t *testing.T) {
	h := NewHarness(t, rts.Config{})
	cfg := h.E.Config()
	h.MustCampaign("alice")

	if r := trainSoldiers(h, "alice", 0, 4); !r.OK {
		t.Fatalf("train rejected: code=%s", r.Code)
	}
	h.Now = cfg.CampaignDurationTicks() + cfg.TrainDwellTicks
	if c := claimSoldiers(h, "alice", 0); !c.OK {
		t.Fatalf("claim after campaign expiry rejected: code=%s", c.Code)
	}
	if got := h.Player("alice").Army[0]; got != 4 {
		t.Fatalf("army[0] = %d, want 4", got)
	}
}
