package rts

import (
	"math"

	"stronghold.rts/internal/protocol"
)

// ExpeditionView is the query/event snapshot of one gathering slot.
type ExpeditionView struct {
	Player      string `json:"player"`
	Resource    int    `json:"resource"`
	Slot        int    `json:"slot"`
	Pawns       int64  `json:"pawns"`
	StartedTick uint64 `json:"started_tick"`
}

// ExpeditionReturnView is the settlement snapshot of a returned expedition.
type ExpeditionReturnView struct {
	Player   string `json:"player"`
	Resource int    `json:"resource"`
	Slot     int    `json:"slot"`
	Pawns    int64  `json:"pawns"`
	Elapsed  uint64 `json:"elapsed"`
	Yield    int64  `json:"yield"`
}

// SendExpedition commits pawns to gathering one raw resource. Slots are
// scanned lowest-first; four concurrent expeditions per resource per
// player is the hard cap.
func (e *Engine) SendExpedition(caller PlayerID, now uint64, resource int, pawns int64) Result {
	if resource < 0 || resource >= NumGatherResources {
		return fail(protocol.ErrBadRequest, "resource out of range")
	}
	if pawns <= 0 {
		return fail(protocol.ErrBadRequest, "pawns must be positive")
	}
	if !e.requireCampaign(now) {
		return fail(protocol.ErrNoCampaign, "no active campaign")
	}

	p := e.peek(caller)
	if pawns > p.Pawns {
		return fail(protocol.ErrInsufficientIdlePawns, "idle pawn budget exceeded")
	}
	slot := -1
	for i := 0; i < e.cfg.GatherSlots; i++ {
		if p.Expeditions[resource][i].PawnsSent == 0 {
			slot = i
			break
		}
	}
	if slot < 0 {
		return fail(protocol.ErrSlotsFull, "all expedition slots occupied")
	}

	p = e.getOrCreate(caller)
	p.debitPawns(pawns)
	p.Expeditions[resource][slot] = ExpeditionSlot{PawnsSent: pawns, StartedTick: now}
	return emit(protocol.EvExpeditionSent, ExpeditionView{
		Player:      string(caller),
		Resource:    resource,
		Slot:        slot,
		Pawns:       pawns,
		StartedTick: now,
	})
}

// ReturnExpedition settles an occupied slot: the yield is a deterministic
// function of (pawns, resource, elapsed), clamped to the campaign's
// remaining world stock, which is debited by the credited amount.
func (e *Engine) ReturnExpedition(caller PlayerID, now uint64, resource, slot int) Result {
	if resource < 0 || resource >= NumGatherResources || slot < 0 || slot >= e.cfg.GatherSlots {
		return fail(protocol.ErrBadRequest, "slot out of range")
	}
	p := e.peek(caller)
	s := p.Expeditions[resource][slot]
	if s.PawnsSent == 0 {
		return fail(protocol.ErrSlotEmpty, "expedition slot is free")
	}
	p = e.getOrCreate(caller)

	elapsed := now - s.StartedTick
	yield := e.yieldFor(s.PawnsSent, resource, elapsed)
	if e.campaign != nil {
		if yield > e.campaign.Stock[resource] {
			yield = e.campaign.Stock[resource]
		}
		e.campaign.Stock[resource] -= yield
	}

	p.Resources[resource] += yield
	p.creditPawns(s.PawnsSent)
	p.Expeditions[resource][slot] = ExpeditionSlot{}
	return emit(protocol.EvExpeditionReturned, ExpeditionReturnView{
		Player:   string(caller),
		Resource: resource,
		Slot:     slot,
		Pawns:    s.PawnsSent,
		Elapsed:  elapsed,
		Yield:    yield,
	})
}

// yieldFor is the gather-yield function: monotonic non-decreasing in both
// pawns and elapsed, scaled by a per-resource rate constant. Integer floor.
// The product saturates at MaxInt64 so an arbitrarily large elapsed cannot
// wrap negative; settlement then clamps to the world stock as usual.
func (e *Engine) yieldFor(pawns int64, resource int, elapsed uint64) int64 {
	rate := e.cfg.GatherRatePercent[resource]
	if pawns <= 0 || rate <= 0 || elapsed == 0 {
		return 0
	}
	ticks := int64(math.MaxInt64)
	if elapsed < math.MaxInt64 {
		ticks = int64(elapsed)
	}
	return satMul(satMul(pawns, ticks), rate) / 100
}

// satMul multiplies two positive int64s, saturating at MaxInt64.
func satMul(a, b int64) int64 {
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

// ProjectYield is the read-only projection of the yield formula, without
// the world-stock clamp applied at settlement.
func (e *Engine) ProjectYield(pawns int64, resource int, elapsed uint64) (int64, bool) {
	if resource < 0 || resource >= NumGatherResources || pawns < 0 {
		return 0, false
	}
	return e.yieldFor(pawns, resource, elapsed), true
}
