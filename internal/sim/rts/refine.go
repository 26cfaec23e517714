package rts

import "stronghold.rts/internal/protocol"

// RefineView is the query/event snapshot of the refining channel.
type RefineView struct {
	Player      string `json:"player"`
	Wood        int64  `json:"wood"`
	Rock        int64  `json:"rock"`
	Pawns       int64  `json:"pawns"`
	StartedTick uint64 `json:"started_tick"`
}

// RefineCollectView is the settlement snapshot of a collected batch.
type RefineCollectView struct {
	Player  string `json:"player"`
	Wood    int64  `json:"wood"`
	Rock    int64  `json:"rock"`
	Metal   int64  `json:"metal"`
	Pawns   int64  `json:"pawns"`
	Elapsed uint64 `json:"elapsed"`
}

// Refine keeps the original single-entry-point contract: the channel's
// occupancy decides whether this call starts a batch or collects one.
// StartRefine/CollectRefine expose the two intents explicitly.
func (e *Engine) Refine(caller PlayerID, now uint64, wood, rock int64) Result {
	if e.peek(caller).Refine.Pawns != 0 {
		return e.CollectRefine(caller, now)
	}
	return e.StartRefine(caller, now, wood, rock)
}

// StartRefine commits a wood+rock batch to the single refining channel.
// Inputs must sit inside the configured bounds and match the exact 10:7
// ratio; the pawn cost grows with the batch size.
func (e *Engine) StartRefine(caller PlayerID, now uint64, wood, rock int64) Result {
	p := e.peek(caller)
	if p.Refine.Pawns != 0 {
		return fail(protocol.ErrRefinePending, "refine batch already in flight")
	}
	if !e.requireCampaign(now) {
		return fail(protocol.ErrNoCampaign, "no active campaign")
	}
	if wood < e.cfg.RefineWoodMin || wood > e.cfg.RefineWoodMax {
		return fail(protocol.ErrWoodRange, "wood amount outside permitted bounds")
	}
	if rock < e.cfg.RefineRockMin || rock > e.cfg.RefineRockMax {
		return fail(protocol.ErrRockRange, "rock amount outside permitted bounds")
	}
	if wood*7 != rock*10 {
		return fail(protocol.ErrRatioMismatch, "inputs must match 10:7 exactly")
	}

	cost := e.refinePawnCost(wood, rock)
	var debits [NumResources]int64
	debits[ResWood] = wood
	debits[ResRock] = rock
	if !p.canAfford(debits) {
		return fail(protocol.ErrInsufficientResources, "wood or rock unaffordable")
	}
	if cost > p.Pawns {
		return fail(protocol.ErrInsufficientIdlePawns, "idle pawn budget exceeded")
	}

	p = e.getOrCreate(caller)
	p.debitResources(debits)
	p.debitPawns(cost)
	p.Refine = RefineChannel{Pawns: cost, Wood: wood, Rock: rock, StartedTick: now}
	return emit(protocol.EvRefineStarted, RefineView{
		Player:      string(caller),
		Wood:        wood,
		Rock:        rock,
		Pawns:       cost,
		StartedTick: now,
	})
}

// CollectRefine settles the in-flight batch after the minimum dwell:
// metal = floor(wood*rock/divisor), pawns return to the idle pool.
func (e *Engine) CollectRefine(caller PlayerID, now uint64) Result {
	p := e.peek(caller)
	ch := p.Refine
	if ch.Pawns == 0 {
		return fail(protocol.ErrSlotEmpty, "nothing refining")
	}
	elapsed := now - ch.StartedTick
	if elapsed < e.cfg.RefineDwellTicks {
		return fail(protocol.ErrRefineTooSoon, "minimum refine dwell not elapsed")
	}

	p = e.getOrCreate(caller)
	metal := ch.Wood * ch.Rock / e.cfg.RefineMetalDivisor
	p.Resources[ResMetal] += metal
	p.creditPawns(ch.Pawns)
	p.Refine = RefineChannel{}
	return emit(protocol.EvRefineCollected, RefineCollectView{
		Player:  string(caller),
		Wood:    ch.Wood,
		Rock:    ch.Rock,
		Metal:   metal,
		Pawns:   ch.Pawns,
		Elapsed: elapsed,
	})
}

// refinePawnCost is monotonic in both inputs.
func (e *Engine) refinePawnCost(wood, rock int64) int64 {
	return (wood+rock)/e.cfg.RefinePawnDivisor + 1
}
