package rts

import "stronghold.rts/internal/protocol"

// TrainingView is the query/event snapshot of one training slot.
type TrainingView struct {
	Player      string `json:"player"`
	UnitType    int    `json:"unit_type"`
	Pawns       int64  `json:"pawns"`
	StartedTick uint64 `json:"started_tick"`
}

// TrainingClaimView is the settlement snapshot of a claimed batch.
type TrainingClaimView struct {
	Player   string `json:"player"`
	UnitType int    `json:"unit_type"`
	Amount   int64  `json:"amount"`
	Army     int64  `json:"army"`
	Elapsed  uint64 `json:"elapsed"`
}

// Train keeps the original single-entry-point contract: a positive amount
// starts a batch, amount zero claims the finished one. TrainSoldiers and
// ClaimSoldiers expose the two intents explicitly.
func (e *Engine) Train(caller PlayerID, now uint64, unitType int, amount int64) Result {
	if amount == 0 {
		return e.ClaimSoldiers(caller, now, unitType)
	}
	return e.TrainSoldiers(caller, now, unitType, amount)
}

// TrainSoldiers commits amount pawns to training one unit type. At most
// one batch per unit type per player is in flight; the resource cost is
// the unit type's configured price per unit.
func (e *Engine) TrainSoldiers(caller PlayerID, now uint64, unitType int, amount int64) Result {
	if unitType < 0 || unitType >= NumUnitTypes {
		return fail(protocol.ErrBadRequest, "unit type out of range")
	}
	if amount <= 0 {
		return fail(protocol.ErrBadRequest, "amount must be positive")
	}
	p := e.peek(caller)
	if p.Training[unitType].Pawns != 0 {
		return fail(protocol.ErrTrainingPending, "training batch already in flight")
	}
	if !e.requireCampaign(now) {
		return fail(protocol.ErrNoCampaign, "no active campaign")
	}
	if amount > p.Pawns {
		return fail(protocol.ErrInsufficientIdlePawns, "idle pawn budget exceeded")
	}
	cost := e.cfg.UnitCosts[unitType]
	var debits [NumResources]int64
	debits[cost.Resource] = amount * cost.PerUnit
	if !p.canAfford(debits) {
		return fail(protocol.ErrInsufficientResources, "training cost unaffordable")
	}

	p = e.getOrCreate(caller)
	p.debitResources(debits)
	p.debitPawns(amount)
	p.Training[unitType] = TrainingSlot{Pawns: amount, StartedTick: now}
	return emit(protocol.EvTrainingStarted, TrainingView{
		Player:      string(caller),
		UnitType:    unitType,
		Pawns:       amount,
		StartedTick: now,
	})
}

// ClaimSoldiers settles a finished batch (the original contract's
// amount=0 path): trained pawns join the town army and return to the idle
// pool.
func (e *Engine) ClaimSoldiers(caller PlayerID, now uint64, unitType int) Result {
	if unitType < 0 || unitType >= NumUnitTypes {
		return fail(protocol.ErrBadRequest, "unit type out of range")
	}
	p := e.peek(caller)
	s := p.Training[unitType]
	if s.Pawns == 0 {
		return fail(protocol.ErrNothingTraining, "no training batch in flight")
	}
	elapsed := now - s.StartedTick
	if elapsed < e.cfg.TrainDwellTicks {
		return fail(protocol.ErrTrainTooSoon, "minimum training dwell not elapsed")
	}

	p = e.getOrCreate(caller)
	p.Town.Army[unitType] += s.Pawns
	p.creditPawns(s.Pawns)
	p.Training[unitType] = TrainingSlot{}
	return emit(protocol.EvTrainingClaimed, TrainingClaimView{
		Player:   string(caller),
		UnitType: unitType,
		Amount:   s.Pawns,
		Army:     p.Town.Army[unitType],
		Elapsed:  elapsed,
	})
}
