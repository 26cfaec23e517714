package rts

import "stronghold.rts/internal/protocol"

// RaidView is the query/event snapshot of one (invader, defender) record.
type RaidView struct {
	Invader     string              `json:"invader"`
	Defender    string              `json:"defender"`
	Army        [NumUnitTypes]int64 `json:"army"`
	Resolved    bool                `json:"resolved"`
	Won         bool                `json:"won"`
	StartedTick uint64              `json:"started_tick"`
}

// RaidResolvedView is the settlement snapshot of a resolved raid.
type RaidResolvedView struct {
	Invader  string              `json:"invader"`
	Defender string              `json:"defender"`
	Won      bool                `json:"won"`
	Loot     [NumResources]int64 `json:"loot"`
	Elapsed  uint64              `json:"elapsed"`
}

// committedArmy sums the caller's army pledged to unresolved raids. Those
// units stay in town.Army but are locked against further pledges.
func (e *Engine) committedArmy(invader PlayerID) [NumUnitTypes]int64 {
	var out [NumUnitTypes]int64
	for k, r := range e.raids {
		if k.Invader != invader || r.Resolved {
			continue
		}
		for i, n := range r.Army {
			out[i] += n
		}
	}
	return out
}

// SendRaid pledges army units against a defender. Units are validated
// against the uncommitted army but not debited; the defender's raid
// cooldown starts at launch, not resolution (the one deliberate
// cross-player write).
func (e *Engine) SendRaid(caller PlayerID, now uint64, defender PlayerID, army [NumUnitTypes]int64) Result {
	if defender == "" || defender == caller {
		return fail(protocol.ErrBadTarget, "cannot raid that target")
	}
	for _, n := range army {
		if n < 0 {
			return fail(protocol.ErrBadRequest, "army amounts must be non-negative")
		}
	}
	if !e.requireCampaign(now) {
		return fail(protocol.ErrNoCampaign, "no active campaign")
	}

	p := e.peek(caller)
	committed := e.committedArmy(caller)
	for i, n := range army {
		if n > p.Town.Army[i]-committed[i] {
			return fail(protocol.ErrInsufficientArmy, "army exceeds uncommitted units")
		}
	}
	key := raidKey{Invader: caller, Defender: defender}
	if r, ok := e.raids[key]; ok && !r.Resolved {
		return fail(protocol.ErrRaidPending, "raid to this target still unresolved")
	}
	if d := e.peek(defender); d.LastRaid != 0 && now-d.LastRaid < e.cfg.RaidCooldownTicks {
		return fail(protocol.ErrDefenderCooldown, "target raided too recently")
	}

	e.raids[key] = &Raid{
		Invader:     caller,
		Defender:    defender,
		Army:        army,
		StartedTick: now,
	}
	e.getOrCreate(defender).LastRaid = now
	return emit(protocol.EvRaidSent, RaidView{
		Invader:     string(caller),
		Defender:    string(defender),
		Army:        army,
		StartedTick: now,
	})
}

// ReturnRaid settles the caller's outstanding raid after the minimum
// duration. Strict comparison of strength sums; a tie favors the
// defender. Winners loot a fixed percentage of every defender resource;
// neither side takes casualties.
func (e *Engine) ReturnRaid(caller PlayerID, now uint64, defender PlayerID) Result {
	key := raidKey{Invader: caller, Defender: defender}
	r, ok := e.raids[key]
	if !ok || r.Resolved {
		return fail(protocol.ErrRaidNotFound, "no unresolved raid to this target")
	}
	elapsed := now - r.StartedTick
	if elapsed < e.cfg.RaidDurationTicks {
		return fail(protocol.ErrRaidTooSoon, "minimum raid duration not elapsed")
	}

	var invading int64
	for _, n := range r.Army {
		invading += n
	}
	d := e.getOrCreate(defender)
	defending := d.armySum()
	if e.cfg.DefensesDefend {
		defending += d.Town.Defenses[0] + d.Town.Defenses[1]
	}
	won := invading > defending

	var loot [NumResources]int64
	if won {
		p := e.getOrCreate(caller)
		for i := range loot {
			loot[i] = d.Resources[i] * e.cfg.LootPercent / 100
			d.Resources[i] -= loot[i]
			p.Resources[i] += loot[i]
		}
	}

	r.Army = [NumUnitTypes]int64{}
	r.Resolved = true
	r.Won = won
	return emit(protocol.EvRaidResolved, RaidResolvedView{
		Invader:  string(caller),
		Defender: string(defender),
		Won:      won,
		Loot:     loot,
		Elapsed:  elapsed,
	})
}
