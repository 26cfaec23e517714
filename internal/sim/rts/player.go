package rts

// getOrCreate returns the player's record, installing the documented
// defaults on first interaction. Only mutating paths call this, and only
// after every validation has passed: a rejected call must not install a
// record, or it would change the state digest. Validation reads use peek.
func (e *Engine) getOrCreate(id PlayerID) *Player {
	if p, ok := e.players[id]; ok {
		return p
	}
	p := e.newPlayer(id)
	e.players[id] = p
	return p
}

// peek returns the player's record for validation reads without creating
// one. Absent players are represented by a throwaway record carrying the
// documented defaults.
func (e *Engine) peek(id PlayerID) *Player {
	if p, ok := e.players[id]; ok {
		return p
	}
	return e.newPlayer(id)
}

func (e *Engine) newPlayer(id PlayerID) *Player {
	p := &Player{ID: id, Pawns: e.cfg.PawnCap}
	for i := range p.Resources {
		p.Resources[i] = e.cfg.StartingResources
	}
	p.Town.Defenses = [2]int64{e.cfg.StartingDefenses, e.cfg.StartingDefenses}
	return p
}

// creditPawns returns committed pawns to the idle pool. The scheduler only
// ever returns what it debited, so the cap holds by conservation.
func (p *Player) creditPawns(n int64) {
	p.Pawns += n
}

// debitPawns removes n pawns from the idle pool; reports false (and leaves
// the pool untouched) if the pool would go negative.
func (p *Player) debitPawns(n int64) bool {
	if n <= 0 || n > p.Pawns {
		return false
	}
	p.Pawns -= n
	return true
}

// canAfford reports whether every listed resource debit is payable. Callers
// check this before mutating anything so a rejected action has no effect.
func (p *Player) canAfford(costs [NumResources]int64) bool {
	for i, c := range costs {
		if c > p.Resources[i] {
			return false
		}
	}
	return true
}

func (p *Player) debitResources(costs [NumResources]int64) {
	for i, c := range costs {
		p.Resources[i] -= c
	}
}

// armySum is the player's total standing army across unit types.
func (p *Player) armySum() int64 {
	var sum int64
	for _, n := range p.Town.Army {
		sum += n
	}
	return sum
}

// PlayerView is the query/event snapshot of a player record.
type PlayerView struct {
	ID        string              `json:"id"`
	Pawns     int64               `json:"pawns"`
	Resources [NumResources]int64 `json:"resources"`
	Defenses  [2]int64            `json:"defenses"`
	Army      [NumUnitTypes]int64 `json:"army"`
	LastRaid  uint64              `json:"last_raid"`
}

func (e *Engine) playerView(id PlayerID) PlayerView {
	p, ok := e.players[id]
	if !ok {
		p = e.newPlayer(id)
	}
	return PlayerView{
		ID:        string(p.ID),
		Pawns:     p.Pawns,
		Resources: p.Resources,
		Defenses:  p.Town.Defenses,
		Army:      p.Town.Army,
		LastRaid:  p.LastRaid,
	}
}
