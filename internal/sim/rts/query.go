package rts

import "stronghold.rts/internal/protocol"

// YieldView answers a PROJECT_YIELD query.
type YieldView struct {
	Pawns    int64  `json:"pawns"`
	Resource int    `json:"resource"`
	Elapsed  uint64 `json:"elapsed"`
	Yield    int64  `json:"yield"`
}

// Query dispatches one read-only lookup. Queries never mutate: unknown
// players are reported with their would-be defaults without creating a
// record.
func (e *Engine) Query(get protocol.GetMsg, now uint64) Result {
	switch get.Query {
	case protocol.GetPlayer:
		return Result{OK: true, Value: e.playerView(PlayerID(get.Player))}

	case protocol.GetCampaign:
		if e.campaign == nil {
			return fail(protocol.ErrNoCampaign, "no campaign has been created")
		}
		return Result{OK: true, Value: e.campaignView(now)}

	case protocol.GetExpedition:
		if get.Resource < 0 || get.Resource >= NumGatherResources ||
			get.Slot < 0 || get.Slot >= e.cfg.GatherSlots {
			return fail(protocol.ErrBadRequest, "slot out of range")
		}
		var s ExpeditionSlot
		if p, ok := e.players[PlayerID(get.Player)]; ok {
			s = p.Expeditions[get.Resource][get.Slot]
		}
		return Result{OK: true, Value: ExpeditionView{
			Player:      get.Player,
			Resource:    get.Resource,
			Slot:        get.Slot,
			Pawns:       s.PawnsSent,
			StartedTick: s.StartedTick,
		}}

	case protocol.GetTraining:
		if get.UnitType < 0 || get.UnitType >= NumUnitTypes {
			return fail(protocol.ErrBadRequest, "unit type out of range")
		}
		var s TrainingSlot
		if p, ok := e.players[PlayerID(get.Player)]; ok {
			s = p.Training[get.UnitType]
		}
		return Result{OK: true, Value: TrainingView{
			Player:      get.Player,
			UnitType:    get.UnitType,
			Pawns:       s.Pawns,
			StartedTick: s.StartedTick,
		}}

	case protocol.GetRaid:
		r, ok := e.raids[raidKey{Invader: PlayerID(get.Invader), Defender: PlayerID(get.Defender)}]
		if !ok {
			return fail(protocol.ErrRaidNotFound, "no raid record for this pair")
		}
		return Result{OK: true, Value: RaidView{
			Invader:     string(r.Invader),
			Defender:    string(r.Defender),
			Army:        r.Army,
			Resolved:    r.Resolved,
			Won:         r.Won,
			StartedTick: r.StartedTick,
		}}

	case protocol.GetProjectYield:
		y, ok := e.ProjectYield(get.Pawns, get.Resource, get.Elapsed)
		if !ok {
			return fail(protocol.ErrBadRequest, "bad yield projection arguments")
		}
		return Result{OK: true, Value: YieldView{
			Pawns:    get.Pawns,
			Resource: get.Resource,
			Elapsed:  get.Elapsed,
			Yield:    y,
		}}
	}
	return fail(protocol.ErrBadRequest, "unknown query: "+get.Query)
}
