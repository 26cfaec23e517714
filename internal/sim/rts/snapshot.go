package rts

import (
	"sort"

	"stronghold.rts/internal/persistence/snapshot"
)

const snapshotVersion = 1

// ExportSnapshot captures the full engine state plus the effective
// configuration. Players and raids are sorted so equal states export
// byte-identical snapshots.
func (e *Engine) ExportSnapshot() snapshot.SnapshotV1 {
	snap := snapshot.SnapshotV1{
		Header:      snapshot.Header{Version: snapshotVersion, Tick: e.lastTick, Seq: e.seq},
		Config:      exportConfig(e.cfg),
		CampaignSeq: e.campaignSeq,
	}
	if e.campaign != nil {
		snap.Campaign = &snapshot.CampaignV1{
			ID:       e.campaign.ID,
			Start:    e.campaign.Start,
			Duration: e.campaign.Duration,
			Stock:    e.campaign.Stock,
		}
	}

	ids := make([]string, 0, len(e.players))
	for id := range e.players {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := e.players[PlayerID(id)]
		pv := snapshot.PlayerV1{
			ID:        id,
			Pawns:     p.Pawns,
			Resources: p.Resources,
			Defenses:  p.Town.Defenses,
			Army:      p.Town.Army,
			LastRaid:  p.LastRaid,
			Refine: snapshot.RefineV1{
				Pawns:       p.Refine.Pawns,
				Wood:        p.Refine.Wood,
				Rock:        p.Refine.Rock,
				StartedTick: p.Refine.StartedTick,
			},
		}
		for r := 0; r < NumGatherResources; r++ {
			for s := 0; s < MaxGatherSlots; s++ {
				pv.Expeditions[r][s] = snapshot.ExpeditionV1{
					Pawns:       p.Expeditions[r][s].PawnsSent,
					StartedTick: p.Expeditions[r][s].StartedTick,
				}
			}
		}
		for t := 0; t < NumUnitTypes; t++ {
			pv.Training[t] = snapshot.TrainingV1{
				Pawns:       p.Training[t].Pawns,
				StartedTick: p.Training[t].StartedTick,
			}
		}
		snap.Players = append(snap.Players, pv)
	}

	keys := make([]raidKey, 0, len(e.raids))
	for k := range e.raids {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Invader != keys[j].Invader {
			return keys[i].Invader < keys[j].Invader
		}
		return keys[i].Defender < keys[j].Defender
	})
	for _, k := range keys {
		r := e.raids[k]
		snap.Raids = append(snap.Raids, snapshot.RaidV1{
			Invader:     string(r.Invader),
			Defender:    string(r.Defender),
			Army:        r.Army,
			Resolved:    r.Resolved,
			Won:         r.Won,
			StartedTick: r.StartedTick,
		})
	}
	return snap
}

// NewFromSnapshot builds an engine from a snapshot, restoring the captured
// configuration and the full domain state.
func NewFromSnapshot(snap snapshot.SnapshotV1) *Engine {
	e := New(importConfig(snap.Config))
	e.lastTick = snap.Header.Tick
	e.seq = snap.Header.Seq
	e.campaignSeq = snap.CampaignSeq
	if snap.Campaign != nil {
		e.campaign = &Campaign{
			ID:       snap.Campaign.ID,
			Start:    snap.Campaign.Start,
			Duration: snap.Campaign.Duration,
			Stock:    snap.Campaign.Stock,
		}
	}
	for _, pv := range snap.Players {
		p := &Player{
			ID:        PlayerID(pv.ID),
			Pawns:     pv.Pawns,
			Resources: pv.Resources,
			LastRaid:  pv.LastRaid,
			Refine: RefineChannel{
				Pawns:       pv.Refine.Pawns,
				Wood:        pv.Refine.Wood,
				Rock:        pv.Refine.Rock,
				StartedTick: pv.Refine.StartedTick,
			},
		}
		p.Town.Defenses = pv.Defenses
		p.Town.Army = pv.Army
		for r := 0; r < NumGatherResources; r++ {
			for s := 0; s < MaxGatherSlots; s++ {
				p.Expeditions[r][s] = ExpeditionSlot{
					PawnsSent:   pv.Expeditions[r][s].Pawns,
					StartedTick: pv.Expeditions[r][s].StartedTick,
				}
			}
		}
		for t := 0; t < NumUnitTypes; t++ {
			p.Training[t] = TrainingSlot{
				Pawns:       pv.Training[t].Pawns,
				StartedTick: pv.Training[t].StartedTick,
			}
		}
		e.players[p.ID] = p
	}
	for _, rv := range snap.Raids {
		e.raids[raidKey{Invader: PlayerID(rv.Invader), Defender: PlayerID(rv.Defender)}] = &Raid{
			Invader:     PlayerID(rv.Invader),
			Defender:    PlayerID(rv.Defender),
			Army:        rv.Army,
			Resolved:    rv.Resolved,
			Won:         rv.Won,
			StartedTick: rv.StartedTick,
		}
	}
	return e
}

func exportConfig(c Config) snapshot.ConfigV1 {
	out := snapshot.ConfigV1{
		PawnCap:           c.PawnCap,
		StartingResources: c.StartingResources,
		StartingDefenses:  c.StartingDefenses,
		DayTicks:          c.DayTicks,
		CampaignDays:      c.CampaignDays,
		GatherSlots:       c.GatherSlots,
		GatherRatePercent: c.GatherRatePercent,

		RefineWoodMin:      c.RefineWoodMin,
		RefineWoodMax:      c.RefineWoodMax,
		RefineRockMin:      c.RefineRockMin,
		RefineRockMax:      c.RefineRockMax,
		RefinePawnDivisor:  c.RefinePawnDivisor,
		RefineMetalDivisor: c.RefineMetalDivisor,
		RefineDwellTicks:   c.RefineDwellTicks,

		TrainDwellTicks: c.TrainDwellTicks,

		RaidDurationTicks: c.RaidDurationTicks,
		RaidCooldownTicks: c.RaidCooldownTicks,
		LootPercent:       c.LootPercent,

		DefensesDefend:            c.DefensesDefend,
		ResetPlayersOnNewCampaign: c.ResetPlayersOnNewCampaign,
	}
	for i, uc := range c.UnitCosts {
		out.UnitCosts[i] = snapshot.UnitCostV1{Resource: uc.Resource, PerUnit: uc.PerUnit}
	}
	return out
}

func importConfig(v snapshot.ConfigV1) Config {
	c := Config{
		PawnCap:           v.PawnCap,
		StartingResources: v.StartingResources,
		StartingDefenses:  v.StartingDefenses,
		DayTicks:          v.DayTicks,
		CampaignDays:      v.CampaignDays,
		GatherSlots:       v.GatherSlots,
		GatherRatePercent: v.GatherRatePercent,

		RefineWoodMin:      v.RefineWoodMin,
		RefineWoodMax:      v.RefineWoodMax,
		RefineRockMin:      v.RefineRockMin,
		RefineRockMax:      v.RefineRockMax,
		RefinePawnDivisor:  v.RefinePawnDivisor,
		RefineMetalDivisor: v.RefineMetalDivisor,
		RefineDwellTicks:   v.RefineDwellTicks,

		TrainDwellTicks: v.TrainDwellTicks,

		RaidDurationTicks: v.RaidDurationTicks,
		RaidCooldownTicks: v.RaidCooldownTicks,
		LootPercent:       v.LootPercent,

		DefensesDefend:            v.DefensesDefend,
		ResetPlayersOnNewCampaign: v.ResetPlayersOnNewCampaign,
	}
	for i, uc := range v.UnitCosts {
		c.UnitCosts[i] = UnitCost{Resource: uc.Resource, PerUnit: uc.PerUnit}
	}
	return c
}
