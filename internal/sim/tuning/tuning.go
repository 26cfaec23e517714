package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stronghold.rts/internal/sim/rts"
)

// Tuning is the host-facing knob file. Zero/absent values fall back to the
// engine's defaults, so a partial tuning.yaml is fine.
type Tuning struct {
	PawnCap           int64 `yaml:"pawn_cap"`
	StartingResources int64 `yaml:"starting_resources"`
	StartingDefenses  int64 `yaml:"starting_defenses"`

	DayTicks     uint64 `yaml:"day_ticks"`
	CampaignDays uint64 `yaml:"campaign_days"`

	GatherSlots       int     `yaml:"gather_slots"`
	GatherRatePercent []int64 `yaml:"gather_rate_percent"`

	Refine RefineTuning `yaml:"refine"`
	Train  TrainTuning  `yaml:"train"`
	Raid   RaidTuning   `yaml:"raid"`

	ResetPlayersOnNewCampaign bool `yaml:"reset_players_on_new_campaign"`
}

type RefineTuning struct {
	WoodMin      int64  `yaml:"wood_min"`
	WoodMax      int64  `yaml:"wood_max"`
	RockMin      int64  `yaml:"rock_min"`
	RockMax      int64  `yaml:"rock_max"`
	PawnDivisor  int64  `yaml:"pawn_divisor"`
	MetalDivisor int64  `yaml:"metal_divisor"`
	DwellTicks   uint64 `yaml:"dwell_ticks"`
}

type TrainTuning struct {
	DwellTicks uint64 `yaml:"dwell_ticks"`
}

type RaidTuning struct {
	DurationTicks  uint64 `yaml:"duration_ticks"`
	CooldownTicks  uint64 `yaml:"cooldown_ticks"`
	LootPercent    int64  `yaml:"loot_percent"`
	DefensesDefend bool   `yaml:"defenses_defend"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func Defaults() Tuning {
	return Tuning{}
}

// ToConfig maps the tuning file onto an engine config. Missing values stay
// zero and are defaulted by the engine.
func (t Tuning) ToConfig() rts.Config {
	cfg := rts.Config{
		PawnCap:           t.PawnCap,
		StartingResources: t.StartingResources,
		StartingDefenses:  t.StartingDefenses,
		DayTicks:          t.DayTicks,
		CampaignDays:      t.CampaignDays,
		GatherSlots:       t.GatherSlots,

		RefineWoodMin:      t.Refine.WoodMin,
		RefineWoodMax:      t.Refine.WoodMax,
		RefineRockMin:      t.Refine.RockMin,
		RefineRockMax:      t.Refine.RockMax,
		RefinePawnDivisor:  t.Refine.PawnDivisor,
		RefineMetalDivisor: t.Refine.MetalDivisor,
		RefineDwellTicks:   t.Refine.DwellTicks,

		TrainDwellTicks: t.Train.DwellTicks,

		RaidDurationTicks: t.Raid.DurationTicks,
		RaidCooldownTicks: t.Raid.CooldownTicks,
		LootPercent:       t.Raid.LootPercent,
		DefensesDefend:    t.Raid.DefensesDefend,

		ResetPlayersOnNewCampaign: t.ResetPlayersOnNewCampaign,
	}
	for i, r := range t.GatherRatePercent {
		if i >= rts.NumGatherResources {
			break
		}
		cfg.GatherRatePercent[i] = r
	}
	return cfg
}
