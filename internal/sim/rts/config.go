package rts

// Config carries every named constant of the economy. Zero values are
// replaced by defaults so a partially filled config (e.g. from tuning.yaml)
// is always usable. Durations are logical ticks; one "day" is DayTicks.
type Config struct {
	PawnCap           int64
	StartingResources int64
	StartingDefenses  int64

	DayTicks     uint64
	CampaignDays uint64

	GatherSlots       int
	GatherRatePercent [NumGatherResources]int64

	RefineWoodMin      int64
	RefineWoodMax      int64
	RefineRockMin      int64
	RefineRockMax      int64
	RefinePawnDivisor  int64
	RefineMetalDivisor int64
	RefineDwellTicks   uint64

	TrainDwellTicks uint64
	UnitCosts       [NumUnitTypes]UnitCost

	RaidDurationTicks uint64
	RaidCooldownTicks uint64
	LootPercent       int64

	// DefensesDefend adds sum(town.defenses) to the defender's strength
	// when resolving a raid. Off by default: raids compare army sums only.
	DefensesDefend bool

	// ResetPlayersOnNewCampaign clears all player records and raid history
	// when a new campaign is installed. Off by default: records persist
	// across campaigns.
	ResetPlayersOnNewCampaign bool
}

// UnitCost is the per-unit training price for one unit type.
type UnitCost struct {
	Resource int
	PerUnit  int64
}

func (c *Config) applyDefaults() {
	if c.PawnCap <= 0 {
		c.PawnCap = 100
	}
	if c.StartingResources <= 0 {
		c.StartingResources = 50
	}
	if c.StartingDefenses <= 0 {
		c.StartingDefenses = 20
	}
	if c.DayTicks <= 0 {
		c.DayTicks = 47
	}
	if c.CampaignDays <= 0 {
		c.CampaignDays = 30
	}
	if c.GatherSlots <= 0 || c.GatherSlots > MaxGatherSlots {
		c.GatherSlots = MaxGatherSlots
	}
	if c.GatherRatePercent == ([NumGatherResources]int64{}) {
		c.GatherRatePercent = [NumGatherResources]int64{3, 2, 4, 1}
	}
	if c.RefineWoodMin <= 0 {
		c.RefineWoodMin = 10
	}
	if c.RefineWoodMax <= 0 {
		c.RefineWoodMax = 70
	}
	if c.RefineRockMin <= 0 {
		c.RefineRockMin = 7
	}
	if c.RefineRockMax <= 0 {
		c.RefineRockMax = 70
	}
	if c.RefinePawnDivisor <= 0 {
		c.RefinePawnDivisor = 10
	}
	if c.RefineMetalDivisor <= 0 {
		c.RefineMetalDivisor = 12
	}
	if c.RefineDwellTicks <= 0 {
		c.RefineDwellTicks = c.DayTicks
	}
	if c.TrainDwellTicks <= 0 {
		c.TrainDwellTicks = c.DayTicks
	}
	if c.UnitCosts == ([NumUnitTypes]UnitCost{}) {
		c.UnitCosts = [NumUnitTypes]UnitCost{
			{Resource: ResRock, PerUnit: 5},
			{Resource: ResWood, PerUnit: 4},
			{Resource: ResFood, PerUnit: 8},
		}
	}
	if c.RaidDurationTicks <= 0 {
		c.RaidDurationTicks = c.DayTicks
	}
	if c.RaidCooldownTicks <= 0 {
		c.RaidCooldownTicks = c.DayTicks
	}
	if c.LootPercent <= 0 {
		c.LootPercent = 10
	}
}

// CampaignDurationTicks is the fixed lifetime of every campaign.
func (c Config) CampaignDurationTicks() uint64 {
	return c.CampaignDays * c.DayTicks
}
