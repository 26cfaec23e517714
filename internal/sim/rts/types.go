package rts

// Resource indexes. 0..3 are gatherable raw resources and double as the
// campaign world-stock indexes; metal exists only as refinery output.
const (
	ResWood  = 0
	ResRock  = 1
	ResFood  = 2
	ResGold  = 3
	ResMetal = 4

	NumResources       = 5
	NumGatherResources = 4
	MaxGatherSlots     = 4
	NumUnitTypes       = 3
)

// PlayerID is an opaque identity supplied by the host's auth layer.
type PlayerID string

// Campaign is the singleton describing the active play session. It expires
// purely by time; the record is kept so late settlements can still draw
// down its stock.
type Campaign struct {
	ID       uint64
	Start    uint64
	Duration uint64
	Stock    [4]int64
}

// Active reports whether the campaign is still running at now.
func (c *Campaign) Active(now uint64) bool {
	return c != nil && now < c.Start+c.Duration
}

// Town is the per-player structural record mutated by training completions
// and raid outcomes.
type Town struct {
	Defenses [2]int64
	Army     [NumUnitTypes]int64
}

// ExpeditionSlot is one concurrent gathering commitment. PawnsSent == 0
// means the slot is free.
type ExpeditionSlot struct {
	PawnsSent   int64
	StartedTick uint64
}

// RefineChannel is the single per-player refining batch. Pawns == 0 means
// the channel is free.
type RefineChannel struct {
	Pawns       int64
	Wood        int64
	Rock        int64
	StartedTick uint64
}

// TrainingSlot is the single in-flight batch per unit type. Pawns == 0
// means the slot is free.
type TrainingSlot struct {
	Pawns       int64
	StartedTick uint64
}

// Player is the authoritative per-player record. Created lazily with
// documented defaults on first mutating interaction.
type Player struct {
	ID        PlayerID
	Pawns     int64
	Resources [NumResources]int64
	Town      Town
	LastRaid  uint64

	Expeditions [NumGatherResources][MaxGatherSlots]ExpeditionSlot
	Refine      RefineChannel
	Training    [NumUnitTypes]TrainingSlot
}

// Raid is the outstanding (or most recently resolved) raid for one ordered
// (invader, defender) pair. Resolution zeroes Army and sets Resolved; the
// record stays until the next raid between the pair overwrites it.
type Raid struct {
	Invader     PlayerID
	Defender    PlayerID
	Army        [NumUnitTypes]int64
	Resolved    bool
	Won         bool
	StartedTick uint64
}

type raidKey struct {
	Invader  PlayerID
	Defender PlayerID
}
