package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Header struct {
	Version int    `json:"version"`
	Tick    uint64 `json:"tick"`
	Seq     uint64 `json:"seq"`
}

// SnapshotV1 is the full engine state plus the effective configuration,
// captured so a resumed engine replays deterministically.
type SnapshotV1 struct {
	Header Header `json:"header"`

	Config ConfigV1 `json:"config"`

	CampaignSeq uint64      `json:"campaign_seq"`
	Campaign    *CampaignV1 `json:"campaign,omitempty"`
	Players     []PlayerV1  `json:"players"`
	Raids       []RaidV1    `json:"raids"`
}

type ConfigV1 struct {
	PawnCap           int64 `json:"pawn_cap"`
	StartingResources int64 `json:"starting_resources"`
	StartingDefenses  int64 `json:"starting_defenses"`

	DayTicks     uint64 `json:"day_ticks"`
	CampaignDays uint64 `json:"campaign_days"`

	GatherSlots       int      `json:"gather_slots"`
	GatherRatePercent [4]int64 `json:"gather_rate_percent"`

	RefineWoodMin      int64  `json:"refine_wood_min"`
	RefineWoodMax      int64  `json:"refine_wood_max"`
	RefineRockMin      int64  `json:"refine_rock_min"`
	RefineRockMax      int64  `json:"refine_rock_max"`
	RefinePawnDivisor  int64  `json:"refine_pawn_divisor"`
	RefineMetalDivisor int64  `json:"refine_metal_divisor"`
	RefineDwellTicks   uint64 `json:"refine_dwell_ticks"`

	TrainDwellTicks uint64       `json:"train_dwell_ticks"`
	UnitCosts       [3]UnitCostV1 `json:"unit_costs"`

	RaidDurationTicks uint64 `json:"raid_duration_ticks"`
	RaidCooldownTicks uint64 `json:"raid_cooldown_ticks"`
	LootPercent       int64  `json:"loot_percent"`

	DefensesDefend            bool `json:"defenses_defend,omitempty"`
	ResetPlayersOnNewCampaign bool `json:"reset_players_on_new_campaign,omitempty"`
}

type UnitCostV1 struct {
	Resource int   `json:"resource"`
	PerUnit  int64 `json:"per_unit"`
}

type CampaignV1 struct {
	ID       uint64   `json:"id"`
	Start    uint64   `json:"start"`
	Duration uint64   `json:"duration"`
	Stock    [4]int64 `json:"stock"`
}

type PlayerV1 struct {
	ID        string   `json:"id"`
	Pawns     int64    `json:"pawns"`
	Resources [5]int64 `json:"resources"`
	Defenses  [2]int64 `json:"defenses"`
	Army      [3]int64 `json:"army"`
	LastRaid  uint64   `json:"last_raid"`

	Expeditions [4][4]ExpeditionV1 `json:"expeditions"`
	Refine      RefineV1           `json:"refine"`
	Training    [3]TrainingV1      `json:"training"`
}

type ExpeditionV1 struct {
	Pawns       int64  `json:"pawns"`
	StartedTick uint64 `json:"started_tick"`
}

type RefineV1 struct {
	Pawns       int64  `json:"pawns"`
	Wood        int64  `json:"wood"`
	Rock        int64  `json:"rock"`
	StartedTick uint64 `json:"started_tick"`
}

type TrainingV1 struct {
	Pawns       int64  `json:"pawns"`
	StartedTick uint64 `json:"started_tick"`
}

type RaidV1 struct {
	Invader     string   `json:"invader"`
	Defender    string   `json:"defender"`
	Army        [3]int64 `json:"army"`
	Resolved    bool     `json:"resolved"`
	Won         bool     `json:"won"`
	StartedTick uint64   `json:"started_tick"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 64*1024)
	defer bw.Flush()

	// Plain-text header line first so tooling can peek without decoding gob.
	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	// Skip the header line; gob carries the header too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
