package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_PartialFileFallsBackToEngineDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	raw := []byte(`
pawn_cap: 200
day_ticks: 10
refine:
  wood_min: 20
raid:
  defenses_defend: true
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tune, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := tune.ToConfig()
	if cfg.PawnCap != 200 {
		t.Fatalf("pawn cap = %d, want 200", cfg.PawnCap)
	}
	if cfg.DayTicks != 10 {
		t.Fatalf("day ticks = %d, want 10", cfg.DayTicks)
	}
	if cfg.RefineWoodMin != 20 {
		t.Fatalf("refine wood min = %d, want 20", cfg.RefineWoodMin)
	}
	if !cfg.DefensesDefend {
		t.Fatalf("defenses_defend not carried over")
	}
	// Unset knobs stay zero here; the engine applies its own defaults.
	if cfg.StartingResources != 0 {
		t.Fatalf("starting resources = %d, want 0 before engine defaults", cfg.StartingResources)
	}
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte("pawn_cap: [not a number"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestToConfig_GatherRates(t *testing.T) {
	tune := Tuning{GatherRatePercent: []int64{9, 8, 7, 6, 5}}
	cfg := tune.ToConfig()
	want := [4]int64{9, 8, 7, 6}
	if cfg.GatherRatePercent != want {
		t.Fatalf("gather rates = %v, want %v (extras dropped)", cfg.GatherRatePercent, want)
	}
}
