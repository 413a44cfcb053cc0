package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadDefaults verifies an empty path yields the built-in settings.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TickRate != 30 {
		t.Errorf("TickRate = %d, want 30", cfg.TickRate)
	}
	if cfg.LoadRadius != 8 || cfg.DeleteRadius != 10 {
		t.Errorf("radii = %d/%d, want 8/10", cfg.LoadRadius, cfg.DeleteRadius)
	}
	if !cfg.Caves {
		t.Error("Caves disabled by default")
	}
	if cfg.Seed != "" {
		t.Errorf("Seed = %q, want empty", cfg.Seed)
	}
}

// TestLoadReadsFile verifies YAML values override defaults while unnamed
// fields keep theirs.
func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	doc := `tickRate: 60
loadRadius: 4
seed: "glacier"
caves: false
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TickRate != 60 {
		t.Errorf("TickRate = %d, want 60", cfg.TickRate)
	}
	if cfg.LoadRadius != 4 {
		t.Errorf("LoadRadius = %d, want 4", cfg.LoadRadius)
	}
	if cfg.Seed != "glacier" {
		t.Errorf("Seed = %q, want glacier", cfg.Seed)
	}
	if cfg.Caves {
		t.Error("Caves = true, want false from file")
	}
	if cfg.AgentCount != 6 {
		t.Errorf("AgentCount = %d, want untouched default 6", cfg.AgentCount)
	}
}

// TestEnvOverridesFile verifies the environment is the outermost layer.
func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("tickRate: 60\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("VOXWORLD_TICK_RATE", "90")
	t.Setenv("VOXWORLD_CAVES", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TickRate != 90 {
		t.Errorf("TickRate = %d, want env override 90", cfg.TickRate)
	}
	if cfg.Caves {
		t.Error("Caves = true, want env override false")
	}
}

// TestEnvRejectsGarbage verifies unparsable env values keep the previous
// layer's value instead of failing the load.
func TestEnvRejectsGarbage(t *testing.T) {
	t.Setenv("VOXWORLD_TICK_RATE", "ludicrous")
	t.Setenv("VOXWORLD_CAVES", "perhaps")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TickRate != 30 {
		t.Errorf("TickRate = %d, want default 30 on bad env", cfg.TickRate)
	}
	if !cfg.Caves {
		t.Error("Caves = false, want default true on bad env")
	}
}

// TestNormalizeClamps verifies out-of-range settings are pulled back into
// their working ranges.
func TestNormalizeClamps(t *testing.T) {
	cfg := &Config{TickRate: 0, LoadRadius: 100, DeleteRadius: 1, Workers: -3, RenderDistance: 999, AgentCount: -1}
	cfg.Normalize()

	if cfg.TickRate != 1 {
		t.Errorf("TickRate = %d, want 1", cfg.TickRate)
	}
	if cfg.LoadRadius != 32 {
		t.Errorf("LoadRadius = %d, want 32", cfg.LoadRadius)
	}
	if cfg.DeleteRadius != cfg.LoadRadius+2 {
		t.Errorf("DeleteRadius = %d, want load+2 = %d", cfg.DeleteRadius, cfg.LoadRadius+2)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Workers)
	}
	if cfg.RenderDistance != maxRenderDistance {
		t.Errorf("RenderDistance = %d, want %d", cfg.RenderDistance, maxRenderDistance)
	}
	if cfg.AgentCount != 0 {
		t.Errorf("AgentCount = %d, want 0", cfg.AgentCount)
	}
}

// TestLoadMissingFile verifies a named but absent file is an error rather
// than a silent fallback.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load succeeded on a missing file")
	}
}

// TestRenderDistanceAccessors verifies the runtime accessor clamps like the
// config layer does.
func TestRenderDistanceAccessors(t *testing.T) {
	old := RenderDistance()
	defer SetRenderDistance(old)

	SetRenderDistance(12)
	if got := RenderDistance(); got != 12 {
		t.Errorf("RenderDistance = %d, want 12", got)
	}
	SetRenderDistance(1)
	if got := RenderDistance(); got != minRenderDistance {
		t.Errorf("RenderDistance = %d, want clamp to %d", got, minRenderDistance)
	}
	SetRenderDistance(10_000)
	if got := RenderDistance(); got != maxRenderDistance {
		t.Errorf("RenderDistance = %d, want clamp to %d", got, maxRenderDistance)
	}
}
