package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Physics.MaxCats != 200 || cfg.Physics.EvictBatch != 10 {
		t.Errorf("eviction = %d/%d, want 200/10", cfg.Physics.MaxCats, cfg.Physics.EvictBatch)
	}
	if !cfg.Cat.FixedTimestep {
		t.Error("cats should use the fixed timestep by default")
	}
	if cfg.Mouse.FixedTimestep {
		t.Error("mice should use the frame delta by default")
	}
	if got := 1 / cfg.Physics.UnitTime; got < 59.999 || got > 60.001 {
		t.Errorf("unit time rate = %v Hz, want 60", got)
	}
	if cfg.Preview.Steps != 100 {
		t.Errorf("preview steps = %d, want 100", cfg.Preview.Steps)
	}
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := []byte("moon:\n  period: 30\nmouse:\n  speed: 90\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Moon.Period != 30 {
		t.Errorf("moon.period = %v, want 30", cfg.Moon.Period)
	}
	if cfg.Mouse.Speed != 90 {
		t.Errorf("mouse.speed = %v, want 90", cfg.Mouse.Speed)
	}
	if cfg.Moon.OrbitRadius != 600 {
		t.Errorf("moon.orbit_radius = %v, want default 600", cfg.Moon.OrbitRadius)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero period", "moon:\n  period: 0\n"},
		{"attack below body", "cat:\n  attack_radius: 1\n"},
		{"damage above one", "moon:\n  damage: 1.5\n"},
		{"no eviction batch", "physics:\n  evict_batch: 0\n"},
		{"no preview", "preview:\n  steps: 0\n"},
		{"zero spawn floor", "spawner:\n  min_interval: 0\n"},
		{"spawn floor above interval", "spawner:\n  interval: 1\n  min_interval: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Load error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MOONCATS_TEST_KEY", "set")
	if got := GetEnv("MOONCATS_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("GetEnv = %q, want set", got)
	}
	if got := GetEnv("MOONCATS_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnv = %q, want fallback", got)
	}
}
