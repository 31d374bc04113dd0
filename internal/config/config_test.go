package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	parsed, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if !reflect.DeepEqual(parsed, DefaultRunnerConfig()) {
		t.Errorf("embedded YAML and DefaultRunnerConfig differ:\n%+v\n%+v", parsed, DefaultRunnerConfig())
	}
	if err := parsed.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestParseKeepsDefaultsForMissingFields(t *testing.T) {
	cfg, err := Parse([]byte("track:\n  scroll_speed: 12\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Track.ScrollSpeed != 12 {
		t.Errorf("ScrollSpeed = %v, expected 12", cfg.Track.ScrollSpeed)
	}
	if cfg.Player.Mass != 76 {
		t.Errorf("Player.Mass should keep default 76, got %v", cfg.Player.Mass)
	}
	if len(cfg.Track.Chunks) != 1 {
		t.Errorf("chunk library should keep default, got %d entries", len(cfg.Track.Chunks))
	}
}

func TestLoadRunnerCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.yaml")
	data := []byte("track:\n  chunks:\n    - name: long\n      length: 60\n      width: 20\n  horizon_distance: 300\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRunner(path)
	if err != nil {
		t.Fatalf("LoadRunner failed: %v", err)
	}
	chunk, ok := cfg.PrimaryChunk()
	if !ok || chunk.Name != "long" || chunk.Length != 60 {
		t.Errorf("PrimaryChunk() = %+v, %v", chunk, ok)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("custom config should validate, got %v", err)
	}
}

func TestLoadRunnerMissingCustomPath(t *testing.T) {
	if _, err := LoadRunner(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}
}

func TestValidateRejectsConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunnerConfig)
	}{
		{"zero chunk length", func(c *RunnerConfig) { c.Track.Chunks[0].Length = 0 }},
		{"negative chunk length", func(c *RunnerConfig) { c.Track.Chunks[0].Length = -40 }},
		{"empty library", func(c *RunnerConfig) { c.Track.Chunks = nil }},
		{"unknown difficulty", func(c *RunnerConfig) { c.Track.Chunks[0].Difficulty = "nightmare" }},
		{"horizon inside view", func(c *RunnerConfig) { c.Track.HorizonDistance = 220 }},
		{"despawn ahead of camera", func(c *RunnerConfig) { c.Track.DespawnThreshold = 10 }},
		{"massless player", func(c *RunnerConfig) { c.Player.Mass = 0 }},
		{"lanes off the track", func(c *RunnerConfig) { c.Player.LaneWidth = 12 }},
		{"probe radius too big", func(c *RunnerConfig) { c.Probe.RadiusScale = 1.5 }},
		{"vertical walls count as ground", func(c *RunnerConfig) { c.Probe.MinSlopeCos = 1 }},
		{"no proportional gain", func(c *RunnerConfig) { c.Locomotion.Kp = 0 }},
		{"no tick rate", func(c *RunnerConfig) { c.Physics.TickRate = 0 }},
		{"infinite horizon", func(c *RunnerConfig) { c.Track.HorizonDistance = math.Inf(1) }},
		{"NaN horizon", func(c *RunnerConfig) { c.Track.HorizonDistance = math.NaN() }},
		{"infinite scroll speed", func(c *RunnerConfig) { c.Track.ScrollSpeed = math.Inf(1) }},
		{"infinite chunk length", func(c *RunnerConfig) { c.Track.Chunks[0].Length = math.Inf(1) }},
		{"NaN gravity", func(c *RunnerConfig) { c.Physics.Gravity = math.NaN() }},
		{"infinite jump grace", func(c *RunnerConfig) { c.Locomotion.JumpGrace = math.Inf(1) }},
		{"NaN probe skin", func(c *RunnerConfig) { c.Probe.Skin = math.NaN() }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRunnerConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateRejectsNonFiniteYAML(t *testing.T) {
	for _, doc := range []string{
		"track:\n  horizon_distance: .inf\n",
		"track:\n  horizon_distance: .nan\n",
		"track:\n  scroll_speed: .inf\n",
		"player:\n  mass: -.inf\n",
	} {
		cfg, err := Parse([]byte(doc))
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", doc, err)
		}
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Validate(%q) = %v, expected ErrInvalidConfig", doc, err)
		}
	}
}

func TestMarshalRoundTripsLibrary(t *testing.T) {
	cfg := DefaultRunnerConfig()
	cfg.Track.Chunks = append(cfg.Track.Chunks, ChunkConfig{Name: "ramp", Length: 20, Width: 20, Difficulty: "hard"})

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(back.Track.Chunks) != 2 || back.Track.Chunks[1].Difficulty != "hard" {
		t.Errorf("library not preserved: %+v", back.Track.Chunks)
	}
	if back.MaxChunkLength() != 40 {
		t.Errorf("MaxChunkLength() = %v, expected 40", back.MaxChunkLength())
	}
}
