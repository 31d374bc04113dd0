package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the built-in runner configuration.
// It mirrors defaults/runner.yaml and is used when the embedded file fails to parse.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Track: TrackConfig{
			ScrollSpeed:      30,
			HorizonDistance:  240,
			VisibleDistance:  200,
			DespawnThreshold: -50,
			ChunkThickness:   0.1,
			Chunks: []ChunkConfig{
				{
					Name:       "dev",
					Geometry:   "scenes/dev_chunk",
					Length:     40,
					Width:      20,
					Difficulty: "easy",
				},
			},
		},
		Player: PlayerConfig{
			Mass:              76,
			CapsuleRadius:     0.5,
			CapsuleHalfHeight: 1.0,
			SpawnHeight:       3.0,
			LaneWidth:         5,
		},
		Locomotion: LocomotionConfig{
			Kp:          200,
			Kd:          30,
			JumpImpulse: 6,
			JumpGrace:   0.15,
		},
		Probe: ProbeConfig{
			Skin:        0.02,
			RadiusScale: 0.9,
			MaxDistance: 0.02,
			MinSlopeCos: 0.7,
		},
		Physics: PhysicsConfig{
			Gravity:  9.81,
			TickRate: 60,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
