package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Difficulty names accepted in chunk definitions.
var validDifficulties = map[string]bool{
	"":       true, // defaults to easy
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// Validate reports the first configuration error that would make a level
// undefined. Callers must abort level initialization on error.
func (c RunnerConfig) Validate() error {
	if err := c.checkFinite(); err != nil {
		return err
	}

	t := c.Track
	if len(t.Chunks) == 0 {
		return invalid("track.chunks", "at least one chunk definition is required")
	}
	for i, ch := range t.Chunks {
		field := fmt.Sprintf("track.chunks[%d]", i)
		if !(ch.Length > 0) {
			return invalid(field+".length", "must be positive, got %v", ch.Length)
		}
		if !(ch.Width > 0) {
			return invalid(field+".width", "must be positive, got %v", ch.Width)
		}
		if !validDifficulties[ch.Difficulty] {
			return invalid(field+".difficulty", "unknown difficulty %q", ch.Difficulty)
		}
	}
	if t.ScrollSpeed < 0 {
		return invalid("track.scroll_speed", "must not be negative, got %v", t.ScrollSpeed)
	}
	if !(t.DespawnThreshold < 0) {
		return invalid("track.despawn_threshold", "must be behind the camera (negative), got %v", t.DespawnThreshold)
	}
	if !(t.ChunkThickness > 0) {
		return invalid("track.chunk_thickness", "must be positive, got %v", t.ChunkThickness)
	}
	// Generation must stay at least one chunk ahead of what can be seen.
	if need := t.VisibleDistance + c.MaxChunkLength(); t.HorizonDistance < need {
		return invalid("track.horizon_distance", "must be >= visible_distance + chunk length (%v), got %v", need, t.HorizonDistance)
	}

	p := c.Player
	if !(p.Mass > 0) {
		return invalid("player.mass", "must be positive, got %v", p.Mass)
	}
	if !(p.CapsuleRadius > 0) {
		return invalid("player.capsule_radius", "must be positive, got %v", p.CapsuleRadius)
	}
	if p.CapsuleHalfHeight < 0 {
		return invalid("player.capsule_half_height", "must not be negative, got %v", p.CapsuleHalfHeight)
	}
	if !(p.LaneWidth > 0) {
		return invalid("player.lane_width", "must be positive, got %v", p.LaneWidth)
	}
	if chunk, _ := c.PrimaryChunk(); p.LaneWidth+p.CapsuleRadius > chunk.Width/2 {
		return invalid("player.lane_width", "outer lanes fall off a %v wide chunk", chunk.Width)
	}

	l := c.Locomotion
	if !(l.Kp > 0) || l.Kd < 0 {
		return invalid("locomotion", "kp must be positive and kd non-negative, got kp=%v kd=%v", l.Kp, l.Kd)
	}
	if l.JumpImpulse < 0 || l.JumpGrace < 0 {
		return invalid("locomotion", "jump_impulse and jump_grace must not be negative")
	}

	pr := c.Probe
	if pr.Skin < 0 || !(pr.MaxDistance > 0) {
		return invalid("probe", "skin must not be negative and max_distance must be positive")
	}
	if !(pr.RadiusScale > 0) || pr.RadiusScale > 1 {
		return invalid("probe.radius_scale", "must be in (0, 1], got %v", pr.RadiusScale)
	}
	if pr.MinSlopeCos < 0 || pr.MinSlopeCos >= 1 {
		return invalid("probe.min_slope_cos", "must be in [0, 1), got %v", pr.MinSlopeCos)
	}

	if c.Physics.TickRate <= 0 {
		return invalid("physics.tick_rate", "must be positive, got %d", c.Physics.TickRate)
	}
	if c.Physics.Gravity < 0 {
		return invalid("physics.gravity", "is a magnitude and must not be negative, got %v", c.Physics.Gravity)
	}
	return nil
}

type floatField struct {
	name string
	v    float64
}

// checkFinite rejects NaN and infinite values in every float field.
// Range checks in Validate assume finite input.
func (c RunnerConfig) checkFinite() error {
	fields := []floatField{
		{"track.scroll_speed", c.Track.ScrollSpeed},
		{"track.horizon_distance", c.Track.HorizonDistance},
		{"track.visible_distance", c.Track.VisibleDistance},
		{"track.despawn_threshold", c.Track.DespawnThreshold},
		{"track.chunk_thickness", c.Track.ChunkThickness},
		{"player.mass", c.Player.Mass},
		{"player.capsule_radius", c.Player.CapsuleRadius},
		{"player.capsule_half_height", c.Player.CapsuleHalfHeight},
		{"player.spawn_height", c.Player.SpawnHeight},
		{"player.lane_width", c.Player.LaneWidth},
		{"locomotion.kp", c.Locomotion.Kp},
		{"locomotion.kd", c.Locomotion.Kd},
		{"locomotion.jump_impulse", c.Locomotion.JumpImpulse},
		{"locomotion.jump_grace", c.Locomotion.JumpGrace},
		{"probe.skin", c.Probe.Skin},
		{"probe.radius_scale", c.Probe.RadiusScale},
		{"probe.max_distance", c.Probe.MaxDistance},
		{"probe.min_slope_cos", c.Probe.MinSlopeCos},
		{"physics.gravity", c.Physics.Gravity},
	}
	for i, ch := range c.Track.Chunks {
		fields = append(fields,
			floatField{fmt.Sprintf("track.chunks[%d].length", i), ch.Length},
			floatField{fmt.Sprintf("track.chunks[%d].width", i), ch.Width},
		)
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalid(f.name, "must be finite, got %v", f.v)
		}
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("config: %s %s: %w", field, fmt.Sprintf(format, args...), ErrInvalidConfig)
}
