// Package config provides YAML-based configuration loading and validation
// for the runner's track, player body, locomotion and physics parameters.
package config

// RunnerConfig contains all configuration for one runner level.
type RunnerConfig struct {
	Track      TrackConfig      `yaml:"track"`
	Player     PlayerConfig     `yaml:"player"`
	Locomotion LocomotionConfig `yaml:"locomotion"`
	Probe      ProbeConfig      `yaml:"probe"`
	Physics    PhysicsConfig    `yaml:"physics"`
}

// TrackConfig defines the streamed track and its scrolling.
type TrackConfig struct {
	ScrollSpeed      float64       `yaml:"scroll_speed"`      // World units per second
	HorizonDistance  float64       `yaml:"horizon_distance"`  // Spawn-ahead distance from the player
	VisibleDistance  float64       `yaml:"visible_distance"`  // Farthest distance the view can show
	DespawnThreshold float64       `yaml:"despawn_threshold"` // World-space Z behind which chunks retire (negative)
	ChunkThickness   float64       `yaml:"chunk_thickness"`   // Collider height of a chunk slab
	Chunks           []ChunkConfig `yaml:"chunks"`            // Chunk library, first entry is used
}

// ChunkConfig defines one chunk template.
type ChunkConfig struct {
	Name       string  `yaml:"name"`
	Geometry   string  `yaml:"geometry"` // Opaque handle for the scene layer
	Length     float64 `yaml:"length"`
	Width      float64 `yaml:"width"`
	Difficulty string  `yaml:"difficulty"` // easy, medium or hard
}

// PlayerConfig defines the player's rigid body and lane layout.
type PlayerConfig struct {
	Mass              float64 `yaml:"mass"`
	CapsuleRadius     float64 `yaml:"capsule_radius"`
	CapsuleHalfHeight float64 `yaml:"capsule_half_height"` // Half length of the cylindrical section
	SpawnHeight       float64 `yaml:"spawn_height"`
	LaneWidth         float64 `yaml:"lane_width"`
}

// LocomotionConfig defines the lane PD controller and jump gating.
// Gains and the jump impulse are per unit of mass.
type LocomotionConfig struct {
	Kp          float64 `yaml:"kp"`
	Kd          float64 `yaml:"kd"`
	JumpImpulse float64 `yaml:"jump_impulse"`
	JumpGrace   float64 `yaml:"jump_grace"` // Seconds of ground contact required before a jump
}

// ProbeConfig defines the ground probe shape cast.
type ProbeConfig struct {
	Skin        float64 `yaml:"skin"`
	RadiusScale float64 `yaml:"radius_scale"`
	MaxDistance float64 `yaml:"max_distance"`
	MinSlopeCos float64 `yaml:"min_slope_cos"`
}

// PhysicsConfig defines global physics parameters.
type PhysicsConfig struct {
	Gravity  float64 `yaml:"gravity"`   // Downward acceleration magnitude
	TickRate int     `yaml:"tick_rate"` // Fixed simulation steps per second
}

// FixedDelta returns the duration of one simulation step in seconds.
func (p PhysicsConfig) FixedDelta() float64 {
	if p.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(p.TickRate)
}

// PrimaryChunk returns the chunk definition the track streams.
func (c RunnerConfig) PrimaryChunk() (ChunkConfig, bool) {
	if len(c.Track.Chunks) == 0 {
		return ChunkConfig{}, false
	}
	return c.Track.Chunks[0], true
}

// MaxChunkLength returns the longest chunk length in the library.
func (c RunnerConfig) MaxChunkLength() float64 {
	longest := 0.0
	for _, ch := range c.Track.Chunks {
		if ch.Length > longest {
			longest = ch.Length
		}
	}
	return longest
}
