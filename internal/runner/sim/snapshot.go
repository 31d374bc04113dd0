package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/runner/track"
)

// Snapshot is a read-only copy of the level state after the last Step.
type Snapshot struct {
	Tick       uint64
	Distance   float64
	Offset     float64 // World root Z, equal to -Distance
	NextSpawnZ float64
	Chunks     []track.ActiveChunk // Root-local intervals ordered by StartZ

	PlayerPos mgl64.Vec3
	PlayerVel mgl64.Vec3
	Lane      int
	TargetX   float64

	Grounded          bool
	TimeSinceGrounded float64

	Jumps   int
	Spawned int
	Retired int

	TrackWidth float64
	LaneWidth  float64
	Closed     bool
}

// Snapshot copies the current state. After Close it keeps the counters but
// reports no chunks.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:              s.ticks,
		Distance:          s.distance,
		Offset:            -s.distance,
		NextSpawnZ:        s.streamer.State.NextSpawnZ,
		Lane:              s.lanes.Player.LaneIndex,
		TargetX:           s.lanes.TargetX(),
		Grounded:          s.contact.Grounded,
		TimeSinceGrounded: s.grounded.TimeSinceGrounded,
		Jumps:             s.jumps,
		Spawned:           s.spawned,
		Retired:           s.retired,
		LaneWidth:         s.cfg.Player.LaneWidth,
		Closed:            s.closed,
	}
	if chunk, ok := s.cfg.PrimaryChunk(); ok {
		snap.TrackWidth = chunk.Width
	}
	if !s.closed {
		snap.Chunks = s.streamer.Active()
		snap.PlayerPos = s.engine.Position(s.player)
		snap.PlayerVel = s.engine.Velocity(s.player)
	}
	return snap
}

// Meters is the whole distance traveled, used as the score.
func (s Snapshot) Meters() int {
	return int(s.Distance)
}

// WorldZ converts a root-local chunk coordinate to world space.
func (s Snapshot) WorldZ(localZ float64) float64 {
	return localZ + s.Offset
}
