package track

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/ecs"
	"github.com/vovakirdan/tui-runner/internal/physics"
)

// Colliders is the slice of physics.Engine the streamer needs.
type Colliders interface {
	AddBody(e ecs.Entity, desc physics.BodyDesc) error
	RemoveBody(e ecs.Entity)
}

// State is the spawn cursor, in root-local Z. It only grows, by whole
// chunk lengths.
type State struct {
	NextSpawnZ float64
}

// ActiveChunk is the side-table row of a spawned chunk.
type ActiveChunk struct {
	StartZ     float64
	EndZ       float64
	Definition int
}

// TickReport summarizes one streamer tick.
type TickReport struct {
	Spawned int
	Retired int
}

// Options tunes the streamer.
type Options struct {
	// DespawnThreshold is the world Z behind the camera past which a chunk's
	// end retires it. Negative.
	DespawnThreshold float64
	// Thickness of the chunk collider. Its top face lies at y=0.
	Thickness float64
}

// Streamer spawns chunks ahead of the horizon and retires them behind the
// despawn threshold. It is the only writer of State and chunk lifetimes.
type Streamer struct {
	State  State
	Chunks *ecs.Store[ActiveChunk]

	scene     *ecs.World
	colliders Colliders
	root      *WorldRoot
	lib       *Library
	opts      Options
}

// NewStreamer creates a streamer with the cursor at 0.
func NewStreamer(scene *ecs.World, colliders Colliders, root *WorldRoot, lib *Library, opts Options) *Streamer {
	return &Streamer{
		Chunks:    ecs.NewStore[ActiveChunk](scene.Registry),
		scene:     scene,
		colliders: colliders,
		root:      root,
		lib:       lib,
		opts:      opts,
	}
}

// Tick spawns while the cursor is short of -worldOffset+horizon, then
// retires every chunk whose end has passed the despawn threshold.
func (s *Streamer) Tick(worldOffset, horizon float64) (TickReport, error) {
	var rep TickReport
	for s.State.NextSpawnZ < -worldOffset+horizon {
		idx := s.lib.Next()
		def := s.lib.At(idx)
		if err := def.validate(); err != nil {
			return rep, err
		}
		if err := s.spawn(idx, def); err != nil {
			return rep, err
		}
		rep.Spawned++
	}

	for _, e := range s.Chunks.Entities() {
		c, _ := s.Chunks.Get(e)
		if c.EndZ+worldOffset < s.opts.DespawnThreshold {
			s.colliders.RemoveBody(e)
			s.scene.DestroyRecursive(e)
			rep.Retired++
		}
	}
	return rep, nil
}

func (s *Streamer) spawn(idx int, def ChunkDefinition) error {
	start := s.State.NextSpawnZ
	e := s.scene.Spawn(mgl64.Vec3{0, 0, start}, s.root.Entity())
	err := s.colliders.AddBody(e, physics.BodyDesc{
		Kind:   physics.Kinematic,
		Shape:  physics.NewCuboid(def.Width, s.opts.Thickness, def.Length),
		Offset: mgl64.Vec3{0, -s.opts.Thickness / 2, def.Length / 2},
	})
	if err != nil {
		s.scene.DestroyRecursive(e)
		return fmt.Errorf("track: spawn chunk at %g: %w", start, err)
	}
	s.Chunks.Set(e, ActiveChunk{StartZ: start, EndZ: start + def.Length, Definition: idx})
	s.State.NextSpawnZ = start + def.Length
	return nil
}

// Active returns the live chunks ordered by StartZ.
func (s *Streamer) Active() []ActiveChunk {
	out := make([]ActiveChunk, 0, s.Chunks.Len())
	s.Chunks.Each(func(_ ecs.Entity, c *ActiveChunk) {
		out = append(out, *c)
	})
	slices.SortFunc(out, func(a, b ActiveChunk) int {
		return cmp.Compare(a.StartZ, b.StartZ)
	})
	return out
}
