// Package sim runs one runner level as a fixed-step pipeline: scroll the
// world root, stream chunks, probe the ground, steer the player, step
// physics. All level state lives in Simulation and every field has a
// single writer.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/ecs"
	"github.com/vovakirdan/tui-runner/internal/physics"
	"github.com/vovakirdan/tui-runner/internal/runner/locomotion"
	"github.com/vovakirdan/tui-runner/internal/runner/track"
)

// ErrClosed is returned by Step after Close.
var ErrClosed = errors.New("sim: level closed")

// Simulation is one running level.
type Simulation struct {
	cfg    config.RunnerConfig
	dt     float64
	log    *log.Logger
	scene  *ecs.World
	engine physics.Engine

	root     *track.WorldRoot
	streamer *track.Streamer
	probe    *locomotion.GroundProbe
	lanes    *locomotion.LaneController

	player   ecs.Entity
	grounded locomotion.Grounded
	contact  locomotion.Contact

	queue    []Command
	ticks    uint64
	distance float64
	jumps    int
	spawned  int
	retired  int
	closed   bool
}

// New validates cfg and builds a level on the built-in physics engine.
// A nil logger discards output.
func New(cfg config.RunnerConfig, logger *log.Logger) (*Simulation, error) {
	scene := ecs.NewWorld()
	return NewWithEngine(cfg, scene, physics.NewWorld(scene, cfg.Physics.Gravity), logger)
}

// NewWithEngine builds a level whose bodies live in engine. Positions of
// the world root and chunks are kept in scene.
func NewWithEngine(cfg config.RunnerConfig, scene *ecs.World, engine physics.Engine, logger *log.Logger) (*Simulation, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		return nil, fmt.Errorf("sim: %w", err)
	}
	lib, err := track.LibraryFromConfig(cfg.Track)
	if err != nil {
		logger.Error("invalid chunk library", "err", err)
		return nil, fmt.Errorf("sim: %w", err)
	}

	s := &Simulation{
		cfg:    cfg,
		dt:     cfg.Physics.FixedDelta(),
		log:    logger,
		scene:  scene,
		engine: engine,
		probe:  locomotion.NewGroundProbe(engine, cfg.Probe),
		lanes:  locomotion.NewLaneController(cfg.Player, cfg.Locomotion),
	}
	s.root = track.NewWorldRoot(scene)
	s.streamer = track.NewStreamer(scene, engine, s.root, lib, track.Options{
		DespawnThreshold: cfg.Track.DespawnThreshold,
		Thickness:        cfg.Track.ChunkThickness,
	})

	s.player = scene.Spawn(mgl64.Vec3{0, cfg.Player.SpawnHeight, 0}, ecs.Nil)
	err = engine.AddBody(s.player, physics.BodyDesc{
		Kind:   physics.Dynamic,
		Shape:  physics.Capsule{Radius: cfg.Player.CapsuleRadius, HalfHeight: cfg.Player.CapsuleHalfHeight},
		Mass:   cfg.Player.Mass,
		Locked: physics.AxisZ,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("sim: player body: %w", err)
	}
	if shape, _ := engine.Shape(s.player); !isCapsule(shape) {
		s.Close()
		err := fmt.Errorf("sim: %w: got %v", locomotion.ErrNonCapsuleCollider, shape)
		logger.Error("invalid player collider", "err", err)
		return nil, err
	}

	logger.Debug("level started",
		"chunk", lib.At(lib.Next()).Name,
		"speed", cfg.Track.ScrollSpeed,
		"horizon", cfg.Track.HorizonDistance,
		"dt", s.dt)
	return s, nil
}

func isCapsule(s physics.Shape) bool {
	_, ok := s.(physics.Capsule)
	return ok
}

// Push queues cmd for the next Step.
func (s *Simulation) Push(cmd Command) {
	s.queue = append(s.queue, cmd)
}

// Step advances the level by one fixed tick. Any error is a configuration
// error and leaves the level halted.
func (s *Simulation) Step() error {
	if s.closed {
		return ErrClosed
	}
	cmds := s.queue
	s.queue = nil

	s.root.Advance(s.dt, s.cfg.Track.ScrollSpeed)
	s.distance = s.root.Distance()

	rep, err := s.streamer.Tick(s.root.Offset(), s.cfg.Track.HorizonDistance)
	if err != nil {
		s.log.Error("chunk streaming failed", "tick", s.ticks, "err", err)
		s.Close()
		return fmt.Errorf("sim: tick %d: %w", s.ticks, err)
	}
	if rep.Spawned > 0 || rep.Retired > 0 {
		s.spawned += rep.Spawned
		s.retired += rep.Retired
		s.log.Debug("chunks streamed",
			"tick", s.ticks,
			"spawned", rep.Spawned,
			"retired", rep.Retired,
			"next_spawn_z", s.streamer.State.NextSpawnZ,
			"active", s.streamer.Chunks.Len())
	}

	shape, _ := s.engine.Shape(s.player)
	s.contact, err = s.probe.Evaluate(s.player, s.engine.Position(s.player), shape, s.dt, &s.grounded)
	if err != nil {
		s.log.Error("ground probe failed", "tick", s.ticks, "err", err)
		s.Close()
		return fmt.Errorf("sim: tick %d: %w", s.ticks, err)
	}

	jump := false
	for _, c := range cmds {
		switch c := c.(type) {
		case MoveCommand:
			s.lanes.Shift(c.Delta)
		case JumpCommand:
			jump = true
		}
	}
	s.lanes.Apply(s.engine, s.player)
	if jump {
		if s.lanes.Jump(s.engine, s.player, s.grounded) {
			s.jumps++
			s.log.Debug("jump", "tick", s.ticks, "grounded_for", s.grounded.TimeSinceGrounded)
		} else {
			s.log.Debug("jump ignored", "tick", s.ticks, "grounded_for", s.grounded.TimeSinceGrounded)
		}
	}

	s.engine.Step(s.dt)
	s.ticks++
	return nil
}

// Run steps n ticks, pushing script entries before the step that starts at
// their tick. It stops early when ctx is cancelled.
func (s *Simulation) Run(ctx context.Context, n uint64, script Script) error {
	next := 0
	for end := s.ticks + n; s.ticks < end; {
		if err := ctx.Err(); err != nil {
			return err
		}
		for next < len(script) && script[next].Tick <= s.ticks {
			s.Push(script[next].Command)
			next++
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Close destroys the world root with every chunk, and the player.
// Calling it twice is a no-op.
func (s *Simulation) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, e := range s.streamer.Chunks.Entities() {
		s.engine.RemoveBody(e)
	}
	s.engine.RemoveBody(s.player)
	n := s.root.Destroy()
	if s.scene.Alive(s.player) {
		n += s.scene.DestroyRecursive(s.player)
	}
	s.log.Debug("level closed", "entities", n, "distance", s.distance)
}

// Closed reports whether the level has been torn down.
func (s *Simulation) Closed() bool {
	return s.closed
}

// Config returns the configuration the level was built with.
func (s *Simulation) Config() config.RunnerConfig {
	return s.cfg
}
