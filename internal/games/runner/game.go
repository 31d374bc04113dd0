// Package runner adapts the lane runner simulation to the arcade platform:
// it turns input frames into lane and jump commands, steps the level and
// draws a top-down view of the streamed track.
package runner

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/runner/sim"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// ID is the registry name of the runner.
const ID = "runner"

var (
	configPath string
	logger     = log.New(io.Discard)
)

// SetConfigPath sets the custom config path used by Reset.
func SetConfigPath(path string) {
	configPath = path
}

// SetLogger routes simulation logs for games created afterwards.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Game implements registry.Game on top of sim.Simulation.
type Game struct {
	level   *sim.Simulation
	cfg     *config.RunnerConfig // Overrides the config search when set
	runtime core.RuntimeConfig
	log     *log.Logger
	paused  bool
	err     error
	last    sim.Snapshot
}

// New creates a runner that loads its config on Reset.
func New() *Game {
	return &Game{log: logger}
}

// NewWithConfig creates a runner with a fixed configuration.
func NewWithConfig(cfg config.RunnerConfig) *Game {
	return &Game{cfg: &cfg, log: logger}
}

func (g *Game) ID() string {
	return ID
}

func (g *Game) Title() string {
	return "Lane Runner"
}

// Reset tears down the current level and starts a new one.
func (g *Game) Reset(runtime core.RuntimeConfig) error {
	g.runtime = runtime
	g.Finish()
	g.level = nil
	g.paused = false
	g.err = nil
	g.last = sim.Snapshot{}

	cfg, err := g.config()
	if err != nil {
		g.err = err
		return err
	}
	// The platform ticks at runtime.TickRate, so each step must cover one
	// platform tick of simulated time.
	if runtime.TickRate > 0 {
		cfg.Physics.TickRate = runtime.TickRate
	}
	level, err := sim.New(cfg, g.log)
	if err != nil {
		g.err = err
		return err
	}
	g.level = level
	g.last = level.Snapshot()
	return nil
}

func (g *Game) config() (config.RunnerConfig, error) {
	if g.cfg != nil {
		return *g.cfg, nil
	}
	cfg, err := config.LoadRunner(configPath)
	if err != nil {
		return config.RunnerConfig{}, fmt.Errorf("runner: %w", err)
	}
	return cfg, nil
}

// Step maps the frame's actions to commands in order and advances one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.level == nil {
		err := g.err
		if err == nil {
			err = errors.New("runner: level not started")
		}
		return core.StepResult{State: g.State(), Err: err}
	}
	if g.err != nil {
		return core.StepResult{State: g.State(), Err: g.err}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	for _, a := range in.Actions {
		switch a {
		case core.ActionLeft:
			g.level.Push(sim.MoveCommand{Delta: -1})
		case core.ActionRight:
			g.level.Push(sim.MoveCommand{Delta: 1})
		case core.ActionJump:
			g.level.Push(sim.JumpCommand{})
		}
	}

	if err := g.level.Step(); err != nil {
		g.err = err
	}
	g.last = g.level.Snapshot()
	return core.StepResult{State: g.State(), Err: g.err}
}

// State reports whole meters as the score. A halted level is game over.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.last.Meters(),
		GameOver: g.err != nil,
		Paused:   g.paused,
	}
}

// Snapshot returns the level state after the last tick.
func (g *Game) Snapshot() sim.Snapshot {
	return g.last
}

// RunRecord describes the current level for storage.
func (g *Game) RunRecord() storage.Run {
	return storage.Run{
		GameID:   ID,
		Source:   "play",
		Distance: g.last.Distance,
		Ticks:    g.last.Tick,
		Jumps:    g.last.Jumps,
		Spawned:  g.last.Spawned,
		Retired:  g.last.Retired,
	}
}

// Err returns the configuration error that halted the level, if any.
func (g *Game) Err() error {
	return g.err
}

// Finish closes the running level.
func (g *Game) Finish() {
	if g.level != nil {
		g.level.Close()
	}
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}
