package runner

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/registry"
)

func newGame(t *testing.T) *Game {
	t.Helper()
	g := NewWithConfig(config.DefaultRunnerConfig())
	if err := g.Reset(core.DefaultConfig()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	t.Cleanup(g.Finish)
	return g
}

func stepN(t *testing.T, g *Game, n int, actions ...core.Action) {
	t.Helper()
	for i := range n {
		in := core.NewInputFrame()
		if i == 0 {
			for _, a := range actions {
				in.Set(a)
			}
		}
		if res := g.Step(in); res.Err != nil {
			t.Fatalf("step: %v", res.Err)
		}
	}
}

func findRune(s *core.Screen, r rune) (int, int, bool) {
	for y := range s.Height() {
		for x := range s.Width() {
			if s.Get(x, y) == r {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

func TestRegistered(t *testing.T) {
	if !registry.Exists(ID) {
		t.Fatalf("%q not registered", ID)
	}
}

func TestScoreIsWholeMeters(t *testing.T) {
	g := newGame(t)
	stepN(t, g, 120)
	// 30 m/s for 2 s.
	if s := g.State().Score; s < 59 || s > 60 {
		t.Fatalf("score = %d, want 60", s)
	}
	if g.State().GameOver {
		t.Fatal("healthy level reported game over")
	}
}

func TestRightInputDrawsPlayerOnTheRight(t *testing.T) {
	g := newGame(t)
	stepN(t, g, 60)
	stepN(t, g, 300, core.ActionRight)

	if lane := g.Snapshot().Lane; lane != 1 {
		t.Fatalf("lane = %d, want 1", lane)
	}
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	x, _, ok := findRune(screen, PlayerChar)
	if !ok {
		t.Fatalf("player not drawn:\n%s", screen.String())
	}
	if x != 50 {
		t.Fatalf("player column = %d, want 50 (center 40 + 5 m)", x)
	}
	if hud, _, _ := strings.Cut(screen.String(), "\n"); !strings.Contains(hud, "lane · · ●") {
		t.Fatalf("HUD = %q", hud)
	}
}

func TestTwoPressesInOneFrameShiftTwoLanes(t *testing.T) {
	g := newGame(t)
	stepN(t, g, 1, core.ActionLeft, core.ActionLeft, core.ActionRight)
	if lane := g.Snapshot().Lane; lane != 0 {
		t.Fatalf("lane = %d, want -1 then clamped back to 0", lane)
	}
}

func TestJumpInput(t *testing.T) {
	g := newGame(t)
	stepN(t, g, 120)
	stepN(t, g, 10, core.ActionJump)
	snap := g.Snapshot()
	if snap.Jumps != 1 || snap.Grounded {
		t.Fatalf("jumps %d grounded %v", snap.Jumps, snap.Grounded)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if _, _, ok := findRune(screen, AirborneChar); !ok {
		t.Fatal("airborne player not drawn")
	}
}

func TestPauseFreezesLevel(t *testing.T) {
	g := newGame(t)
	stepN(t, g, 10)
	tick := g.Snapshot().Tick

	stepN(t, g, 30, core.ActionPause)
	if !g.State().Paused || g.Snapshot().Tick != tick {
		t.Fatalf("paused %v, tick %d -> %d", g.State().Paused, tick, g.Snapshot().Tick)
	}

	stepN(t, g, 1, core.ActionPause)
	if g.State().Paused || g.Snapshot().Tick != tick+1 {
		t.Fatal("level did not resume")
	}
}

func TestConfigurationErrorHaltsLevel(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Player.CapsuleRadius = 0
	g := NewWithConfig(cfg)

	err := g.Reset(core.DefaultConfig())
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("Reset = %v", err)
	}
	res := g.Step(core.NewInputFrame())
	if res.Err == nil || !res.State.GameOver {
		t.Fatalf("Step on halted level = %+v", res)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "LEVEL HALTED") {
		t.Fatalf("no diagnostic drawn:\n%s", screen.String())
	}
}

func TestResetStartsOver(t *testing.T) {
	g := newGame(t)
	stepN(t, g, 100, core.ActionRight)
	if err := g.Reset(core.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	snap := g.Snapshot()
	if snap.Tick != 0 || snap.Distance != 0 || snap.Lane != 0 {
		t.Fatalf("snapshot after reset = %+v", snap)
	}
}

func TestRunRecord(t *testing.T) {
	g := newGame(t)
	stepN(t, g, 120)
	stepN(t, g, 1, core.ActionJump)

	r := g.RunRecord()
	if r.GameID != ID || r.Source != "play" || r.Ticks != 121 || r.Jumps != 1 {
		t.Fatalf("record = %+v", r)
	}
	if r.Spawned != 8 || r.Retired != 0 || r.Distance <= 60 {
		t.Fatalf("record = %+v", r)
	}
}

func TestScrollFollowsPlatformTickRate(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	for _, rate := range []int{30, 60, 120} {
		g := NewWithConfig(cfg)
		rt := core.DefaultConfig()
		rt.TickRate = rate
		if err := g.Reset(rt); err != nil {
			t.Fatalf("Reset at %d Hz: %v", rate, err)
		}
		stepN(t, g, rate) // one second of platform ticks
		if d := g.Snapshot().Distance; math.Abs(d-cfg.Track.ScrollSpeed) > 1e-6 {
			t.Errorf("%d Hz: distance after 1 s = %v, want %v", rate, d, cfg.Track.ScrollSpeed)
		}
		g.Finish()
	}
}
