package tui

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{runeKey("a"), core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{runeKey("d"), core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionJump, false},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump, false},
		{runeKey("p"), core.ActionPause, false},
		{runeKey("r"), core.ActionRestart, false},
		{runeKey("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runeKey("x"), core.ActionNone, false},
	}
	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	if got := km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyEnter}); got != MenuActionSelect {
		t.Errorf("enter = %v", got)
	}
	if got := km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyTab}); got != MenuActionScoreboard {
		t.Errorf("tab = %v", got)
	}
	if got := km.MapKeyToMenuAction(runeKey("j")); got != MenuActionDown {
		t.Errorf("j = %v", got)
	}
}

type stubGame struct {
	frames   []core.InputFrame
	resets   int
	finished bool
	distance float64
	stepErr  error
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) error {
	g.resets++
	g.distance = 0
	return nil
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.frames = append(g.frames, core.InputFrame{Actions: slices.Clone(in.Actions)})
	g.distance += 10
	return core.StepResult{State: g.State(), Err: g.stepErr}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.DrawTextColored(0, 0, "stub", core.ColorYellow)
}

func (g *stubGame) State() core.GameState {
	return core.GameState{Score: int(g.distance), GameOver: g.stepErr != nil}
}

func (g *stubGame) Finish() { g.finished = true }

func (g *stubGame) RunRecord() storage.Run {
	return storage.Run{GameID: "stub", Distance: g.distance}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelFeedsKeysInOrder(t *testing.T) {
	game := &stubGame{}
	m := NewModel(game, nil, core.DefaultConfig(), nil)
	m.Init()

	m, _ = update(t, m, runeKey("d"))
	m, _ = update(t, m, runeKey("d"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick did not schedule the next tick")
	}
	m, _ = update(t, m, TickMsg(time.Now()))

	if len(game.frames) != 2 {
		t.Fatalf("steps = %d, want 2", len(game.frames))
	}
	want := []core.Action{core.ActionRight, core.ActionRight, core.ActionJump}
	got := game.frames[0].Actions
	if len(got) != len(want) {
		t.Fatalf("first frame = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("first frame = %v, want %v", got, want)
		}
	}
	if len(game.frames[1].Actions) != 0 {
		t.Fatalf("second frame not cleared: %v", game.frames[1].Actions)
	}
}

func TestQuitSavesRunOnce(t *testing.T) {
	store := openStore(t)
	game := &stubGame{}
	m := NewModel(game, store, core.DefaultConfig(), nil)
	m.Init()

	for range 3 {
		m, _ = update(t, m, TickMsg(time.Now()))
	}
	m, cmd := update(t, m, runeKey("q"))
	if cmd == nil || !game.finished {
		t.Fatal("quit did not finish the game")
	}
	if m.View() != "" {
		t.Fatal("view not blank after quit")
	}

	runs, err := store.TopRuns("stub", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Distance != 30 {
		t.Fatalf("runs = %+v", runs)
	}
}

func TestRestartSavesAndResets(t *testing.T) {
	store := openStore(t)
	game := &stubGame{}
	m := NewModel(game, store, core.DefaultConfig(), nil)
	m.Init()

	m, _ = update(t, m, TickMsg(time.Now()))
	m, _ = update(t, m, runeKey("r"))
	m, _ = update(t, m, TickMsg(time.Now()))
	if game.resets != 2 {
		t.Fatalf("resets = %d, want 2", game.resets)
	}
	if best, _ := store.BestDistance("stub"); best != 10 {
		t.Fatalf("best distance = %v, want 10", best)
	}
}

func TestStepErrorEndsProgram(t *testing.T) {
	game := &stubGame{stepErr: errors.New("track: chunk length must be positive")}
	m := NewModel(game, nil, core.DefaultConfig(), nil)
	m.Init()

	m, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("halted level did not quit")
	}
	if m.Err() == nil || !game.finished {
		t.Fatalf("err = %v, finished = %v", m.Err(), game.finished)
	}
}

func TestViewIncludesHelpBar(t *testing.T) {
	m := NewModel(&stubGame{}, nil, core.RuntimeConfig{ScreenW: 100, ScreenH: 10, TickRate: 60}, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 10})
	view := m.View()
	if !strings.Contains(view, "stub") || !strings.Contains(view, "jump") {
		t.Fatalf("view = %q", view)
	}
	if lines := strings.Count(view, "\n") + 1; lines != 10 {
		t.Fatalf("view has %d lines, want 10", lines)
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawTextColored(0, 0, "ab", core.ColorGreen)
	s.DrawText(2, 0, "cd")
	out := RenderScreen(s)
	if !strings.Contains(out, "a") || !strings.Contains(out, "cd") || strings.Count(out, "\n") != 1 {
		t.Fatalf("RenderScreen = %q", out)
	}
}
