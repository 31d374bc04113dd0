package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// RunReporter is implemented by games whose levels are recorded in storage.
type RunReporter interface {
	RunRecord() storage.Run
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       *KeyMapper
	help       help.Model
	log        *log.Logger
	inputFrame core.InputFrame
	gameState  core.GameState
	err        error // Configuration error that halted the level
	quitting   bool
	runSaved   bool // Whether the current level has been recorded
}

// NewModel creates a Bubble Tea model for game. store and logger may be nil.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, screenRows(cfg.ScreenH)),
		store:      store,
		config:     cfg,
		keys:       NewKeyMapper(),
		help:       help.New(),
		log:        logger,
		inputFrame: core.NewInputFrame(),
	}
}

// screenRows leaves the last terminal row for the help bar.
func screenRows(h int) int {
	return max(h-1, 1)
}

// Init starts the level and the tick loop.
func (m Model) Init() tea.Cmd {
	if err := m.game.Reset(m.config); err != nil {
		// The game keeps the error and reports it on the first tick.
		m.log.Error("level failed to start", "game", m.game.ID(), "err", err)
	}
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, screenRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if quit := m.keys.MapKeyToFrame(msg, &m.inputFrame); quit {
		m.finish()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) {
		m.saveRun()
		if err := m.game.Reset(m.config); err != nil {
			m.log.Error("level failed to restart", "game", m.game.ID(), "err", err)
		}
		m.gameState = m.game.State()
		m.runSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()
	m.gameState = result.State

	if result.Err != nil {
		m.log.Error("level halted", "game", m.game.ID(), "err", result.Err)
		m.err = result.Err
		m.finish()
		return m, tea.Quit
	}
	return m, tickCmd(m.config.TickRate)
}

// finish records the run and releases the level.
func (m *Model) finish() {
	m.saveRun()
	if f, ok := m.game.(registry.Finisher); ok {
		f.Finish()
	}
}

// saveRun stores the current level once. Failures are logged, never fatal.
func (m *Model) saveRun() {
	if m.runSaved || m.store == nil {
		return
	}
	reporter, ok := m.game.(RunReporter)
	if !ok {
		return
	}
	run := reporter.RunRecord()
	if run.Distance <= 0 {
		return
	}
	m.runSaved = true
	id, err := m.store.SaveRun(run)
	if err != nil {
		m.log.Warn("run not saved", "err", err)
		return
	}
	m.log.Info("run saved", "id", id, "distance", run.Distance, "jumps", run.Jumps)
}

// saveScreenshot writes the current screen as text under ~/.runner/screenshots.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".runner", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("screenshot failed", "err", err)
		return
	}
	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("screenshot failed", "err", err)
	}
}

// Err returns the configuration error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the game screen and the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys.Keys()))
}

// Run plays game until the player quits. A configuration error that halts
// the level is returned after the terminal is restored.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	p := tea.NewProgram(
		NewModel(game, store, cfg, logger),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
