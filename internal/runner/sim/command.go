package sim

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Command is a decoded player command, consumed on the next Step.
type Command interface {
	fmt.Stringer
	command()
}

// MoveCommand shifts the lane target by the sign of Delta.
type MoveCommand struct {
	Delta int
}

// JumpCommand requests a jump. Several in one tick count as one.
type JumpCommand struct{}

func (MoveCommand) command() {}
func (JumpCommand) command() {}

func (m MoveCommand) String() string {
	switch {
	case m.Delta < 0:
		return "L"
	case m.Delta > 0:
		return "R"
	default:
		return "-"
	}
}

func (JumpCommand) String() string { return "J" }

// ScriptEntry schedules Command before the step that starts at Tick.
type ScriptEntry struct {
	Tick    uint64
	Command Command
}

// Script is a tick-ordered command schedule for headless runs.
type Script []ScriptEntry

// ParseScript parses a comma-separated list such as "R@10,J@60,L@120",
// where L, R and J are left, right and jump and the number is the tick.
func ParseScript(s string) (Script, error) {
	var script Script
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, at, ok := strings.Cut(field, "@")
		if !ok {
			return nil, fmt.Errorf("sim: script entry %q: missing @tick", field)
		}
		tick, err := strconv.ParseUint(strings.TrimSpace(at), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sim: script entry %q: %w", field, err)
		}
		var cmd Command
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case "L":
			cmd = MoveCommand{Delta: -1}
		case "R":
			cmd = MoveCommand{Delta: 1}
		case "J":
			cmd = JumpCommand{}
		default:
			return nil, fmt.Errorf("sim: script entry %q: unknown command %q", field, name)
		}
		script = append(script, ScriptEntry{Tick: tick, Command: cmd})
	}
	slices.SortStableFunc(script, func(a, b ScriptEntry) int {
		switch {
		case a.Tick < b.Tick:
			return -1
		case a.Tick > b.Tick:
			return 1
		}
		return 0
	})
	return script, nil
}

func (s Script) String() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = fmt.Sprintf("%s@%d", e.Command, e.Tick)
	}
	return strings.Join(parts, ",")
}
