package track

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-runner/internal/config"
)

var (
	// ErrNonPositiveChunkLength would make the spawn loop spin forever.
	ErrNonPositiveChunkLength = errors.New("track: chunk length must be positive")
	ErrEmptyLibrary           = errors.New("track: no chunk definitions")
	ErrUnknownDifficulty      = errors.New("track: unknown difficulty")
)

// Difficulty tags a chunk definition. It is parsed but not used for selection.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty accepts easy, medium or hard. Empty means easy.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Easy, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// GeometryRef is an opaque handle to renderable geometry.
type GeometryRef string

// ChunkDefinition is an immutable chunk template.
type ChunkDefinition struct {
	Name       string
	Geometry   GeometryRef
	Length     float64
	Width      float64
	Difficulty Difficulty
}

func (d ChunkDefinition) validate() error {
	if d.Length <= 0 {
		return fmt.Errorf("%w: %q has length %g", ErrNonPositiveChunkLength, d.Name, d.Length)
	}
	return nil
}

// Library is the read-only set of chunk definitions.
type Library struct {
	defs []ChunkDefinition
}

// NewLibrary validates and copies defs.
func NewLibrary(defs []ChunkDefinition) (*Library, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyLibrary
	}
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return nil, err
		}
	}
	return &Library{defs: append([]ChunkDefinition(nil), defs...)}, nil
}

// LibraryFromConfig builds a library from the track section of the config.
func LibraryFromConfig(cfg config.TrackConfig) (*Library, error) {
	defs := make([]ChunkDefinition, 0, len(cfg.Chunks))
	for _, c := range cfg.Chunks {
		diff, err := ParseDifficulty(c.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("track: chunk %q: %w", c.Name, err)
		}
		defs = append(defs, ChunkDefinition{
			Name:       c.Name,
			Geometry:   GeometryRef(c.Geometry),
			Length:     c.Length,
			Width:      c.Width,
			Difficulty: diff,
		})
	}
	return NewLibrary(defs)
}

func (l *Library) Len() int {
	return len(l.defs)
}

// At returns definition i.
func (l *Library) At(i int) ChunkDefinition {
	return l.defs[i]
}

// Next returns the index of the definition to spawn. Only the first
// definition is ever chosen.
func (l *Library) Next() int {
	return 0
}
