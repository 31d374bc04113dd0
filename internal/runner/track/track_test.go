package track

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/ecs"
	"github.com/vovakirdan/tui-runner/internal/physics"
)

const (
	horizon   = 240.0
	despawn   = -50.0
	chunkLen  = 40.0
	fixedStep = 1.0 / 60
)

type fixture struct {
	scene    *ecs.World
	engine   *physics.World
	root     *WorldRoot
	streamer *Streamer
}

func newFixture(t *testing.T, defs ...ChunkDefinition) fixture {
	t.Helper()
	if len(defs) == 0 {
		defs = []ChunkDefinition{{Name: "dev", Geometry: "scenes/dev_chunk", Length: chunkLen, Width: 20}}
	}
	lib, err := NewLibrary(defs)
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	scene := ecs.NewWorld()
	engine := physics.NewWorld(scene, 9.81)
	root := NewWorldRoot(scene)
	s := NewStreamer(scene, engine, root, lib, Options{DespawnThreshold: despawn, Thickness: 0.1})
	return fixture{scene: scene, engine: engine, root: root, streamer: s}
}

func (f fixture) tick(t *testing.T, speed float64) TickReport {
	t.Helper()
	f.root.Advance(fixedStep, speed)
	rep, err := f.streamer.Tick(f.root.Offset(), horizon)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	return rep
}

func TestFirstTickFillsHorizon(t *testing.T) {
	f := newFixture(t)
	rep, err := f.streamer.Tick(0, horizon)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Spawned != 6 || rep.Retired != 0 {
		t.Fatalf("report = %+v, want 6 spawned", rep)
	}
	if f.streamer.State.NextSpawnZ != 240 {
		t.Fatalf("cursor = %v, want 240", f.streamer.State.NextSpawnZ)
	}
	if f.engine.Bodies() != 6 {
		t.Fatalf("colliders = %d, want 6", f.engine.Bodies())
	}

	// Same offset again is a no-op.
	rep, _ = f.streamer.Tick(0, horizon)
	if rep != (TickReport{}) {
		t.Fatalf("second tick = %+v, want nothing", rep)
	}
}

func TestScrollReachesSteadyWindow(t *testing.T) {
	f := newFixture(t)
	if _, err := f.streamer.Tick(0, horizon); err != nil {
		t.Fatal(err)
	}

	// 30 m/s for 10 s scrolls 300 units.
	for range 600 {
		f.tick(t, 30)
	}
	if d := f.root.Distance(); math.Abs(d-300) > 1e-6 {
		t.Fatalf("distance = %v, want 300", d)
	}
	off := f.root.Offset()
	active := f.streamer.Active()
	for _, c := range active {
		if c.EndZ < despawn-off {
			t.Fatalf("chunk ending at %v survived past threshold (offset %v)", c.EndZ, off)
		}
	}
	// Chunks ending at local 280..560 remain: world -20..260.
	if n := len(active); n != 8 {
		t.Fatalf("active chunks = %d, want 8", n)
	}
	if f.engine.Bodies() != len(active) {
		t.Fatalf("colliders = %d, chunks = %d", f.engine.Bodies(), len(active))
	}
}

func TestStreamingInvariants(t *testing.T) {
	f := newFixture(t)
	prevCursor := 0.0
	// Varying speed exercises partial and multi-chunk ticks.
	speeds := []float64{0, 12, 30, 55, 400, 3000, 7}
	for i := range 2000 {
		f.tick(t, speeds[i%len(speeds)])

		cursor := f.streamer.State.NextSpawnZ
		if cursor < prevCursor {
			t.Fatalf("tick %d: cursor went back from %v to %v", i, prevCursor, cursor)
		}
		prevCursor = cursor

		off := f.root.Offset()
		if cursor < -off+horizon {
			t.Fatalf("tick %d: cursor %v short of horizon %v", i, cursor, -off+horizon)
		}

		active := f.streamer.Active()
		if len(active) == 0 {
			t.Fatalf("tick %d: no chunks", i)
		}
		for j, c := range active {
			if c.EndZ-c.StartZ != chunkLen {
				t.Fatalf("tick %d: chunk %+v has wrong length", i, c)
			}
			if c.EndZ+off < despawn {
				t.Fatalf("tick %d: chunk %+v should have been retired", i, c)
			}
			if j > 0 && active[j-1].EndZ != c.StartZ {
				t.Fatalf("tick %d: gap or overlap between %+v and %+v", i, active[j-1], c)
			}
		}
		if last := active[len(active)-1]; last.EndZ != cursor {
			t.Fatalf("tick %d: last chunk ends at %v, cursor at %v", i, last.EndZ, cursor)
		}
	}
}

func TestRetiredChunkWasFullyBehindThreshold(t *testing.T) {
	f := newFixture(t)
	if _, err := f.streamer.Tick(0, horizon); err != nil {
		t.Fatal(err)
	}
	before := f.streamer.Active()

	// Chunk [0,40) ends at world z -49.5, just inside the threshold.
	f.root.Advance(1, 89.5)
	if _, err := f.streamer.Tick(f.root.Offset(), horizon); err != nil {
		t.Fatal(err)
	}
	if got := f.streamer.Active()[0]; got != before[0] {
		t.Fatalf("chunk retired while its end was at %v", before[0].EndZ+f.root.Offset())
	}

	f.root.Advance(1, 1)
	rep, err := f.streamer.Tick(f.root.Offset(), horizon)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Retired != 1 || f.streamer.Active()[0].StartZ != chunkLen {
		t.Fatalf("report %+v, first chunk %+v", rep, f.streamer.Active()[0])
	}
}

func TestNonPositiveLengthIsFatal(t *testing.T) {
	_, err := NewLibrary([]ChunkDefinition{{Name: "flat", Length: 0}})
	if !errors.Is(err, ErrNonPositiveChunkLength) {
		t.Fatalf("NewLibrary: got %v", err)
	}

	// A library that bypassed validation is still refused by Tick.
	f := newFixture(t)
	f.streamer.lib = &Library{defs: []ChunkDefinition{{Name: "bad", Length: -1, Width: 20}}}
	rep, err := f.streamer.Tick(0, horizon)
	if !errors.Is(err, ErrNonPositiveChunkLength) {
		t.Fatalf("Tick: got %v", err)
	}
	if rep.Spawned != 0 || f.streamer.State.NextSpawnZ != 0 {
		t.Fatalf("tick spawned %d chunks with a bad definition", rep.Spawned)
	}
}

func TestLibraryFromConfig(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Track
	lib, err := LibraryFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	def := lib.At(lib.Next())
	if def.Length != 40 || def.Geometry != "scenes/dev_chunk" || def.Difficulty != Easy {
		t.Fatalf("definition = %+v", def)
	}

	cfg.Chunks = []config.ChunkConfig{{Name: "x", Length: 10, Width: 10, Difficulty: "brutal"}}
	if _, err := LibraryFromConfig(cfg); !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("unknown difficulty: got %v", err)
	}
}

func TestDestroyTearsDownTrack(t *testing.T) {
	f := newFixture(t)
	if _, err := f.streamer.Tick(0, horizon); err != nil {
		t.Fatal(err)
	}
	if n := f.root.Destroy(); n != 7 {
		t.Fatalf("destroyed %d entities, want root + 6 chunks", n)
	}
	if f.scene.Len() != 0 || f.streamer.Chunks.Len() != 0 || f.engine.Bodies() != 0 {
		t.Fatalf("leftovers: entities=%d chunks=%d bodies=%d", f.scene.Len(), f.streamer.Chunks.Len(), f.engine.Bodies())
	}
}
