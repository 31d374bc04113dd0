package runner

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/runner/sim"
	"github.com/vovakirdan/tui-runner/internal/runner/track"
)

// View scale of the top-down projection.
const (
	metersPerRow = 4.0
	colsPerMeter = 2.0
	rowsBehind   = 3
)

// Glyphs
const (
	EdgeChar     = '│'
	DividerChar  = '┊'
	SurfaceChar  = '·'
	SeamChar     = '─'
	PlayerChar   = '▲'
	AirborneChar = '◆'
	ShadowChar   = '○'
)

// Render draws the track from above with forward travel toward the top of
// the screen. The player's right hand (world -X) is drawn on the right.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	snap := g.last
	w, h := dst.Width(), dst.Height()
	if w < 20 || h < 8 {
		dst.DrawText(0, 0, "window too small")
		return
	}

	playerRow := h - 2 - rowsBehind
	center := w / 2
	halfTrack := snap.TrackWidth / 2

	for row := 1; row < h-1; row++ {
		// World Z interval covered by this row.
		zLo := float64(playerRow-row) * metersPerRow
		zHi := zLo + metersPerRow
		chunk, ok := chunkAt(snap, zLo)
		if !ok {
			continue
		}
		left := column(center, halfTrack)
		right := column(center, -halfTrack)
		for x := left + 1; x < right; x++ {
			dst.SetColored(x, row, SurfaceChar, core.ColorGray)
		}
		if seam := snap.WorldZ(chunk.EndZ); seam >= zLo && seam < zHi {
			dst.DrawHLine(left+1, row, right-left-1, SeamChar, core.ColorGray)
		}
		dst.SetColored(left, row, EdgeChar, core.ColorGreen)
		dst.SetColored(right, row, EdgeChar, core.ColorGreen)

		// Lane dividers scroll with the track.
		localZ := zLo - snap.Offset
		if int(math.Floor(localZ/metersPerRow))%2 == 0 {
			for _, x := range []float64{-snap.LaneWidth / 2, snap.LaneWidth / 2} {
				dst.SetColored(column(center, x), row, DividerChar, core.ColorCyan)
			}
		}
	}

	g.drawPlayer(dst, snap, center, playerRow)
	g.drawHUD(dst, snap)

	if g.paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.err != nil {
		drawCenteredMessage(dst, "LEVEL HALTED", g.err.Error())
	}
}

// column maps world X to a screen column.
func column(center int, x float64) int {
	return center - int(math.Round(x*colsPerMeter))
}

func chunkAt(snap sim.Snapshot, worldZ float64) (track.ActiveChunk, bool) {
	for _, c := range snap.Chunks {
		if worldZ >= snap.WorldZ(c.StartZ) && worldZ < snap.WorldZ(c.EndZ) {
			return c, true
		}
	}
	return track.ActiveChunk{}, false
}

func (g *Game) drawPlayer(dst *core.Screen, snap sim.Snapshot, center, row int) {
	col := column(center, snap.PlayerPos.X())
	if snap.Grounded {
		dst.SetColored(col, row, PlayerChar, core.ColorYellow)
		return
	}
	dst.SetColored(col, row, ShadowChar, core.ColorGray)
	// Height lifts the sprite one row per meter above standing.
	standing := g.standingHeight()
	lift := core.Clamp(int(snap.PlayerPos.Y()-standing), 0, row-1)
	dst.SetColored(col, row-lift, AirborneChar, core.ColorBrightWhite)
}

func (g *Game) standingHeight() float64 {
	if g.level == nil {
		return 0
	}
	p := g.level.Config().Player
	return p.CapsuleRadius + p.CapsuleHalfHeight
}

func (g *Game) drawHUD(dst *core.Screen, snap sim.Snapshot) {
	lanes := []string{"·", "·", "·"}
	// Lane -1 is the player's left, drawn first.
	lanes[snap.Lane+1] = "●"
	top := fmt.Sprintf(" %d m   lane %s   chunks %d   jumps %d ",
		snap.Meters(), strings.Join(lanes, " "), len(snap.Chunks), snap.Jumps)
	dst.DrawTextColored(1, 0, top, core.ColorBrightWhite)

	state := "air"
	if snap.Grounded {
		state = fmt.Sprintf("ground %.2fs", snap.TimeSinceGrounded)
	}
	bottom := fmt.Sprintf(" x %+.2f  y %.2f  vx %+.2f  %s ",
		snap.PlayerPos.X(), snap.PlayerPos.Y(), snap.PlayerVel.X(), state)
	dst.DrawTextColored(1, dst.Height()-1, bottom, core.ColorGray)
}

func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	if limit := dst.Width() - 6; len(subtitle) > limit && limit > 3 {
		subtitle = subtitle[:limit-3] + "..."
	}
	boxW := core.Max(len(title), len(subtitle)) + 4
	box := dst.Bounds().Centered(boxW, 5)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextColored(box.X+(boxW-len(title))/2, box.Y+1, title, core.ColorRed)
	dst.DrawText(box.X+(boxW-len(subtitle))/2, box.Y+3, subtitle)
}
