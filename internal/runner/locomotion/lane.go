package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/ecs"
	"github.com/vovakirdan/tui-runner/internal/physics"
)

// MaxLane bounds the lane index to [-MaxLane, MaxLane].
const MaxLane = 1

// Body is the part of physics.Engine the controller drives.
type Body interface {
	Mass(e ecs.Entity) float64
	Position(e ecs.Entity) mgl64.Vec3
	Velocity(e ecs.Entity) mgl64.Vec3
	ApplyForce(e ecs.Entity, force mgl64.Vec3)
	ApplyImpulse(e ecs.Entity, impulse mgl64.Vec3)
}

// Player is the lane state of the player.
type Player struct {
	LaneIndex int
}

// LaneController steers the player toward its lane with a PD force scaled
// by mass and fires gated jump impulses.
type LaneController struct {
	Player Player

	LaneWidth float64
	KpBase    float64
	KdBase    float64
	JumpBase  float64
	JumpGrace float64
}

// NewLaneController builds a controller in the center lane.
func NewLaneController(player config.PlayerConfig, loco config.LocomotionConfig) *LaneController {
	return &LaneController{
		LaneWidth: player.LaneWidth,
		KpBase:    loco.Kp,
		KdBase:    loco.Kd,
		JumpBase:  loco.JumpImpulse,
		JumpGrace: loco.JumpGrace,
	}
}

// Shift moves the lane target by the sign of delta, clamped to the outer lanes.
func (c *LaneController) Shift(delta int) {
	c.Player.LaneIndex = core.Clamp(c.Player.LaneIndex+core.Sign(delta), -MaxLane, MaxLane)
}

// TargetX is the lateral target of the current lane. The player faces +Z
// with +Y up, so its right hand points to -X and lanes are mirrored.
func (c *LaneController) TargetX() float64 {
	return float64(c.Player.LaneIndex) * -c.LaneWidth
}

// Apply queues the PD steering force for this tick and returns it.
func (c *LaneController) Apply(b Body, e ecs.Entity) mgl64.Vec3 {
	m := b.Mass(e)
	x := b.Position(e).X()
	vx := b.Velocity(e).X()
	fx := c.KpBase*m*(c.TargetX()-x) + c.KdBase*m*(-vx)
	f := mgl64.Vec3{fx, 0, 0}
	b.ApplyForce(e, f)
	return f
}

// Jump queues an upward impulse if the player has been grounded longer than
// the grace period. It reports whether the impulse was applied.
func (c *LaneController) Jump(b Body, e ecs.Entity, g Grounded) bool {
	if g.TimeSinceGrounded <= c.JumpGrace {
		return false
	}
	b.ApplyImpulse(e, physics.Up.Mul(c.JumpBase*b.Mass(e)))
	return true
}
