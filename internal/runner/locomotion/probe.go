// Package locomotion drives the player body: a ground probe that tracks
// contact dwell time and a lane controller that steers with a PD force and
// gates jumps on that dwell time.
package locomotion

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/ecs"
	"github.com/vovakirdan/tui-runner/internal/physics"
)

// ErrNonCapsuleCollider is returned when the probed body is not a capsule.
var ErrNonCapsuleCollider = errors.New("locomotion: ground probe needs a capsule collider")

// ShapeCaster runs shape casts against the physics scene.
type ShapeCaster interface {
	CastShape(q physics.CastQuery) (physics.Hit, bool)
}

// Grounded is the contact dwell timer. Only GroundProbe writes it.
type Grounded struct {
	TimeSinceGrounded float64
}

// Contact is the outcome of one probe.
type Contact struct {
	Grounded bool
	Hit      physics.Hit
	Found    bool // a surface was hit, steep or not
}

// GroundProbe casts a slightly narrower sphere from just above the bottom of
// the player's capsule and counts consecutive grounded time.
type GroundProbe struct {
	Caster      ShapeCaster
	Skin        float64
	RadiusScale float64
	MaxDistance float64
	MinSlopeCos float64
}

// NewGroundProbe builds a probe from the probe config section.
func NewGroundProbe(caster ShapeCaster, cfg config.ProbeConfig) *GroundProbe {
	return &GroundProbe{
		Caster:      caster,
		Skin:        cfg.Skin,
		RadiusScale: cfg.RadiusScale,
		MaxDistance: cfg.MaxDistance,
		MinSlopeCos: cfg.MinSlopeCos,
	}
}

// Evaluate probes below pos and updates g: grounded adds dt, anything else
// resets it to zero.
func (p *GroundProbe) Evaluate(e ecs.Entity, pos mgl64.Vec3, shape physics.Shape, dt float64, g *Grounded) (Contact, error) {
	capsule, ok := shape.(physics.Capsule)
	if !ok {
		return Contact{}, fmt.Errorf("%w: got %v", ErrNonCapsuleCollider, shape)
	}

	origin := pos.Sub(physics.Up.Mul(capsule.HalfHeight + capsule.Radius - p.Skin))
	hit, found := p.Caster.CastShape(physics.CastQuery{
		Shape:       physics.Sphere{Radius: capsule.Radius * p.RadiusScale},
		Origin:      origin,
		Direction:   physics.Down,
		MaxDistance: p.MaxDistance,
		Exclude:     []ecs.Entity{e},
	})

	c := Contact{Hit: hit, Found: found}
	c.Grounded = found && hit.Normal.Dot(physics.Up) > p.MinSlopeCos
	if c.Grounded {
		g.TimeSinceGrounded += dt
	} else {
		g.TimeSinceGrounded = 0
	}
	return c, nil
}
