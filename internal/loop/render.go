package loop

import (
	"math"

	"github.com/tomz197/railshooter/internal/draw"
	"github.com/tomz197/railshooter/internal/object"
	"github.com/tomz197/railshooter/internal/physics"
)

// Visible slice of the world, seen from above. Logical canvas units are world
// units, so the canvas scale does the projection.
const (
	viewMinX = -10.0
	viewMaxX = 10.0
	viewMinZ = -36.0
	viewMaxZ = 10.0

	viewWidth  = viewMaxX - viewMinX
	viewHeight = viewMaxZ - viewMinZ
)

// view draws world actors onto a canvas.
type view struct {
	canvas *draw.Canvas
	poly   [3]draw.Point
}

func newView(c *draw.Canvas) *view {
	return &view{canvas: c}
}

// project maps a world position onto the canvas's logical plane.
func project(p physics.Vec3) draw.Point {
	return draw.Point{X: p.X - viewMinX, Y: p.Z - viewMinZ}
}

// drawWorld draws every active actor of the session.
func (v *view) drawWorld(s *Session) {
	c := v.canvas

	for _, p := range s.Particles() {
		if !p.Faded() {
			pt := project(p.Pos)
			c.SetFloat(pt.X, pt.Y)
		}
	}
	for _, e := range s.Enemies() {
		c.FillEllipse(project(e.Pos), object.EnemyRadius*0.8, object.EnemyRadius*0.8)
	}
	if b := s.Boss(); b.Active() {
		v.drawBoss(b)
	}
	for _, p := range s.PlayerBullets() {
		c.FillEllipse(project(p.Pos), object.ProjectileRadius, object.ProjectileRadius)
	}
	for _, p := range s.BossBullets() {
		c.FillEllipse(project(p.Pos), object.ProjectileRadius*2, object.ProjectileRadius*2)
	}
	if pl := s.Player(); pl.Alive() {
		v.drawPlayer(pl)
	}
}

// drawPlayer draws the craft as a triangle pointing along its aim.
func (v *view) drawPlayer(p *object.Player) {
	dir := p.AimDirection()
	side := physics.V3(-dir.Z, 0, dir.X) // Aim rotated a quarter turn
	nose := p.Pos.Add(dir.Scale(object.PlayerRadius * 1.2))
	left := p.Pos.Sub(dir.Scale(object.PlayerRadius * 0.8)).Sub(side.Scale(object.PlayerRadius * 0.8))
	right := p.Pos.Sub(dir.Scale(object.PlayerRadius * 0.8)).Add(side.Scale(object.PlayerRadius * 0.8))

	v.poly = [3]draw.Point{project(nose), project(left), project(right)}
	v.canvas.DrawPolygon(v.poly[:], true)
}

// drawBoss draws an outlined hull; it is filled while rushing.
func (v *view) drawBoss(b *object.Boss) {
	c := v.canvas
	center := project(b.Pos)
	r := object.BossRadius
	if b.Rushing() {
		c.FillEllipse(center, r, r)
		return
	}

	const segments = 24
	prev := draw.Point{X: center.X + r, Y: center.Y}
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		next := draw.Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
		c.DrawLine(prev, next)
		prev = next
	}
	c.FillEllipse(center, r*0.4, r*0.4)
}
