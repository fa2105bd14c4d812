package preview

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/physical-layout/pkg/math"
	"github.com/Faultbox/physical-layout/pkg/transform"
)

// Ray is a world-space ray with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// ScreenToRay converts pixel coordinates to a world-space ray through the
// near and far planes of invViewProj.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near := unproject(invViewProj, ndcX, ndcY, -1)
	far := unproject(invViewProj, ndcX, ndcY, 1)
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, x, y, z float32) math.Vec3 {
	p := inv.MulVec4(math.Vec4{x, y, z, 1})
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectGround intersects the ray with the horizontal plane Z = height.
func (r Ray) IntersectGround(height float32) (math.Vec3, bool) {
	if math32.Abs(r.Direction.Z) < 1e-6 {
		return math.Vec3{}, false
	}
	t := (height - r.Origin.Z) / r.Direction.Z
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}

// GroundHit converts a ground intersection into a surface hit for placement.
func GroundHit(p math.Vec3) transform.Hit {
	return transform.Hit{Location: p, Normal: math.UnitZ}
}
