package transform

import "github.com/go-gl/mathgl/mgl64"

// SafeNormalize returns v scaled to unit length, or the zero vector when v
// has no length.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	if v.Len() == 0 {
		return mgl64.Vec3{}
	}
	return v.Normalize()
}

// Project returns the component of v along n, scaled by the length of n.
func Project(v, n mgl64.Vec3) mgl64.Vec3 {
	return n.Mul(SafeNormalize(v).Dot(SafeNormalize(n)))
}

func ProjectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(Project(v, n))
}

func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
