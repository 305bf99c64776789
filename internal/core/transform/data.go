package transform

import "github.com/go-gl/mathgl/mgl64"

// Data is the authored form of a transform. Missing position defaults to the
// origin, missing scale to one, and Rotate holds Euler angles in degrees.
type Data struct {
	Position *[3]float64 `yaml:"position,omitempty" json:"position,omitempty"`
	Scale    *[3]float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
	Rotate   *[3]float64 `yaml:"rotate,omitempty" json:"rotate,omitempty"`
}

func FromData(d Data) *Transform {
	t := New()
	if d.Position != nil {
		t.SetPosition(mgl64.Vec3(*d.Position))
	}
	if d.Scale != nil {
		t.SetScale(mgl64.Vec3(*d.Scale))
	}
	if d.Rotate != nil {
		r := *d.Rotate
		t.SetRotationEulerAngles(mgl64.Vec3{
			mgl64.DegToRad(r[0]),
			mgl64.DegToRad(r[1]),
			mgl64.DegToRad(r[2]),
		})
	}
	return t
}
