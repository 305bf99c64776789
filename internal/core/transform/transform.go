// Package transform implements parent-relative affine transforms.
//
// A Transform caches its local matrix (translation * rotation * scale) and
// recomputes it on every setter. Global values are never cached: they are
// folded from the parent chain on every query, so they are pure reads and
// safe to call from several goroutines between ticks.
package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Canonical basis of a node's local frame.
var (
	Forward = mgl64.Vec3{0, 0, -1}
	Right   = mgl64.Vec3{1, 0, 0}
	Up      = mgl64.Vec3{0, 1, 0}
)

type Transform struct {
	position mgl64.Vec3
	scale    mgl64.Vec3
	rotation mgl64.Quat

	translationMatrix mgl64.Mat4
	rotationMatrix    mgl64.Mat4
	scalingMatrix     mgl64.Mat4
	localMatrix       mgl64.Mat4

	owner  *Hierarchy
	parent Handle
}

// New returns a free-standing root transform at the origin with unit scale.
func New() *Transform {
	return NewWith(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent())
}

func NewWith(position, scale mgl64.Vec3, rotation mgl64.Quat) *Transform {
	t := &Transform{}
	t.SetPosition(position)
	t.SetScale(scale)
	t.SetRotation(rotation)
	return t
}

func (t *Transform) SetPosition(position mgl64.Vec3) {
	t.position = position
	t.translationMatrix = mgl64.Translate3D(position[0], position[1], position[2])
	t.updateLocalMatrix()
}

// SetScale accepts any value; a zero component yields a degenerate matrix.
func (t *Transform) SetScale(scale mgl64.Vec3) {
	t.scale = scale
	t.scalingMatrix = mgl64.Scale3D(scale[0], scale[1], scale[2])
	t.updateLocalMatrix()
}

func (t *Transform) SetRotation(rotation mgl64.Quat) {
	t.rotation = rotation
	t.rotationMatrix = rotation.Mat4()
	t.updateLocalMatrix()
}

// SetRotationEulerAngles takes pitch, yaw and roll in radians, applied about
// X, then Y, then Z.
func (t *Transform) SetRotationEulerAngles(angles mgl64.Vec3) {
	t.SetRotation(QuatFromEuler(angles))
}

func (t *Transform) SetRotationAxisAngles(axis mgl64.Vec3, radians float64) {
	t.SetRotation(mgl64.QuatRotate(radians, axis))
}

// Refresh re-applies every local component.
func (t *Transform) Refresh() {
	t.SetPosition(t.position)
	t.SetScale(t.scale)
	t.SetRotation(t.rotation)
}

func (t *Transform) updateLocalMatrix() {
	t.localMatrix = t.translationMatrix.Mul4(t.rotationMatrix).Mul4(t.scalingMatrix)
}

func (t *Transform) LocalPosition() mgl64.Vec3 { return t.position }
func (t *Transform) LocalScale() mgl64.Vec3    { return t.scale }
func (t *Transform) LocalRotation() mgl64.Quat { return t.rotation }

func (t *Transform) EulerAngles() mgl64.Vec3 { return EulerFromQuat(t.rotation) }

func (t *Transform) TranslationMatrix() mgl64.Mat4 { return t.translationMatrix }
func (t *Transform) RotationMatrix() mgl64.Mat4    { return t.rotationMatrix }
func (t *Transform) ScalingMatrix() mgl64.Mat4     { return t.scalingMatrix }
func (t *Transform) LocalMatrix() mgl64.Mat4       { return t.localMatrix }

// Parent resolves the parent slot. A destroyed or never-set parent yields
// nil, and the node behaves as a root.
func (t *Transform) Parent() *Transform {
	if t.owner == nil {
		return nil
	}
	return t.owner.Get(t.parent)
}

// Matrix folds local matrices from this node up to its root. The chain is
// assumed acyclic; Hierarchy.SetParent is the only way to build one.
func (t *Transform) Matrix() mgl64.Mat4 {
	matrix := mgl64.Ident4()
	for node := t; node != nil; node = node.Parent() {
		matrix = node.localMatrix.Mul4(matrix)
	}
	return matrix
}

func (t *Transform) GlobalPosition() mgl64.Vec3 {
	return t.Matrix().Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
}

// GlobalScale is the component-wise product of local scales along the chain.
// Rotation-induced shear is ignored.
func (t *Transform) GlobalScale() mgl64.Vec3 {
	scale := mgl64.Vec3{1, 1, 1}
	for node := t; node != nil; node = node.Parent() {
		scale = mulElem(node.scale, scale)
	}
	return scale
}

func (t *Transform) GlobalDirection(local mgl64.Vec3) mgl64.Vec3 {
	return t.Matrix().Mul4x1(local.Vec4(0)).Vec3()
}

func (t *Transform) LocalDirection(global mgl64.Vec3) mgl64.Vec3 {
	return t.Matrix().Inv().Mul4x1(global.Vec4(0)).Vec3()
}

func (t *Transform) Forward() mgl64.Vec3 { return t.GlobalDirection(Forward) }
func (t *Transform) Right() mgl64.Vec3   { return t.GlobalDirection(Right) }
func (t *Transform) Up() mgl64.Vec3      { return t.GlobalDirection(Up) }

// LookAt turns the node so that Forward points from its local position to point.
func (t *Transform) LookAt(point mgl64.Vec3) {
	t.LookInDirection(point.Sub(t.position))
}

// LookInDirection applies the shortest rotation taking Forward onto direction.
// A direction exactly opposite Forward has no unique answer and yields the
// identity rotation.
func (t *Transform) LookInDirection(direction mgl64.Vec3) {
	direction = SafeNormalize(direction)
	axis := Forward.Cross(direction)
	dot := Forward.Dot(direction)
	t.SetRotation(mgl64.Quat{W: dot + 1, V: axis}.Normalize())
}

func (t *Transform) Translate(offset mgl64.Vec3) {
	t.SetPosition(t.position.Add(offset))
}

func (t *Transform) Scale(factor float64) {
	t.SetScale(t.scale.Mul(factor))
}

func (t *Transform) ScaleVec(factors mgl64.Vec3) {
	t.SetScale(mulElem(t.scale, factors))
}

// Rotate post-multiplies a rotation about a local axis.
func (t *Transform) Rotate(axis mgl64.Vec3, radians float64) {
	t.SetRotation(t.rotation.Mul(mgl64.QuatRotate(radians, SafeNormalize(axis))))
}

// RotateQuat pre-multiplies q, rotating in the parent frame.
func (t *Transform) RotateQuat(q mgl64.Quat) {
	t.SetRotation(q.Mul(t.rotation))
}

// QuatFromEuler builds qz * qy * qx from pitch, yaw and roll in radians.
func QuatFromEuler(angles mgl64.Vec3) mgl64.Quat {
	qx := mgl64.QuatRotate(angles[0], Right)
	qy := mgl64.QuatRotate(angles[1], Up)
	qz := mgl64.QuatRotate(angles[2], mgl64.Vec3{0, 0, 1})
	return qz.Mul(qy).Mul(qx)
}

// EulerFromQuat is the inverse of QuatFromEuler for pitch within (-pi, pi]
// and yaw within [-pi/2, pi/2].
func EulerFromQuat(q mgl64.Quat) mgl64.Vec3 {
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]

	pitchY := 2 * (y*z + w*x)
	pitchX := w*w - x*x - y*y + z*z
	var pitch float64
	if pitchY == 0 && pitchX == 0 {
		pitch = 2 * math.Atan2(x, w)
	} else {
		pitch = math.Atan2(pitchY, pitchX)
	}

	yaw := math.Asin(mgl64.Clamp(-2*(x*z-w*y), -1, 1))
	roll := math.Atan2(2*(x*y+w*z), w*w+x*x-y*y-z*z)
	return mgl64.Vec3{pitch, yaw, roll}
}
