// Package samss implements the core of a 6-DoF astrodynamics propagator:
// rigid-body kinematics/dynamics, a reference-frame graph, a vessel
// composition model, gravity/thrust force producers, and the system driver
// that advances a Timestep under Euler or RK4 integration.
package samss

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 1 / deg2rad
	// G is the universal gravitational constant [m**3.kg**-1.s**-2].
	G = 6.67408e-11
	// g0 is standard gravity, used to convert specific impulse to thrust [m.s**-2].
	g0 = 9.81
)

// Norm returns the Euclidean norm of a 3-vector.
func Norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Unit returns the unit vector of a, or the zero vector if a is (near) zero.
func Unit(a []float64) (b []float64) {
	n := Norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// Dot performs the inner product of two 3-vectors.
func Dot(a, b []float64) float64 {
	return mat64.Dot(mat64.NewVector(len(a), a), mat64.NewVector(len(b), b))
}

// Cross performs the cross product a x b.
func Cross(a, b []float64) []float64 {
	return []float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}

// AddVec returns a+b for 3-vectors.
func AddVec(a, b []float64) []float64 {
	return []float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// SubVec returns a-b for 3-vectors.
func SubVec(a, b []float64) []float64 {
	return []float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// ScaleVec returns s*a for a 3-vector a.
func ScaleVec(s float64, a []float64) []float64 {
	return []float64{s * a[0], s * a[1], s * a[2]}
}

// Deg2rad converts degrees to radians.
func Deg2rad(a float64) float64 { return a * deg2rad }

// Rad2deg converts radians to degrees.
func Rad2deg(a float64) float64 { return a * rad2deg }

// R1 returns the rotation matrix about the 1st (x) axis by angle x.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 returns the rotation matrix about the 2nd (y) axis by angle x.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 returns the rotation matrix about the 3rd (z) axis by angle x.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// DenseIdentity returns an n x n identity matrix.
func DenseIdentity(n int) *mat64.Dense {
	vals := make([]float64, n*n)
	for j := 0; j < n*n; j++ {
		if j%(n+1) == 0 {
			vals[j] = 1
		}
	}
	return mat64.NewDense(n, n, vals)
}

// MxV33 multiplies a 3x3 matrix by a 3-vector. No dimension check is performed.
func MxV33(m *mat64.Dense, v []float64) []float64 {
	var rVec mat64.Vector
	rVec.MulVec(m, mat64.NewVector(3, v))
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// Quaternion is a Hamilton-convention unit quaternion [w, x, y, z] used to
// represent rigid-body attitude and to perform frame rotations.
type Quaternion struct {
	W, X, Y, Z float64
}

// IdentityQuaternion returns the no-rotation quaternion.
func IdentityQuaternion() Quaternion {
	return Quaternion{1, 0, 0, 0}
}

// NewQuaternion builds a Quaternion from a 4-slice [w, x, y, z].
func NewQuaternion(q []float64) Quaternion {
	return Quaternion{q[0], q[1], q[2], q[3]}
}

// Slice returns the quaternion as a 4-slice [w, x, y, z].
func (q Quaternion) Slice() []float64 {
	return []float64{q.W, q.X, q.Y, q.Z}
}

// Norm returns the quaternion's magnitude.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns q scaled to unit magnitude. A near-zero quaternion is
// returned unchanged; callers are expected to treat that as a numerical
// fault (see errors.go).
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return q
	}
	return Quaternion{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// Mul computes the Hamilton product q*p.
func (q Quaternion) Mul(p Quaternion) Quaternion {
	return Quaternion{
		W: q.W*p.W - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
		X: q.W*p.X + q.X*p.W + q.Y*p.Z - q.Z*p.Y,
		Y: q.W*p.Y - q.X*p.Z + q.Y*p.W + q.Z*p.X,
		Z: q.W*p.Z + q.X*p.Y - q.Y*p.X + q.Z*p.W,
	}
}

// Inverse returns q^-1. For a unit quaternion this equals the conjugate.
func (q Quaternion) Inverse() Quaternion {
	n2 := q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z
	if floats.EqualWithinAbs(n2, 0, 1e-12) {
		return q
	}
	return Quaternion{q.W / n2, -q.X / n2, -q.Y / n2, -q.Z / n2}
}

// Rotate rotates 3-vector v by quaternion q: q . v . q^-1, with v lifted to
// the pure-vector quaternion [0, v].
func (q Quaternion) Rotate(v []float64) []float64 {
	vq := Quaternion{0, v[0], v[1], v[2]}
	r := q.Mul(vq).Mul(q.Inverse())
	return []float64{r.X, r.Y, r.Z}
}

// FromAxisAngle builds the quaternion representing a rotation of angle
// theta (radians) about the (not necessarily unit) axis.
func FromAxisAngle(axis []float64, theta float64) Quaternion {
	u := Unit(axis)
	s, c := math.Sincos(theta / 2)
	return Quaternion{c, u[0] * s, u[1] * s, u[2] * s}
}

// EulerToQuat composes qz(psi) * qy(theta) * qx(phi) following the
// Rz*Ry*Rx convention of EulerToRot.
func EulerToQuat(phi, theta, psi float64) Quaternion {
	qx := FromAxisAngle([]float64{1, 0, 0}, phi)
	qy := FromAxisAngle([]float64{0, 1, 0}, theta)
	qz := FromAxisAngle([]float64{0, 0, 1}, psi)
	return qz.Mul(qy).Mul(qx)
}

// QuatToEuler recovers (phi, theta, psi) from a quaternion produced by
// EulerToQuat, using the standard asin/atan2 extraction.
func QuatToEuler(q Quaternion) (phi, theta, psi float64) {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	phi = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	sinTheta := 2 * (w*y - z*x)
	if sinTheta > 1 {
		sinTheta = 1
	} else if sinTheta < -1 {
		sinTheta = -1
	}
	theta = math.Asin(sinTheta)
	psi = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return
}

// EulerToRot returns Rz(psi) . Ry(theta) . Rx(phi), the standard right-hand
// 3-2-1 Euler-angle rotation matrix. R1/R2/R3 are frame (passive)
// rotations, so their transposes supply the right-hand Rx/Ry/Rz factors.
func EulerToRot(phi, theta, psi float64) *mat64.Dense {
	var ryx, rzyx mat64.Dense
	ryx.Mul(R2(theta).T(), R1(phi).T())
	rzyx.Mul(R3(psi).T(), &ryx)
	return &rzyx
}

// QuatToRot converts a unit quaternion to its equivalent 3x3 rotation matrix.
func QuatToRot(q Quaternion) *mat64.Dense {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return mat64.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// RotToQuat recovers a unit quaternion from a 3x3 rotation matrix using the
// standard trace-based extraction.
func RotToQuat(r *mat64.Dense) Quaternion {
	m := func(i, j int) float64 { return r.At(i, j) }
	tr := m(0, 0) + m(1, 1) + m(2, 2)
	var q Quaternion
	switch {
	case tr > 0:
		s := 0.5 / math.Sqrt(tr+1.0)
		q = Quaternion{
			W: 0.25 / s,
			X: (m(2, 1) - m(1, 2)) * s,
			Y: (m(0, 2) - m(2, 0)) * s,
			Z: (m(1, 0) - m(0, 1)) * s,
		}
	case m(0, 0) > m(1, 1) && m(0, 0) > m(2, 2):
		s := 2.0 * math.Sqrt(1.0+m(0, 0)-m(1, 1)-m(2, 2))
		q = Quaternion{
			W: (m(2, 1) - m(1, 2)) / s,
			X: 0.25 * s,
			Y: (m(0, 1) + m(1, 0)) / s,
			Z: (m(0, 2) + m(2, 0)) / s,
		}
	case m(1, 1) > m(2, 2):
		s := 2.0 * math.Sqrt(1.0+m(1, 1)-m(0, 0)-m(2, 2))
		q = Quaternion{
			W: (m(0, 2) - m(2, 0)) / s,
			X: (m(0, 1) + m(1, 0)) / s,
			Y: 0.25 * s,
			Z: (m(1, 2) + m(2, 1)) / s,
		}
	default:
		s := 2.0 * math.Sqrt(1.0+m(2, 2)-m(0, 0)-m(1, 1))
		q = Quaternion{
			W: (m(1, 0) - m(0, 1)) / s,
			X: (m(0, 2) + m(2, 0)) / s,
			Y: (m(1, 2) + m(2, 1)) / s,
			Z: 0.25 * s,
		}
	}
	return q.Normalize()
}

// RotFromFrames returns the rotation matrix whose rows are B's basis vectors
// expressed in A (its columns are A's basis vectors expressed in B); it maps
// A-coordinates of a vector to B-coordinates.
func RotFromFrames(a, b *ReferenceFrame) *mat64.Dense {
	ai, aj, ak := a.IJK()
	bi, bj, bk := b.IJK()
	return mat64.NewDense(3, 3, []float64{
		Dot(ai, bi), Dot(aj, bi), Dot(ak, bi),
		Dot(ai, bj), Dot(aj, bj), Dot(ak, bj),
		Dot(ai, bk), Dot(aj, bk), Dot(ak, bk),
	})
}

// HeadingToUnitVec converts a [direction, pitch] heading into the unit
// vector obtained by yawing then pitching [1, 0, 0].
func HeadingToUnitVec(heading []float64) []float64 {
	direction, pitch := heading[0], heading[1]
	qyaw := FromAxisAngle([]float64{0, 0, 1}, direction)
	qpitch := FromAxisAngle([]float64{0, 1, 0}, -pitch)
	return qyaw.Mul(qpitch).Rotate([]float64{1, 0, 0})
}
