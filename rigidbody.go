package samss

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

// quaternionNormTolerance is the bound on ||q|| drift from unity after an
// integration step (spec §8.1). checkQuaternionNorm treats drift of more
// than 1e3 times this value, before renormalization, as a fatal numerical
// error.
const quaternionNormTolerance = 1e-9

// Scheme selects the integration method used by the System driver.
type Scheme uint8

const (
	// Euler performs first-order explicit Euler integration.
	Euler Scheme = iota + 1
	// RK4 performs classical 4th-order Runge-Kutta integration.
	RK4
)

func (s Scheme) String() string {
	switch s {
	case Euler:
		return "euler"
	case RK4:
		return "rk4"
	default:
		return "unknown"
	}
}

// SchemeFromString parses the `scheme` configuration knob (§6).
func SchemeFromString(s string) (Scheme, error) {
	switch s {
	case "euler":
		return Euler, nil
	case "rk4":
		return RK4, nil
	default:
		return 0, fmt.Errorf("[samss] unknown integration scheme %q", s)
	}
}

// Body is the tagged-variant dispatch point shared by CelestialBody and
// Vessel: every rigid body in a Timestep exposes its shared kinematics
// record so the System driver and the math kernel can operate on it
// uniformly (spec §9 "inheritance hierarchy" redesign note).
type Body interface {
	Core() *RigidBody
}

// RigidBody is the shared kinematics/dynamics record for CelestialBody and
// Vessel. The 13-vector State is ordered
// [u, v, w, x, y, z, wx, wy, wz, qw, qx, qy, qz]: linear velocity and
// position in the universal frame, angular velocity in the body frame, and
// the body-to-universal attitude quaternion. The 6-vector U is ordered
// [Fx, Fy, Fz, Mx, My, Mz] in the universal frame.
type RigidBody struct {
	Name        string
	State       [13]float64
	U           [6]float64
	UniversalRF *ReferenceFrame
	ParentRF    *ReferenceFrame
	BodyRF      *ReferenceFrame
	ParentName  string
	Parent      Body // nil for a root body

	Mass    float64
	Inertia *mat64.Dense // 3x3, symmetric, positive-definite, body frame
}

// NewRigidBody returns a RigidBody with the canonical identity state
// (zero velocity/position/angular velocity, identity attitude) and zero
// input vector.
func NewRigidBody(name string) *RigidBody {
	rb := &RigidBody{Name: name}
	rb.State[9] = 1 // qw = 1 (identity quaternion)
	return rb
}

// InverseInertia returns the inverse of the current inertia tensor. Panics
// with a NumericalError if the inertia tensor is singular.
func (rb *RigidBody) InverseInertia() *mat64.Dense {
	var inv mat64.Dense
	if err := inv.Inverse(rb.Inertia); err != nil {
		panic(&NumericalError{Body: rb.Name, Reason: "singular inertia tensor: " + err.Error()})
	}
	return &inv
}

// Velocity returns the current velocity vector [u, v, w]. If local is true
// the velocity is expressed relative to the parent frame (and relative to
// the parent's own velocity); otherwise it is in the universal frame.
func (rb *RigidBody) Velocity(local bool) []float64 {
	v := []float64{rb.State[0], rb.State[1], rb.State[2]}
	if !local {
		return v
	}
	parentV := []float64{0, 0, 0}
	if rb.Parent != nil {
		parentV = rb.Parent.Core().Velocity(false)
	}
	R := RotFromFrames(rb.UniversalRF, rb.ParentRF)
	return MxV33(R, SubVec(v, parentV))
}

// SetVelocity sets the velocity vector. If local is true, velocity is given
// relative to the parent frame and is converted to the universal frame
// before being stored.
func (rb *RigidBody) SetVelocity(velocity []float64, local bool) {
	if local {
		R := RotFromFrames(rb.ParentRF, rb.UniversalRF)
		parentV := []float64{0, 0, 0}
		if rb.Parent != nil {
			parentV = rb.Parent.Core().Velocity(false)
		}
		velocity = AddVec(MxV33(R, velocity), parentV)
	}
	rb.State[0], rb.State[1], rb.State[2] = velocity[0], velocity[1], velocity[2]
}

// Position returns the current position vector [x, y, z]. If local is true
// the position is expressed relative to the parent frame and the parent's
// position; otherwise it is in the universal frame.
func (rb *RigidBody) Position(local bool) []float64 {
	p := []float64{rb.State[3], rb.State[4], rb.State[5]}
	if !local {
		return p
	}
	parentP := []float64{0, 0, 0}
	if rb.Parent != nil {
		parentP = rb.Parent.Core().Position(false)
	}
	R := RotFromFrames(rb.UniversalRF, rb.ParentRF)
	return MxV33(R, SubVec(p, parentP))
}

// SetPosition sets the position vector. If local is true, position is given
// relative to the parent frame and is converted to the universal frame
// before being stored.
func (rb *RigidBody) SetPosition(position []float64, local bool) {
	if local {
		R := RotFromFrames(rb.ParentRF, rb.UniversalRF)
		parentP := []float64{0, 0, 0}
		if rb.Parent != nil {
			parentP = rb.Parent.Core().Position(false)
		}
		position = AddVec(MxV33(R, position), parentP)
	}
	rb.State[3], rb.State[4], rb.State[5] = position[0], position[1], position[2]
}

// AngularVelocity returns the current angular velocity vector [wx, wy, wz].
// If local is true the value is expressed in the body frame (it already is,
// since State stores body-frame angular velocity); otherwise it is rotated
// into the universal frame.
func (rb *RigidBody) AngularVelocity(local bool) []float64 {
	w := []float64{rb.State[6], rb.State[7], rb.State[8]}
	if local {
		return w
	}
	R := RotFromFrames(rb.BodyRF, rb.UniversalRF)
	return MxV33(R, w)
}

// SetAngularVelocity sets the angular velocity vector. If local is false the
// input is given in the universal frame and is rotated into the body frame.
func (rb *RigidBody) SetAngularVelocity(w []float64, local bool) {
	if !local {
		R := RotFromFrames(rb.UniversalRF, rb.BodyRF)
		w = MxV33(R, w)
	}
	rb.State[6], rb.State[7], rb.State[8] = w[0], w[1], w[2]
}

// Attitude returns the current body-to-universal attitude quaternion. Per
// spec §9, only the universal-frame accessor is exposed: the source's
// local-attitude composition is marked work-in-progress and is not
// replicated here.
func (rb *RigidBody) Attitude() Quaternion {
	return NewQuaternion(rb.State[9:13])
}

// SetAttitude sets the attitude quaternion and resets BodyRF to the
// canonical basis rotated by q.
func (rb *RigidBody) SetAttitude(q Quaternion) {
	q = q.Normalize()
	copy(rb.State[9:13], q.Slice())
	rb.BodyRF.RotateAbs(q)
}

// AddForce accumulates a force into U. If local is true, force is given in
// the body frame and is rotated into the universal frame first.
func (rb *RigidBody) AddForce(force []float64, local bool) {
	if local {
		R := RotFromFrames(rb.BodyRF, rb.UniversalRF)
		force = MxV33(R, force)
	}
	rb.U[0] += force[0]
	rb.U[1] += force[1]
	rb.U[2] += force[2]
}

// AddTorque accumulates a torque into U. If local is true, torque is given
// in the body frame and is rotated into the universal frame first.
func (rb *RigidBody) AddTorque(torque []float64, local bool) {
	if local {
		R := RotFromFrames(rb.BodyRF, rb.UniversalRF)
		torque = MxV33(R, torque)
	}
	rb.U[3] += torque[0]
	rb.U[4] += torque[1]
	rb.U[5] += torque[2]
}

// A returns the system matrix A(s): a constant sparse mapping (linear
// velocity into position rate) plus the quaternion-kinematics block, which
// is linear in the angular velocity carried by s.
func (rb *RigidBody) A(s [13]float64) *mat64.Dense {
	wx, wy, wz := s[6], s[7], s[8]
	a := mat64.NewDense(13, 13, nil)
	a.Set(3, 0, 1)
	a.Set(4, 1, 1)
	a.Set(5, 2, 1)
	a.Set(9, 10, -0.5*wx)
	a.Set(9, 11, -0.5*wy)
	a.Set(9, 12, -0.5*wz)
	a.Set(10, 9, 0.5*wx)
	a.Set(10, 11, 0.5*wz)
	a.Set(10, 12, -0.5*wy)
	a.Set(11, 9, 0.5*wy)
	a.Set(11, 10, -0.5*wz)
	a.Set(11, 12, 0.5*wx)
	a.Set(12, 9, 0.5*wz)
	a.Set(12, 10, 0.5*wy)
	a.Set(12, 11, -0.5*wx)
	return a
}

// B returns the control matrix: B = diag(1/m, 1/m, 1/m, 0,0,0, Ii block, 0,0,0,0),
// such that B.U injects F/m into linear acceleration and Ii.M into angular
// acceleration.
func (rb *RigidBody) B() *mat64.Dense {
	if rb.Mass <= 0 {
		panic(&NumericalError{Body: rb.Name, Reason: "non-positive mass"})
	}
	ii := rb.InverseInertia()
	b := mat64.NewDense(13, 6, nil)
	m := rb.Mass
	b.Set(0, 0, 1/m)
	b.Set(1, 1, 1/m)
	b.Set(2, 2, 1/m)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b.Set(6+i, 3+j, ii.At(i, j))
		}
	}
	return b
}

// StateD returns the state derivative A(s0).s0 + B.U.
func (rb *RigidBody) StateD(s0 [13]float64) [13]float64 {
	a := rb.A(s0)
	b := rb.B()
	sv := mat64.NewVector(13, s0[:])
	uv := mat64.NewVector(6, rb.U[:])
	var as, bu, sd mat64.Vector
	as.MulVec(a, sv)
	bu.MulVec(b, uv)
	sd.AddVec(&as, &bu)
	var out [13]float64
	for i := 0; i < 13; i++ {
		out[i] = sd.At(i, 0)
	}
	return out
}

func addScaled(s0, sd [13]float64, scale float64) [13]float64 {
	var out [13]float64
	for i := 0; i < 13; i++ {
		out[i] = s0[i] + sd[i]*scale
	}
	return out
}

func sumScaled(s0 [13]float64, scale float64, terms ...[13]float64) [13]float64 {
	out := s0
	for _, t := range terms {
		for i := 0; i < 13; i++ {
			out[i] += t[i] * scale
		}
	}
	return out
}

// euler performs first-order explicit Euler integration over dt.
func (rb *RigidBody) euler(dt float64) [13]float64 {
	sd := rb.StateD(rb.State)
	return addScaled(rb.State, sd, dt)
}

// rk4 performs classical 4th-order Runge-Kutta integration over dt,
// recomputing A at each stage since A depends on the evolving angular
// velocity.
func (rb *RigidBody) rk4(dt float64) [13]float64 {
	s0 := rb.State
	k1 := rb.StateD(s0)

	sk2 := addScaled(s0, k1, 0.5*dt)
	k2 := rb.stateDAt(sk2)

	sk3 := addScaled(s0, k2, 0.5*dt)
	k3 := rb.stateDAt(sk3)

	sk4 := addScaled(s0, k3, dt)
	k4 := rb.stateDAt(sk4)

	var sum [13]float64
	for i := 0; i < 13; i++ {
		sum[i] = k1[i] + 2*k2[i] + 2*k3[i] + k4[i]
	}
	return addScaled(s0, sum, dt/6.0)
}

// stateDAt evaluates the state derivative at an arbitrary stage state,
// using the current U and the stage state's own angular velocity for A.
func (rb *RigidBody) stateDAt(s [13]float64) [13]float64 {
	a := rb.A(s)
	b := rb.B()
	sv := mat64.NewVector(13, s[:])
	uv := mat64.NewVector(6, rb.U[:])
	var as, bu, sd mat64.Vector
	as.MulVec(a, sv)
	bu.MulVec(b, uv)
	sd.AddVec(&as, &bu)
	var out [13]float64
	for i := 0; i < 13; i++ {
		out[i] = sd.At(i, 0)
	}
	return out
}

// Simulate advances the body by dt using the given integration scheme,
// resets U to zero, and rotates BodyRF to match the newly integrated
// attitude. It panics with a NumericalError if the result is numerically
// invalid.
func (rb *RigidBody) Simulate(dt float64, scheme Scheme) {
	var s1 [13]float64
	switch scheme {
	case Euler:
		s1 = rb.euler(dt)
	case RK4:
		s1 = rb.rk4(dt)
	default:
		panic(&NumericalError{Body: rb.Name, Reason: "unknown integration scheme"})
	}
	rb.checkFinite(s1)
	rb.State = s1
	rb.U = [6]float64{}
	q := NewQuaternion(s1[9:13]).Normalize()
	rb.checkQuaternionNorm(s1)
	rb.State[9], rb.State[10], rb.State[11], rb.State[12] = q.W, q.X, q.Y, q.Z
	rb.BodyRF.RotateAbs(q)
}

func (rb *RigidBody) checkFinite(s [13]float64) {
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(&NumericalError{Body: rb.Name, Reason: fmt.Sprintf("state[%d] is NaN/Inf", i)})
		}
	}
	for i, v := range rb.U {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(&NumericalError{Body: rb.Name, Reason: fmt.Sprintf("U[%d] is NaN/Inf", i)})
		}
	}
}

func (rb *RigidBody) checkQuaternionNorm(s [13]float64) {
	n := NewQuaternion(s[9:13]).Norm()
	if !floats.EqualWithinAbs(n, 1, quaternionNormTolerance*1e3) {
		// Large drift (not just the renormalization we always apply) indicates
		// a diverging integration; 1e3x the testable-property tolerance gives
		// room for the renormalization itself without masking real blow-ups.
		panic(&NumericalError{Body: rb.Name, Reason: fmt.Sprintf("quaternion norm drifted to %f", n)})
	}
}

// rigidBodyState is the persisted representation of a RigidBody. The Parent
// link is stored by name (ParentName) and rewired by Timestep after every
// body in the snapshot has been reconstructed.
type rigidBodyState struct {
	Name        string
	State       [13]float64
	U           [6]float64
	UniversalRF frameState
	ParentRF    frameState
	BodyRF      frameState
	ParentName  string
	Mass        float64
	Inertia     []float64 // row-major 3x3
}

func (rb *RigidBody) snapshot() rigidBodyState {
	inertia := make([]float64, 9)
	if rb.Inertia != nil {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				inertia[i*3+j] = rb.Inertia.At(i, j)
			}
		}
	}
	s := rigidBodyState{
		Name:       rb.Name,
		State:      rb.State,
		U:          rb.U,
		ParentName: rb.ParentName,
		Mass:       rb.Mass,
		Inertia:    inertia,
	}
	if rb.UniversalRF != nil {
		s.UniversalRF = rb.UniversalRF.snapshot()
	}
	if rb.ParentRF != nil {
		s.ParentRF = rb.ParentRF.snapshot()
	}
	if rb.BodyRF != nil {
		s.BodyRF = rb.BodyRF.snapshot()
	}
	return s
}

func rigidBodyFromSnapshot(s rigidBodyState) *RigidBody {
	rb := &RigidBody{
		Name:        s.Name,
		State:       s.State,
		U:           s.U,
		ParentName:  s.ParentName,
		Mass:        s.Mass,
		UniversalRF: frameFromSnapshot(s.UniversalRF),
		ParentRF:    frameFromSnapshot(s.ParentRF),
		BodyRF:      frameFromSnapshot(s.BodyRF),
	}
	if len(s.Inertia) == 9 {
		rb.Inertia = mat64.NewDense(3, 3, append([]float64(nil), s.Inertia...))
	}
	return rb
}
