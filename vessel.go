package samss

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Vessel is a stack of Stages: a launch vehicle or spacecraft whose mass,
// inertia, and center of mass change as propellant burns. By convention
// the stack's nose is at body-frame x=0 and its tail at x=-Length; the
// first stage in Stages that is not yet spent is the active, burning one.
type Vessel struct {
	core *RigidBody

	Stages []*Stage

	// NED is the vessel's local North-East-Down frame. It must be rebuilt
	// with RebuildNED any time position changes relative to its parent
	// before Heading is read.
	NED *ReferenceFrame
}

// NewVessel constructs a Vessel from an ordered list of stages, registered
// under universalRF/parentRF. Its inertia and mass are rolled up
// immediately from the stage list.
func NewVessel(name string, stages []*Stage, universalRF, parentRF *ReferenceFrame) (*Vessel, error) {
	if len(stages) == 0 {
		return nil, &ConstructionError{Name: name, Reason: "vessel must have at least one stage"}
	}
	rb := NewRigidBody(name)
	rb.UniversalRF = universalRF
	rb.ParentRF = parentRF
	rb.BodyRF = NewReferenceFrame(name + ".body")
	v := &Vessel{core: rb, Stages: stages}
	v.recompute()
	return v, nil
}

// Core implements Body.
func (v *Vessel) Core() *RigidBody { return v.core }

// Name returns the vessel's name.
func (v *Vessel) Name() string { return v.core.Name }

// Mass returns the vessel's current total mass (sum of all stages).
func (v *Vessel) Mass() float64 { return v.core.Mass }

// Length returns the vessel's total stack length (sum of stage lengths).
func (v *Vessel) Length() float64 {
	var l float64
	for _, s := range v.Stages {
		l += s.Length
	}
	return l
}

// CenterOfMass returns the vessel's center of mass x-coordinate in the
// body frame: the mass-weighted average of each stage's reference point.
func (v *Vessel) CenterOfMass() float64 {
	var mass, moment float64
	for _, s := range v.Stages {
		mass += s.Mass
		moment += s.Mass * s.Position
	}
	if mass <= 0 {
		return 0
	}
	return moment / mass
}

// CenterOfThrust returns the fixed tail-of-stack thrust application point
// in the body frame, (-Length, 0, 0).
func (v *Vessel) CenterOfThrust() []float64 {
	return []float64{-v.Length(), 0, 0}
}

// ActiveStage returns the currently-burning stage: the first stage in
// Stages that is not yet spent, or nil if every stage is spent.
func (v *Vessel) ActiveStage() *Stage {
	for _, s := range v.Stages {
		if !s.Spent() {
			return s
		}
	}
	return nil
}

// Burn consumes dm of propellant from the active stage, rolls up mass and
// inertia, and applies the moving-CoM position correction: the stored
// position is shifted by R(body->universal)*(CoM_new - CoM_old) so that it
// remains coincident with the (possibly shifted) center of mass.
func (v *Vessel) Burn(dm float64) float64 {
	s := v.ActiveStage()
	if s == nil {
		return 0
	}
	comBefore := v.CenterOfMass()
	burned := s.Burn(dm)
	v.recompute()
	comAfter := v.CenterOfMass()
	if comAfter != comBefore {
		R := RotFromFrames(v.core.BodyRF, v.core.UniversalRF)
		delta := MxV33(R, []float64{comAfter - comBefore, 0, 0})
		p := v.core.Position(false)
		v.core.SetPosition(AddVec(p, delta), false)
	}
	return burned
}

// recompute rolls up stage masses into the core RigidBody's Mass and
// Inertia. Inertia follows the stacked-cylinder approximation using the
// outermost (last) stage's radius and the stack's total length.
func (v *Vessel) recompute() {
	var mass float64
	for _, s := range v.Stages {
		mass += s.Mass
	}
	v.core.Mass = mass
	if mass <= 0 {
		v.core.Inertia = mat64.NewDense(3, 3, nil)
		return
	}
	rLast := v.Stages[len(v.Stages)-1].Radius
	L := v.Length()
	ixx := 0.5 * mass * rLast * rLast
	iyy := mass * (3*rLast*rLast + L*L) / 12.0
	v.core.Inertia = mat64.NewDense(3, 3, []float64{
		ixx, 0, 0,
		0, iyy, 0,
		0, 0, iyy,
	})
}

// NormalizeToCoM shifts the vessel's stored local position (relative to
// parent) so that it refers to the vessel's center of mass rather than its
// body-frame origin: position += R(body->parent)*(CoM, 0, 0). Timestep
// calls this exactly once, immediately after registering a new vessel.
func (v *Vessel) NormalizeToCoM() {
	com := v.CenterOfMass()
	if com == 0 {
		return
	}
	R := RotFromFrames(v.core.BodyRF, v.core.ParentRF)
	delta := MxV33(R, []float64{com, 0, 0})
	p := v.core.Position(true)
	v.core.SetPosition(AddVec(p, delta), true)
}

// InitPosition sets the vessel's position relative to its parent (local
// frame) and rebuilds its NED frame against parent.
func (v *Vessel) InitPosition(position []float64, parent *CelestialBody) {
	v.core.SetPosition(position, true)
	v.RebuildNED(parent)
}

// InitAttitude sets the vessel's initial attitude quaternion.
func (v *Vessel) InitAttitude(q Quaternion) {
	v.core.SetAttitude(q)
}

// RebuildNED reconstructs the vessel's North-East-Down frame relative to
// parent: Down points from the vessel's position P toward parent's center
// Q; East is (Q-P) x (N-P) normalized, where N is a point above parent's
// north pole; North completes the right-handed triad East x Down.
func (v *Vessel) RebuildNED(parent *CelestialBody) {
	if parent == nil {
		return
	}
	p := v.core.Position(false)
	q := parent.core.Position(false)
	qMinusP := SubVec(q, p)
	down := Unit(qMinusP)

	var polarAxis []float64
	if parent.BodyFixedRF != nil {
		_, _, polarAxis = parent.BodyFixedRF.IJK()
	} else {
		polarAxis = []float64{0, 0, 1}
	}
	n := AddVec(q, ScaleVec(parent.Radius, polarAxis))
	east := Unit(Cross(qMinusP, SubVec(n, p)))
	north := Cross(east, down)

	ned := NewReferenceFrame(v.core.Name + ".ned")
	ned.SetIJK(north, east, down)
	v.NED = ned
}

// Heading returns [direction, pitch] (radians): the vessel's body-x unit
// vector expressed in NED coordinates yields
// direction = acos(north / ||[north,east]||), adjusted by +pi when east<0
// (0 when north and east are both zero), and pitch = -asin(down).
func (v *Vessel) Heading() []float64 {
	if v.NED == nil {
		return []float64{0, 0}
	}
	bi, _, _ := v.core.BodyRF.IJK()
	nedR := RotFromFrames(v.core.UniversalRF, v.NED)
	local := MxV33(nedR, bi)
	north, east, down := local[0], local[1], local[2]

	normXY := math.Hypot(north, east)
	var direction float64
	if normXY == 0 {
		direction = 0
	} else {
		direction = math.Acos(clamp(north/normXY, -1, 1))
		if east < 0 {
			direction += math.Pi
		}
	}
	pitch := -math.Asin(clamp(down, -1, 1))
	return []float64{direction, pitch}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

type vesselState struct {
	Stages []stageState
	RB     rigidBodyState
}

func (v *Vessel) snapshot() vesselState {
	ss := make([]stageState, len(v.Stages))
	for i, s := range v.Stages {
		ss[i] = s.snapshot()
	}
	return vesselState{Stages: ss, RB: v.core.snapshot()}
}

func vesselFromSnapshot(s vesselState) *Vessel {
	stages := make([]*Stage, len(s.Stages))
	for i, st := range s.Stages {
		stages[i] = stageFromSnapshot(st)
	}
	return &Vessel{core: rigidBodyFromSnapshot(s.RB), Stages: stages}
}
