package samss

import "github.com/gonum/matrix/mat64"

// CelestialBody is a spherically-symmetric natural body (star, planet,
// moon): mass, radius, and an optional body-fixed reference frame used to
// express surface-relative quantities such as a vessel's NED frame.
type CelestialBody struct {
	core *RigidBody

	Radius float64

	// BodyFixedRF, if non-nil, rotates at RotationRate [rad.s**-1] about
	// the universal +z axis. It is the supplemented
	// feature described in SPEC_FULL.md §12: it exists so ground-relative
	// quantities (NED heading) can be computed without reintroducing a
	// full ephemeris dependency.
	BodyFixedRF  *ReferenceFrame
	RotationRate float64
}

// NewCelestialBody constructs a CelestialBody with a solid-sphere inertia
// tensor (2/5)*mass*radius**2 * I3, registered under universalRF/parentRF.
func NewCelestialBody(name string, mass, radius float64, universalRF, parentRF *ReferenceFrame) (*CelestialBody, error) {
	if mass <= 0 {
		return nil, &ConstructionError{Name: name, Reason: "mass must be positive"}
	}
	if radius <= 0 {
		return nil, &ConstructionError{Name: name, Reason: "radius must be positive"}
	}
	rb := NewRigidBody(name)
	rb.Mass = mass
	rb.UniversalRF = universalRF
	rb.ParentRF = parentRF
	rb.BodyRF = NewReferenceFrame(name + ".body")
	i := (2.0 / 5.0) * mass * radius * radius
	rb.Inertia = mat64.NewDense(3, 3, []float64{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	})
	return &CelestialBody{core: rb, Radius: radius}, nil
}

// Core implements Body.
func (cb *CelestialBody) Core() *RigidBody { return cb.core }

// Name returns the body's name.
func (cb *CelestialBody) Name() string { return cb.core.Name }

// Mass returns the body's mass.
func (cb *CelestialBody) Mass() float64 { return cb.core.Mass }

// SurfaceGravity returns the magnitude of gravitational acceleration at the
// body's surface.
func (cb *CelestialBody) SurfaceGravity() float64 {
	return G * cb.core.Mass / (cb.Radius * cb.Radius)
}

// RotateBodyFixedRF advances BodyFixedRF by RotationRate*dt about the
// universal +z axis, when BodyFixedRF is present.
func (cb *CelestialBody) RotateBodyFixedRF(dt float64) {
	if cb.BodyFixedRF == nil {
		return
	}
	q := FromAxisAngle([]float64{0, 0, 1}, cb.RotationRate*dt)
	cb.BodyFixedRF.Rotate(q)
}

type celestialBodyState struct {
	Name         string
	Radius       float64
	RotationRate float64
	HasBodyRF    bool
	BodyFixedRF  frameState
	RB           rigidBodyState
}

func (cb *CelestialBody) snapshot() celestialBodyState {
	s := celestialBodyState{
		Name:         cb.core.Name,
		Radius:       cb.Radius,
		RotationRate: cb.RotationRate,
		RB:           cb.core.snapshot(),
	}
	if cb.BodyFixedRF != nil {
		s.HasBodyRF = true
		s.BodyFixedRF = cb.BodyFixedRF.snapshot()
	}
	return s
}

func celestialBodyFromSnapshot(s celestialBodyState) *CelestialBody {
	cb := &CelestialBody{
		core:         rigidBodyFromSnapshot(s.RB),
		Radius:       s.Radius,
		RotationRate: s.RotationRate,
	}
	if s.HasBodyRF {
		cb.BodyFixedRF = frameFromSnapshot(s.BodyFixedRF)
	}
	return cb
}
