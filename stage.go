package samss

// Stage is one fuel stage of a Vessel: a cylindrical mass element that
// burns from wetmass down to drymass, plus a gimballed nozzle used by the
// thrust force/torque producer.
type Stage struct {
	Name string

	Mass    float64 // current total mass (drymass + remaining propellant)
	DryMass float64 // 5% of the stage's initial mass; never burned
	WetMass float64 // 95% of the stage's initial mass; propellant budget

	Length float64
	Radius float64

	// Position is the stage's reference point along the vessel's body +x
	// axis, in the vessel's body frame. By convention the vessel's nose is
	// x=0 and the tail is x=-L, matching the vessel's fixed CoT=(-L,0,0).
	Position float64

	// GimbalPitch/GimbalYaw are the current nozzle deflection angles
	// [rad] (theta, psi in the thrust force formula) applied when this
	// stage is firing.
	GimbalPitch float64
	GimbalYaw   float64
}

// NewStage constructs a Stage from its initial total mass, splitting it
// 5% dry / 95% wet per the propellant-budget convention used throughout
// the fleet.
func NewStage(name string, mass, length, radius, position float64) (*Stage, error) {
	if mass <= 0 {
		return nil, &ConstructionError{Name: name, Reason: "mass must be positive"}
	}
	if length <= 0 || radius <= 0 {
		return nil, &ConstructionError{Name: name, Reason: "length and radius must be positive"}
	}
	return &Stage{
		Name:     name,
		Mass:     mass,
		DryMass:  0.05 * mass,
		WetMass:  0.95 * mass,
		Length:   length,
		Radius:   radius,
		Position: position,
	}, nil
}

// Spent reports whether the stage has no propellant left to burn.
func (s *Stage) Spent() bool {
	return s.Mass <= s.DryMass
}

// Burn consumes dm of propellant (dm >= 0), clamping at DryMass: a stage
// never burns into negative propellant and a Burn past empty is a no-op
// rather than an error.
func (s *Stage) Burn(dm float64) float64 {
	if dm <= 0 || s.Spent() {
		return 0
	}
	available := s.Mass - s.DryMass
	if dm > available {
		dm = available
	}
	s.Mass -= dm
	s.WetMass = s.Mass - s.DryMass
	return dm
}

// SetGimbal sets the nozzle deflection angles [rad].
func (s *Stage) SetGimbal(pitch, yaw float64) {
	s.GimbalPitch, s.GimbalYaw = pitch, yaw
}

type stageState struct {
	Name        string
	Mass        float64
	DryMass     float64
	WetMass     float64
	Length      float64
	Radius      float64
	Position    float64
	GimbalPitch float64
	GimbalYaw   float64
}

func (s *Stage) snapshot() stageState {
	return stageState{
		Name: s.Name, Mass: s.Mass, DryMass: s.DryMass, WetMass: s.WetMass,
		Length: s.Length, Radius: s.Radius, Position: s.Position,
		GimbalPitch: s.GimbalPitch, GimbalYaw: s.GimbalYaw,
	}
}

func stageFromSnapshot(s stageState) *Stage {
	return &Stage{
		Name: s.Name, Mass: s.Mass, DryMass: s.DryMass, WetMass: s.WetMass,
		Length: s.Length, Radius: s.Radius, Position: s.Position,
		GimbalPitch: s.GimbalPitch, GimbalYaw: s.GimbalYaw,
	}
}
