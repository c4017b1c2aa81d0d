package samss

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestGravityMagnitudeAndDirection(t *testing.T) {
	universal := NewReferenceFrame("universal")
	earth, _ := NewCelestialBody("earth", 5.972e24, 6.371e6, universal, universal)
	moon, _ := NewCelestialBody("moon", 7.342e22, 1.737e6, universal, universal)
	earth.core.SetPosition([]float64{0, 0, 0}, false)
	moon.core.SetPosition([]float64{3.844e8, 0, 0}, false)

	Gravity(earth, moon)

	d := 3.844e8
	wantMag := G * earth.Mass() * moon.Mass() / (d * d)
	gotMag := Norm([]float64{moon.core.U[0], moon.core.U[1], moon.core.U[2]})
	if !floats.EqualWithinAbs(gotMag, wantMag, wantMag*1e-9) {
		t.Fatalf("gravity magnitude = %e, want %e", gotMag, wantMag)
	}
	if moon.core.U[0] >= 0 {
		t.Fatalf("expected moon pulled toward earth (negative x), got U=%v", moon.core.U[:3])
	}
	if earth.core.U != ([6]float64{}) {
		t.Fatalf("expected Gravity(earth, moon) to leave earth unperturbed, got U=%v", earth.core.U)
	}
}

func TestGravityPanicsOnZeroSeparation(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for zero separation")
		} else if _, ok := r.(*NumericalError); !ok {
			t.Fatalf("expected *NumericalError, got %T", r)
		}
	}()
	universal := NewReferenceFrame("universal")
	a, _ := NewCelestialBody("a", 1e10, 1, universal, universal)
	b, _ := NewCelestialBody("b", 1e10, 1, universal, universal)
	Gravity(a, b)
}

func TestThrustNoGimbalProducesNoTorque(t *testing.T) {
	s1, _ := NewStage("booster", 8000, 20, 2, -10)
	s2, _ := NewStage("upper", 2000, 5, 1, 2)
	universal := NewReferenceFrame("universal")
	v, _ := NewVessel("rocket", []*Stage{s1, s2}, universal, universal)
	s1.SetGimbal(0, 0)

	mag := Thrust(v, 10, 300, 1)
	wantMag := g0 * 300 * 10
	if !floats.EqualWithinAbs(mag, wantMag, wantMag*1e-9) {
		t.Fatalf("thrust magnitude = %f, want %f", mag, wantMag)
	}
	if !floats.EqualWithinAbs(v.core.U[0], wantMag, wantMag*1e-9) {
		t.Fatalf("expected force entirely along body x, got U=%v", v.core.U)
	}
	if !floats.EqualWithinAbs(v.core.U[1], 0, 1e-9) || !floats.EqualWithinAbs(v.core.U[2], 0, 1e-9) {
		t.Fatalf("expected no off-axis force with zero gimbal, got U=%v", v.core.U)
	}
	for i := 3; i < 6; i++ {
		if !floats.EqualWithinAbs(v.core.U[i], 0, 1e-9) {
			t.Fatalf("expected zero torque with zero gimbal, got U=%v", v.core.U)
		}
	}
}

func TestThrustGimballedProducesExpectedTorqueSign(t *testing.T) {
	s1, _ := NewStage("booster", 8000, 20, 2, -10)
	s2, _ := NewStage("upper", 2000, 5, 1, 2)
	universal := NewReferenceFrame("universal")
	v, _ := NewVessel("rocket", []*Stage{s1, s2}, universal, universal)
	theta := 0.05
	s1.SetGimbal(theta, 0)

	com := v.CenterOfMass()
	d := com + v.Length() // CoM - CoT.x, with CoT.x = -Length

	mag := Thrust(v, 10, 300, 1)

	wantFz := mag * math.Sin(theta)
	if !floats.EqualWithinAbs(v.core.U[2], wantFz, math.Abs(wantFz)*1e-9+1e-9) {
		t.Fatalf("Fz = %f, want %f", v.core.U[2], wantFz)
	}

	wantTorqueY := d * wantFz
	if !floats.EqualWithinAbs(v.core.U[4], wantTorqueY, math.Abs(wantTorqueY)*1e-9+1e-9) {
		t.Fatalf("torque_y = %f, want %f", v.core.U[4], wantTorqueY)
	}
	if !floats.EqualWithinAbs(v.core.U[3], 0, 1e-9) {
		t.Fatalf("expected zero torque_x, got %f", v.core.U[3])
	}
	if !floats.EqualWithinAbs(v.core.U[5], 0, 1e-9) {
		t.Fatalf("expected zero torque_z, got %f", v.core.U[5])
	}
}

func TestThrustReturnsZeroWhenStageSpent(t *testing.T) {
	s1, _ := NewStage("only", 1000, 10, 1, 0)
	universal := NewReferenceFrame("universal")
	v, _ := NewVessel("probe", []*Stage{s1}, universal, universal)
	s1.Burn(s1.WetMass)

	if mag := Thrust(v, 5, 300, 1); mag != 0 {
		t.Fatalf("expected zero thrust on a spent stage, got %f", mag)
	}
}
