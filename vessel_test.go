package samss

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func twoStageVessel(t *testing.T) *Vessel {
	t.Helper()
	s1, _ := NewStage("booster", 8000, 20, 2, -10)
	s2, _ := NewStage("upper", 2000, 5, 1, 2)
	universal := NewReferenceFrame("universal")
	v, err := NewVessel("rocket", []*Stage{s1, s2}, universal, universal)
	if err != nil {
		t.Fatalf("unexpected error constructing vessel: %v", err)
	}
	return v
}

func TestVesselMassIsSumOfStages(t *testing.T) {
	v := twoStageVessel(t)
	if !floats.EqualWithinAbs(v.Mass(), 10000, 1e-9) {
		t.Fatalf("expected mass=10000, got %f", v.Mass())
	}
}

func TestVesselLengthIsSumOfStages(t *testing.T) {
	v := twoStageVessel(t)
	if !floats.EqualWithinAbs(v.Length(), 25, 1e-9) {
		t.Fatalf("expected length=25, got %f", v.Length())
	}
}

func TestVesselInertiaUsesOnlyLastStageRadius(t *testing.T) {
	v := twoStageVessel(t)
	mass := v.Mass()
	rLast := 1.0
	L := 25.0
	wantIxx := 0.5 * mass * rLast * rLast
	wantIyy := mass * (3*rLast*rLast + L*L) / 12.0
	if !floats.EqualWithinAbs(v.core.Inertia.At(0, 0), wantIxx, wantIxx*1e-9) {
		t.Fatalf("Ixx = %e, want %e", v.core.Inertia.At(0, 0), wantIxx)
	}
	if !floats.EqualWithinAbs(v.core.Inertia.At(1, 1), wantIyy, wantIyy*1e-9) {
		t.Fatalf("Iyy = %e, want %e", v.core.Inertia.At(1, 1), wantIyy)
	}
	if !floats.EqualWithinAbs(v.core.Inertia.At(2, 2), wantIyy, wantIyy*1e-9) {
		t.Fatalf("Izz = %e, want %e", v.core.Inertia.At(2, 2), wantIyy)
	}
}

func TestVesselCenterOfThrustIsStackTail(t *testing.T) {
	v := twoStageVessel(t)
	cot := v.CenterOfThrust()
	want := []float64{-25, 0, 0}
	for i := range want {
		if !floats.EqualWithinAbs(cot[i], want[i], 1e-9) {
			t.Fatalf("expected CoT=%v, got %v", want, cot)
		}
	}
}

func TestActiveStageIsFirstNonSpent(t *testing.T) {
	v := twoStageVessel(t)
	if v.ActiveStage() != v.Stages[0] {
		t.Fatalf("expected first stage to be active initially")
	}
	v.Stages[0].Burn(v.Stages[0].WetMass)
	if v.ActiveStage() != v.Stages[1] {
		t.Fatalf("expected second stage to become active once the first is spent")
	}
}

func TestActiveStageNilWhenAllSpent(t *testing.T) {
	v := twoStageVessel(t)
	for _, s := range v.Stages {
		s.Burn(s.WetMass)
	}
	if v.ActiveStage() != nil {
		t.Fatalf("expected nil active stage once every stage is spent")
	}
}

func TestBurnUpdatesMassAndShiftsPositionWithCoM(t *testing.T) {
	v := twoStageVessel(t)
	comBefore := v.CenterOfMass()
	p0 := v.core.Position(false)

	burned := v.Burn(1000)
	if burned != 1000 {
		t.Fatalf("expected to burn 1000 kg, got %f", burned)
	}
	if !floats.EqualWithinAbs(v.Mass(), 9000, 1e-9) {
		t.Fatalf("expected mass=9000 after burn, got %f", v.Mass())
	}

	comAfter := v.CenterOfMass()
	if floats.EqualWithinAbs(comAfter, comBefore, 1e-12) {
		t.Fatalf("expected center of mass to shift after an uneven burn")
	}

	p1 := v.core.Position(false)
	wantDeltaX := comAfter - comBefore
	if !floats.EqualWithinAbs(p1[0]-p0[0], wantDeltaX, 1e-9) {
		t.Fatalf("expected position x to shift by %f, got %f", wantDeltaX, p1[0]-p0[0])
	}
}

func TestBurnWithNoActiveStageIsNoOp(t *testing.T) {
	v := twoStageVessel(t)
	for _, s := range v.Stages {
		s.Burn(s.WetMass)
	}
	if burned := v.Burn(100); burned != 0 {
		t.Fatalf("expected burn with no active stage to be a no-op, got %f", burned)
	}
}

func TestRebuildNEDAndHeadingOnOrbitRadial(t *testing.T) {
	universal := NewReferenceFrame("universal")
	earth, err := NewCelestialBody("earth", 5.972e24, 6.371e6, universal, universal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	earth.core.SetPosition([]float64{0, 0, 0}, false)

	v := twoStageVessel(t)
	v.core.UniversalRF = universal
	v.core.ParentRF = universal
	radius := 7.0e6
	v.core.SetPosition([]float64{radius, 0, 0}, false)
	v.RebuildNED(earth)

	north, east, down := v.NED.IJK()
	wantNorth := []float64{0, 0, 1}
	wantEast := []float64{0, 1, 0}
	wantDown := []float64{-1, 0, 0}
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(north[i], wantNorth[i], 1e-9) {
			t.Fatalf("north=%v, want %v", north, wantNorth)
		}
		if !floats.EqualWithinAbs(east[i], wantEast[i], 1e-9) {
			t.Fatalf("east=%v, want %v", east, wantEast)
		}
		if !floats.EqualWithinAbs(down[i], wantDown[i], 1e-9) {
			t.Fatalf("down=%v, want %v", down, wantDown)
		}
	}

	heading := v.Heading()
	if !floats.EqualWithinAbs(heading[0], 0, 1e-9) {
		t.Fatalf("expected direction=0, got %f", heading[0])
	}
	if !floats.EqualWithinAbs(heading[1], math.Pi/2, 1e-9) {
		t.Fatalf("expected pitch=pi/2, got %f", heading[1])
	}
}

func TestHeadingWithoutNEDIsZero(t *testing.T) {
	v := twoStageVessel(t)
	h := v.Heading()
	if h[0] != 0 || h[1] != 0 {
		t.Fatalf("expected zero heading before RebuildNED, got %v", h)
	}
}
