package samss

import (
	"testing"

	"github.com/gonum/floats"
)

func TestNewCelestialBodyInertia(t *testing.T) {
	universal := NewReferenceFrame("universal")
	cb, err := NewCelestialBody("earth", 5.972e24, 6.371e6, universal, universal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (2.0 / 5.0) * 5.972e24 * 6.371e6 * 6.371e6
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(cb.core.Inertia.At(i, i), want, want*1e-9) {
			t.Fatalf("inertia[%d][%d] = %e, want %e", i, i, cb.core.Inertia.At(i, i), want)
		}
	}
}

func TestNewCelestialBodyRejectsNonPositiveMass(t *testing.T) {
	universal := NewReferenceFrame("universal")
	if _, err := NewCelestialBody("bad", -1, 1, universal, universal); err == nil {
		t.Fatalf("expected ConstructionError for negative mass")
	} else if _, ok := err.(*ConstructionError); !ok {
		t.Fatalf("expected *ConstructionError, got %T", err)
	}
}

func TestSurfaceGravityEarth(t *testing.T) {
	universal := NewReferenceFrame("universal")
	cb, _ := NewCelestialBody("earth", 5.972e24, 6.371e6, universal, universal)
	g := cb.SurfaceGravity()
	if g < 9.7 || g > 9.9 {
		t.Fatalf("expected Earth surface gravity near 9.8 m/s^2, got %f", g)
	}
}

func TestRotateBodyFixedRF(t *testing.T) {
	universal := NewReferenceFrame("universal")
	cb, _ := NewCelestialBody("earth", 5.972e24, 6.371e6, universal, universal)
	cb.BodyFixedRF = NewReferenceFrame("earthRF")
	cb.RotationRate = 7.292115e-5
	cb.RotateBodyFixedRF(3600)
	i, j, _ := cb.BodyFixedRF.IJK()
	if floats.EqualWithinAbs(i[0], 1, 1e-9) && floats.EqualWithinAbs(j[1], 1, 1e-9) {
		t.Fatalf("expected body-fixed frame to have rotated after one hour")
	}
}
