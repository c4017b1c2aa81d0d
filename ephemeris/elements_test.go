package ephemeris

import (
	"math"
	"testing"
)

const muEarth = 3.986004418e14

func TestToCartesianCircularEquatorial(t *testing.T) {
	oe := OrbitalElements{
		SemiMajorAxis: 7000e3,
		Eccentricity:  0,
		Inclination:   0,
		RAAN:          0,
		ArgPerigee:    0,
		MeanAnomaly:   0,
	}
	r, v := oe.ToCartesian(muEarth)
	rMag := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
	if math.Abs(rMag-7000e3) > 1 {
		t.Fatalf("expected |r| ~= 7000km, got %f", rMag)
	}
	if math.Abs(r[2]) > 1e-6 || math.Abs(v[2]) > 1e-6 {
		t.Fatalf("equatorial orbit should have zero z-component: r=%v v=%v", r, v)
	}
}

func TestToCartesianVisVivaConsistency(t *testing.T) {
	oe := OrbitalElements{
		SemiMajorAxis: 8000e3,
		Eccentricity:  0.1,
		Inclination:   deg2rad(28.5),
		RAAN:          deg2rad(10),
		ArgPerigee:    deg2rad(20),
		MeanAnomaly:   deg2rad(45),
	}
	r, v := oe.ToCartesian(muEarth)
	rMag := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
	vMag := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	expected := math.Sqrt(muEarth * (2/rMag - 1/oe.SemiMajorAxis))
	if math.Abs(vMag-expected) > 1e-3 {
		t.Fatalf("vis-viva mismatch: got %f, want %f", vMag, expected)
	}
}

func TestSolveKeplerRoundTrip(t *testing.T) {
	e := 0.3
	for _, m := range []float64{0, 0.5, 1.2, 3.0, 5.5} {
		E := solveKepler(m, e)
		got := E - e*math.Sin(E)
		if math.Abs(got-m) > 1e-9 {
			t.Fatalf("Kepler's equation not satisfied for M=%f: got %f", m, got)
		}
	}
}

func TestParseTLEAndElements(t *testing.T) {
	line1 := "1 25544U 98067A   20045.18587073  .00000950  00000-0  25302-4 0  9990"
	line2 := "2 25544  51.6443  59.7930 0004928 356.0843 131.6919 15.49308705214121"
	tle, err := ParseTLE(line1, line2)
	if err != nil {
		t.Fatalf("ParseTLE: %v", err)
	}
	if tle.SatNo != "25544" {
		t.Fatalf("expected satellite number 25544, got %q", tle.SatNo)
	}
	oe := tle.Elements(muEarth)
	if oe.SemiMajorAxis < 6.6e6 || oe.SemiMajorAxis > 6.8e6 {
		t.Fatalf("expected ISS-like semi-major axis near 6700km, got %f", oe.SemiMajorAxis)
	}
	if math.Abs(oe.Eccentricity-0.0004928) > 1e-6 {
		t.Fatalf("expected eccentricity 0.0004928, got %f", oe.Eccentricity)
	}
}
