package ephemeris

import "math"

const deg2radConst = math.Pi / 180

func deg2rad(x float64) float64 { return x * deg2radConst }

// OrbitalElements is a classical Keplerian element set. Angles are in
// radians; SemiMajorAxis is in meters.
type OrbitalElements struct {
	SemiMajorAxis float64
	Eccentricity  float64
	Inclination   float64
	RAAN          float64
	ArgPerigee    float64
	MeanAnomaly   float64
}

// ToCartesian converts the elements to a position/velocity pair [m, m/s]
// about the given gravitational parameter mu [m**3.s**-2], following the
// perifocal-to-inertial (COE2RV) construction: solve Kepler's equation for
// eccentric anomaly, build the perifocal state, then rotate by RAAN, i,
// argp (3-1-3 Euler sequence, Rz(RAAN)*Rx(i)*Rz(argp)).
func (oe OrbitalElements) ToCartesian(mu float64) (r, v [3]float64) {
	e := oe.Eccentricity
	E := solveKepler(oe.MeanAnomaly, e)
	cosE, sinE := math.Cos(E), math.Sin(E)
	nu := math.Atan2(math.Sqrt(1-e*e)*sinE, cosE-e)

	p := oe.SemiMajorAxis * (1 - e*e)
	sinNu, cosNu := math.Sincos(nu)
	rMag := p / (1 + e*cosNu)
	rPQW := [3]float64{rMag * cosNu, rMag * sinNu, 0}
	muOverP := math.Sqrt(mu / p)
	vPQW := [3]float64{-muOverP * sinNu, muOverP * (e + cosNu), 0}

	r = rot313(oe.RAAN, oe.Inclination, oe.ArgPerigee, rPQW)
	v = rot313(oe.RAAN, oe.Inclination, oe.ArgPerigee, vPQW)
	return r, v
}

// solveKepler solves M = E - e*sin(E) for E via Newton-Raphson, starting
// from E0 = M (adequate for the eccentricities this package targets; e < 1).
func solveKepler(m, e float64) float64 {
	E := m
	for i := 0; i < 50; i++ {
		f := E - e*math.Sin(E) - m
		fPrime := 1 - e*math.Cos(E)
		dE := f / fPrime
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}

// rot313 applies a 3-1-3 Euler rotation to v: Rz(a)*Rx(b)*Rz(c)*v, matching
// the perifocal-to-inertial frame rotation used by classical orbital-element
// conversions.
func rot313(a, b, c float64, v [3]float64) [3]float64 {
	v1 := rotZ(c, v)
	v2 := rotX(b, v1)
	return rotZ(a, v2)
}

func rotZ(theta float64, v [3]float64) [3]float64 {
	s, cz := math.Sincos(theta)
	return [3]float64{
		cz*v[0] - s*v[1],
		s*v[0] + cz*v[1],
		v[2],
	}
}

func rotX(theta float64, v [3]float64) [3]float64 {
	s, c := math.Sincos(theta)
	return [3]float64{
		v[0],
		c*v[1] - s*v[2],
		s*v[1] + c*v[2],
	}
}
