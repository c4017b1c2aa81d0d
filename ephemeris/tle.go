package ephemeris

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TLE is a decoded two-line element set: the subset of fields needed to
// produce classical orbital elements (Elements), following the column
// layout of the NORAD TLE format.
type TLE struct {
	SatNo    string
	Epoch    time.Time
	Inclination float64 // deg
	RAAN        float64 // deg, right ascension of ascending node
	Eccentricity float64
	ArgPerigee  float64 // deg
	MeanAnomaly float64 // deg
	MeanMotion  float64 // rev/day
}

// ParseTLE decodes a two-line element set. line1 and line2 must each be at
// least 69 characters, per the fixed-column NORAD format.
func ParseTLE(line1, line2 string) (*TLE, error) {
	if len(line1) < 69 || len(line2) < 69 {
		return nil, fmt.Errorf("[ephemeris] TLE lines must be at least 69 characters")
	}
	satNo1 := strings.TrimSpace(line1[2:7])
	satNo2 := strings.TrimSpace(line2[2:7])
	if satNo1 != satNo2 {
		return nil, fmt.Errorf("[ephemeris] TLE satellite number mismatch: %q vs %q", satNo1, satNo2)
	}

	yy, err := strconv.ParseFloat(strings.TrimSpace(line1[18:20]), 64)
	if err != nil {
		return nil, fmt.Errorf("[ephemeris] parsing TLE epoch year: %w", err)
	}
	doy, err := strconv.ParseFloat(strings.TrimSpace(line1[20:32]), 64)
	if err != nil {
		return nil, fmt.Errorf("[ephemeris] parsing TLE epoch day-of-year: %w", err)
	}
	year := int(yy) + 1900
	if yy < 57 {
		year = int(yy) + 2000
	}
	epoch := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration((doy - 1) * 24 * float64(time.Hour)))

	inc, err := strconv.ParseFloat(strings.TrimSpace(line2[8:16]), 64)
	if err != nil {
		return nil, fmt.Errorf("[ephemeris] parsing TLE inclination: %w", err)
	}
	raan, err := strconv.ParseFloat(strings.TrimSpace(line2[17:25]), 64)
	if err != nil {
		return nil, fmt.Errorf("[ephemeris] parsing TLE RAAN: %w", err)
	}
	eccStr := strings.TrimSpace(line2[26:33])
	ecc, err := strconv.ParseFloat("0."+eccStr, 64)
	if err != nil {
		return nil, fmt.Errorf("[ephemeris] parsing TLE eccentricity: %w", err)
	}
	argp, err := strconv.ParseFloat(strings.TrimSpace(line2[34:42]), 64)
	if err != nil {
		return nil, fmt.Errorf("[ephemeris] parsing TLE argument of perigee: %w", err)
	}
	ma, err := strconv.ParseFloat(strings.TrimSpace(line2[43:51]), 64)
	if err != nil {
		return nil, fmt.Errorf("[ephemeris] parsing TLE mean anomaly: %w", err)
	}
	mm, err := strconv.ParseFloat(strings.TrimSpace(line2[52:63]), 64)
	if err != nil {
		return nil, fmt.Errorf("[ephemeris] parsing TLE mean motion: %w", err)
	}
	if mm <= 0 || ecc < 0 {
		return nil, fmt.Errorf("[ephemeris] TLE data error for satellite %s", satNo1)
	}

	return &TLE{
		SatNo:        satNo1,
		Epoch:        epoch,
		Inclination:  inc,
		RAAN:         raan,
		Eccentricity: ecc,
		ArgPerigee:   argp,
		MeanAnomaly:  ma,
		MeanMotion:   mm,
	}, nil
}

// Elements converts the TLE's mean elements into classical orbital
// elements about the given gravitational parameter mu [m**3.s**-2].
// Mean motion (rev/day) is converted to semi-major axis via Kepler's
// third law.
func (t *TLE) Elements(mu float64) OrbitalElements {
	n := t.MeanMotion * 2 * math.Pi / 86400.0 // rad/s
	a := math.Cbrt(mu / (n * n))
	return OrbitalElements{
		SemiMajorAxis: a,
		Eccentricity:  t.Eccentricity,
		Inclination:   deg2rad(t.Inclination),
		RAAN:          deg2rad(t.RAAN),
		ArgPerigee:    deg2rad(t.ArgPerigee),
		MeanAnomaly:   deg2rad(t.MeanAnomaly),
	}
}
