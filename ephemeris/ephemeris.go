// Package ephemeris supplies the external collaborators listed in SPEC_FULL
// §6 that sit outside the propagator core: calendar/Julian-date
// conversion, TLE parsing, and orbital-elements-to-Cartesian state
// conversion. None of these types participate in integration; they only
// ever produce the initial position/velocity vectors an samss.RigidBody is
// seeded with.
package ephemeris

// Query is the interface a Timestep-seeding caller implements to obtain
// initial state from an external source (a TLE catalog, a SPICE kernel, a
// network ephemeris service). samss itself never calls Query; it is a
// collaborator contract for callers of the core package, matching the
// "file readers / HTTP fetch" exclusion in SPEC_FULL §1.
type Query interface {
	// StateAt returns [x, y, z, vx, vy, vz] in meters and meters/second,
	// in the frame the implementation documents, at Julian date jd.
	StateAt(jd float64) ([6]float64, error)
}
