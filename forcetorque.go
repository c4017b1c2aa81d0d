package samss

import "math"

// Gravity applies Newtonian point-mass gravitational force to obj2 due to
// obj1: F = G*m1*m2*(r1-r2)/||r1-r2||^3, pointing from 2 toward 1. The
// System driver calls this once per ordered pair it wants accelerated;
// mutual two-body interactions call it twice with arguments swapped (see
// system.go), while a vessel's pull on a celestial body is intentionally
// never applied.
func Gravity(obj1, obj2 Body) {
	rb1, rb2 := obj1.Core(), obj2.Core()
	r := SubVec(rb1.Position(false), rb2.Position(false))
	d := Norm(r)
	if d == 0 {
		panic(&NumericalError{Body: rb2.Name, Reason: "zero separation in gravity calculation"})
	}
	mag := G * rb1.Mass * rb2.Mass / (d * d)
	f := ScaleVec(mag, Unit(r))
	rb2.AddForce(f, false)
}

// Thrust applies the force/torque produced by a Vessel's active stage
// burning mdot [kg.s**-1] of propellant at specific impulse isp [s] over
// dt. Thrust magnitude T = g0*Isp*mdot. In the body frame,
// F = T*[cos(psi)*cos(theta), sin(psi), sin(theta)] where (theta, psi)
// are the stage's (pitch, yaw) gimbal angles, and the torque about the
// center of mass is F x (CoM - CoT). If the active stage is out of
// propellant, Thrust returns zero and does not call Burn.
func Thrust(v *Vessel, mdot, isp, dt float64) float64 {
	s := v.ActiveStage()
	if s == nil {
		return 0
	}
	// The lever arm uses the center of mass as it was at the start of the
	// step, before this step's propellant is burned.
	com := v.CenterOfMass()
	burned := v.Burn(mdot * dt)
	if burned <= 0 {
		return 0
	}
	actualMdot := burned / dt
	magnitude := g0 * isp * actualMdot

	theta, psi := s.GimbalPitch, s.GimbalYaw
	force := []float64{
		magnitude * math.Cos(psi) * math.Cos(theta),
		magnitude * math.Sin(psi),
		magnitude * math.Sin(theta),
	}

	cot := v.CenterOfThrust()
	r := SubVec([]float64{com, 0, 0}, cot)
	torque := Cross(force, r)

	v.core.AddForce(force, true)
	v.core.AddTorque(torque, true)
	return magnitude
}
