package ephemeris

import (
	"time"

	"github.com/soniakeys/meeus/julian"
)

// JulianDate converts a calendar time to its Julian date.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t)
}

// CalendarDate converts a Julian date back to a calendar time (UTC).
func CalendarDate(jd float64) time.Time {
	return julian.JDToTime(jd).UTC()
}
