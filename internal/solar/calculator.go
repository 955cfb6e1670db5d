// Package solar computes sunrise and sunset instants for a geographic
// coordinate using the solar declination and hour-angle method.
package solar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// riseSetZenithDeg is the solar zenith angle at sunrise/sunset: 90°50',
// the geometric horizon plus standard atmospheric refraction and the
// Sun's apparent radius.
const riseSetZenithDeg = 90.833

// ErrInvalidCoordinate is returned when a latitude or longitude is out of range.
// Out-of-range input is a caller bug, not a recoverable condition.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a geographic position in floating-point degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Validate checks that the coordinate is within latitude [-90, 90] and
// longitude [-180, 180].
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrInvalidCoordinate, c.Lat)
	}
	if math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrInvalidCoordinate, c.Lon)
	}
	return nil
}

// Condition describes whether a calendar day has a normal diurnal cycle.
type Condition string

const (
	// ConditionNormal means the sun both rises and sets on the day.
	ConditionNormal Condition = "NORMAL"

	// ConditionPolarDay means the sun never sets (midnight sun).
	ConditionPolarDay Condition = "POLAR_DAY"

	// ConditionPolarNight means the sun never rises.
	ConditionPolarNight Condition = "POLAR_NIGHT"
)

// Day holds the solar events for one calendar day at one coordinate.
// Sunrise and Sunset are absolute UTC instants and are only meaningful
// when Condition is ConditionNormal.
type Day struct {
	Date      time.Time
	Condition Condition
	Sunrise   time.Time
	Sunset    time.Time
}

// Times computes the sunrise and sunset instants for the calendar day of
// date at the given coordinate. Any time-of-day component of date is
// ignored; only year, month and day (in date's location) matter.
//
// Polar day and polar night are expected geographic conditions and are
// reported through Day.Condition, not as errors. The only error case is
// an out-of-range coordinate.
//
// The computation is deterministic and safe for concurrent use.
func Times(date time.Time, coord Coordinate) (Day, error) {
	if err := coord.Validate(); err != nil {
		return Day{}, err
	}

	year, month, dayOfMonth := date.Date()
	civil := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, date.Location())
	day := Day{Date: civil}

	// Fractional year at local midday, in radians.
	gamma := 2 * math.Pi / 365 * (float64(civil.YearDay()-1) + 0.5)

	declRad := declination(gamma)
	eqTimeMinutes := equationOfTime(gamma)

	// Hour angle at which the sun's zenith angle equals the rise/set
	// threshold: cos(H) = (cos(z) - sin(lat)sin(decl)) / (cos(lat)cos(decl)).
	latRad := coord.Lat * math.Pi / 180
	zenithRad := riseSetZenithDeg * math.Pi / 180
	cosH := (math.Cos(zenithRad) - math.Sin(latRad)*math.Sin(declRad)) /
		(math.Cos(latRad) * math.Cos(declRad))

	switch {
	case cosH > 1:
		day.Condition = ConditionPolarNight
		return day, nil
	case cosH < -1:
		day.Condition = ConditionPolarDay
		return day, nil
	}

	hourAngleDeg := math.Acos(cosH) * 180 / math.Pi

	// Solar noon in minutes from UTC midnight: each degree of longitude is
	// four minutes of clock time; east of Greenwich means earlier UTC.
	solarNoonMinutes := 720 - 4*coord.Lon - eqTimeMinutes
	halfDayMinutes := 4 * hourAngleDeg

	utcMidnight := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
	day.Condition = ConditionNormal
	day.Sunrise = utcMidnight.Add(minutesToDuration(solarNoonMinutes - halfDayMinutes))
	day.Sunset = utcMidnight.Add(minutesToDuration(solarNoonMinutes + halfDayMinutes))
	return day, nil
}

// declination returns the solar declination in radians for the fractional
// year gamma, using the NOAA low-precision series.
func declination(gamma float64) float64 {
	return 0.006918 -
		0.399912*math.Cos(gamma) +
		0.070257*math.Sin(gamma) -
		0.006758*math.Cos(2*gamma) +
		0.000907*math.Sin(2*gamma) -
		0.002697*math.Cos(3*gamma) +
		0.00148*math.Sin(3*gamma)
}

// equationOfTime returns the equation of time in minutes for the fractional
// year gamma: the difference between apparent and mean solar time.
func equationOfTime(gamma float64) float64 {
	return 229.18 * (0.000075 +
		0.001868*math.Cos(gamma) -
		0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) -
		0.040849*math.Sin(2*gamma))
}

func minutesToDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}
