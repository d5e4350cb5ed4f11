// Package pet provides potential evapotranspiration estimators.
package pet

import "math"

const (
	deg2rad = math.Pi / 180.
	rad2deg = 180. / math.Pi
)

// Hamon returns the potential evapotranspiration [mm/day] for a given
// day of year, daily mean air temperature [°C], latitude [°] and
// calibration coefficient KPEC (dimensionless; 1.2 for the southeastern US).
//
//	PET = 0.1651 Ld ρsat KPEC
//
// where Ld is the daytime length in multiples of 12 hours and ρsat the
// saturated vapour density [g/m³] at the daily mean air temperature.
// ref: Lu etal. (2005) A comparison of six potential evapotranspiration
// methods for regional use in the southeastern United States.
func Hamon(doy int, tC, latitudeDeg, kpec float64) float64 {
	ld := Daylength(doy, latitudeDeg) / 12.
	esat := 6.108 * math.Exp(17.26939*tC/(tC+237.3)) // saturated vapour pressure [mb]
	rhosat := 216.7 * esat / (tC + 273.3)            // saturated vapour density [g/m³]
	pe := 0.1651 * ld * rhosat * kpec
	if pe < 0. {
		return 0.
	}
	return pe
}

// Daylength returns the time from sunrise to sunset [hr].
// ref: Brock (1981) Calculating solar radiation for ecological studies.
func Daylength(doy int, latitudeDeg float64) float64 {
	decl := 23.45 * deg2rad * math.Sin(360.*(284.+float64(doy))/365.*deg2rad) // solar declination [rad]
	w := math.Acos(-math.Tan(decl)*math.Tan(latitudeDeg*deg2rad)) * rad2deg   // sunset hour angle [°]; Earth rotates 15°/hr
	return math.Abs(w / 15. * 2.)
}
