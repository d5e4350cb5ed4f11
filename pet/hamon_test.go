package pet

import (
	"math"
	"testing"
)

func TestDaylength(t *testing.T) {
	// near the equinox daylength is close to 12 hours at any latitude
	for _, lat := range []float64{0., 25., 45., 60.} {
		if d := Daylength(81, lat); math.Abs(d-12.) > 0.5 {
			t.Errorf("equinox daylength at %g° = %f hr", lat, d)
		}
	}
	// northern summer days are long, winter days short
	if s, w := Daylength(172, 45.), Daylength(355, 45.); s <= 12. || w >= 12. {
		t.Errorf("solstice daylengths %f and %f hr", s, w)
	}
	if d := Daylength(172, 0.); math.Abs(d-12.) > 0.5 {
		t.Errorf("equatorial daylength %f hr", d)
	}
}

func TestHamon(t *testing.T) {
	// warm summer day: a few mm/day
	if pe := Hamon(180, 25., 38., 1.2); pe < 2. || pe > 10. {
		t.Errorf("summer PET %f mm/day", pe)
	}
	// demand rises with temperature
	if Hamon(180, 30., 38., 1.2) <= Hamon(180, 15., 38., 1.2) {
		t.Error("PET not increasing with temperature")
	}
	// the calibration coefficient scales linearly
	a, b := Hamon(120, 20., 38., 1.), Hamon(120, 20., 38., 1.3)
	if math.Abs(b/a-1.3) > 1e-9 {
		t.Errorf("KPEC scaling %f", b/a)
	}
	// never negative
	if pe := Hamon(15, -30., 60., 1.2); pe < 0. {
		t.Errorf("PET %f below zero", pe)
	}
}
