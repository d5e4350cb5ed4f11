package snowpack

import (
	"math"
	"testing"
)

func newTestPack() Pack { return New(32., 0.007, 0.06, 1.) }

func TestColdPrecipAccumulates(t *testing.T) {
	s := newTestPack()
	wi, melt := s.Update(10., -5.)
	if melt != 0. {
		t.Errorf("melt %f below the temperature cutoff", melt)
	}
	// only the geothermal bottom melt releases water
	ground := 0.02 * 0.1 * 25.4
	if math.Abs(wi-ground) > 1e-9 {
		t.Errorf("water input %f while accumulating, want bottom melt %f", wi, ground)
	}
	// the rest of the precipitation held as snow water equivalent
	if math.Abs(s.SWE()-(10.-ground)) > 1e-9 {
		t.Errorf("SWE %f mm, want %f", s.SWE(), 10.-ground)
	}
	if math.Abs(s.Depth()-(100.-0.02*25.4)) > 1e-9 {
		t.Errorf("depth %f mm at 0.1 water equivalence", s.Depth())
	}
}

func TestWarmDayMelts(t *testing.T) {
	s := newTestPack()
	s.Update(20., -10.)
	swe0 := s.SWE()

	wi, melt := s.Update(0., 10.)
	if melt <= 0. {
		t.Fatal("no melt above the temperature cutoff")
	}
	if wi <= 0. {
		t.Error("melt released no water")
	}
	if s.SWE() >= swe0 {
		t.Errorf("SWE rose from %f to %f while melting", swe0, s.SWE())
	}
}

func TestRainOnSnowMeltsFaster(t *testing.T) {
	dry, wet := newTestPack(), newTestPack()
	dry.Update(50., -10.)
	wet.Update(50., -10.)
	_, mDry := dry.Update(0., 5.)
	_, mWet := wet.Update(15., 5.)
	if mWet <= mDry {
		t.Errorf("rain-on-snow melt %f not above dry melt %f", mWet, mDry)
	}
}

func TestMeltLimitedToPack(t *testing.T) {
	s := newTestPack()
	s.Update(1., -10.) // thin pack
	for i := 0; i < 5; i++ {
		s.Update(0., 25.)
		if s.SWE() < 0. {
			t.Fatalf("SWE %f negative", s.SWE())
		}
	}
	if s.SWE() != 0. {
		t.Errorf("thin pack not exhausted, SWE %f", s.SWE())
	}
}

func TestGroundMeltDrainsPack(t *testing.T) {
	s := newTestPack()
	s.Update(100., -10.)
	wi, _ := s.Update(0., -10.)
	// no precipitation, below cutoff: only the geothermal term releases water
	if wi <= 0. {
		t.Error("no bottom melt released")
	}
	if math.Abs(wi-0.02*0.1*25.4) > 1e-9 {
		t.Errorf("bottom melt %f mm", wi)
	}
}
