package waterpy

import (
	"math"
	"testing"
)

func TestRouterConservesVolume(t *testing.T) {
	r, err := newRouter(true, 5e7, 0., 0., 1.)
	if err != nil {
		t.Fatal(err)
	}
	if r.tc < 1. {
		t.Fatalf("travel time %f below one timestep", r.tc)
	}

	in := []float64{0., 0., 20., 5., 0., 0., 0., 12., 0., 0.}
	var sto, sumIn, sumOut float64
	for _, q := range in {
		sumIn += q
		sumOut += r.route(&sto, q)
	}
	if math.Abs(sumIn-sumOut-sto) > 1e-9 {
		t.Errorf("inflow %f, outflow %f + storage %f", sumIn, sumOut, sto)
	}
}

func TestRouterPassThrough(t *testing.T) {
	r, err := newRouter(false, 0., 0., 0., 1.)
	if err != nil {
		t.Fatal(err)
	}
	var sto float64
	if out := r.route(&sto, 7.5); out != 7.5 {
		t.Errorf("pass-through returned %f", out)
	}
	if sto != 0. {
		t.Errorf("pass-through stored %f", sto)
	}
}

func TestRouterConfig(t *testing.T) {
	if _, err := newRouter(true, 0., 0., 0., 1.); err == nil {
		t.Error("routing with no basin area or channel length accepted")
	}
	r, err := newRouter(true, 0., 5000., 240., 1.)
	if err != nil {
		t.Fatal(err)
	}
	if want := 5000. / 240.; math.Abs(r.tc-want) > 1e-9 {
		t.Errorf("travel time %f, want %f", r.tc, want)
	}
}

func TestSCSRunoff(t *testing.T) {
	// CN 80: S = 2.5 in; below the initial abstraction no runoff
	if q := scsRunoff(0.4*25.4, 80.); q != 0. {
		t.Errorf("runoff %f below initial abstraction", q)
	}
	// P = 3 in: Q = (3-0.5)²/(3+2) = 1.25 in
	if q := scsRunoff(3.*25.4, 80.); math.Abs(q-1.25*25.4) > 1e-9 {
		t.Errorf("runoff %f mm, want %f", q, 1.25*25.4)
	}
	// runoff approaches precipitation for an impervious surface
	if q := scsRunoff(100., 98.); q <= 0. || q >= 100. {
		t.Errorf("impervious runoff %f outside (0,100)", q)
	}
}
