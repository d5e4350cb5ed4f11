package waterpy

import (
	"math"
	"testing"
	"time"
)

func testBasin() BasinParams {
	return BasinParams{
		ScalingParameter: 50.,
		Ksat:             100.,
		KsatMult:         1000.,
		SoilDepthTotal:   1.5,
		FieldCapacity:    0.3,
		Porosity:         0.45,
		WiltingPoint:     0.1,
		Latitude:         38.,
		BasinArea:        5e7,
		ImperviousFrac:   0.,
		FlowInitial:      1.,
	}
}

func testLand() LandTypeParams {
	return LandTypeParams{
		Type:               "forest",
		MacroporeFrac:      0.2,
		RootingDepthFactor: 0.5,
		ImperviousCN:       98.,
		CurveNumber:        70.,
		SnowTempCutoff:     32.,
		SnowMeltCoeff:      0.06,
		SnowRainMeltCoeff:  0.007,
		KPEC:               1.2,
		SpatialCoeff:       1.,
	}
}

func testTWI() TWI {
	return TWI{
		Values: []float64{3., 5., 7., 9., 12.},
		Areas:  []float64{0.1, 0.3, 0.3, 0.2, 0.1},
	}
}

func testForcing(nt int) *Forcing {
	t0 := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	frc := Forcing{
		T:  make([]time.Time, nt),
		P:  make([]float64, nt),
		Tm: make([]float64, nt),
	}
	for i := 0; i < nt; i++ {
		frc.T[i] = t0.AddDate(0, 0, i)
		frc.Tm[i] = 8. + 10.*math.Sin(float64(i)/14.)
		if i%3 == 0 {
			frc.P[i] = 5. + float64(i%11)
		}
	}
	return &frc
}

func TestNewValidates(t *testing.T) {
	b, lt, twi := testBasin(), testLand(), testTWI()
	frc := testForcing(30)

	if _, err := New(b, lt, twi, frc, Options{}); err != nil {
		t.Fatalf("valid inputs rejected: %v", err)
	}

	bb := b
	bb.FieldCapacity = 0.6 // exceeds porosity
	if _, err := New(bb, lt, twi, frc, Options{}); err == nil {
		t.Error("field capacity above porosity accepted")
	}

	tw := twi
	tw.Areas = []float64{0.5, 0.5, 0.5, 0.2, 0.1}
	if _, err := New(b, lt, tw, frc, Options{}); err == nil {
		t.Error("fractional areas not summing to one accepted")
	}

	lt2 := lt
	lt2.CurveNumber = 0.
	if _, err := New(b, lt2, twi, frc, Options{Mechanism: RunoffCurveNumber}); err == nil {
		t.Error("curve number mechanism without a curve number accepted")
	}

	if _, err := New(b, lt, twi, frc, Options{RandomizeHourly: true}); err != nil {
		t.Errorf("hourly disaggregation of a daily series rejected: %v", err)
	}
}

func TestInitialConditions(t *testing.T) {
	s, err := New(testBasin(), testLand(), testTWI(), testForcing(10), Options{})
	if err != nil {
		t.Fatal(err)
	}

	// srmax = rooting depth * 1000 * field capacity (Wolock eq 36)
	wantSrmax := 0.5 * 1.5 * 1000. * 0.3
	if math.Abs(s.drv.srmax-wantSrmax) > 1e-9 {
		t.Errorf("srmax = %f, want %f", s.drv.srmax, wantSrmax)
	}

	st := s.newState()
	for i, v := range st.srz {
		if math.Abs(v-0.5*s.drv.srmax) > 1e-9 {
			t.Errorf("class %d root zone initialized to %f, want half of %f", i, v, s.drv.srmax)
		}
	}
	if st.dm < 0. {
		t.Errorf("initial deficit %f negative", st.dm)
	}
}

func TestInitialFlowClamp(t *testing.T) {
	b, lt := testBasin(), testLand()
	twi := testTWI()
	twim := twi.WeightedMean()

	b.FlowInitial = 0.05
	low := newDerived(&b, &lt, twim, 1.)
	if low.q0 != 0.1 {
		t.Errorf("initial flow 0.05 clamped to %f, want 0.1", low.q0)
	}

	b.FlowInitial = 0.5
	mid := newDerived(&b, &lt, twim, 1.)
	if mid.q0 != 0.5 {
		t.Errorf("initial flow 0.5 altered to %f", mid.q0)
	}
	if low.d0 <= mid.d0 {
		t.Errorf("lower initial flow gave deficit %f not above %f", low.d0, mid.d0)
	}
}

// Root zone overflow: storage plus infiltration beyond capacity caps the
// root zone and drains the excess to the unsaturated zone.
func TestRootZoneOverflow(t *testing.T) {
	b, lt := testBasin(), testLand()
	b.SoilDepthTotal = 0.001 // srmax = 0.1 mm
	b.FieldCapacity = 0.1
	b.WiltingPoint = 0.05
	lt.RootingDepthFactor = 1.
	lt.MacroporeFrac = 0.
	twi := TWI{Values: []float64{7.}, Areas: []float64{1.}}

	s, err := New(b, lt, twi, testForcing(10), Options{})
	if err != nil {
		t.Fatal(err)
	}
	st := s.newState()
	st.dm = 1000. // deep water table; no local saturation
	st.srz[0] = 0.07

	fx, err := s.stepTopo(&st, 0.06, 20., 0, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(st.srz[0]-0.1) > 1e-12 {
		t.Errorf("root zone %f, want capped at 0.1", st.srz[0])
	}
	if fx.qof != 0. {
		t.Errorf("overflow generated %f surface runoff", fx.qof)
	}
	// the 0.03 mm spill is in the unsaturated zone less what drained
	if math.Abs(st.suz[0]+fx.qv-0.03) > 1e-9 {
		t.Errorf("unsaturated zone %f + drainage %f, want 0.03 spilled", st.suz[0], fx.qv)
	}
}

func runSim(t *testing.T, opts Options, nt int) (*Simulator, *Output) {
	t.Helper()
	s, err := New(testBasin(), testLand(), testTWI(), testForcing(nt), opts)
	if err != nil {
		t.Fatal(err)
	}
	o, err := s.Run()
	if err != nil {
		t.Fatal(err)
	}
	return s, o
}

// Closed run, routing off: precipitation balances evapotranspiration,
// streamflow and net storage change.
func TestMassBalance(t *testing.T) {
	s, o := runSim(t, Options{}, 365)

	var sumP, sumAET, sumQ float64
	for i := range o.Precip {
		sumP += o.Precip[i]
		sumAET += o.AET[i]
		sumQ += o.Flow[i]
	}
	// deficit is negative storage; the initial soil stores are half srmax
	soil0 := 0.5 * s.drv.srmax
	dSto := (o.Srz[len(o.Srz)-1] + o.Suz[len(o.Suz)-1] - soil0) - (o.Dm[len(o.Dm)-1] - s.drv.d0)

	res := sumP - sumAET - sumQ - dSto
	if rel := math.Abs(res) / sumP; rel > 1e-6 {
		t.Errorf("water balance residual %g (%g relative)", res, rel)
	}
}

func TestNonNegativeSeries(t *testing.T) {
	for name, opts := range map[string]Options{
		"topographic":  {},
		"snowmelt":     {Snowmelt: true},
		"curve number": {Mechanism: RunoffCurveNumber},
		"routing":      {Routing: true},
		"karst":        {Karst: true},
	} {
		_, o := runSim(t, opts, 120)
		for _, ser := range []struct {
			nam string
			v   []float64
		}{
			{"flow", o.Flow}, {"runoff", o.Qof}, {"subsurface flow", o.Qb},
			{"aet", o.AET}, {"deficit", o.Dm}, {"root zone", o.Srz},
			{"unsaturated zone", o.Suz}, {"swe", o.SWE},
		} {
			for i, v := range ser.v {
				if v < 0. || math.IsNaN(v) {
					t.Fatalf("%s: %s[%d] = %f", name, ser.nam, i, v)
				}
			}
		}
	}
}

func TestKarstDiversion(t *testing.T) {
	_, o := runSim(t, Options{Karst: true}, 120)
	var sumQb, sumKarst float64
	for i := range o.Qb {
		sumQb += o.Qb[i]
		sumKarst += o.Qkarst[i]
	}
	if sumQb != 0. {
		t.Errorf("karst run delivered %f subsurface flow to the stream", sumQb)
	}
	if sumKarst <= 0. {
		t.Error("karst run diverted no subsurface flow")
	}
}

func TestDeterminism(t *testing.T) {
	for name, opts := range map[string]Options{
		"daily":  {Snowmelt: true, Routing: true},
		"hourly": {RandomizeHourly: true},
	} {
		_, o1 := runSim(t, opts, 90)
		_, o2 := runSim(t, opts, 90)
		for i := range o1.Flow {
			if o1.Flow[i] != o2.Flow[i] {
				t.Fatalf("%s: flow[%d] differs between identical runs: %v vs %v", name, i, o1.Flow[i], o2.Flow[i])
			}
		}
	}
}

func TestHourlyAggregatesToDaily(t *testing.T) {
	_, o := runSim(t, Options{RandomizeHourly: true}, 60)
	if len(o.Flow) != 60 {
		t.Fatalf("hourly run returned %d daily values, want 60", len(o.Flow))
	}
}

func TestFlowDuration(t *testing.T) {
	_, o := runSim(t, Options{}, 200)
	probs, flows := o.FlowDuration()
	if len(probs) != len(o.Flow) {
		t.Fatalf("%d probabilities for %d flows", len(probs), len(o.Flow))
	}
	for i := range probs {
		if probs[i] <= 0. || probs[i] >= 1. {
			t.Errorf("probability %f outside (0,1)", probs[i])
		}
		if i > 0 {
			if probs[i] <= probs[i-1] {
				t.Errorf("probabilities not increasing at %d", i)
			}
			if flows[i] > flows[i-1] {
				t.Errorf("flows not non-increasing at %d", i)
			}
		}
	}
}

func TestRunOnce(t *testing.T) {
	s, err := New(testBasin(), testLand(), testTWI(), testForcing(30), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusInitialized {
		t.Fatalf("new simulator %s", s.Status())
	}
	if _, err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusComplete {
		t.Fatalf("finished simulator %s", s.Status())
	}
	if _, err := s.Run(); err == nil {
		t.Error("second run accepted")
	}
}

func TestWriteMatrices(t *testing.T) {
	_, o := runSim(t, Options{WriteMatrices: true}, 40)
	if len(o.SdLocals) != 40 {
		t.Fatalf("%d deficit rows, want 40", len(o.SdLocals))
	}
	for i, row := range o.SdLocals {
		if len(row) != 5 {
			t.Fatalf("row %d has %d classes, want 5", i, len(row))
		}
	}
}
