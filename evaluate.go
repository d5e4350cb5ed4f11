package waterpy

import (
	"fmt"
	"math/rand"

	"github.com/gosuri/uiprogress"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"

	"github.com/jlant/waterpy/pet"
	"github.com/jlant/waterpy/snowpack"
)

// hourlySeed fixes the daily-to-hourly disaggregation realization so repeated
// runs over the same inputs are identical.
const hourlySeed = 1

// Status is the simulation lifecycle state.
type Status int

const (
	StatusInitialized Status = iota
	StatusRunning
	StatusComplete
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInitialized:
		return "initialized"
	case StatusRunning:
		return "running"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Simulator drives one watershed simulation over a forcing series. Build it
// with New; a Simulator runs once.
type Simulator struct {
	Basin BasinParams
	Land  LandTypeParams
	Twi   TWI
	Frc   *Forcing

	opts   Options
	dtf    float64 // forcing timestep as a fraction of one day
	sdtf   float64 // simulation timestep daily fraction (1/24 when disaggregating)
	twim   float64 // area-weighted mean topographic index
	drv    derived
	rtr    router
	status Status
}

// New validates the full parameter set, forcing and options and assembles a
// Simulator. Every check happens here; once New returns without error the run
// can only fail on a numeric domain violation.
func New(b BasinParams, lt LandTypeParams, twi TWI, frc *Forcing, opts Options) (*Simulator, error) {
	if err := b.Check(); err != nil {
		return nil, err
	}
	if err := lt.Check(); err != nil {
		return nil, err
	}
	if err := twi.Check(); err != nil {
		return nil, err
	}
	if frc == nil {
		return nil, &DataAlignmentError{"no forcing series"}
	}
	if err := frc.Check(); err != nil {
		return nil, err
	}
	if opts.Mechanism == RunoffCurveNumber && lt.CurveNumber <= 0. {
		return nil, &ConfigurationError{"curve_number", "required by the curve number runoff mechanism"}
	}

	dtf := frc.DailyFraction()
	if dtf > 1. {
		return nil, &DataAlignmentError{fmt.Sprintf("timestep of %g days exceeds one day", dtf)}
	}
	if opts.RandomizeHourly && dtf != 1. {
		return nil, &ConfigurationError{"option_randomize_daily_to_hourly", fmt.Sprintf("requires a daily forcing series, timestep is %g days", dtf)}
	}
	sdtf := dtf
	if opts.RandomizeHourly {
		sdtf = 1. / 24.
	}

	s := Simulator{
		Basin: b, Land: lt, Twi: twi, Frc: frc,
		opts: opts, dtf: dtf, sdtf: sdtf,
		twim:   twi.WeightedMean(),
		status: StatusInitialized,
	}
	s.drv = newDerived(&b, &lt, s.twim, sdtf)

	rtr, err := newRouter(opts.Routing, b.BasinArea, b.ChannelLengthMax, b.ChannelVelocity, sdtf)
	if err != nil {
		return nil, err
	}
	s.rtr = rtr
	return &s, nil
}

// Status reports the simulation lifecycle state.
func (s *Simulator) Status() Status { return s.status }

// Run executes the simulation: snow and potential evapotranspiration
// preprocessing at the forcing timestep, the soil/saturated zone recurrence
// at the simulation timestep, then channel routing. On any error no partial
// output is returned and the Simulator is left failed.
func (s *Simulator) Run() (*Output, error) {
	if s.status != StatusInitialized {
		return nil, &ConfigurationError{"simulator", fmt.Sprintf("run requested while %s", s.status)}
	}
	s.status = StatusRunning

	o, err := s.run()
	if err != nil {
		s.status = StatusFailed
		return nil, err
	}
	s.status = StatusComplete
	return o, nil
}

func (s *Simulator) run() (*Output, error) {
	frc := s.Frc
	nt := len(frc.T)

	o := &Output{
		T:      frc.T,
		Precip: frc.P,
		Temp:   frc.Tm,
		Qobs:   frc.Qobs,
		PET:    make([]float64, nt),
	}

	// potential evapotranspiration [mm/timestep]
	for i, t := range frc.T {
		if frc.EP != nil {
			o.PET[i] = frc.EP[i] * s.dtf
		} else {
			o.PET[i] = pet.Hamon(t.YearDay(), frc.Tm[i], s.Basin.Latitude, s.Land.KPEC) * s.dtf
		}
	}

	// snow accumulation and melt
	wi := make([]float64, nt) // water input reaching the soil
	if s.opts.Snowmelt {
		o.SnowPrecip = make([]float64, nt)
		o.Snowmelt = make([]float64, nt)
		o.SnowpackDepth = make([]float64, nt)
		o.SWE = make([]float64, nt)
		sp := snowpack.New(s.Land.SnowTempCutoff, s.Land.SnowRainMeltCoeff, s.Land.SnowMeltCoeff, s.dtf)
		for i := range frc.P {
			if frc.Tm[i]*1.8+32. < s.Land.SnowTempCutoff {
				o.SnowPrecip[i] = frc.P[i]
			}
			w, m := sp.Update(frc.P[i], frc.Tm[i])
			wi[i] = w
			o.Snowmelt[i] = m
			o.SnowpackDepth[i] = sp.Depth()
			o.SWE[i] = sp.SWE()
		}
	} else {
		copy(wi, frc.P)
	}

	// water available for recharge (negative: unmet evaporative demand)
	o.PrecipAvail = make([]float64, nt)
	for i := range wi {
		o.PrecipAvail[i] = wi[i] - o.PET[i]
	}

	pav, tC := o.PrecipAvail, frc.Tm
	ns := nt // simulation steps
	if s.opts.RandomizeHourly {
		pav = s.disaggregate(o.PrecipAvail)
		tC = copyDailyToHourly(frc.Tm)
		ns = nt * 24
	}

	st := s.newState()
	aet := make([]float64, ns)
	qof := make([]float64, ns)
	qb := make([]float64, ns)
	qimp := make([]float64, ns)
	qkarst := make([]float64, ns)
	q := make([]float64, ns)
	flow := make([]float64, ns)
	dm := make([]float64, ns)
	srz := make([]float64, ns)
	suz := make([]float64, ns)

	topo := s.opts.Mechanism == RunoffTopographic
	var sdmat, srzmat, suzmat [][]float64
	if s.opts.WriteMatrices && topo {
		o.TwiValues = s.Twi.Values
		sdmat = make([][]float64, nt)
		srzmat = make([][]float64, nt)
		suzmat = make([][]float64, nt)
	}

	spd := ns / nt // simulation steps per forcing step
	var bar *uiprogress.Bar
	if s.opts.Progress {
		uiprogress.Start()
		bar = uiprogress.AddBar(ns).AppendCompleted().PrependElapsed()
	}
	for j := 0; j < ns; j++ {
		var sdrow, srzrow, suzrow []float64
		if sdmat != nil && (j+1)%spd == 0 {
			n := len(s.Twi.Values)
			sdrow = make([]float64, n)
			srzrow = make([]float64, n)
			suzrow = make([]float64, n)
			sdmat[j/spd], srzmat[j/spd], suzmat[j/spd] = sdrow, srzrow, suzrow
		}

		var fx stepflux
		var err error
		if topo {
			fx, err = s.stepTopo(&st, pav[j], tC[j], j, sdrow, srzrow, suzrow)
		} else {
			fx, err = s.stepCN(&st, pav[j], tC[j], j)
		}
		if err != nil {
			if bar != nil {
				uiprogress.Stop()
			}
			return nil, err
		}

		// demand met before reaching the soil, plus soil evaporation
		aet[j] = fx.aet + o.PET[j/spd]/float64(spd)
		if pav[j] < 0. {
			aet[j] += pav[j]
		}
		qof[j] = fx.qof
		qb[j] = fx.qb
		qimp[j] = fx.qimp
		qkarst[j] = fx.qkarst
		q[j] = fx.q
		flow[j] = s.rtr.route(&st.rsto, fx.q)
		dm[j] = st.dm
		srz[j], suz[j] = st.soilStorage(s.Twi.Areas)

		if bar != nil {
			bar.Incr()
		}
	}
	if bar != nil {
		uiprogress.Stop()
	}

	if s.opts.RandomizeHourly {
		aet = sumHourlyToDaily(aet)
		qof = sumHourlyToDaily(qof)
		qb = sumHourlyToDaily(qb)
		qimp = sumHourlyToDaily(qimp)
		qkarst = sumHourlyToDaily(qkarst)
		q = sumHourlyToDaily(q)
		flow = sumHourlyToDaily(flow)
		dm = lastHourlyOfDay(dm)
		srz = lastHourlyOfDay(srz)
		suz = lastHourlyOfDay(suz)
	}

	o.AET, o.Qof, o.Qb, o.Qimp, o.Qkarst = aet, qof, qb, qimp, qkarst
	o.Q, o.Flow = q, flow
	o.Dm, o.Srz, o.Suz = dm, srz, suz
	o.SdLocals, o.SrzLocals, o.SuzLocals = sdmat, srzmat, suzmat
	return o, nil
}

// disaggregate splits each daily available-water value over 24 hours: a
// positive day is split randomly (a random number of dry hours, the rest
// weighted at random), a non-positive day spread evenly so the evaporative
// demand is preserved.
func (s *Simulator) disaggregate(pav []float64) []float64 {
	rng := rand.New(mrg63k3a.New())
	rng.Seed(hourlySeed)
	o := make([]float64, 0, len(pav)*24)
	w := make([]float64, 24)
	for _, vd := range pav {
		if vd <= 0. {
			for h := 0; h < 24; h++ {
				o = append(o, vd/24.)
			}
			continue
		}
		nz := 1 + rng.Intn(23)
		sum := 0.
		for h := 0; h < 24; h++ {
			if h < 24-nz {
				w[h] = rng.Float64()
				sum += w[h]
			} else {
				w[h] = 0.
			}
		}
		rng.Shuffle(24, func(i, j int) { w[i], w[j] = w[j], w[i] })
		for h := 0; h < 24; h++ {
			o = append(o, w[h]/sum*vd)
		}
	}
	return o
}

// lastHourlyOfDay reduces an hourly state series to its end-of-day values.
func lastHourlyOfDay(v []float64) []float64 {
	o := make([]float64, len(v)/24)
	for i := range o {
		o[i] = v[i*24+23]
	}
	return o
}
