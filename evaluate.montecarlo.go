package waterpy

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/maseology/mmaths"
	"github.com/maseology/mmio"
	"github.com/maseology/montecarlo/smpln"
	"github.com/maseology/objfunc"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"
)

// nSmplDim is the calibration sample dimension: scaling parameter, saturated
// conductivity, conductivity multiplier, rooting depth factor.
const nSmplDim = 4

// par4 maps a unit hypercube sample onto the calibration parameter ranges.
func par4(u []float64) (m, ksat, ksatMult, rdf float64) {
	m = mmaths.LogLinearTransform(1., 500., u[0])
	ksat = mmaths.LogLinearTransform(1., 5000., u[1])
	ksatMult = mmaths.LogLinearTransform(10., 100000., u[2])
	rdf = mmaths.LinearTransform(0.1, 1., u[3])
	return
}

// toSample applies a calibration sample to copies of the parameter sets.
func toSample(b BasinParams, lt LandTypeParams, u []float64) (BasinParams, LandTypeParams) {
	m, ksat, ksatMult, rdf := par4(u)
	b.ScalingParameter = m
	b.Ksat = ksat
	b.KsatMult = ksatMult
	lt.RootingDepthFactor = rdf
	return b, lt
}

// sampleEval runs one parameter realization and returns its KGE against the
// observed flow. Invalid realizations score negative infinity.
func sampleEval(b BasinParams, lt LandTypeParams, twi TWI, frc *Forcing, opts Options) float64 {
	opts.Progress = false
	sim, err := New(b, lt, twi, frc, opts)
	if err != nil {
		return math.Inf(-1)
	}
	o, err := sim.Run()
	if err != nil {
		return math.Inf(-1)
	}
	return objfunc.KGE(frc.Qobs, o.Flow)
}

// GenerateSamples draws a Latin hypercube sample of n calibration parameter
// sets, runs each and writes the sample space with its KGE scores to
// outdirprfx.samplespace.csv. Requires an observed flow series.
func GenerateSamples(b BasinParams, lt LandTypeParams, twi TWI, frc *Forcing, opts Options, n int, outdirprfx string) error {
	if frc == nil || frc.Qobs == nil {
		return &ConfigurationError{"flow_observed", "required to score samples"}
	}

	rng := rand.New(mrg63k3a.New())
	rng.Seed(time.Now().UnixNano())
	sp := smpln.NewLHC(rng, n, nSmplDim, false)

	lns := make([]string, n+1)
	lns[0] = "sample,kge,scaling_parameter,ksat,ksat_multiplier,rooting_depth_factor"
	for k := 0; k < n; k++ {
		ut := make([]float64, nSmplDim)
		for j := 0; j < nSmplDim; j++ {
			ut[j] = sp.U[j][k]
		}
		bk, ltk := toSample(b, lt, ut)
		kge := sampleEval(bk, ltk, twi, frc, opts)
		m, ksat, ksatMult, rdf := par4(ut)
		lns[k+1] = fmt.Sprintf("%d,%f,%f,%f,%f,%f", k, kge, m, ksat, ksatMult, rdf)
		fmt.Printf(" sample %d of %d: KGE %.3f\n", k+1, n, kge)
	}
	mmio.WriteLines(outdirprfx+".samplespace.csv", lns)
	return nil
}
