package waterpy

import (
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/maseology/glbopt"
	mrg63k3a "github.com/maseology/goRNG/MRG63k3a"
)

// Optimize calibrates the sampled parameters against the observed flow with
// the shuffled complex evolution algorithm, minimizing 1-KGE, and returns the
// calibrated parameter sets with the final score.
func Optimize(b BasinParams, lt LandTypeParams, twi TWI, frc *Forcing, opts Options) (BasinParams, LandTypeParams, float64, error) {
	if frc == nil || frc.Qobs == nil {
		return b, lt, 0., &ConfigurationError{"flow_observed", "required for calibration"}
	}

	rng := rand.New(mrg63k3a.New())
	rng.Seed(time.Now().UnixNano())

	gen := func(u []float64) float64 {
		bk, ltk := toSample(b, lt, u)
		return 1. - sampleEval(bk, ltk, twi, frc, opts)
	}

	fmt.Println(" optimizing..")
	uFinal, _ := glbopt.SCE(runtime.GOMAXPROCS(0), nSmplDim, rng, gen, true)

	m, ksat, ksatMult, rdf := par4(uFinal)
	fmt.Printf("\nfinal parameters:\n\tm:\t\t%v\n\tksat:\t\t%v\n\tksat mult:\t%v\n\troot depth factor:\t%v\n", m, ksat, ksatMult, rdf)
	bf, ltf := toSample(b, lt, uFinal)
	return bf, ltf, 1. - gen(uFinal), nil
}
