package waterpy

import (
	"fmt"
	"math"
)

// defaultChannelVelocity is the assumed average channel flow velocity when
// none is given: 10 m/hr (Wolock, 1993) expressed in m/day.
const defaultChannelVelocity = 240.

// router lags stream input through a linear reservoir with residence time
// tc, conserving volume over the run. With routing disabled it passes flow
// through unchanged.
type router struct {
	tc   float64 // channel travel time [timesteps]
	pass bool
}

// newRouter derives the channel travel time tc = L/v. When no channel length
// is given the maximum length is approximated as the diameter of the circle
// of equivalent basin area (Wolock eq 38). tc is floored at one timestep so
// water is never routed out before the end of the step it arrived in.
func newRouter(enabled bool, basinArea, chanLen, chanVel, dtf float64) (router, error) {
	if !enabled {
		return router{tc: 1., pass: true}, nil
	}
	if chanVel == 0. {
		chanVel = defaultChannelVelocity
	}
	if chanVel < 0. {
		return router{}, &RoutingError{fmt.Sprintf("channel velocity %g must be positive", chanVel)}
	}
	if chanLen == 0. {
		if basinArea <= 0. {
			return router{}, &RoutingError{fmt.Sprintf("routing enabled with basin area %g and no channel length", basinArea)}
		}
		chanLen = 2. * math.Sqrt(basinArea/math.Pi)
	}
	if chanLen < 0. {
		return router{}, &RoutingError{fmt.Sprintf("channel length %g must be positive", chanLen)}
	}
	tc := chanLen / (chanVel * dtf)
	if tc < 1. {
		tc = 1.
	}
	if math.IsNaN(tc) || math.IsInf(tc, 0) {
		return router{}, &RoutingError{fmt.Sprintf("non-finite channel travel time from length %g and velocity %g", chanLen, chanVel)}
	}
	return router{tc: tc}, nil
}

// route advances the channel reservoir sto by one step of stream input q and
// returns the routed outflow [mm/timestep].
func (r router) route(sto *float64, q float64) float64 {
	if r.pass {
		return q
	}
	*sto += q
	out := *sto / r.tc
	*sto -= out
	return out
}
