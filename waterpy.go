// Package waterpy simulates watershed rainfall-runoff behaviour with a
// statistical topographic-index (Topmodel) formulation, after the USGS
// versions by Wolock (WRIR 93-4124), Kauffman (KyTopmodel) and Williamson
// (WATER, SIR 2015-5143). Snow accumulation/melt, Hamon potential
// evapotranspiration, root/unsaturated zone accounting, an index-distributed
// saturated zone and channel routing are driven over a daily or sub-daily
// forcing series by a single-threaded Simulator.
package waterpy

import (
	"fmt"
	"math"
)

const (
	// water balance closure tolerance [mm]; every step is checked the
	// way the raster formulation checks each HRU
	nearzero = 1e-8
	// growing/dormant switch for the soil evaporation exponent [°C]
	etTempThreshold = 15.
	// deficit/m ratio above which subsurface flow is treated as zero
	subsurfaceRatioMax = 100.
)

// stepflux aggregates one timestep's basin fluxes [mm/timestep].
type stepflux struct {
	aet    float64 // actual evapotranspiration drawn from the root zone
	qv     float64 // vertical drainage to the saturated zone
	qof    float64 // direct (saturation excess or curve number) runoff
	qb     float64 // subsurface flow
	qimp   float64 // impervious area flow
	qkarst float64 // subsurface flow diverted to karst
	q      float64 // flow delivered to the stream, before routing
}

// stepTopo advances the soil and saturated zone one timestep under the
// topographic-index mechanism. pav is the water available after potential
// evapotranspiration (negative: unmet demand), tC the air temperature.
// Classes are visited in distribution order; any class whose local deficit
// closes contributes its area-weighted excess as saturation-excess runoff.
func (s *Simulator) stepTopo(st *state, pav, tC float64, j int, sdrow, srzrow, suzrow []float64) (stepflux, error) {
	var fx stepflux
	var pe, pr float64 // unmet evaporative demand / water for recharge
	if pav < 0. {
		pe = -pav
	} else {
		pr = pav
	}
	etExp := 5. // dormant
	if tC > etTempThreshold {
		etExp = 0.5 // growing
	}

	d := &s.drv
	srz0, suz0 := st.soilStorage(s.Twi.Areas)
	dm0 := st.dm

	for i, a := range s.Twi.Areas {
		// local saturation deficit from the basin mean
		sd := st.dm + d.m*(s.twim-s.Twi.Values[i])
		if sd < 0. {
			sd = 0. // fully saturated, water table at the surface
		}
		if st.suz[i] > sd {
			st.srz[i] += st.suz[i] - sd
			st.suz[i] = sd
		}
		var ex float64
		if st.srz[i] > d.srmax {
			ex = st.srz[i] - d.srmax
			st.srz[i] = d.srmax
		}

		if pr > 0. {
			// capacity-limited recharge; surplus becomes excess
			pex := pr - (sd - st.suz[i]) - (d.srmax - st.srz[i])
			if pex < 0. {
				pex = 0.
			}
			infil := pr - pex
			st.srz[i] += (1. - s.Land.MacroporeFrac) * infil
			st.suz[i] += s.Land.MacroporeFrac * infil
			if st.srz[i] > d.srmax {
				// root zone overflow spills to the unsaturated
				// zone, root zone capped at capacity
				st.suz[i] += st.srz[i] - d.srmax
				st.srz[i] = d.srmax
			}
			if st.suz[i] > sd {
				st.srz[i] += st.suz[i] - sd
				st.suz[i] = sd
				if st.srz[i] > d.srmax {
					pex += st.srz[i] - d.srmax
					st.srz[i] = d.srmax
				}
			}
			ex += pex
		}

		// vertical drainage (Wolock eq 23)
		if sd > 0. && st.suz[i] > 0. {
			qv := d.k0 * st.suz[i] / sd
			if qv > st.suz[i] {
				qv = st.suz[i]
			}
			st.suz[i] -= qv
			fx.qv += qv * a
		}

		// soil evaporation (USGS SIR 2015-5143 table 2)
		if pe > 0. {
			e := pe * math.Pow(st.srz[i]/d.srmax, etExp)
			if e > st.srz[i] {
				e = st.srz[i]
			}
			st.srz[i] -= e
			fx.aet += e * a
		}

		if ex > 0. {
			fx.qof += ex * a
		}

		if sdrow != nil {
			sdrow[i], srzrow[i], suzrow[i] = sd, st.srz[i], st.suz[i]
		}
	}

	// subsurface flow (Wolock eq 30)
	if r := st.dm / d.m; r <= subsurfaceRatioMax {
		fx.qb = d.qssMax * math.Exp(-r)
	}
	if s.opts.Karst {
		fx.qkarst, fx.qb = fx.qb, 0.
	}

	// basin mass balance over the saturated zone
	st.dm += fx.qb + fx.qkarst - fx.qv
	var clamp float64
	if st.dm < 0. {
		clamp = -st.dm
		st.dm = 0.
	}

	if err := s.checkBalance(st, j, "topographic", pr, srz0, suz0, dm0, clamp, &fx); err != nil {
		return fx, err
	}

	s.blend(&fx, pr)
	return fx, nil
}

// stepCN advances a lumped soil column one timestep under the curve-number
// mechanism: direct runoff is the increment of the TR-55 relation applied to
// cumulative precipitation, infiltration passes through the root zone, and
// baseflow follows the same exponential deficit relation.
func (s *Simulator) stepCN(st *state, pav, tC float64, j int) (stepflux, error) {
	var fx stepflux
	var pe, pr float64
	if pav < 0. {
		pe = -pav
	} else {
		pr = pav
	}
	etExp := 5.
	if tC > etTempThreshold {
		etExp = 0.5
	}

	d := &s.drv
	srz0, suz0 := st.srz[0], st.suz[0]
	dm0 := st.dm

	if pr > 0. {
		qof := scsRunoff(st.pcum+pr, s.Land.CurveNumber) - scsRunoff(st.pcum, s.Land.CurveNumber)
		if qof < 0. {
			qof = 0.
		}
		if qof > pr {
			qof = pr
		}
		st.pcum += pr
		fx.qof = qof

		st.srz[0] += pr - qof
		if st.srz[0] > d.srmax {
			// root zone overflow drains to the unsaturated zone
			st.suz[0] += st.srz[0] - d.srmax
			st.srz[0] = d.srmax
		}
	}

	if st.suz[0] > 0. {
		qv := d.k0 * st.suz[0] / d.srmax
		if qv > st.suz[0] {
			qv = st.suz[0]
		}
		st.suz[0] -= qv
		fx.qv = qv
	}

	if pe > 0. {
		e := pe * math.Pow(st.srz[0]/d.srmax, etExp)
		if e > st.srz[0] {
			e = st.srz[0]
		}
		st.srz[0] -= e
		fx.aet = e
	}

	if r := st.dm / d.m; r <= subsurfaceRatioMax {
		fx.qb = d.qssMax * math.Exp(-r)
	}
	if s.opts.Karst {
		fx.qkarst, fx.qb = fx.qb, 0.
	}
	st.dm += fx.qb + fx.qkarst - fx.qv
	var clamp float64
	if st.dm < 0. {
		clamp = -st.dm
		st.dm = 0.
	}

	if err := s.checkBalance(st, j, "curve number", pr, srz0, suz0, dm0, clamp, &fx); err != nil {
		return fx, err
	}

	s.blend(&fx, pr)
	return fx, nil
}

// blend combines the pervious column flows with the impervious area
// contribution into the stream term.
func (s *Simulator) blend(fx *stepflux, pr float64) {
	if pr > 0. && s.Basin.ImperviousFrac > 0. {
		fx.qimp = scsRunoff(s.Basin.ImperviousFrac*pr, s.Land.ImperviousCN)
	}
	fx.q = (fx.qb+fx.qof)*(1.-s.Basin.ImperviousFrac) + fx.qimp + fx.qkarst
	if fx.q < 0. {
		fx.q = 0.
	}
}

// checkBalance closes the soil column and saturated zone water budgets for
// the step; a violation is a coding error surfaced as a NumericDomainError.
func (s *Simulator) checkBalance(st *state, j int, module string, pr, srz0, suz0, dm0, clamp float64, fx *stepflux) error {
	srz1, suz1 := st.soilStorage(s.Twi.Areas)
	if !finite(srz1, suz1, st.dm, fx.qb, fx.qof, fx.qv, fx.aet) {
		return &NumericDomainError{j, module, "non-finite state"}
	}
	soil := pr - fx.qof - fx.qv - fx.aet - (srz1 - srz0 + suz1 - suz0)
	if math.Abs(soil) > nearzero {
		return &NumericDomainError{j, module, fmt.Sprintf("soil water balance off by %g", soil)}
	}
	// the deficit grows by outflow, shrinks by recharge; clamp refills to zero
	gw := (st.dm - dm0) - (fx.qb + fx.qkarst - fx.qv) - clamp
	if math.Abs(gw) > nearzero {
		return &NumericDomainError{j, module, fmt.Sprintf("saturated zone balance off by %g", gw)}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
