package waterpy

// state carries every reservoir forward between timesteps. It is owned by
// the Simulator and threaded explicitly through the step functions; nothing
// here is shared between runs.
type state struct {
	srz  []float64 // root zone storage per index class [mm]
	suz  []float64 // unsaturated zone storage per index class [mm]
	dm   float64   // basin average saturation deficit [mm]
	rsto float64   // channel reservoir storage [mm]
	pcum float64   // cumulative precipitation [mm] (curve-number mechanism)
}

// newState initializes the simulation state from the parameter set: root
// zone storages at half capacity, unsaturated zones empty, mean deficit from
// the clamped initial flow.
func (s *Simulator) newState() state {
	n := len(s.Twi.Values)
	if s.opts.Mechanism == RunoffCurveNumber {
		n = 1 // lumped soil column
	}
	st := state{
		srz: make([]float64, n),
		suz: make([]float64, n),
		dm:  s.drv.d0,
	}
	for i := range st.srz {
		st.srz[i] = 0.5 * s.drv.srmax
	}
	return st
}

// soilStorage returns the area-weighted basin soil water [mm].
func (st *state) soilStorage(areas []float64) (srz, suz float64) {
	if len(st.srz) == 1 { // lumped
		return st.srz[0], st.suz[0]
	}
	for i, a := range areas {
		srz += st.srz[i] * a
		suz += st.suz[i] * a
	}
	return
}
