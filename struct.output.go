package waterpy

import (
	"fmt"
	"sort"
	"time"

	"github.com/maseology/mmio"
	"github.com/maseology/objfunc"
)

// Output holds the complete simulation result: forcing echoes, preprocessed
// series and simulated fluxes/states, all parallel to T. Snow series are nil
// when snowmelt is off; the per-class matrices nil unless requested.
type Output struct {
	T             []time.Time
	Precip        []float64 // [mm/timestep]
	Temp          []float64 // [°C]
	PET           []float64 // potential evapotranspiration [mm/timestep]
	PrecipAvail   []float64 // water input less PET [mm/timestep]
	SnowPrecip    []float64 // precipitation fallen as snow [mm/timestep]
	Snowmelt      []float64 // [mm/timestep]
	SnowpackDepth []float64 // [mm]
	SWE           []float64 // snow water equivalent [mm]
	AET           []float64 // actual evapotranspiration [mm/timestep]
	Qof           []float64 // direct runoff [mm/timestep]
	Qb            []float64 // subsurface flow [mm/timestep]
	Qimp          []float64 // impervious area flow [mm/timestep]
	Qkarst        []float64 // subsurface flow diverted to karst [mm/timestep]
	Q             []float64 // stream input before routing [mm/timestep]
	Flow          []float64 // routed flow predicted [mm/timestep]
	Dm            []float64 // basin average saturation deficit [mm]
	Srz           []float64 // basin root zone storage [mm]
	Suz           []float64 // basin unsaturated zone storage [mm]
	Qobs          []float64 // observed flow, nil when absent

	TwiValues                      []float64
	SdLocals, SrzLocals, SuzLocals [][]float64
}

// FlowDuration returns the flow duration curve of the predicted flow:
// exceedance probabilities rank/(n+1) in (0,1) paired with non-increasing
// flows.
func (o *Output) FlowDuration() (probs, flows []float64) {
	n := len(o.Flow)
	flows = make([]float64, n)
	copy(flows, o.Flow)
	sort.Sort(sort.Reverse(sort.Float64Slice(flows)))
	probs = make([]float64, n)
	for i := range probs {
		probs[i] = float64(i+1) / float64(n+1)
	}
	return
}

// WriteCSV writes the timeseries output.
func (o *Output) WriteCSV(fp string) error {
	h := "date,temperature,precipitation,pet,precip_available"
	cols := [][]float64{o.Temp, o.Precip, o.PET, o.PrecipAvail}
	if o.SWE != nil {
		h += ",snowprecip,snowmelt,snowpack,swe"
		cols = append(cols, o.SnowPrecip, o.Snowmelt, o.SnowpackDepth, o.SWE)
	}
	h += ",aet,runoff,subsurface_flow,impervious_area_flow"
	cols = append(cols, o.AET, o.Qof, o.Qb, o.Qimp)
	h += ",karst_flow,flow_predicted,saturation_deficit_avg,unsaturated_zone_storage,root_zone_storage"
	cols = append(cols, o.Qkarst, o.Flow, o.Dm, o.Suz, o.Srz)
	if o.Qobs != nil {
		h += ",flow_observed"
		cols = append(cols, o.Qobs)
	}
	mmio.WriteCsvDateFloats(fp, h, o.T, cols...)
	return nil
}

// WriteFDC writes the flow duration curve.
func (o *Output) WriteFDC(fp string) error {
	probs, flows := o.FlowDuration()
	csvw := mmio.NewCSVwriter(fp)
	defer csvw.Close()
	if err := csvw.WriteHead("probability,flow"); err != nil {
		return fmt.Errorf("Output.WriteFDC: %w", err)
	}
	for i := range probs {
		csvw.WriteLine(probs[i], flows[i])
	}
	return nil
}

// WriteMatrices writes the per-class saturation deficit, unsaturated zone and
// root zone matrices, one timestep per row, one index class per column.
func (o *Output) WriteMatrices(fpDeficits, fpUnsatZone, fpRootZone string) error {
	if o.SdLocals == nil {
		return nil
	}
	for _, m := range []struct {
		fp   string
		rows [][]float64
	}{
		{fpDeficits, o.SdLocals},
		{fpUnsatZone, o.SuzLocals},
		{fpRootZone, o.SrzLocals},
	} {
		if err := o.writeMatrix(m.fp, m.rows); err != nil {
			return err
		}
	}
	return nil
}

func (o *Output) writeMatrix(fp string, rows [][]float64) error {
	csvw := mmio.NewCSVwriter(fp)
	defer csvw.Close()
	h := "date"
	for _, v := range o.TwiValues {
		h += fmt.Sprintf(",twi_%.3f", v)
	}
	if err := csvw.WriteHead(h); err != nil {
		return fmt.Errorf("Output.writeMatrix: %w", err)
	}
	for i, row := range rows {
		vs := make([]interface{}, 0, len(row)+1)
		vs = append(vs, o.T[i].Format("2006-01-02 15:04:05"))
		for _, v := range row {
			vs = append(vs, v)
		}
		csvw.WriteLine(vs...)
	}
	return nil
}

// Report prints goodness-of-fit statistics against the observed flow, when
// present.
func (o *Output) Report() {
	fmt.Printf("  flow predicted: %d timesteps, mean %.3f mm\n", len(o.Flow), meanOf(o.Flow))
	if o.Qobs == nil {
		return
	}
	fmt.Printf("  KGE: %.3f\tNSE: %.3f\tRMSE: %.3f\tbias: %.3f\n",
		objfunc.KGE(o.Qobs, o.Flow),
		objfunc.NSE(o.Qobs, o.Flow),
		objfunc.RMSE(o.Qobs, o.Flow),
		objfunc.Bias(o.Qobs, o.Flow))
}

func meanOf(v []float64) float64 {
	s := 0.
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}
