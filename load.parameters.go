package waterpy

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/maseology/mmio"
)

// LoadBasinParams reads the basin characteristics file: a headered CSV of
// name,value,units,description rows. Every recognized name must appear
// exactly once; unknown names are a ConfigurationError.
func LoadBasinParams(fp string) (BasinParams, error) {
	var b BasinParams
	f, err := os.Open(fp)
	if err != nil {
		return b, fmt.Errorf("LoadBasinParams: %w", err)
	}
	defer f.Close()

	fields := map[string]*float64{
		"scaling_parameter":                           &b.ScalingParameter,
		"saturated_hydraulic_conductivity":            &b.Ksat,
		"saturated_hydraulic_conductivity_multiplier": &b.KsatMult,
		"soil_depth_total":                            &b.SoilDepthTotal,
		"field_capacity_fraction":                     &b.FieldCapacity,
		"porosity_fraction":                           &b.Porosity,
		"wilting_point_fraction":                      &b.WiltingPoint,
		"latitude":                                    &b.Latitude,
		"basin_area_total":                            &b.BasinArea,
		"impervious_area_fraction":                    &b.ImperviousFrac,
		"flow_initial":                                &b.FlowInitial,
		"channel_length_max":                          &b.ChannelLengthMax,
		"channel_velocity_avg":                        &b.ChannelVelocity,
	}
	seen := map[string]bool{}
	for rec := range mmio.LoadCSV(io.Reader(f), 1) {
		if len(rec) < 2 {
			return b, &ConfigurationError{fp, fmt.Sprintf("short record %v", rec)}
		}
		p, ok := fields[rec[0]]
		if !ok {
			return b, &ConfigurationError{fp, fmt.Sprintf("unrecognized parameter %q", rec[0])}
		}
		if seen[rec[0]] {
			return b, &ConfigurationError{fp, fmt.Sprintf("parameter %q repeated", rec[0])}
		}
		seen[rec[0]] = true
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return b, &ConfigurationError{rec[0], fmt.Sprintf("%q is not a number", rec[1])}
		}
		*p = v
	}
	// optional parameters carry zero-value defaults
	for _, opt := range []string{"channel_length_max", "channel_velocity_avg", "impervious_area_fraction"} {
		seen[opt] = true
	}
	for name := range fields {
		if !seen[name] {
			return b, &ConfigurationError{name, "missing from " + fp}
		}
	}
	return b, b.Check()
}

// LoadLandTypeParams reads the land type parameter file, a headered CSV with
// one row per land type:
//
//	land_type,macropore_fraction,rooting_depth_factor,impervious_curve_number,
//	curve_number,snowmelt_temperature_cutoff,snowmelt_rate_coeff,
//	snowmelt_rate_coeff_with_rain,pet_calib_coeff,spatial_coeff
//
// and returns the row matching landType.
func LoadLandTypeParams(fp, landType string) (LandTypeParams, error) {
	var lt LandTypeParams
	f, err := os.Open(fp)
	if err != nil {
		return lt, fmt.Errorf("LoadLandTypeParams: %w", err)
	}
	defer f.Close()

	found := false
	for rec := range mmio.LoadCSV(io.Reader(f), 1) {
		if len(rec) < 10 {
			return lt, &ConfigurationError{fp, fmt.Sprintf("expecting 10 columns, got %d", len(rec))}
		}
		if rec[0] != landType {
			continue
		}
		if found {
			return lt, &ConfigurationError{fp, fmt.Sprintf("land type %q repeated", landType)}
		}
		found = true
		lt.Type = rec[0]
		for i, p := range []*float64{
			&lt.MacroporeFrac, &lt.RootingDepthFactor, &lt.ImperviousCN,
			&lt.CurveNumber, &lt.SnowTempCutoff, &lt.SnowMeltCoeff,
			&lt.SnowRainMeltCoeff, &lt.KPEC, &lt.SpatialCoeff,
		} {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return lt, &ConfigurationError{fp, fmt.Sprintf("land type %q column %d: %q is not a number", landType, i+1, rec[i+1])}
			}
			*p = v
		}
	}
	if !found {
		return lt, &ConfigurationError{fp, fmt.Sprintf("land type %q not found", landType)}
	}
	return lt, lt.Check()
}
