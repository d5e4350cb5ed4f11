package waterpy

import (
	"fmt"
	"math"
)

// BasinParams holds the basin-wide physical parameters. Validated once at
// construction and read-only thereafter.
type BasinParams struct {
	ScalingParameter float64 // TOPMODEL m [mm]
	Ksat             float64 // saturated hydraulic conductivity [mm/day]
	KsatMult         float64 // conductivity decay multiplier over the soil profile
	SoilDepthTotal   float64 // AB-horizon soil depth [m]
	FieldCapacity    float64 // [-]
	Porosity         float64 // [-]
	WiltingPoint     float64 // [-]
	Latitude         float64 // [°]
	BasinArea        float64 // [m²]
	ImperviousFrac   float64 // [-]
	FlowInitial      float64 // [mm/day]
	ChannelLengthMax float64 // [m]; 0: derive from basin area
	ChannelVelocity  float64 // [m/day]; 0: default
}

// LandTypeParams holds the per-land-type parameter overrides.
type LandTypeParams struct {
	Type               string  // forest, agriculture or developed
	MacroporeFrac      float64 // fraction of infiltration bypassing the root zone
	RootingDepthFactor float64 // rooting depth as a fraction of total soil depth
	ImperviousCN       float64 // TR-55 curve number for impervious cover
	CurveNumber        float64 // TR-55 curve number for the pervious basin (curve-number mechanism only)
	SnowTempCutoff     float64 // [°F]
	SnowMeltCoeff      float64 // degree-day melt coefficient [in/°F]
	SnowRainMeltCoeff  float64 // rain-on-snow melt coefficient [1/°F]
	KPEC               float64 // Hamon PET calibration coefficient
	SpatialCoeff       float64 // scaling-parameter spatial adjustment
}

func fracErr(field string, v float64) error {
	return &ConfigurationError{field, fmt.Sprintf("%g not within [0,1]", v)}
}

// Check validates the basin parameters against their physical bounds.
func (b *BasinParams) Check() error {
	switch {
	case b.ScalingParameter <= 0.:
		return &ConfigurationError{"scaling_parameter", fmt.Sprintf("%g must be positive", b.ScalingParameter)}
	case b.Ksat <= 0.:
		return &ConfigurationError{"saturated_hydraulic_conductivity", fmt.Sprintf("%g must be positive", b.Ksat)}
	case b.KsatMult <= 1.:
		return &ConfigurationError{"saturated_hydraulic_conductivity_multiplier", fmt.Sprintf("%g must exceed unity", b.KsatMult)}
	case b.SoilDepthTotal <= 0.:
		return &ConfigurationError{"soil_depth_total", fmt.Sprintf("%g must be positive", b.SoilDepthTotal)}
	case b.Latitude < 0. || b.Latitude > 90.:
		return &ConfigurationError{"latitude", fmt.Sprintf("%g not within [0,90]", b.Latitude)}
	case b.BasinArea <= 0.:
		return &ConfigurationError{"basin_area_total", fmt.Sprintf("%g must be positive", b.BasinArea)}
	case b.FlowInitial < 0.:
		return &ConfigurationError{"flow_initial", fmt.Sprintf("%g must not be negative", b.FlowInitial)}
	case b.ChannelLengthMax < 0.:
		return &ConfigurationError{"channel_length_max", fmt.Sprintf("%g must not be negative", b.ChannelLengthMax)}
	case b.ChannelVelocity < 0.:
		return &ConfigurationError{"channel_velocity_avg", fmt.Sprintf("%g must not be negative", b.ChannelVelocity)}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"field_capacity_fraction", b.FieldCapacity},
		{"porosity_fraction", b.Porosity},
		{"wilting_point_fraction", b.WiltingPoint},
		{"impervious_area_fraction", b.ImperviousFrac},
	} {
		if f.v < 0. || f.v > 1. {
			return fracErr(f.name, f.v)
		}
	}
	if b.WiltingPoint >= b.FieldCapacity {
		return &ConfigurationError{"wilting_point_fraction", "must be less than the field capacity fraction"}
	}
	if b.FieldCapacity >= b.Porosity {
		return &ConfigurationError{"field_capacity_fraction", "must be less than the porosity fraction"}
	}
	return nil
}

// Check validates the land-type parameters against their physical bounds.
func (lt *LandTypeParams) Check() error {
	switch lt.Type {
	case "forest", "agriculture", "developed":
	default:
		return &ConfigurationError{"land_type", fmt.Sprintf("unrecognized land type %q", lt.Type)}
	}
	if lt.MacroporeFrac < 0. || lt.MacroporeFrac > 1. {
		return fracErr("macropore_fraction", lt.MacroporeFrac)
	}
	switch {
	case lt.RootingDepthFactor <= 0.:
		return &ConfigurationError{"rooting_depth_factor", fmt.Sprintf("%g must be positive", lt.RootingDepthFactor)}
	case lt.ImperviousCN <= 0. || lt.ImperviousCN > 100.:
		return &ConfigurationError{"impervious_curve_number", fmt.Sprintf("%g not within (0,100]", lt.ImperviousCN)}
	case lt.CurveNumber < 0. || lt.CurveNumber > 100.:
		return &ConfigurationError{"curve_number", fmt.Sprintf("%g not within [0,100]", lt.CurveNumber)}
	case lt.SnowMeltCoeff < 0.:
		return &ConfigurationError{"snowmelt_rate_coeff", fmt.Sprintf("%g must not be negative", lt.SnowMeltCoeff)}
	case lt.SnowRainMeltCoeff < 0.:
		return &ConfigurationError{"snowmelt_rate_coeff_with_rain", fmt.Sprintf("%g must not be negative", lt.SnowRainMeltCoeff)}
	case lt.KPEC <= 0.:
		return &ConfigurationError{"pet_calib_coeff", fmt.Sprintf("%g must be positive", lt.KPEC)}
	case lt.SpatialCoeff <= 0.:
		return &ConfigurationError{"spatial_coeff", fmt.Sprintf("%g must be positive", lt.SpatialCoeff)}
	}
	return nil
}

// derived holds the soil hydraulic terms computed once from the parameter
// set, following the KyTopmodel transmissivity formulation.
type derived struct {
	m      float64 // spatially adjusted scaling parameter [mm]
	srmax  float64 // maximum root zone storage [mm]
	k0     float64 // initial vertical drainage flux [mm/timestep]
	f      float64 // conductivity decay factor [1/m]
	t0     float64 // maximum saturated transmissivity
	qssMax float64 // maximum subsurface flow [mm/timestep] (Wolock eq 32)
	q0     float64 // effective initial flow [mm/timestep]
	d0     float64 // initial basin average saturation deficit [mm]
}

// newDerived computes the derived soil hydraulics for a given twi weighted
// mean and timestep daily fraction dtf. The initial flow is clamped to a
// minimum of 0.1 before setting the initial deficit.
func newDerived(b *BasinParams, lt *LandTypeParams, twim, dtf float64) derived {
	var d derived
	d.m = b.ScalingParameter * lt.SpatialCoeff

	rootDepth := b.SoilDepthTotal * lt.RootingDepthFactor // [m]
	if rootDepth > b.SoilDepthTotal {
		rootDepth = b.SoilDepthTotal
	}
	d.srmax = rootDepth * 1000. * b.FieldCapacity // [m] to [mm] (Wolock eq 36)
	d.k0 = b.Ksat * dtf

	d.f = math.Log(b.KsatMult) / b.SoilDepthTotal
	d.t0 = b.Ksat * b.KsatMult / d.f
	d.qssMax = d.t0 * math.Exp(-twim) * dtf

	q0 := b.FlowInitial
	if q0 < 0.1 {
		q0 = 0.1 // [mm/day] floor keeps the initial deficit finite
	}
	d.q0 = q0 * dtf
	d.d0 = -math.Log(d.q0/d.qssMax) * d.m
	if d.d0 < 0. {
		d.d0 = 0.
	}
	return d
}
