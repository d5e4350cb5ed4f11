package waterpy

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// RunoffMechanism selects the direct-runoff formulation. The two mechanisms
// are mutually exclusive per run, fixed at configuration time.
type RunoffMechanism int

const (
	// RunoffTopographic distributes the saturation deficit over the
	// topographic index classes (variable source area).
	RunoffTopographic RunoffMechanism = iota
	// RunoffCurveNumber estimates direct runoff from cumulative
	// precipitation with the TR-55 curve number relation.
	RunoffCurveNumber
)

// Options are the engine switches consumed by the Simulator.
type Options struct {
	Mechanism       RunoffMechanism
	Snowmelt        bool // snow accumulation/melt preprocessing
	Routing         bool // channel routing (off: pass-through)
	Karst           bool // divert subsurface flow to karst
	RandomizeHourly bool // disaggregate daily input to randomized hourly steps
	WriteMatrices   bool // emit per-class storage/deficit matrices
	Progress        bool // timestep progress bar
}

// Config is the validated model configuration: a closed set of recognized
// fields. Unknown or missing fields are a ConfigurationError at load time.
type Config struct {
	InputDir                string
	ParametersBasinFile     string
	ParametersLandTypeFile  string
	TimeseriesFile          string
	TWIFile                 string
	LandType                string
	OutputDir               string
	OutputFilename          string
	OutputFilenameFDC       string
	OutputFilenameDeficits  string
	OutputFilenameUnsatZone string
	OutputFilenameRootZone  string
	StartDate, EndDate      time.Time // zero when unset; clip the forcing series
	Opts                    Options
}

// LoadConfig reads an INI model configuration file with [Inputs], [Outputs]
// and [Options] sections.
func LoadConfig(fp string) (*Config, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("LoadConfig: %w", err)
	}
	defer f.Close()

	cfg := Config{
		OutputFilename:          "output.csv",
		OutputFilenameFDC:       "flow_duration_curve.csv",
		OutputFilenameDeficits:  "saturation_deficit_locals.csv",
		OutputFilenameUnsatZone: "unsaturated_zone_storages.csv",
		OutputFilenameRootZone:  "root_zone_storages.csv",
		LandType:                "forest",
	}

	section := ""
	scn := bufio.NewScanner(f)
	for ln := 1; scn.Scan(); ln++ {
		s := strings.TrimSpace(scn.Text())
		if len(s) == 0 || s[0] == '#' || s[0] == ';' {
			continue
		}
		if s[0] == '[' {
			if s[len(s)-1] != ']' {
				return nil, &ConfigurationError{fp, fmt.Sprintf("line %d: malformed section %q", ln, s)}
			}
			section = s[1 : len(s)-1]
			switch section {
			case "Inputs", "Outputs", "Options":
			default:
				return nil, &ConfigurationError{fp, fmt.Sprintf("line %d: unrecognized section %q", ln, section)}
			}
			continue
		}
		k, v, ok := strings.Cut(s, "=")
		if !ok {
			return nil, &ConfigurationError{fp, fmt.Sprintf("line %d: expecting key = value, got %q", ln, s)}
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if err := cfg.set(section, k, v); err != nil {
			return nil, err
		}
	}
	if err := scn.Err(); err != nil {
		return nil, fmt.Errorf("LoadConfig: %w", err)
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) set(section, k, v string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, &ConfigurationError{k, fmt.Sprintf("%q is not a boolean", v)}
		}
		return b, nil
	}
	parseDate := func() (time.Time, error) {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, &ConfigurationError{k, fmt.Sprintf("%q is not a date (yyyy-mm-dd)", v)}
		}
		return t, nil
	}

	var err error
	switch section + "/" + k {
	case "Inputs/input_dir":
		cfg.InputDir = v
	case "Inputs/parameters_basin_file":
		cfg.ParametersBasinFile = v
	case "Inputs/parameters_land_type_file":
		cfg.ParametersLandTypeFile = v
	case "Inputs/timeseries_file":
		cfg.TimeseriesFile = v
	case "Inputs/twi_file":
		cfg.TWIFile = v
	case "Inputs/land_type":
		cfg.LandType = v
	case "Outputs/output_dir":
		cfg.OutputDir = v
	case "Outputs/output_filename":
		cfg.OutputFilename = v
	case "Outputs/output_filename_flow_duration_curve":
		cfg.OutputFilenameFDC = v
	case "Outputs/output_filename_saturation_deficit_locals":
		cfg.OutputFilenameDeficits = v
	case "Outputs/output_filename_unsaturated_zone_storages":
		cfg.OutputFilenameUnsatZone = v
	case "Outputs/output_filename_root_zone_storages":
		cfg.OutputFilenameRootZone = v
	case "Options/start_date":
		cfg.StartDate, err = parseDate()
	case "Options/end_date":
		cfg.EndDate, err = parseDate()
	case "Options/runoff_mechanism":
		switch v {
		case "topographic_index":
			cfg.Opts.Mechanism = RunoffTopographic
		case "curve_number":
			cfg.Opts.Mechanism = RunoffCurveNumber
		default:
			return &ConfigurationError{k, fmt.Sprintf("%q is not a runoff mechanism (topographic_index or curve_number)", v)}
		}
	case "Options/option_snowmelt":
		cfg.Opts.Snowmelt, err = parseBool()
	case "Options/option_channel_routing":
		cfg.Opts.Routing, err = parseBool()
	case "Options/option_karst":
		cfg.Opts.Karst, err = parseBool()
	case "Options/option_randomize_daily_to_hourly":
		cfg.Opts.RandomizeHourly, err = parseBool()
	case "Options/option_write_output_matrices":
		cfg.Opts.WriteMatrices, err = parseBool()
	default:
		return &ConfigurationError{k, fmt.Sprintf("unrecognized field in section [%s]", section)}
	}
	return err
}

func (cfg *Config) check() error {
	for _, r := range []struct{ field, v string }{
		{"parameters_basin_file", cfg.ParametersBasinFile},
		{"parameters_land_type_file", cfg.ParametersLandTypeFile},
		{"timeseries_file", cfg.TimeseriesFile},
		{"twi_file", cfg.TWIFile},
		{"output_dir", cfg.OutputDir},
	} {
		if len(r.v) == 0 {
			return &ConfigurationError{r.field, "missing"}
		}
	}
	if !cfg.StartDate.IsZero() && !cfg.EndDate.IsZero() && cfg.EndDate.Before(cfg.StartDate) {
		return &ConfigurationError{"end_date", "precedes start_date"}
	}
	return nil
}

// InPath resolves an input file path against the configured input directory.
func (cfg *Config) InPath(fn string) string {
	if filepath.IsAbs(fn) || len(cfg.InputDir) == 0 {
		return fn
	}
	return filepath.Join(cfg.InputDir, fn)
}

// OutPath resolves an output file path against the configured output
// directory.
func (cfg *Config) OutPath(fn string) string {
	return filepath.Join(cfg.OutputDir, fn)
}
