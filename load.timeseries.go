package waterpy

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadTimeseries reads the forcing timeseries file: a headered CSV whose
// columns are matched by name. date, temperature and precipitation are
// required; pet and flow_observed optional. When start or end are non-zero
// the series is clipped to [start,end]. Column mapping needs the header row,
// so this loader parses the file directly instead of through the
// header-skipping CSV channel reader.
func LoadTimeseries(fp string, start, end time.Time) (*Forcing, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("LoadTimeseries: %w", err)
	}
	defer f.Close()

	rdr := csv.NewReader(f)
	rdr.TrimLeadingSpace = true
	hdr, err := rdr.Read()
	if err != nil {
		return nil, &DataAlignmentError{fmt.Sprintf("%s: no header row", fp)}
	}
	col := map[string]int{}
	for i, h := range hdr {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"date", "temperature", "precipitation"} {
		if _, ok := col[req]; !ok {
			return nil, &DataAlignmentError{fmt.Sprintf("%s: missing column %q", fp, req)}
		}
	}
	_, hasPET := col["pet"]
	_, hasQobs := col["flow_observed"]

	parseDate := func(s string) (time.Time, error) {
		for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "1/2/2006"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}

	frc := Forcing{}
	if hasPET {
		frc.EP = []float64{}
	}
	if hasQobs {
		frc.Qobs = []float64{}
	}
	for ln := 2; ; ln++ {
		rec, err := rdr.Read()
		if err != nil {
			break
		}
		t, err := parseDate(rec[col["date"]])
		if err != nil {
			return nil, &DataAlignmentError{fmt.Sprintf("%s line %d: %v", fp, ln, err)}
		}
		if !start.IsZero() && t.Before(start) {
			continue
		}
		if !end.IsZero() && t.After(end) {
			continue
		}
		get := func(name string) (float64, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col[name]]), 64)
			if err != nil {
				return 0., &DataAlignmentError{fmt.Sprintf("%s line %d: %s %q is not a number", fp, ln, name, rec[col[name]])}
			}
			return v, nil
		}
		tm, err := get("temperature")
		if err != nil {
			return nil, err
		}
		p, err := get("precipitation")
		if err != nil {
			return nil, err
		}
		frc.T = append(frc.T, t)
		frc.Tm = append(frc.Tm, tm)
		frc.P = append(frc.P, p)
		if hasPET {
			v, err := get("pet")
			if err != nil {
				return nil, err
			}
			frc.EP = append(frc.EP, v)
		}
		if hasQobs {
			v, err := get("flow_observed")
			if err != nil {
				return nil, err
			}
			frc.Qobs = append(frc.Qobs, v)
		}
	}
	if err := frc.Check(); err != nil {
		return nil, err
	}
	return &frc, nil
}
