package waterpy

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"
)

// Forcing holds the time-aligned meteorological input series. P and Tm are
// required; EP carries externally supplied potential evapotranspiration and
// Qobs observed discharge, both optional (nil when absent). The series must
// be strictly increasing on a uniform interval.
type Forcing struct {
	T           []time.Time
	P           []float64 // precipitation [mm/timestep]
	Tm          []float64 // air temperature [°C]
	EP          []float64 // potential evapotranspiration [mm/day]
	Qobs        []float64 // observed discharge [mm/timestep]
	IntervalSec float64
}

// Check validates series alignment: uniform positive interval, no gaps,
// matching lengths.
func (frc *Forcing) Check() error {
	nt := len(frc.T)
	if nt < 2 {
		return &DataAlignmentError{fmt.Sprintf("%d timesteps; at least 2 needed", nt)}
	}
	if len(frc.P) != nt || len(frc.Tm) != nt {
		return &DataAlignmentError{fmt.Sprintf("%d dates against %d precipitation and %d temperature records", nt, len(frc.P), len(frc.Tm))}
	}
	if frc.EP != nil && len(frc.EP) != nt {
		return &DataAlignmentError{fmt.Sprintf("%d dates against %d pet records", nt, len(frc.EP))}
	}
	if frc.Qobs != nil && len(frc.Qobs) != nt {
		return &DataAlignmentError{fmt.Sprintf("%d dates against %d observed flow records", nt, len(frc.Qobs))}
	}
	dt := frc.T[1].Sub(frc.T[0])
	if dt <= 0 {
		return &DataAlignmentError{fmt.Sprintf("dates not strictly increasing at %v", frc.T[1])}
	}
	for i := 2; i < nt; i++ {
		if frc.T[i].Sub(frc.T[i-1]) != dt {
			return &DataAlignmentError{fmt.Sprintf("irregular interval at %v", frc.T[i])}
		}
	}
	if frc.IntervalSec <= 0. {
		frc.IntervalSec = dt.Seconds()
	} else if frc.IntervalSec != dt.Seconds() {
		return &DataAlignmentError{fmt.Sprintf("stated interval %gs against observed %gs", frc.IntervalSec, dt.Seconds())}
	}
	return nil
}

// DailyFraction returns the timestep as a fraction of one day, from the
// stated interval or, before Check has resolved it, the first date pair.
func (frc *Forcing) DailyFraction() float64 {
	if frc.IntervalSec <= 0. && len(frc.T) > 1 {
		return frc.T[1].Sub(frc.T[0]).Seconds() / 86400.
	}
	return frc.IntervalSec / 86400.
}

// SaveGob writes the forcing to a gob file.
func (frc *Forcing) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("forcing.SaveGob: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(frc); err != nil {
		return fmt.Errorf("forcing.SaveGob: %w", err)
	}
	return nil
}

// LoadGobForcing reads a forcing previously written with SaveGob.
func LoadGobForcing(fp string) (*Forcing, error) {
	var frc Forcing
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("LoadGobForcing: %w", err)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&frc); err != nil {
		return nil, fmt.Errorf("LoadGobForcing: %w", err)
	}
	return &frc, nil
}

// copyDailyToHourly repeats each daily value over 24 hourly slots.
func copyDailyToHourly(v []float64) []float64 {
	o := make([]float64, 0, len(v)*24)
	for _, vd := range v {
		for h := 0; h < 24; h++ {
			o = append(o, vd)
		}
	}
	return o
}

// sumHourlyToDaily sums every 24 consecutive values back to a daily series.
func sumHourlyToDaily(v []float64) []float64 {
	o := make([]float64, len(v)/24)
	for i := range o {
		for h := 0; h < 24; h++ {
			o[i] += v[i*24+h]
		}
	}
	return o
}
