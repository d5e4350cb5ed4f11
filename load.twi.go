package waterpy

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/maseology/mmio"
)

// LoadTWI reads the topographic wetness index distribution file, a headered
// CSV of bin,twi,proportion[,cells] rows ordered by bin.
func LoadTWI(fp string) (TWI, error) {
	var t TWI
	f, err := os.Open(fp)
	if err != nil {
		return t, fmt.Errorf("LoadTWI: %w", err)
	}
	defer f.Close()

	for rec := range mmio.LoadCSV(io.Reader(f), 1) {
		if len(rec) < 3 {
			return t, &ConfigurationError{fp, fmt.Sprintf("expecting bin,twi,proportion, got %v", rec)}
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return t, &ConfigurationError{fp, fmt.Sprintf("twi %q is not a number", rec[1])}
		}
		a, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return t, &ConfigurationError{fp, fmt.Sprintf("proportion %q is not a number", rec[2])}
		}
		t.Values = append(t.Values, v)
		t.Areas = append(t.Areas, a)
	}
	return t, t.Check()
}
