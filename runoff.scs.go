package waterpy

// scsRunoff returns direct runoff [mm] for precipitation p [mm] using the
// TR-55 SCS curve number relation
//
//	Q = (P - 0.2S)² / (P + 0.8S),  S = 1000/CN - 10  [in]
//
// with the initial abstraction Ia = 0.2S; no runoff is generated until
// precipitation exceeds it.
// ref: USDA TR-55 (1986), Urban Hydrology for Small Watersheds.
func scsRunoff(p, cn float64) float64 {
	pin := p / 25.4
	s := 1000./cn - 10.
	if pin <= 0.2*s {
		return 0.
	}
	q := (pin - 0.2*s) * (pin - 0.2*s) / (pin + 0.8*s)
	return q * 25.4
}
