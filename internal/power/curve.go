package power

// Lithium cell discharge curve, volts to percent. 3.5V is considered
// empty; a 3.7V nominal cell is effectively dead below 3.4V.
var dischargeCurve = []struct {
	volts   float64
	percent int
}{
	{4.20, 100},
	{4.13, 90},
	{4.06, 80},
	{3.99, 70},
	{3.92, 60},
	{3.85, 50},
	{3.78, 40},
	{3.71, 30},
	{3.64, 20},
	{3.57, 10},
	{3.50, 0},
}

// PercentFromVoltage converts a cell voltage to a capacity percentage
// using the discharge curve, interpolating linearly between entries.
func PercentFromVoltage(volts float64) int {
	if volts >= dischargeCurve[0].volts {
		return 100
	}
	last := dischargeCurve[len(dischargeCurve)-1]
	if volts <= last.volts {
		return 0
	}

	for i := 1; i < len(dischargeCurve); i++ {
		hi, lo := dischargeCurve[i-1], dischargeCurve[i]
		if volts >= lo.volts {
			frac := (volts - lo.volts) / (hi.volts - lo.volts)
			return lo.percent + int(frac*float64(hi.percent-lo.percent)+0.5)
		}
	}
	return 0
}
