package lib

import (
	"math"
	"math/cmplx"
)

/*
	One sample of a frequency response, ordered by ascending frequency.
*/
type BodePoint struct {
	Freq     float64
	GainDB   float64
	PhaseDeg float64
}

type StabilityReport struct {
	Stable        bool
	CrossoverFreq *float64
	PhaseMargin   *float64
	Bandwidth     *float64
	Poles         []float64
	Zeros         []float64
	Grade         string
}

/*
	GainDB converts a complex transfer ratio to decibels. The magnitude is
	clamped with a small epsilon so a zero ratio yields a very negative
	value instead of -Inf.
*/
func GainDB(h complex128) float64 {
	return 20.0 * math.Log10(cmplx.Abs(h)+1e-18)
}

func PhaseDeg(h complex128) float64 {
	return cmplx.Phase(h) * 180.0 / math.Pi
}

/*
	FindCrossover locates the first transition where gain drops from above
	0 dB to 0 dB or below, interpolates the exact crossover frequency and
	the phase there, and returns (crossover, 180 - phase). Both are nil
	when the gain never crosses 0 dB. NaN samples never satisfy the
	bracketing comparison and are skipped.
*/
func FindCrossover(points []BodePoint) (crossover, margin *float64) {
	for i := 1; i < len(points); i++ {
		g1, g2 := points[i-1].GainDB, points[i].GainDB
		if !(g1 > 0 && g2 <= 0) {
			continue
		}

		f1, f2 := points[i-1].Freq, points[i].Freq
		p1, p2 := points[i-1].PhaseDeg, points[i].PhaseDeg

		fc := f1 + (f2-f1)*(0-g1)/(g2-g1)
		phase := p1 + (p2-p1)*(fc-f1)/(f2-f1)
		pm := 180.0 - phase

		return &fc, &pm
	}

	return nil, nil
}

/*
	FindBandwidth returns the interpolated frequency where gain first
	drops 3 dB below the series maximum, or nil if it never does.
*/
func FindBandwidth(points []BodePoint) *float64 {
	maxGain := math.Inf(-1)
	for _, pt := range points {
		if math.IsNaN(pt.GainDB) || math.IsInf(pt.GainDB, 0) {
			continue
		}
		if pt.GainDB > maxGain {
			maxGain = pt.GainDB
		}
	}
	if math.IsInf(maxGain, -1) {
		return nil
	}

	target := maxGain - 3.0
	for i := 1; i < len(points); i++ {
		g1, g2 := points[i-1].GainDB, points[i].GainDB
		if g1 >= target && g2 < target {
			f1, f2 := points[i-1].Freq, points[i].Freq
			bw := f1 + (f2-f1)*(target-g1)/(g2-g1)
			return &bw
		}
	}

	return nil
}

/*
	FindPolesZeros estimates dominant pole and zero frequencies from the
	gain slope on both sides of each interior sample. This is a heuristic,
	not system identification: a slope steeper than -15 dB/decade on both
	sides approximates a -20 dB/decade single-pole roll-off, and the
	mirror case approximates a zero. At most the first five of each are
	returned, in ascending frequency order.
*/
func FindPolesZeros(points []BodePoint) (poles, zeros []float64) {
	for i := 1; i < len(points)-1; i++ {
		f1, f2, f3 := points[i-1].Freq, points[i].Freq, points[i+1].Freq
		g1, g2, g3 := points[i-1].GainDB, points[i].GainDB, points[i+1].GainDB

		slope1 := (g2 - g1) / (math.Log10(f2) - math.Log10(f1))
		slope2 := (g3 - g2) / (math.Log10(f3) - math.Log10(f2))

		if slope1 < -15 && slope2 < -15 {
			poles = append(poles, f2)
		}
		if slope1 > 15 && slope2 > 15 {
			zeros = append(zeros, f2)
		}
	}

	if len(poles) > 5 {
		poles = poles[:5]
	}
	if len(zeros) > 5 {
		zeros = zeros[:5]
	}

	return poles, zeros
}

/*
	GradeStability maps a phase margin to a coarse grade. A margin of
	exactly 45 grades Good; a margin of exactly 60 stays Good.
*/
func GradeStability(margin *float64) string {
	switch {
	case margin == nil:
		return "Unknown"
	case *margin > 60:
		return "Excellent"
	case *margin >= 45:
		return "Good"
	case *margin > 30:
		return "Marginal"
	}

	return "Poor"
}

/*
	AnalyzeStability derives crossover frequency, phase margin, -3 dB
	bandwidth, pole/zero estimates and a stability grade from a Bode
	sample series.
*/
func AnalyzeStability(points []BodePoint) *StabilityReport {
	crossover, margin := FindCrossover(points)
	poles, zeros := FindPolesZeros(points)

	return &StabilityReport{
		Stable:        margin != nil && *margin >= 45,
		CrossoverFreq: crossover,
		PhaseMargin:   margin,
		Bandwidth:     FindBandwidth(points),
		Poles:         poles,
		Zeros:         zeros,
		Grade:         GradeStability(margin),
	}
}
