package calculator

import (
	"math"
	"sort"
	"strconv"
)

const (
	Mean              = "mean"
	Median            = "median"
	Mode              = "mode"
	StandardDeviation = "standard-deviation"

	sampleList = "value"
)

func statisticsDefinitions() []*Definition {
	samples := []ListField{{Name: sampleList, Kind: NumberField, SkipBlank: true}}
	return []*Definition{
		{ID: Mean, Lists: samples, Compute: computeMean, Label: sampleLabel},
		{ID: Median, Lists: samples, Compute: computeMedian, Label: sampleLabel},
		{ID: Mode, Lists: samples, Compute: computeMode, Label: sampleLabel},
		{
			ID:      StandardDeviation,
			Lists:   samples,
			Compute: computeStandardDeviation,
			Format:  Single(insufficientAware(Decimals(0, 4))),
			Label:   sampleLabel,
		},
	}
}

// sampleLabel renders "<title> (<count>)".
func sampleLabel(l *Localizer, def *Definition, v Values) string {
	return def.Title(l) + " (" + strconv.Itoa(len(v.List(sampleList))) + ")"
}

// insufficientAware renders NaN as the localized insufficient-data message.
func insufficientAware(next FormatFunc) FormatFunc {
	return func(l *Localizer, v Value) string {
		if v.Kind() == KindNumber && math.IsNaN(v.Float()) {
			return l.String("statistics.error_insufficient_data", "Not enough data")
		}
		return next(l, v)
	}
}

func computeMean(v Values) Result {
	return Scalar(Number(mean(v.List(sampleList))))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func computeMedian(v Values) Result {
	xs := v.List(sampleList)
	if len(xs) == 0 {
		return Scalar(Number(math.NaN()))
	}
	sort.Float64s(xs)
	mid := len(xs) / 2
	if len(xs)%2 == 1 {
		return Scalar(Number(xs[mid]))
	}
	return Scalar(Number((xs[mid-1] + xs[mid]) / 2))
}

// computeMode returns every value sharing the highest frequency, ascending.
// There is no mode when no value repeats, or when several distinct values
// all occur equally often.
func computeMode(v Values) Result {
	counts := make(map[float64]int)
	highest := 0
	for _, x := range v.List(sampleList) {
		counts[x]++
		if counts[x] > highest {
			highest = counts[x]
		}
	}

	var modes []float64
	for x, n := range counts {
		if n == highest {
			modes = append(modes, x)
		}
	}
	if highest <= 1 || (len(counts) > 1 && len(modes) == len(counts)) {
		return Scalar(Fault("statistics.no_mode"))
	}
	sort.Float64s(modes)
	return Scalar(Numbers(modes))
}

// computeStandardDeviation is the population standard deviation. Fewer than
// two samples yield NaN.
func computeStandardDeviation(v Values) Result {
	xs := v.List(sampleList)
	if len(xs) < 2 {
		return Scalar(Number(math.NaN()))
	}
	m := mean(xs)
	var sq float64
	for _, x := range xs {
		sq += (x - m) * (x - m)
	}
	return Scalar(Number(math.Sqrt(sq / float64(len(xs)))))
}
