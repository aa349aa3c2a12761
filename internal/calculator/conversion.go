package calculator

import (
	"math"
	"sort"
)

const (
	LengthConversion = "length-conversion"
	AreaConversion   = "area-conversion"
	VolumeConversion = "volume-conversion"
)

// Conversion factors to the base unit of each kind: metres, square metres
// and litres.
var unitFactors = map[string]map[string]float64{
	LengthConversion: {
		"mm": 0.001, "cm": 0.01, "m": 1, "km": 1000,
		"in": 0.0254, "ft": 0.3048, "yd": 0.9144, "mi": 1609.34,
	},
	AreaConversion: {
		"sqm": 1, "sqkm": 1000000, "sqft": 0.092903, "acre": 4046.86,
	},
	VolumeConversion: {
		"ml": 0.001, "l": 1, "gal": 3.78541,
	},
}

func conversionDefinitions() []*Definition {
	defs := make([]*Definition, 0, len(unitFactors))
	for _, id := range []string{LengthConversion, AreaConversion, VolumeConversion} {
		defs = append(defs, &Definition{
			ID:             id,
			Inputs:         []Field{num("value"), choice("from"), choice("to")},
			Compute:        converter(unitFactors[id]),
			Format:         Single(Decimals(0, 6)),
			SkipHistory:    true,
			BlankOnInvalid: true,
		})
	}
	return defs
}

// Units returns the unit codes accepted by a conversion calculator, sorted.
func Units(id string) []string {
	factors := unitFactors[id]
	out := make([]string, 0, len(factors))
	for u := range factors {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func converter(factors map[string]float64) func(Values) Result {
	return func(v Values) Result {
		from, okFrom := factors[v.Text("from")]
		to, okTo := factors[v.Text("to")]
		if !okFrom || !okTo {
			return Scalar(Number(math.NaN()))
		}
		return Scalar(Number(v.Number("value") * from / to))
	}
}
