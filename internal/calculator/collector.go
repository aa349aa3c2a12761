package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidInput is returned when a required numeric input cannot be parsed.
var ErrInvalidInput = errors.New("invalid numeric input")

// InputSource supplies raw input text for a calculator.
type InputSource interface {
	ReadField(calculatorID, name string) string
	ReadFieldList(calculatorID, kind string) []string
}

// InvalidInputError names the fields that failed to parse.
type InvalidInputError struct {
	Fields []string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(e.Fields, ", "))
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// Collect reads every input declared by def from src and coerces numeric
// fields. It returns either complete Values or an *InvalidInputError.
//
// Numeric fields that are not required in the selected mode are read
// leniently: unparseable text is stored as NaN instead of failing.
func Collect(def *Definition, src InputSource) (Values, error) {
	values := NewValues()
	var invalid []string

	// The mode must be known before numeric fields are judged.
	mode := ""
	for _, f := range def.Inputs {
		if f.Kind == TextField && f.Name == modeField {
			mode = src.ReadField(def.ID, f.Name)
		}
	}

	for _, f := range def.Inputs {
		raw := src.ReadField(def.ID, f.Name)
		if f.Kind == TextField {
			values.texts[f.Name] = raw
			continue
		}
		n, err := parseNumber(raw)
		if err != nil {
			if f.requiredFor(mode) {
				invalid = append(invalid, f.Name)
				continue
			}
			n = math.NaN()
		}
		values.numbers[f.Name] = n
	}

	for _, lf := range def.Lists {
		raws := src.ReadFieldList(def.ID, lf.Name)
		if lf.Kind == TextField {
			values.choices[lf.Name] = append([]string(nil), raws...)
			continue
		}
		nums := make([]float64, 0, len(raws))
		for i, raw := range raws {
			if lf.SkipBlank && strings.TrimSpace(raw) == "" {
				continue
			}
			n, err := parseNumber(raw)
			if err != nil {
				invalid = append(invalid, fmt.Sprintf("%s[%d]", lf.Name, i))
				continue
			}
			nums = append(nums, n)
		}
		values.lists[lf.Name] = nums
	}

	if len(invalid) > 0 {
		return Values{}, &InvalidInputError{Fields: invalid}
	}
	return values, nil
}

// parseNumber accepts decimal notation only; NaN and infinities typed by a
// user are rejected.
func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrInvalidInput
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, ErrInvalidInput
	}
	return n, nil
}
