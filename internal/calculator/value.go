package calculator

import "math"

// ValueKind tags the payload carried by a Value.
type ValueKind uint8

const (
	KindNumber ValueKind = iota
	KindText
	KindMessage
	KindFault
	KindFlag
	KindNumbers
)

// Value is a single displayable quantity produced by a formula.
//
// Messages and faults carry a language key instead of text so formulas stay
// independent of the active language; the formatter resolves them.
type Value struct {
	kind ValueKind
	num  float64
	unit string
	text string
	args map[string]string
	flag bool
	nums []float64
}

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Percent is a number rendered with a trailing percent sign.
func Percent(f float64) Value { return Value{kind: KindNumber, num: f, unit: "%"} }

func Text(s string) Value { return Value{kind: KindText, text: s} }

// Message is localized text looked up by key at render time. Placeholders of
// the form {name} in the resolved text are replaced from args.
func Message(key string, args map[string]string) Value {
	return Value{kind: KindMessage, text: key, args: args}
}

// Fault marks a domain error (divide by zero, no mode). It renders like a
// Message but never counts as a defined result.
func Fault(key string) Value { return Value{kind: KindFault, text: key} }

func Flag(b bool) Value { return Value{kind: KindFlag, flag: b} }

// Numbers is an ordered set of numbers, e.g. all modes of a sample.
func Numbers(xs []float64) Value {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	return Value{kind: KindNumbers, nums: cp}
}

func (v Value) Kind() ValueKind { return v.kind }

// Float returns the numeric payload, NaN for non-numeric values.
func (v Value) Float() float64 {
	if v.kind != KindNumber {
		return math.NaN()
	}
	return v.num
}

func (v Value) Unit() string { return v.unit }

// Key returns the language key of a Message or Fault, or the raw string of a Text.
func (v Value) Key() string { return v.text }

func (v Value) Args() map[string]string { return v.args }

func (v Value) Bool() bool { return v.flag }

func (v Value) Floats() []float64 {
	cp := make([]float64, len(v.nums))
	copy(cp, v.nums)
	return cp
}

// Defined reports whether v is a usable answer: not NaN, not a fault and not
// an empty set.
func (v Value) Defined() bool {
	switch v.kind {
	case KindNumber:
		return !math.IsNaN(v.num)
	case KindFault:
		return false
	case KindNumbers:
		return len(v.nums) > 0
	default:
		return true
	}
}

// Output is one named field of a composite result.
type Output struct {
	Name  string
	Value Value
}

func Out(name string, v Value) Output { return Output{Name: name, Value: v} }

// Series is a labelled numeric series handed to a SeriesRenderer.
type Series struct {
	Labels []string
	Values []float64
}

type resultKind uint8

const (
	scalarResult resultKind = iota
	compositeResult
)

// Result is either a single scalar Value or an ordered set of named Outputs.
type Result struct {
	kind    resultKind
	scalar  Value
	outputs []Output
	series  *Series
}

func Scalar(v Value) Result { return Result{kind: scalarResult, scalar: v} }

func Composite(outputs ...Output) Result {
	return Result{kind: compositeResult, outputs: outputs}
}

// WithSeries attaches a series channel to the result.
func (r Result) WithSeries(s Series) Result {
	r.series = &s
	return r
}

func (r Result) IsComposite() bool { return r.kind == compositeResult }

// Value returns the scalar payload; ok is false for composite results.
func (r Result) Value() (Value, bool) {
	if r.kind != scalarResult {
		return Value{}, false
	}
	return r.scalar, true
}

// Outputs returns the composite fields in declaration order.
func (r Result) Outputs() []Output {
	out := make([]Output, len(r.outputs))
	copy(out, r.outputs)
	return out
}

// Field looks up one composite field by name.
func (r Result) Field(name string) (Value, bool) {
	for _, o := range r.outputs {
		if o.Name == name {
			return o.Value, true
		}
	}
	return Value{}, false
}

func (r Result) Series() (Series, bool) {
	if r.series == nil {
		return Series{}, false
	}
	return *r.series, true
}
