package calculator

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Resolver resolves a dotted language key such as "bmi.interp_normal".
type Resolver interface {
	Resolve(key string) (string, bool)
}

// Localizer renders values for one language: translated strings through a
// Resolver and numbers through an x/text printer for grouping and
// decimal separators.
type Localizer struct {
	tag     language.Tag
	text    Resolver
	printer *message.Printer
}

func NewLocalizer(tag language.Tag, text Resolver) *Localizer {
	return &Localizer{
		tag:     tag,
		text:    text,
		printer: message.NewPrinter(tag),
	}
}

func (l *Localizer) Tag() language.Tag { return l.tag }

// String returns the translation for key, or fallback when the key is absent.
func (l *Localizer) String(key, fallback string) string {
	if l.text == nil {
		return fallback
	}
	if s, ok := l.text.Resolve(key); ok {
		return s
	}
	return fallback
}

// Decimal formats f with locale grouping and between minFrac and maxFrac
// fraction digits.
func (l *Localizer) Decimal(f float64, minFrac, maxFrac int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "∞"
	case math.IsInf(f, -1):
		return "-∞"
	}
	opts := []number.Option{number.MaxFractionDigits(maxFrac)}
	if minFrac > 0 {
		opts = append(opts, number.MinFractionDigits(minFrac))
	}
	return l.printer.Sprint(number.Decimal(f, opts...))
}

// localize resolves a Message or Fault value and substitutes {name}
// placeholders. Unknown keys render as the key itself.
func (l *Localizer) localize(v Value) string {
	s := l.String(v.Key(), v.Key())
	for name, arg := range v.Args() {
		s = strings.ReplaceAll(s, "{"+name+"}", arg)
	}
	return s
}

// FormatFunc renders one value.
type FormatFunc func(l *Localizer, v Value) string

// Formatter is either a single function for scalar results or a per-field
// table for composite results.
type Formatter struct {
	single   FormatFunc
	perField map[string]FormatFunc
}

func Single(fn FormatFunc) Formatter { return Formatter{single: fn} }

func PerField(fields map[string]FormatFunc) Formatter { return Formatter{perField: fields} }

// scalar returns the formatter for a scalar result, falling back to the
// composite "result" entry and then to the default.
func (f Formatter) scalar() FormatFunc {
	if f.single != nil {
		return f.single
	}
	if fn, ok := f.perField[resultField]; ok {
		return fn
	}
	return defaultFormat
}

// field returns the formatter for a named composite field. Fields without an
// entry are rendered as-is.
func (f Formatter) field(name string) FormatFunc {
	if fn, ok := f.perField[name]; ok {
		return fn
	}
	return plainFormat
}

// Decimals builds a formatter for numbers with a fixed fraction digit range.
// Non-numeric values are rendered as-is.
func Decimals(minFrac, maxFrac int) FormatFunc {
	return func(l *Localizer, v Value) string {
		if v.Kind() != KindNumber {
			return plainFormat(l, v)
		}
		s := l.Decimal(v.Float(), minFrac, maxFrac)
		if v.Unit() != "" {
			s += " " + v.Unit()
		}
		return s
	}
}

// defaultFormat renders scalars from formulas without their own formatter.
func defaultFormat(l *Localizer, v Value) string {
	return Decimals(0, 4)(l, v)
}

// plainFormat renders any value kind without numeric shaping beyond the
// locale default.
func plainFormat(l *Localizer, v Value) string {
	switch v.Kind() {
	case KindNumber:
		return defaultFormat(l, v)
	case KindMessage, KindFault:
		return l.localize(v)
	case KindFlag:
		return strconv.FormatBool(v.Bool())
	case KindNumbers:
		parts := make([]string, 0, len(v.nums))
		for _, n := range v.nums {
			parts = append(parts, l.Decimal(n, 0, 4))
		}
		return strings.Join(parts, ", ")
	default:
		return v.Key()
	}
}

// plainNumber renders a number the way it is typed: no grouping, shortest
// representation.
func plainNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
