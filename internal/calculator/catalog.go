package calculator

import (
	"math"
	"sort"
)

// Slot names shared by every calculator.
const (
	resultField = "result"
	modeField   = "operation"
)

// FieldKind is the semantic type of an input slot.
type FieldKind uint8

const (
	NumberField FieldKind = iota
	TextField
)

func (k FieldKind) String() string {
	if k == TextField {
		return "text"
	}
	return "number"
}

// Field is a named input slot. A numeric field with Modes is only required
// when the calculator's operation is one of them.
type Field struct {
	Name  string
	Kind  FieldKind
	Modes []string
}

// requiredFor reports whether the field must hold a valid value when the
// calculator runs in the given mode.
func (f Field) requiredFor(mode string) bool {
	if len(f.Modes) == 0 {
		return true
	}
	for _, m := range f.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// ListField is a variable-length input such as a column of numbers.
type ListField struct {
	Name      string
	Kind      FieldKind
	SkipBlank bool
}

func num(name string, modes ...string) Field {
	return Field{Name: name, Kind: NumberField, Modes: modes}
}

func choice(name string) Field { return Field{Name: name, Kind: TextField} }

// Values holds the coerced inputs of one invocation.
type Values struct {
	numbers map[string]float64
	texts   map[string]string
	lists   map[string][]float64
	choices map[string][]string
}

// NewValues builds an empty Values. Tests and adapters use the With* helpers
// to fill it without going through an InputSource.
func NewValues() Values {
	return Values{
		numbers: map[string]float64{},
		texts:   map[string]string{},
		lists:   map[string][]float64{},
		choices: map[string][]string{},
	}
}

func (v Values) WithNumber(name string, f float64) Values {
	v.numbers[name] = f
	return v
}

func (v Values) WithText(name, s string) Values {
	v.texts[name] = s
	return v
}

func (v Values) WithList(name string, xs ...float64) Values {
	v.lists[name] = xs
	return v
}

func (v Values) WithChoices(name string, xs ...string) Values {
	v.choices[name] = xs
	return v
}

// Number returns the named number, NaN when absent.
func (v Values) Number(name string) float64 {
	f, ok := v.numbers[name]
	if !ok {
		return math.NaN()
	}
	return f
}

func (v Values) Text(name string) string { return v.texts[name] }

// List returns a copy of the named numeric list.
func (v Values) List(name string) []float64 {
	src := v.lists[name]
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

func (v Values) Choices(name string) []string {
	src := v.choices[name]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Definition describes one calculator. Definitions are built once and never
// modified.
type Definition struct {
	ID      string
	Inputs  []Field
	Lists   []ListField
	Compute func(Values) Result
	Format  Formatter
	// Outputs lists the composite output slots, used to clear a page section.
	Outputs []string
	// Label renders the history expression. Nil uses the translated title.
	Label func(l *Localizer, def *Definition, v Values) string
	// SkipHistory keeps results out of the history ledger.
	SkipHistory bool
	// BlankOnInvalid clears the result instead of writing the invalid-number
	// text when an input does not parse.
	BlankOnInvalid bool
}

// Title returns the translated calculator name, falling back to its id.
func (d *Definition) Title(l *Localizer) string {
	return l.String(d.ID+".title", d.ID)
}

func (d *Definition) expression(l *Localizer, v Values) string {
	if d.Label != nil {
		return d.Label(l, d, v)
	}
	return d.Title(l)
}

// Catalog is the closed set of calculators keyed by id.
type Catalog struct {
	defs map[string]*Definition
}

// NewCatalog builds a catalog from definitions. A later definition with the
// same id replaces an earlier one.
func NewCatalog(defs ...*Definition) *Catalog {
	c := &Catalog{defs: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		c.defs[d.ID] = d
	}
	return c
}

// DefaultCatalog returns every built-in calculator.
func DefaultCatalog() *Catalog {
	var defs []*Definition
	defs = append(defs, arithmeticDefinitions()...)
	defs = append(defs, geometryDefinitions()...)
	defs = append(defs, healthDefinitions()...)
	defs = append(defs, percentageDefinitions()...)
	defs = append(defs, financeDefinitions()...)
	defs = append(defs, statisticsDefinitions()...)
	defs = append(defs, conversionDefinitions()...)
	return NewCatalog(defs...)
}

func (c *Catalog) Lookup(id string) (*Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// IDs returns all calculator ids in sorted order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.defs))
	for id := range c.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
