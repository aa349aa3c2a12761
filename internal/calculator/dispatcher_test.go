package calculator

import (
	"context"
	"errors"
	"testing"

	"multicalc/internal/history"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/language"
)

// mapText resolves keys from a flat map.
type mapText map[string]string

func (m mapText) Resolve(key string) (string, bool) {
	s, ok := m[key]
	return s, ok
}

var englishText = mapText{
	"common.error_nan":                   "Please enter valid numbers",
	"common.error_divide_by_zero":        "Cannot divide by zero",
	"circle.title":                       "Circle",
	"mean.title":                         "Mean",
	"bmi.interp_normal":                  "Normal",
	"percentage.result_discount":         "Discount of {val2}%",
	"statistics.no_mode":                 "No mode",
	"statistics.error_insufficient_data": "Not enough data",
}

var _ Resolver = mapText{}

func english() *Localizer { return NewLocalizer(language.English, englishText) }

// formSource is an InputSource backed by maps.
type formSource struct {
	fields map[string]string
	lists  map[string][]string
}

func (s formSource) ReadField(_, name string) string { return s.fields[name] }

func (s formSource) ReadFieldList(_, kind string) []string { return s.lists[kind] }

func fields(kv ...string) formSource {
	src := formSource{fields: map[string]string{}, lists: map[string][]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		src.fields[kv[i]] = kv[i+1]
	}
	return src
}

func (s formSource) list(kind string, raws ...string) formSource {
	s.lists[kind] = raws
	return s
}

// pageSink records what a page would show.
type pageSink struct {
	written map[string]string
	visible map[string]bool
	labels  []string
	values  []float64
}

func newPageSink() *pageSink {
	return &pageSink{written: map[string]string{}, visible: map[string]bool{}}
}

func (p *pageSink) WriteField(_, name, text string) { p.written[name] = text }

func (p *pageSink) SetVisible(_, name string, visible bool) { p.visible[name] = visible }

func (p *pageSink) RenderSeries(labels []string, values []float64) {
	p.labels, p.values = labels, values
}

// plainSink cannot render series.
type plainSink struct{ written map[string]string }

func (p *plainSink) WriteField(_, name, text string) { p.written[name] = text }

func (p *plainSink) SetVisible(string, string, bool) {}

type failingRecorder struct{}

func (failingRecorder) Push(history.Entry) error { return errors.New("disk full") }

func newTestDispatcher(t *testing.T, opts ...Option) (*Dispatcher, *history.Ledger) {
	t.Helper()
	ledger := history.NewLedger(nil)
	opts = append([]Option{WithHistory(ledger)}, opts...)
	return NewDispatcher(DefaultCatalog(), opts...), ledger
}

func TestDispatchUnknownCalculatorIsIgnored(t *testing.T) {
	d, ledger := newTestDispatcher(t)
	sink := newPageSink()

	got := d.Dispatch(context.Background(), "warp-drive", english(), fields(), sink)

	assert.Equal(t, Ignored, got)
	assert.Empty(t, sink.written)
	assert.Empty(t, sink.visible)
	assert.Zero(t, ledger.Len())
}

func TestDispatchInvalidInputWritesErrorAndSkipsHistory(t *testing.T) {
	d, ledger := newTestDispatcher(t)
	sink := newPageSink()

	got := d.Dispatch(context.Background(), Circle, english(), fields("radius", "abc", "operation", "area"), sink)

	assert.Equal(t, Invalid, got)
	assert.Equal(t, map[string]string{"result": "Please enter valid numbers"}, sink.written)
	assert.Zero(t, ledger.Len())
}

func TestDispatchScalarWritesResultAndRecordsHistory(t *testing.T) {
	d, ledger := newTestDispatcher(t)
	sink := newPageSink()

	got := d.Dispatch(context.Background(), Circle, english(), fields("radius", "3", "operation", "area"), sink)

	require.Equal(t, Computed, got)
	assert.Equal(t, "28.2743", sink.written["result"])
	if diff := cmp.Diff([]history.Entry{{Expression: "Circle", Result: "28.2743"}}, ledger.Entries()); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchNilLocalizerFallsBackToIDs(t *testing.T) {
	d, ledger := newTestDispatcher(t)
	sink := newPageSink()

	got := d.Dispatch(context.Background(), Circle, nil, fields("radius", "1", "operation", "diameter"), sink)

	require.Equal(t, Computed, got)
	assert.Equal(t, "2", sink.written["result"])
	assert.Equal(t, "circle", ledger.Entries()[0].Expression)
}

func TestDispatchNilLocalizerRendersMessageKeys(t *testing.T) {
	d, _ := newTestDispatcher(t)
	sink := newPageSink()

	d.Dispatch(context.Background(), Mode, nil, fields().list("value", "1", "2", "3"), sink)
	assert.Equal(t, "statistics.no_mode", sink.written["result"])

	d.Dispatch(context.Background(), BasicArithmetic, nil, fields().list("number", "8", "0").list("operation", "divide"), sink)
	assert.Equal(t, "common.error_divide_by_zero", sink.written["result"])

	d.Dispatch(context.Background(), Circle, nil, fields("radius", "x", "operation", "area"), sink)
	assert.Equal(t, "Please enter valid numbers", sink.written["result"])
}

func TestDispatchCompositeRendersFieldsWithoutHistory(t *testing.T) {
	d, ledger := newTestDispatcher(t)
	sink := newPageSink()

	got := d.Dispatch(context.Background(), BMI, english(), fields("weight", "70", "height", "175"), sink)

	require.Equal(t, Computed, got)
	assert.Equal(t, "22.86", sink.written["result"])
	assert.Equal(t, "Normal", sink.written["interpretation"])
	assert.Zero(t, ledger.Len())
}

func TestDispatchSummaryFlagsOnlyToggleVisibility(t *testing.T) {
	d, _ := newTestDispatcher(t)

	sink := newPageSink()
	d.Dispatch(context.Background(), Percentage, english(), fields("val1", "80", "val2", "25", "operation", "discount"), sink)

	assert.Equal(t, map[string]bool{"discount-summary": true}, sink.visible)
	assert.NotContains(t, sink.written, "discount-summary")
	assert.Equal(t, "Discount of 25%", sink.written["result"])
	assert.Equal(t, "60.00", sink.written["discounted-price"])
	assert.Equal(t, "20.00", sink.written["saved-amount"])

	sink = newPageSink()
	d.Dispatch(context.Background(), Percentage, english(), fields("val1", "50", "val2", "200", "operation", "percent_of"), sink)
	assert.Equal(t, map[string]bool{"discount-summary": false}, sink.visible)
	assert.Equal(t, "100", sink.written["result"])
}

func TestDispatchForwardsSeriesToRenderer(t *testing.T) {
	d, _ := newTestDispatcher(t)
	src := fields("principal", "1000", "rate", "10", "years", "2", "operation", "compound", "compounding", "annually")

	sink := newPageSink()
	require.Equal(t, Computed, d.Dispatch(context.Background(), Interest, english(), src, sink))
	assert.Equal(t, "1,210.00", sink.written["result"])
	assert.Equal(t, []string{"0", "1", "2"}, sink.labels)
	require.Len(t, sink.values, 3)
	assert.InDelta(t, 1100.0, sink.values[1], 1e-9)

	plain := &plainSink{written: map[string]string{}}
	assert.Equal(t, Computed, d.Dispatch(context.Background(), Interest, english(), src, plain))
	assert.Equal(t, "1,210.00", plain.written["result"])
}

func TestDispatchFaultIsRenderedButNotRecorded(t *testing.T) {
	d, ledger := newTestDispatcher(t)
	sink := newPageSink()
	src := fields().list("number", "8", "0").list("operation", "divide")

	got := d.Dispatch(context.Background(), BasicArithmetic, english(), src, sink)

	assert.Equal(t, Computed, got)
	assert.Equal(t, "Cannot divide by zero", sink.written["result"])
	assert.Zero(t, ledger.Len())
}

func TestDispatchArithmeticHistoryShowsExpression(t *testing.T) {
	d, ledger := newTestDispatcher(t)
	src := fields().list("number", "1", "2", "3").list("operation", "add", "multiply")

	d.Dispatch(context.Background(), BasicArithmetic, english(), src, newPageSink())

	assert.Equal(t, []history.Entry{{Expression: "1 + 2 × 3", Result: "9"}}, ledger.Entries())
}

func TestDispatchStatisticsRendering(t *testing.T) {
	d, ledger := newTestDispatcher(t)

	sink := newPageSink()
	d.Dispatch(context.Background(), Mode, english(), fields().list("value", "1", "1", "2", "2", "3"), sink)
	assert.Equal(t, "1, 2", sink.written["result"])

	sink = newPageSink()
	d.Dispatch(context.Background(), Mode, english(), fields().list("value", "1", "2"), sink)
	assert.Equal(t, "No mode", sink.written["result"])

	sink = newPageSink()
	d.Dispatch(context.Background(), StandardDeviation, english(), fields().list("value", "4"), sink)
	assert.Equal(t, "Not enough data", sink.written["result"])

	sink = newPageSink()
	d.Dispatch(context.Background(), Mean, english(), fields().list("value", "2", "", "4"), sink)
	assert.Equal(t, "3", sink.written["result"])

	entries := ledger.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, history.Entry{Expression: "Mean (2)", Result: "3"}, entries[0])
}

func TestDispatchConversionSkipsHistory(t *testing.T) {
	d, ledger := newTestDispatcher(t)
	sink := newPageSink()

	got := d.Dispatch(context.Background(), LengthConversion, english(), fields("value", "1", "from", "km", "to", "m"), sink)

	assert.Equal(t, Computed, got)
	assert.Equal(t, "1,000", sink.written["result"])
	assert.Zero(t, ledger.Len())
}

func TestDispatchConversionBlanksInvalidValue(t *testing.T) {
	d, ledger := newTestDispatcher(t)

	for _, value := range []string{"", "abc"} {
		sink := newPageSink()
		sink.written["result"] = "1,000"

		got := d.Dispatch(context.Background(), LengthConversion, english(), fields("value", value, "from", "km", "to", "m"), sink)

		assert.Equal(t, Invalid, got, "value %q", value)
		assert.Equal(t, "", sink.written["result"], "value %q", value)
	}
	assert.Zero(t, ledger.Len())
}

func TestDispatchRecoversFromPanickingFormula(t *testing.T) {
	boom := &Definition{
		ID:      "boom",
		Inputs:  []Field{num("x")},
		Compute: func(Values) Result { panic("index out of range") },
	}
	core, logs := observer.New(zap.ErrorLevel)
	ledger := history.NewLedger(nil)
	d := NewDispatcher(NewCatalog(boom), WithHistory(ledger), WithLogger(zap.New(core)))
	sink := newPageSink()

	got := d.Dispatch(context.Background(), "boom", english(), fields("x", "1"), sink)

	assert.Equal(t, Failed, got)
	assert.Equal(t, "Please enter valid numbers", sink.written["result"])
	assert.Zero(t, ledger.Len())
	assert.Equal(t, 1, logs.FilterMessage("calculator compute failed").Len())
}

func TestDispatchHistoryFailureIsLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewDispatcher(DefaultCatalog(), WithHistory(failingRecorder{}), WithLogger(zap.New(core)))
	sink := newPageSink()

	got := d.Dispatch(context.Background(), Circle, english(), fields("radius", "2", "operation", "diameter"), sink)

	assert.Equal(t, Computed, got)
	assert.Equal(t, "4", sink.written["result"])
	assert.Equal(t, 1, logs.FilterMessage("history not saved").Len())
}

func TestDispatchIsRepeatable(t *testing.T) {
	d, ledger := newTestDispatcher(t)
	src := fields("amount", "12000", "rate", "0", "term", "1")

	first, second := newPageSink(), newPageSink()
	d.Dispatch(context.Background(), Loan, english(), src, first)
	d.Dispatch(context.Background(), Loan, english(), src, second)

	assert.Equal(t, first.written, second.written)
	assert.Equal(t, "1,000.00", first.written["monthly_payment"])
	assert.Equal(t, "0.00", first.written["total_interest"])
	assert.Equal(t, map[string]bool{"loan-summary": true}, first.visible)
	assert.Zero(t, ledger.Len())
}

func TestClearOutputs(t *testing.T) {
	d, _ := newTestDispatcher(t)

	sink := newPageSink()
	d.ClearOutputs(Percentage, sink)
	assert.Equal(t, map[string]string{"result": "", "discounted-price": "", "saved-amount": ""}, sink.written)
	assert.Equal(t, map[string]bool{"discount-summary": false}, sink.visible)

	sink = newPageSink()
	d.ClearOutputs(Circle, sink)
	assert.Equal(t, map[string]string{"result": ""}, sink.written)

	sink = newPageSink()
	d.ClearOutputs("missing", sink)
	assert.Empty(t, sink.written)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "ignored", Ignored.String())
	assert.Equal(t, "invalid_input", Invalid.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "computed", Computed.String())
}
