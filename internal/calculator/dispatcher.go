package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"multicalc/internal/history"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// OutputSink receives rendered outputs for a calculator.
type OutputSink interface {
	WriteField(calculatorID, name, text string)
	SetVisible(calculatorID, name string, visible bool)
}

// SeriesRenderer is implemented by sinks that can draw a time series.
type SeriesRenderer interface {
	RenderSeries(labels []string, values []float64)
}

// Recorder stores history entries. *history.Ledger implements it.
type Recorder interface {
	Push(entry history.Entry) error
}

// Outcome is the terminal state of one Dispatch call.
type Outcome int

const (
	// Ignored means the calculator id is unknown; nothing was written.
	Ignored Outcome = iota
	// Invalid means an input failed to parse; only the error text was written.
	Invalid
	// Failed means the formula panicked; only the error text was written.
	Failed
	// Computed means outputs were written.
	Computed
)

func (o Outcome) String() string {
	switch o {
	case Invalid:
		return "invalid_input"
	case Failed:
		return "failed"
	case Computed:
		return "computed"
	default:
		return "ignored"
	}
}

// Dispatcher runs calculators from a catalog against a source and sink and
// records successful scalar results in history.
type Dispatcher struct {
	catalog *Catalog
	history Recorder
	logger  *zap.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHistory records results in r.
func WithHistory(r Recorder) Option {
	return func(d *Dispatcher) { d.history = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

func NewDispatcher(catalog *Catalog, opts ...Option) *Dispatcher {
	d := &Dispatcher{catalog: catalog, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Catalog() *Catalog { return d.catalog }

// Dispatch runs one calculation. It never panics and never returns an error:
// every failure ends as text written to sink, or as nothing at all for an
// unknown calculator. A nil loc renders numbers in English and messages as
// their language keys.
func (d *Dispatcher) Dispatch(ctx context.Context, id string, loc *Localizer, src InputSource, sink OutputSink) Outcome {
	def, ok := d.catalog.Lookup(id)
	if !ok {
		d.logger.Debug("unknown calculator ignored", zap.String("calculator", id))
		return Ignored
	}
	if loc == nil {
		loc = NewLocalizer(language.English, nil)
	}

	ctx, span := tracer.Start(ctx, "calculator."+id,
		trace.WithAttributes(attribute.String("calculator.id", id)),
	)
	defer span.End()
	attrs := metric.WithAttributes(attribute.String("calculator", id))

	values, err := Collect(def, src)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")
		errorCounter.Add(ctx, 1, attrs)
		d.logger.Info("calculator input rejected",
			zap.String("calculator", id),
			zap.Error(err),
		)
		if def.BlankOnInvalid {
			sink.WriteField(id, resultField, "")
		} else {
			sink.WriteField(id, resultField, loc.String("common.error_nan", "Please enter valid numbers"))
		}
		return Invalid
	}

	start := time.Now()
	result, err := safeCompute(def, values)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compute failed")
		errorCounter.Add(ctx, 1, attrs)
		d.logger.Error("calculator compute failed",
			zap.String("calculator", id),
			zap.Error(err),
		)
		sink.WriteField(id, resultField, loc.String("common.error_nan", "Please enter valid numbers"))
		return Failed
	}

	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	if v, ok := result.Value(); ok && v.Kind() == KindNumber && !math.IsNaN(v.Float()) && !math.IsInf(v.Float(), 0) {
		resultGauge.Record(ctx, v.Float(), attrs)
	}

	d.record(def, loc, values, result)
	d.render(def, loc, result, sink)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Bool("composite", result.IsComposite()),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	d.logger.Info("calculator operation completed",
		zap.String("calculator", id),
		zap.Bool("composite", result.IsComposite()),
		zap.Float64("duration_ms", elapsed),
	)
	return Computed
}

var errComputePanic = errors.New("compute panicked")

func safeCompute(def *Definition, values Values) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", errComputePanic, def.ID, r)
		}
	}()
	return def.Compute(values), nil
}

// record pushes a history entry for defined scalar results.
func (d *Dispatcher) record(def *Definition, loc *Localizer, values Values, result Result) {
	if d.history == nil || def.SkipHistory {
		return
	}
	v, ok := result.Value()
	if !ok || !v.Defined() {
		return
	}
	entry := history.Entry{
		Expression: def.expression(loc, values),
		Result:     def.Format.scalar()(loc, v),
	}
	if err := d.history.Push(entry); err != nil {
		d.logger.Warn("history not saved",
			zap.String("calculator", def.ID),
			zap.Error(err),
		)
	}
}

func (d *Dispatcher) render(def *Definition, loc *Localizer, result Result, sink OutputSink) {
	if !result.IsComposite() {
		v, _ := result.Value()
		sink.WriteField(def.ID, resultField, def.Format.scalar()(loc, v))
	} else {
		for _, out := range result.Outputs() {
			if isSummary(out.Name) {
				sink.SetVisible(def.ID, out.Name, out.Value.Bool())
				continue
			}
			sink.WriteField(def.ID, out.Name, def.Format.field(out.Name)(loc, out.Value))
		}
	}

	if series, ok := result.Series(); ok && len(series.Labels) > 0 {
		if r, ok := sink.(SeriesRenderer); ok {
			r.RenderSeries(series.Labels, series.Values)
		}
	}
}

// isSummary reports whether an output slot toggles a summary block rather
// than holding text.
func isSummary(name string) bool {
	return strings.Contains(name, "summary")
}

// OutputFields returns every output slot a calculator may write, so an
// adapter can blank them and hide summary blocks when inputs are cleared.
func (d *Dispatcher) OutputFields(id string) []string {
	def, ok := d.catalog.Lookup(id)
	if !ok {
		return nil
	}
	if len(def.Outputs) == 0 {
		return []string{resultField}
	}
	return append([]string(nil), def.Outputs...)
}

// ClearOutputs blanks every output of a calculator and hides its summaries.
func (d *Dispatcher) ClearOutputs(id string, sink OutputSink) {
	for _, name := range d.OutputFields(id) {
		if isSummary(name) {
			sink.SetVisible(id, name, false)
			continue
		}
		sink.WriteField(id, name, "")
	}
}
