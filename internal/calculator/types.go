package calculator

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawValue is an input as typed by the user. JSON strings, numbers and null
// are all accepted so clients can post form values unchanged.
type RawValue string

func (r *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RawValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("input must be a string or number: %w", err)
		}
		*r = RawValue(n.String())
	}
	return nil
}

// CalcRequest is the JSON body for POST /calculator/{id}. It is the
// InputSource for that calculation.
type CalcRequest struct {
	Fields map[string]RawValue   `json:"fields"`
	Lists  map[string][]RawValue `json:"lists"`
}

func (r *CalcRequest) ReadField(_, name string) string {
	return string(r.Fields[name])
}

func (r *CalcRequest) ReadFieldList(_, kind string) []string {
	raws := r.Lists[kind]
	out := make([]string, len(raws))
	for i, raw := range raws {
		out[i] = string(raw)
	}
	return out
}

// SeriesResponse carries the compound-interest growth series.
type SeriesResponse struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// CalcResponse is the JSON response for calculator endpoints. It is the
// OutputSink and SeriesRenderer for that calculation.
type CalcResponse struct {
	Calculator string            `json:"calculator"`
	Status     string            `json:"status"`
	Outputs    map[string]string `json:"outputs"`
	Visible    map[string]bool   `json:"visible,omitempty"`
	Series     *SeriesResponse   `json:"series,omitempty"`
}

func newCalcResponse(id string) *CalcResponse {
	return &CalcResponse{Calculator: id, Outputs: map[string]string{}}
}

func (r *CalcResponse) WriteField(_, name, text string) {
	r.Outputs[name] = text
}

func (r *CalcResponse) SetVisible(_, name string, visible bool) {
	if r.Visible == nil {
		r.Visible = map[string]bool{}
	}
	r.Visible[name] = visible
}

func (r *CalcResponse) RenderSeries(labels []string, values []float64) {
	r.Series = &SeriesResponse{Labels: labels, Values: values}
}

// InputInfo describes one input slot in the catalog listing.
type InputInfo struct {
	Name  string   `json:"name"`
	Kind  string   `json:"kind"`
	Modes []string `json:"modes,omitempty"`
	List  bool     `json:"list,omitempty"`
	Units []string `json:"units,omitempty"`
}

// CatalogEntry is one calculator in GET /calculators.
type CatalogEntry struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Inputs  []InputInfo `json:"inputs"`
	Outputs []string    `json:"outputs"`
}

func describe(def *Definition, loc *Localizer) CatalogEntry {
	entry := CatalogEntry{ID: def.ID, Title: def.Title(loc)}
	for _, f := range def.Inputs {
		info := InputInfo{Name: f.Name, Kind: f.Kind.String(), Modes: f.Modes}
		if f.Name == "from" || f.Name == "to" {
			info.Units = Units(def.ID)
		}
		entry.Inputs = append(entry.Inputs, info)
	}
	for _, lf := range def.Lists {
		entry.Inputs = append(entry.Inputs, InputInfo{Name: lf.Name, Kind: lf.Kind.String(), List: true})
	}
	entry.Outputs = []string{resultField}
	if len(def.Outputs) > 0 {
		entry.Outputs = def.Outputs
	}
	return entry
}
