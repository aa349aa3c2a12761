package app

import "github.com/prometheus/client_golang/prometheus"

// Collectors exposes session gauges for the Prometheus registry.
func (s *State) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "multicalc",
			Name:      "history_entries",
			Help:      "Number of calculations currently kept in history.",
		}, func() float64 { return float64(s.HistoryLen()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "multicalc",
			Name:      "calculators",
			Help:      "Number of calculators in the catalog.",
		}, func() float64 { return float64(len(s.Catalog().IDs())) }),
	}
}
