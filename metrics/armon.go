package metrics

import (
	"time"

	gometrics "github.com/armon/go-metrics"
)

// Armon wraps a *gometrics.Metrics into the Sink interface the gossip
// engine expects, passing each dotted metric name through unsplit as a
// single-element []string key.
type Armon struct {
	m *gometrics.Metrics
}

// NewArmon builds an in-memory go-metrics sink under serviceName,
// suitable for wiring straight into gossip.Config.Metrics.
func NewArmon(serviceName string) (*Armon, error) {
	cfg := gometrics.DefaultConfig(serviceName)
	cfg.EnableHostname = false
	sink := gometrics.NewInmemSink(10*time.Second, time.Minute)
	m, err := gometrics.New(cfg, sink)
	if err != nil {
		return nil, err
	}
	return &Armon{m: m}, nil
}

func (a *Armon) IncrCounter(name string, delta float32) {
	a.m.IncrCounter([]string{name}, delta)
}

func (a *Armon) MeasureSince(name string, start time.Time) {
	a.m.MeasureSince([]string{name}, start)
}
