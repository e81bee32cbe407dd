package otel

import (
	"context"
	"errors"
	"fmt"

	"github.com/naazbookdepot/shopauth"
	"github.com/naazbookdepot/shopauth/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// Source is what the callback reads on each collection. *shopauth.Engine
// satisfies it.
type Source interface {
	MetricsSnapshot() shopauth.MetricsSnapshot
	AuditDelivered() uint64
	AuditDropped() uint64
}

var _ Source = (*shopauth.Engine)(nil)

// series is one counter value observed under a fixed attribute set.
type series struct {
	id    shopauth.MetricID
	attrs metric.ObserveOption
}

type family struct {
	counter metric.Int64ObservableCounter
	series  []series
}

type histogram struct {
	id      shopauth.MetricID
	buckets metric.Int64ObservableGauge
	les     [8]metric.ObserveOption
	count   metric.Int64ObservableGauge
}

// Exporter keeps the callback registration alive until Close.
type Exporter struct {
	source       Source
	registration metric.Registration
	families     []family
	histograms   []histogram
	audit        metric.Int64ObservableCounter
	delivered    metric.ObserveOption
	dropped      metric.ObserveOption
}

func withLabel(key, value string) metric.ObserveOption {
	return metric.WithAttributeSet(attribute.NewSet(attribute.String(key, value)))
}

// Register creates the storefront instruments on meter and one callback that
// fills them from source.
func Register(meter metric.Meter, source Source) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &Exporter{
		source:    source,
		delivered: withLabel(internaldefs.AuditEventsLabel, internaldefs.AuditDelivered),
		dropped:   withLabel(internaldefs.AuditEventsLabel, internaldefs.AuditDropped),
	}
	var observables []metric.Observable

	for _, f := range internaldefs.Families {
		ins, err := meter.Int64ObservableCounter(f.Name, metric.WithDescription(f.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", f.Name, err)
		}
		fam := family{counter: ins}
		for _, m := range f.Members {
			fam.series = append(fam.series, series{id: m.ID, attrs: withLabel(f.Label, m.Value)})
		}
		e.families = append(e.families, fam)
		observables = append(observables, ins)
	}

	for _, def := range internaldefs.HistogramDefs {
		h := histogram{id: def.ID}
		var err error
		if h.buckets, err = meter.Int64ObservableGauge(def.Name+"_bucket", metric.WithDescription(def.Help+" Cumulative bucket counts.")); err != nil {
			return nil, fmt.Errorf("create gauge %s_bucket: %w", def.Name, err)
		}
		if h.count, err = meter.Int64ObservableGauge(def.Name+"_count", metric.WithDescription(def.Help+" Sample count.")); err != nil {
			return nil, fmt.Errorf("create gauge %s_count: %w", def.Name, err)
		}
		for i, le := range internaldefs.HistogramBounds {
			h.les[i] = withLabel("le", le)
		}
		e.histograms = append(e.histograms, h)
		observables = append(observables, h.buckets, h.count)
	}

	audit, err := meter.Int64ObservableCounter(internaldefs.AuditEventsName, metric.WithDescription(internaldefs.AuditEventsHelp))
	if err != nil {
		return nil, fmt.Errorf("create counter %s: %w", internaldefs.AuditEventsName, err)
	}
	e.audit = audit
	observables = append(observables, audit)

	e.registration, err = meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return e, nil
}

func (e *Exporter) observe(_ context.Context, o metric.Observer) error {
	snap := e.source.MetricsSnapshot()

	if len(snap.Counters) > 0 {
		for _, f := range e.families {
			for _, s := range f.series {
				o.ObserveInt64(f.counter, int64(snap.Counters[s.id]), s.attrs)
			}
		}
	}
	for _, h := range e.histograms {
		raw, ok := snap.Histograms[h.id]
		if !ok {
			continue
		}
		buckets := internaldefs.CumulativeBuckets(raw)
		for i, n := range buckets {
			o.ObserveInt64(h.buckets, int64(n), h.les[i])
		}
		o.ObserveInt64(h.count, int64(buckets[len(buckets)-1]))
	}

	o.ObserveInt64(e.audit, int64(e.source.AuditDelivered()), e.delivered)
	o.ObserveInt64(e.audit, int64(e.source.AuditDropped()), e.dropped)
	return nil
}

func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
