package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/naazbookdepot/shopauth"
	"github.com/naazbookdepot/shopauth/metrics/export/internaldefs"
)

// Source is what the exporter reads on each scrape. *shopauth.Engine
// satisfies it.
type Source interface {
	MetricsSnapshot() shopauth.MetricsSnapshot
	AuditDelivered() uint64
	AuditDropped() uint64
}

var _ Source = (*shopauth.Engine)(nil)

// Exporter renders a Source in Prometheus text exposition format.
type Exporter struct {
	source Source
}

func New(source Source) *Exporter {
	return &Exporter{source: source}
}

// Handler serves Render as text/plain.
func (e *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(e.Render()))
	})
}

// Render returns every family, the latency histogram and the audit totals.
// It returns "" when engine metrics are disabled and the audit dispatcher has
// seen nothing.
func (e *Exporter) Render() string {
	if e == nil || e.source == nil {
		return ""
	}

	snap := e.source.MetricsSnapshot()
	delivered, dropped := e.source.AuditDelivered(), e.source.AuditDropped()
	if len(snap.Counters) == 0 && len(snap.Histograms) == 0 && delivered == 0 && dropped == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(4096)

	if len(snap.Counters) > 0 {
		for _, f := range internaldefs.Families {
			header(&b, f.Name, f.Help, "counter")
			for _, m := range f.Members {
				sample(&b, f.Name, f.Label, m.Value, snap.Counters[m.ID])
			}
		}
	}

	for _, def := range internaldefs.HistogramDefs {
		raw, ok := snap.Histograms[def.ID]
		if !ok {
			continue
		}
		buckets := internaldefs.CumulativeBuckets(raw)
		header(&b, def.Name, def.Help, "histogram")
		for i, le := range internaldefs.HistogramBounds {
			sample(&b, def.Name+"_bucket", "le", le, buckets[i])
		}
		// Snapshots carry bucket counts only.
		b.WriteString(def.Name + "_sum 0\n")
		b.WriteString(def.Name + "_count " + strconv.FormatUint(buckets[len(buckets)-1], 10) + "\n")
	}

	header(&b, internaldefs.AuditEventsName, internaldefs.AuditEventsHelp, "counter")
	sample(&b, internaldefs.AuditEventsName, internaldefs.AuditEventsLabel, internaldefs.AuditDelivered, delivered)
	sample(&b, internaldefs.AuditEventsName, internaldefs.AuditEventsLabel, internaldefs.AuditDropped, dropped)

	return b.String()
}

func header(b *strings.Builder, name, help, kind string) {
	b.WriteString("# HELP " + name + " " + escapeHelp(help) + "\n")
	b.WriteString("# TYPE " + name + " " + kind + "\n")
}

func sample(b *strings.Builder, name, label, value string, n uint64) {
	b.WriteString(name)
	b.WriteString("{" + label + "=" + strconv.Quote(value) + "} ")
	b.WriteString(strconv.FormatUint(n, 10))
	b.WriteByte('\n')
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, "\\", "\\\\")
	return strings.ReplaceAll(help, "\n", "\\n")
}
