// Package prometheus renders shopauth engine metrics in Prometheus text
// exposition format.
//
// Counters are grouped into labelled families such as
// shopauth_login_total{outcome="..."} and
// shopauth_guard_rejections_total{scope="..."}. The exporter never registers
// with a global registry: mount [Exporter.Handler] on /metrics.
package prometheus
