// Package internaldefs holds the metric families, label values and bucket
// bounds shared by the Prometheus and OTel exporters, so both publish the
// same series.
package internaldefs
