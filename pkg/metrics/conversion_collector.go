package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gemforge/cad-converter/internal/store"
)

type conversionStatsCollector struct {
	store         store.Store
	totalByStatus *prometheus.Desc
}

// NewConversionStatsCollector reports the number of conversion rows per
// status, sampled from the database at scrape time.
func NewConversionStatsCollector(s store.Store) prometheus.Collector {
	return &conversionStatsCollector{
		store: s,
		totalByStatus: prometheus.NewDesc(
			fmt.Sprintf("%s_conversions_by_status_total", cadConverter),
			"Total number of conversions by status.",
			[]string{conversionStatusLabel},
			prometheus.Labels{},
		),
	}
}

func (c *conversionStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalByStatus
}

// Collect implements Collector.
func (c *conversionStatsCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.store.Conversion().CountByStatus(context.Background())
	if err != nil {
		zap.S().Named("conversion_collector").Errorf("failed to collect conversion statistics: %s", err)
		return
	}

	for status, total := range counts {
		ch <- prometheus.MustNewConstMetric(c.totalByStatus, prometheus.GaugeValue, float64(total), string(status))
	}
}
