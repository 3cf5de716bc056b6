package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/numera-market/numera/internal/store"
)

// StatsFunc returns the current listing counts.
type StatsFunc func(ctx context.Context) (*store.Stats, error)

var (
	listingsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "", "listings"),
		"A gauge which tracks the number of listings by kind and state",
		[]string{"kind", "state"},
		nil,
	)

	categoriesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "", "categories"),
		"A gauge which tracks the number of categories",
		nil,
		nil,
	)

	visitsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "", "page_visits"),
		"A gauge which tracks the sum of all visitor counters",
		nil,
		nil,
	)
)

// ListingCollector reports listing counts read at scrape time, so deleted
// rows never linger as stale series.
type ListingCollector struct {
	stats   StatsFunc
	timeout time.Duration
}

var _ prometheus.Collector = &ListingCollector{}

// NewListingCollector creates a [ListingCollector] reading counts from stats.
func NewListingCollector(stats StatsFunc) *ListingCollector {
	return &ListingCollector{stats: stats, timeout: 5 * time.Second}
}

// Describe implements the [prometheus.Collector] interface.
func (c *ListingCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- listingsDesc
	ch <- categoriesDesc
	ch <- visitsDesc
}

// Collect implements the [prometheus.Collector] interface.
func (c *ListingCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	s, err := c.stats(ctx)
	if err != nil {
		slog.Error("failed to collect listing stats", "error", err)
		return
	}

	kinds := []struct {
		name  string
		stats store.ListingStats
	}{
		{"phone", s.PhoneNumbers},
		{"vehicle", s.VehicleNumbers},
		{"currency", s.CurrencyNumbers},
	}
	for _, k := range kinds {
		ch <- prometheus.MustNewConstMetric(listingsDesc, prometheus.GaugeValue, float64(k.stats.Total), k.name, "total")
		ch <- prometheus.MustNewConstMetric(listingsDesc, prometheus.GaugeValue, float64(k.stats.Active), k.name, "active")
		ch <- prometheus.MustNewConstMetric(listingsDesc, prometheus.GaugeValue, float64(k.stats.Sold), k.name, "sold")
	}
	ch <- prometheus.MustNewConstMetric(categoriesDesc, prometheus.GaugeValue, float64(s.Categories))
	ch <- prometheus.MustNewConstMetric(visitsDesc, prometheus.GaugeValue, float64(s.Visits))
}
