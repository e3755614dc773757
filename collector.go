package owned

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes a heap's metrics as Prometheus metrics. Register it
// with a prometheus.Registerer:
//
//	h := owned.NewHeap()
//	prometheus.MustRegister(owned.NewCollector(h))
//
// The heap is not goroutine-safe, so scrapes must not run concurrently
// with handle operations: collect from the owning goroutine, or quiesce
// the heap around scrape windows.
type Collector struct {
	heap *Heap

	liveSlots     *prometheus.Desc
	totalSlots    *prometheus.Desc
	slotChunks    *prometheus.Desc
	allocs        *prometheus.Desc
	frees         *prometheus.Desc
	finalizes     *prometheus.Desc
	clones        *prometheus.Desc
	downgrades    *prometheus.Desc
	upgrades      *prometheus.Desc
	upgradeMisses *prometheus.Desc
}

// NewCollector creates a Collector for h.
func NewCollector(h *Heap) *Collector {
	return &Collector{
		heap: h,
		liveSlots: prometheus.NewDesc(
			"owned_heap_live_slots",
			"Slots currently occupied by live boxes and control blocks.",
			nil, nil),
		totalSlots: prometheus.NewDesc(
			"owned_heap_total_slots",
			"Total slot capacity of grown chunks.",
			nil, nil),
		slotChunks: prometheus.NewDesc(
			"owned_heap_slot_chunks",
			"Number of slot chunks currently grown.",
			nil, nil),
		allocs: prometheus.NewDesc(
			"owned_heap_allocs_total",
			"Slot allocations since heap creation.",
			nil, nil),
		frees: prometheus.NewDesc(
			"owned_heap_frees_total",
			"Slot frees since heap creation.",
			nil, nil),
		finalizes: prometheus.NewDesc(
			"owned_heap_finalizes_total",
			"Payload teardowns since heap creation.",
			nil, nil),
		clones: prometheus.NewDesc(
			"owned_rc_clones_total",
			"Shared-owner clones since heap creation.",
			nil, nil),
		downgrades: prometheus.NewDesc(
			"owned_rc_downgrades_total",
			"Weak handles created since heap creation.",
			nil, nil),
		upgrades: prometheus.NewDesc(
			"owned_weak_upgrades_total",
			"Successful weak upgrades since heap creation.",
			nil, nil),
		upgradeMisses: prometheus.NewDesc(
			"owned_weak_upgrade_misses_total",
			"Weak upgrades that found a dead payload.",
			nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.liveSlots
	ch <- c.totalSlots
	ch <- c.slotChunks
	ch <- c.allocs
	ch <- c.frees
	ch <- c.finalizes
	ch <- c.clones
	ch <- c.downgrades
	ch <- c.upgrades
	ch <- c.upgradeMisses
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.heap.Metrics()
	ch <- prometheus.MustNewConstMetric(c.liveSlots, prometheus.GaugeValue, float64(m.LiveSlots))
	ch <- prometheus.MustNewConstMetric(c.totalSlots, prometheus.GaugeValue, float64(m.TotalSlots))
	ch <- prometheus.MustNewConstMetric(c.slotChunks, prometheus.GaugeValue, float64(m.NumChunks))
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(m.Allocs))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(m.Frees))
	ch <- prometheus.MustNewConstMetric(c.finalizes, prometheus.CounterValue, float64(m.Finalizes))
	ch <- prometheus.MustNewConstMetric(c.clones, prometheus.CounterValue, float64(m.Clones))
	ch <- prometheus.MustNewConstMetric(c.downgrades, prometheus.CounterValue, float64(m.Downgrades))
	ch <- prometheus.MustNewConstMetric(c.upgrades, prometheus.CounterValue, float64(m.Upgrades))
	ch <- prometheus.MustNewConstMetric(c.upgradeMisses, prometheus.CounterValue, float64(m.UpgradeMisses))
}
