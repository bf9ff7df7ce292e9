package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead pipeline. All methods
// are nil-safe so callers can run without metrics wired.
type LeadMetrics struct {
	createdTotal       *prometheus.CounterVec
	quoteAmount        prometheus.Histogram
	statusUpdatesTotal *prometheus.CounterVec
	loginsTotal        *prometheus.CounterVec
}

// NewLeadMetrics registers the lead metrics on reg (or the default
// registerer when nil).
func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		createdTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "renovation",
			Subsystem: "leads",
			Name:      "created_total",
			Help:      "Total leads created",
		}, []string{"source", "job_type"}),
		quoteAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "renovation",
			Subsystem: "leads",
			Name:      "quote_dollars",
			Help:      "Quoted price of created leads in dollars",
			Buckets:   []float64{100, 500, 1000, 5000, 10000, 25000, 50000, 100000},
		}),
		statusUpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "renovation",
			Subsystem: "leads",
			Name:      "status_updates_total",
			Help:      "Total lead status updates",
		}, []string{"status"}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "renovation",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total admin login attempts",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.quoteAmount, m.statusUpdatesTotal, m.loginsTotal)
	return m
}

func (m *LeadMetrics) ObserveLeadCreated(source, jobType string, quote float64) {
	if m == nil {
		return
	}
	m.createdTotal.WithLabelValues(source, jobType).Inc()
	m.quoteAmount.Observe(quote)
}

func (m *LeadMetrics) ObserveStatusUpdate(status string) {
	if m == nil {
		return
	}
	m.statusUpdatesTotal.WithLabelValues(status).Inc()
}

func (m *LeadMetrics) ObserveLogin(success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.loginsTotal.WithLabelValues(outcome).Inc()
}
