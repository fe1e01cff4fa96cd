package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timesheet_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timesheet_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// TimesheetRecordsSubmitted counts persisted records by resulting status
	TimesheetRecordsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timesheet_records_submitted_total",
		Help: "Timesheet records written by submissions, by status.",
	}, []string{"status"})

	TimesheetReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timesheet_reviews_total",
		Help: "Timesheet records reviewed, by decision.",
	}, []string{"status"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timesheet_cache_lookups_total",
		Help: "Timesheet cache lookups by result (hit or miss).",
	}, []string{"result"})

	SalarySlipsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timesheet_salary_slips_issued_total",
		Help: "Salary slips issued.",
	})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "timesheet_websocket_clients",
		Help: "Connected notification websocket clients.",
	})
)
