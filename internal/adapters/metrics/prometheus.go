package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

const namespace = "meal_pass"

// Prometheus records service and HTTP metrics on a registerer.
type Prometheus struct {
	mealResponses   prometheus.Counter
	passChecks      *prometheus.CounterVec
	reports         *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ ports.Metrics = (*Prometheus)(nil)

func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		mealResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meal_responses_submitted_total",
			Help:      "Meal selections accepted.",
		}),
		passChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pass_checks_total",
			Help:      "Pass verifications by meal and outcome.",
		}, []string{"meal", "status"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_requests_total",
			Help:      "Report generation requests by outcome.",
		}, []string{"status"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(p.mealResponses, p.passChecks, p.reports, p.requests, p.requestDuration)
	return p
}

func (p *Prometheus) MealResponseSubmitted() {
	p.mealResponses.Inc()
}

func (p *Prometheus) PassChecked(meal string, status string) {
	p.passChecks.WithLabelValues(meal, status).Inc()
}

func (p *Prometheus) ReportRequested(status string) {
	p.reports.WithLabelValues(status).Inc()
}

func (p *Prometheus) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Nop discards everything. Used where metrics are not wired.
type Nop struct{}

func (Nop) MealResponseSubmitted() {}
func (Nop) PassChecked(string, string) {}
func (Nop) ReportRequested(string) {}
func (Nop) ObserveRequest(string, string, int, time.Duration) {}
