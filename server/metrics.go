package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/berhot/session-handoff/pending"
)

const metricsNamespace = "berhot"

type metrics struct {
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	signIns    *prometheus.CounterVec
	onboarding *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer, flows *pending.Registry) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "signin_attempts_total",
			Help:      "Backend authentication calls by kind and result.",
		}, []string{"kind", "result"}),
		onboarding: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "onboarding_completed_total",
			Help:      "Completed onboardings by destination origin.",
		}, []string{"origin"}),
	}

	pendingFlows := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "pending_flows",
		Help:      "Sign-in flows holding tokens that have not completed or expired.",
	}, func() float64 {
		return float64(flows.Len())
	})

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.signIns, m.onboarding, pendingFlows} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
