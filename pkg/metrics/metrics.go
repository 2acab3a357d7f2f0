package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PaymentsEnqueued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "payflow",
		Name:      "payments_enqueued_total",
		Help:      "Payments accepted at ingress and pushed onto the work queue",
	})

	PaymentsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "payflow",
		Name:      "payments_processed_total",
		Help:      "Payments with a terminal outcome, by processor label",
	}, []string{"processor"})

	ProcessorUp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "payflow",
		Name:      "processor_up",
		Help:      "Last observed processor health (1 = healthy)",
	}, []string{"processor"})
)

func init() {
	prometheus.MustRegister(PaymentsEnqueued, PaymentsProcessed, ProcessorUp)
}
