package vm

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	invocationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nfthub",
		Subsystem: "vm",
		Name:      "invocations_total",
		Help:      "Top level invocations by entry point and result.",
	}, []string{"entry", "result"})

	messagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nfthub",
		Subsystem: "vm",
		Name:      "messages_total",
		Help:      "Sub messages dispatched inside committed or aborted call trees.",
	}, []string{"kind"})

	repliesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nfthub",
		Subsystem: "vm",
		Name:      "replies_total",
		Help:      "Reply continuations delivered to actors.",
	})
)

func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{invocationsTotal, messagesTotal, repliesTotal} {
		err := reg.Register(c)
		if err != nil {
			return err
		}
	}
	return nil
}
