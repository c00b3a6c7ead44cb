package contract

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts engine activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	statuses     *prometheus.CounterVec
	votes        prometheus.Counter
	hooksRemoved *prometheus.CounterVec
	deposits     *prometheus.CounterVec
}

// NewMetrics registers the engine collectors under namespace.
func NewMetrics(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls",
			Help:      "Number of engine calls by operation and result",
		}, []string{"op", "result"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "Time spent inside engine calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposal_transitions",
			Help:      "Number of proposals entering each status",
		}, []string{"status"}),
		votes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes",
			Help:      "Number of ballots recorded, revotes included",
		}),
		hooksRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hooks_removed",
			Help:      "Number of hook listeners dropped after a failed delivery",
		}, []string{"kind"}),
		deposits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits",
			Help:      "Number of deposit movements by kind",
		}, []string{"kind"}),
	}
	err := errors.Join(
		registerer.Register(m.calls),
		registerer.Register(m.callDuration),
		registerer.Register(m.statuses),
		registerer.Register(m.votes),
		registerer.Register(m.hooksRemoved),
		registerer.Register(m.deposits),
	)
	return m, err
}

func (m *Metrics) observeCall(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.calls.WithLabelValues(op, result).Inc()
	m.callDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) markStatus(s Status) {
	if m == nil {
		return
	}
	m.statuses.WithLabelValues(s.String()).Inc()
}

func (m *Metrics) markVote() {
	if m == nil {
		return
	}
	m.votes.Inc()
}

func (m *Metrics) markHookRemoved(kind HookKind) {
	if m == nil {
		return
	}
	m.hooksRemoved.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) markDeposit(kind string) {
	if m == nil {
		return
	}
	m.deposits.WithLabelValues(kind).Inc()
}
