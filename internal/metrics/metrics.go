package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "voting"

// Outcome labels for callback reconciliation.
const (
	CallbackSettled  = "settled"
	CallbackFailed   = "failed"
	CallbackReplay   = "replay"
	CallbackPending  = "pending"
	CallbackRejected = "rejected"
)

type Metrics struct {
	callbacks       *prometheus.CounterVec
	purchases       *prometheus.CounterVec
	votes           *prometheus.CounterVec
	pointsCredited  prometheus.Counter
	pointsSpent     prometheus.Counter
	historyExpiries prometheus.Counter
}

// New registers the service counters on reg. A nil *Metrics is valid and
// records nothing.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_callbacks_total",
			Help:      "Payment gateway callbacks by reconciliation outcome",
		}, []string{"outcome"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "point_purchases_total",
			Help:      "Point purchase initiations by result",
		}, []string{"result"}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Vote cast attempts by result",
		}, []string{"result"}),
		pointsCredited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_credited_total",
			Help:      "Points credited by settled purchases",
		}),
		pointsSpent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_spent_total",
			Help:      "Points debited by cast votes",
		}),
		historyExpiries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "package_history_expired_total",
			Help:      "Package history rows deactivated by the expiry sweep",
		}),
	}
	reg.MustRegister(
		m.callbacks,
		m.purchases,
		m.votes,
		m.pointsCredited,
		m.pointsSpent,
		m.historyExpiries,
	)
	return m
}

func (m *Metrics) Callback(outcome string) {
	if m == nil {
		return
	}
	m.callbacks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PointsCredited(points int) {
	if m == nil {
		return
	}
	m.pointsCredited.Add(float64(points))
}

func (m *Metrics) Purchase(result string) {
	if m == nil {
		return
	}
	m.purchases.WithLabelValues(result).Inc()
}

func (m *Metrics) Vote(result string, pointsUsed int) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(result).Inc()
	if pointsUsed > 0 {
		m.pointsSpent.Add(float64(pointsUsed))
	}
}

func (m *Metrics) HistoriesExpired(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.historyExpiries.Add(float64(n))
}
