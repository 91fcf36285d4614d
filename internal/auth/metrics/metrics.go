// Package metrics holds the Prometheus collectors for the token lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

type ReissueOutcome string

const (
	ReissueSuccess      ReissueOutcome = "success"
	ReissueNoCacheEntry ReissueOutcome = "no_cache_entry"
	ReissueMismatch     ReissueOutcome = "mismatch"
	ReissueBadToken     ReissueOutcome = "bad_token"
	ReissueError        ReissueOutcome = "error"
)

// Metrics is safe to use through a nil pointer, in which case nothing is
// recorded.
type Metrics struct {
	TokensIssued  *prometheus.CounterVec
	Reissues      *prometheus.CounterVec
	Revocations   prometheus.Counter
	AuthnFailures *prometheus.CounterVec
}

// New registers the collectors with reg. Passing prometheus.DefaultRegisterer
// exposes them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TokensIssued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ticketcheater_tokens_issued_total",
			Help: "The number of signed tokens issued, by kind",
		}, []string{"kind"}),
		Reissues: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ticketcheater_token_reissue_total",
			Help: "The number of access token reissue attempts, by outcome",
		}, []string{"outcome"}),
		Revocations: f.NewCounter(prometheus.CounterOpts{
			Name: "ticketcheater_token_revocations_total",
			Help: "The number of refresh token revocations",
		}),
		AuthnFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ticketcheater_authn_failures_total",
			Help: "The number of rejected authentication attempts, by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) TokenIssued(kind TokenKind) {
	if m == nil {
		return
	}
	m.TokensIssued.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) Reissued(outcome ReissueOutcome) {
	if m == nil {
		return
	}
	m.Reissues.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) Revoked() {
	if m == nil {
		return
	}
	m.Revocations.Inc()
}

func (m *Metrics) AuthnFailed(reason string) {
	if m == nil {
		return
	}
	m.AuthnFailures.WithLabelValues(reason).Inc()
}
