package metrics_test

import (
	"testing"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// counterValue sums every series of the named family whose labels include
// the given pairs.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			for k, v := range labels {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == v {
						found = true
					}
				}
				if !found {
					continue series
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.TokenIssued(metrics.TokenAccess)
	m.TokenIssued(metrics.TokenAccess)
	m.TokenIssued(metrics.TokenRefresh)
	m.Reissued(metrics.ReissueNoCacheEntry)
	m.Revoked()
	m.AuthnFailed("expired")

	require.Equal(t, 2.0, counterValue(t, reg, "ticketcheater_tokens_issued_total", map[string]string{"kind": "access"}))
	require.Equal(t, 1.0, counterValue(t, reg, "ticketcheater_tokens_issued_total", map[string]string{"kind": "refresh"}))
	require.Equal(t, 1.0, counterValue(t, reg, "ticketcheater_token_reissue_total", map[string]string{"outcome": "no_cache_entry"}))
	require.Equal(t, 1.0, counterValue(t, reg, "ticketcheater_token_revocations_total", nil))
	require.Equal(t, 1.0, counterValue(t, reg, "ticketcheater_authn_failures_total", map[string]string{"reason": "expired"}))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.TokenIssued(metrics.TokenAccess)
		m.Reissued(metrics.ReissueSuccess)
		m.Revoked()
		m.AuthnFailed("missing")
	})
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)
	require.Panics(t, func() { metrics.New(reg) })
}
