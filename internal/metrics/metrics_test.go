package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuth(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := NewAuth(reg)
	require.NoError(t, err)

	m.Observe("password", OutcomeSuccess)
	m.Observe("password", OutcomeInvalidCredentials)
	m.Observe("password", OutcomeInvalidCredentials)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues("password", OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Attempts.WithLabelValues("password", OutcomeInvalidCredentials)))

	again, err := NewAuth(reg)
	require.NoError(t, err, "registering twice should reuse the existing collectors")
	again.Observe("password", OutcomeSuccess)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Attempts.WithLabelValues("password", OutcomeSuccess)))
}

func TestObserveNil(t *testing.T) {
	var m *Auth
	assert.NotPanics(t, func() { m.Observe("password", OutcomeError) })
}
