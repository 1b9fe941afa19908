package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for Attempts.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeDuplicate          = "duplicate"
	OutcomeError              = "error"
)

// Auth holds the authentication metrics.
type Auth struct {
	Attempts      *prometheus.CounterVec
	Sessions      prometheus.Counter
	OAuthRedirect prometheus.Counter
}

// NewAuth creates the metrics and registers them on reg (or the default
// registerer if nil). Registering twice on the same registry is tolerated.
func NewAuth(reg prometheus.Registerer) (*Auth, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Auth{
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "propmgr",
			Name:      "auth_attempts_total",
			Help:      "Authentication attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		Sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "propmgr",
			Name:      "sessions_established_total",
			Help:      "Browser sessions that became authenticated.",
		}),
		OAuthRedirect: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "propmgr",
			Name:      "oauth_redirects_total",
			Help:      "Redirects issued to an OAuth provider.",
		}),
	}

	var err error
	if m.Attempts, err = register(reg, m.Attempts); err != nil {
		return nil, err
	}
	if m.Sessions, err = register(reg, m.Sessions); err != nil {
		return nil, err
	}
	if m.OAuthRedirect, err = register(reg, m.OAuthRedirect); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe counts one attempt.
func (m *Auth) Observe(method, outcome string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(method, outcome).Inc()
}

// register adds c to reg, returning the collector already registered under
// the same descriptor when there is one.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return c, err
		}
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
		return c, err
	}
	return c, nil
}

// SessionEstablished counts one authenticated session.
func (m *Auth) SessionEstablished() {
	if m == nil {
		return
	}
	m.Sessions.Inc()
}

// Redirected counts one redirect to an OAuth provider.
func (m *Auth) Redirected() {
	if m == nil {
		return
	}
	m.OAuthRedirect.Inc()
}
