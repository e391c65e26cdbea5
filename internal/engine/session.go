package engine

import (
	"github.com/ghosttype/ghosttype/internal/config"
	"github.com/ghosttype/ghosttype/internal/gate"
	"github.com/ghosttype/ghosttype/internal/logging"
)

// Session binds a controller to one host context. The domain gate is
// evaluated once at session start and again on every settings change;
// a gated-off session keeps its controller disabled so host input flows
// untouched.
type Session struct {
	Host string

	ctrl   *Controller
	logger *logging.Logger
}

// NewSession creates a controller for host, disabled when the domain
// settings exclude it.
func NewSession(host string, settings config.Settings, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Null
	}

	s := &Session{
		Host:   host,
		ctrl:   NewController(settings, opts),
		logger: logger.WithComponent("session"),
	}
	s.applyGate(settings)
	return s
}

// Controller returns the session's controller.
func (s *Session) Controller() *Controller { return s.ctrl }

// Active reports whether the session is completing on this host.
func (s *Session) Active() bool { return s.ctrl.Enabled() }

// ApplySettings pushes new settings into the controller and re-evaluates
// the domain gate for the session's host.
func (s *Session) ApplySettings(settings config.Settings) {
	s.ctrl.ApplySettings(settings)
	s.applyGate(settings)
}

// Close releases the session.
func (s *Session) Close() {
	s.ctrl.Close()
}

func (s *Session) applyGate(settings config.Settings) {
	allowed := gate.ShouldActivate(s.Host, settings.Domains)
	if allowed != s.ctrl.Enabled() {
		s.logger.Info("host %s gate: active=%t", s.Host, allowed)
		s.ctrl.SetEnabled(allowed)
	}
}
