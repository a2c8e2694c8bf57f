package handlers

import (
	"github.com/sirupsen/logrus"

	"reelarchitect/internal/aiclient"
	"reelarchitect/internal/auth"
	"reelarchitect/internal/history"
	"reelarchitect/internal/metrics"
	"reelarchitect/internal/session"
)

// ApplicationHandler holds shared dependencies for handlers. Per-user state
// (identity, store handle) is never held here; it comes from the request's
// session.
type ApplicationHandler struct {
	Generator    aiclient.Generator
	Logger       *logrus.Logger
	Provider     auth.Provider
	OpenStore    session.StoreFactory
	Appender     *history.Appender
	Diagnostics  history.DiagnosticsSink
	Metrics      *metrics.Metrics
	Subscription history.SubscribeOptions
}

// Diagnostics is the sink for background history outcomes: the log plus metrics.
func Diagnostics(logger *logrus.Logger, m *metrics.Metrics) history.DiagnosticsSink {
	return history.MultiSink{history.LogSink{Logger: logger}, m}
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(
	generator aiclient.Generator,
	logger *logrus.Logger,
	provider auth.Provider,
	openStore session.StoreFactory,
	appender *history.Appender,
	diagnostics history.DiagnosticsSink,
	m *metrics.Metrics,
	subscription history.SubscribeOptions,
) *ApplicationHandler {
	if subscription.Logger == nil {
		subscription.Logger = logger
	}
	return &ApplicationHandler{
		Generator:    generator,
		Logger:       logger,
		Provider:     provider,
		OpenStore:    openStore,
		Appender:     appender,
		Diagnostics:  diagnostics,
		Metrics:      m,
		Subscription: subscription,
	}
}
