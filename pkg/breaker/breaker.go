// Package breaker guards outbound inter-service calls with per-service
// circuit breakers. Each downstream service name gets its own breaker,
// created lazily and kept for the life of the process.
package breaker

import (
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/HusseinMoukalled/meetingroom/pkg/logger"
)

// Config controls the state machine shared by all breakers in a registry.
type Config struct {
	// FailureThreshold is the number of consecutive failures that trips
	// the breaker from closed to open.
	FailureThreshold uint32

	// RecoveryTimeout is how long the breaker stays open before the next
	// call attempt is let through as a half-open trial. Evaluated lazily
	// on the call path; there is no background timer.
	RecoveryTimeout time.Duration

	// HalfOpenSuccesses is the number of consecutive successful trial
	// calls required to close the breaker again.
	HalfOpenSuccesses uint32

	// IsFailure classifies errors. Only errors for which it returns true
	// count against the breaker; everything else passes through without
	// touching breaker state. Nil means every error counts.
	IsFailure func(error) bool
}

// DefaultConfig returns the platform defaults.
func DefaultConfig() Config {
	return Config{
		FailureThreshold:  5,
		RecoveryTimeout:   60 * time.Second,
		HalfOpenSuccesses: 2,
	}
}

// Status is a point-in-time snapshot of one breaker, exposed on the
// circuit-breaker status endpoint.
type Status struct {
	State               string `json:"state"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
	TotalRequests       uint32 `json:"total_requests"`
	TotalFailures       uint32 `json:"total_failures"`
}

// Registry holds one breaker per downstream service name. It is injected
// into the clients that need it so tests can build isolated instances.
type Registry struct {
	mu       sync.Mutex
	config   Config
	breakers map[string]*gobreaker.CircuitBreaker[any]
	log      *logger.Logger
}

// NewRegistry creates an empty breaker registry.
func NewRegistry(cfg Config, log *logger.Logger) *Registry {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.RecoveryTimeout == 0 {
		cfg.RecoveryTimeout = 60 * time.Second
	}
	if cfg.HalfOpenSuccesses == 0 {
		cfg.HalfOpenSuccesses = 2
	}
	if log == nil {
		log = logger.Get()
	}
	return &Registry{
		config:   cfg,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
		log:      log,
	}
}

// Get returns the breaker for a service, creating it on first reference.
func (r *Registry) Get(serviceName string) *gobreaker.CircuitBreaker[any] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[serviceName]; ok {
		return cb
	}

	cfg := r.config
	settings := gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: cfg.HalfOpenSuccesses,
		Timeout:     cfg.RecoveryTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// gobreaker has no neutral outcome: an error the classifier
		// excludes is recorded as a success, which also resets the
		// consecutive-failure streak.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if cfg.IsFailure != nil && !cfg.IsFailure(err) {
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.log.Info("circuit breaker state changed",
				zap.String("service", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	cb := gobreaker.NewCircuitBreaker[any](settings)
	r.breakers[serviceName] = cb
	return cb
}

// Execute runs op through the breaker for serviceName.
func (r *Registry) Execute(serviceName string, op func() (any, error)) (any, error) {
	return r.Get(serviceName).Execute(op)
}

// States returns a snapshot of all breakers created so far.
func (r *Registry) States() map[string]Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Status, len(r.breakers))
	for name, cb := range r.breakers {
		counts := cb.Counts()
		out[name] = Status{
			State:               cb.State().String(),
			ConsecutiveFailures: counts.ConsecutiveFailures,
			TotalRequests:       counts.Requests,
			TotalFailures:       counts.TotalFailures,
		}
	}
	return out
}

// IsOpen reports whether err means the breaker rejected the call without
// attempting it.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
