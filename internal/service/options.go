// Package service implements the SplitPal operations on top of a record
// store: transaction lifecycle, timelines, dashboard, groups and accounts.
// Nothing here knows about the transport; errors are the ledger sentinels.
package service

import (
	"log/slog"
	"time"

	"github.com/splitpal/splitpal/internal/ledger"
)

// Option customizes a service.
type Option func(*settings)

type settings struct {
	now    func() time.Time
	policy ledger.Policy
	logger *slog.Logger
}

func newSettings(opts []Option) settings {
	s := settings{
		now:    func() time.Time { return time.Now().UTC() },
		policy: ledger.CreatorOnly,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithClock replaces the wall clock used for creation and settlement times.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithPolicy replaces the edit authorization policy. Defaults to ledger.CreatorOnly.
func WithPolicy(p ledger.Policy) Option {
	return func(s *settings) { s.policy = p }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}
