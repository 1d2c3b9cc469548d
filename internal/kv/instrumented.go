package kv

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Observer receives the outcome of every store operation.
type Observer interface {
	ObserveStore(op string, err error, elapsed time.Duration)
}

// Instrumented decorates a Store with operation metrics and debug logging.
type Instrumented struct {
	next     Store
	observer Observer
	logger   *zap.Logger
}

// Instrument wraps next. A nil observer or logger disables that side.
func Instrument(next Store, observer Observer, logger *zap.Logger) *Instrumented {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumented{next: next, observer: observer, logger: logger}
}

// Unwrap returns the decorated store.
func (s *Instrumented) Unwrap() Store { return s.next }

func (s *Instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := s.next.Get(ctx, key)
	s.observe("get", key, err, start)
	return v, ok, err
}

func (s *Instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.observe("set", key, err, start)
	return err
}

// SetMany keeps batch atomicity when the wrapped store supports it.
func (s *Instrumented) SetMany(ctx context.Context, entries map[string]string) error {
	start := time.Now()
	err := SetAll(ctx, s.next, entries)
	s.observe("set_many", "", err, start)
	return err
}

func (s *Instrumented) Clear(ctx context.Context) error {
	start := time.Now()
	err := s.next.Clear(ctx)
	s.observe("clear", "", err, start)
	return err
}

func (s *Instrumented) Close() error { return s.next.Close() }

func (s *Instrumented) observe(op, key string, err error, start time.Time) {
	elapsed := time.Since(start)
	if s.observer != nil {
		s.observer.ObserveStore(op, err, elapsed)
	}
	if ce := s.logger.Check(zap.DebugLevel, "kv op"); ce != nil {
		ce.Write(zap.String("op", op), zap.String("key", key), zap.Duration("elapsed", elapsed), zap.Error(err))
	}
}
