package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/knitcount/internal/repository"
)

// Service validates and orchestrates project, part and counter operations
// on top of the stores. Its methods never return errors; every outcome is a
// Result.
type Service struct {
	stores       repository.Stores
	tx           repository.Transactor
	logger       *slog.Logger
	demoCounters bool
}

// Option configures a Service.
type Option func(*Service)

// WithDemoCounters makes AddFreshProject also create one linked and one
// unlinked normal counter in the first part.
func WithDemoCounters(enabled bool) Option {
	return func(s *Service) {
		s.demoCounters = enabled
	}
}

// NewService creates a new tracker service.
func NewService(stores repository.Stores, tx repository.Transactor, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{stores: stores, tx: tx, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context, st repository.Stores) error) error {
	err := s.tx.WithinTx(ctx, fn)
	if err == nil {
		return nil
	}
	if Kind(err) != nil {
		return err
	}
	return storeErr("transaction", err)
}

func finish[T any](ctx context.Context, s *Service, op operation, subject string, v T, err error) Result[T] {
	if err == nil {
		return Result[T]{Code: op.success, Entity: v}
	}
	if Kind(err) == nil {
		err = storeErr(op.verb+" "+subject, err)
	}

	msg := fmt.Sprintf("could not %s %s: %v", op.verb, subject, err)
	level := slog.LevelDebug
	if errors.Is(err, ErrPersistence) || errors.Is(err, ErrConflict) {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "tracker operation failed", "op", op.verb, "subject", subject, "error", err)

	var zero T
	return Result[T]{Code: op.failure, Entity: zero, Message: msg, Err: err}
}

func isBlank(name string) bool {
	return strings.TrimSpace(name) == ""
}

func displayName(name string) string {
	if isBlank(name) {
		return BlankNamePlaceholder
	}
	return name
}

func named(entity, name string) string {
	return fmt.Sprintf("%s '%s'", entity, displayName(name))
}

func withID(entity string, id int64) string {
	return fmt.Sprintf("%s with id %d", entity, id)
}
