// Package service implements the payments and expenses ledger.
package service

import (
	"context"
	"log/slog"

	"daystar/internal/finance/models"
	expensestore "daystar/internal/finance/store/expense"
	paymentstore "daystar/internal/finance/store/payment"
	"daystar/internal/platform/metrics"
	rostermodels "daystar/internal/roster/models"
	id "daystar/pkg/domain"
)

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	FindByID(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error)
	List(ctx context.Context, filter paymentstore.Filter) ([]*models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error
	Delete(ctx context.Context, paymentID id.PaymentID) error
}

type ExpenseStore interface {
	Create(ctx context.Context, e *models.Expense) error
	FindByID(ctx context.Context, expenseID id.ExpenseID) (*models.Expense, error)
	List(ctx context.Context, filter expensestore.Filter) ([]*models.Expense, error)
	Summarize(ctx context.Context, filter expensestore.Filter) (*models.Summary, error)
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, expenseID id.ExpenseID) error
}

// BabysitterStore covers the roster lookups the ledger needs: existence
// checks on create and linked-profile resolution for babysitter-scoped
// reads.
type BabysitterStore interface {
	FindByID(ctx context.Context, sitterID id.BabysitterID) (*rostermodels.Babysitter, error)
	FindByUserID(ctx context.Context, userID id.UserID) (*rostermodels.Babysitter, error)
}

// Service implements the financial ledger.
type Service struct {
	payments PaymentStore
	expenses ExpenseStore
	sitters  BabysitterStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(payments PaymentStore, expenses ExpenseStore, sitters BabysitterStore, opts ...Option) *Service {
	s := &Service{payments: payments, expenses: expenses, sitters: sitters, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
