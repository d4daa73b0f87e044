package service

import (
	"context"
	"errors"

	"daystar/internal/finance/models"
	expensestore "daystar/internal/finance/store/expense"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/platform/sentinel"
	"daystar/pkg/requestcontext"
)

// CreateExpense records money spent, approved by the acting user.
func (s *Service) CreateExpense(ctx context.Context, in models.ExpenseInput) (*models.Expense, error) {
	e, err := models.NewExpense(id.NewExpenseID(), in, requestcontext.UserID(ctx), requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.expenses.Create(ctx, e); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create expense")
	}

	s.metrics.ExpenseRecorded()
	s.logger.InfoContext(ctx, "expense recorded",
		"expense_id", e.ID.String(),
		"category", string(e.Category),
		"amount", e.Amount,
	)
	return e, nil
}

func (s *Service) GetExpense(ctx context.Context, expenseID id.ExpenseID) (*models.Expense, error) {
	e, err := s.expenses.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "expense not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load expense")
	}
	return e, nil
}

// ExpenseQuery narrows expense listings and summaries. The date range
// is inclusive on both ends.
type ExpenseQuery struct {
	Category string
	DateFrom string
	DateTo   string
}

func (q ExpenseQuery) toFilter() (expensestore.Filter, error) {
	fields := map[string]string{}
	filter := expensestore.Filter{DateFrom: q.DateFrom, DateTo: q.DateTo}

	if q.Category != "" {
		category, err := models.ParseExpenseCategory(q.Category)
		if err != nil {
			fields["category"] = "category must be salary, toys, maintenance, utilities or other"
		}
		filter.Category = category
	}
	if q.DateFrom != "" {
		if err := id.ValidateDate(q.DateFrom); err != nil {
			fields["from"] = "from must be in YYYY-MM-DD format"
		}
	}
	if q.DateTo != "" {
		if err := id.ValidateDate(q.DateTo); err != nil {
			fields["to"] = "to must be in YYYY-MM-DD format"
		}
	}

	if len(fields) > 0 {
		return expensestore.Filter{}, dErrors.NewValidation("invalid expense query", fields)
	}
	return filter, nil
}

func (s *Service) ListExpenses(ctx context.Context, query ExpenseQuery) ([]*models.Expense, error) {
	filter, err := query.toFilter()
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list expenses")
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	return expenses, nil
}

// ExpenseSummary groups expenses by category within the optional date
// range, largest total first, with a grand total across categories.
func (s *Service) ExpenseSummary(ctx context.Context, query ExpenseQuery) (*models.Summary, error) {
	filter, err := query.toFilter()
	if err != nil {
		return nil, err
	}

	summary, err := s.expenses.Summarize(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to summarize expenses")
	}
	return summary, nil
}

func (s *Service) UpdateExpense(ctx context.Context, expenseID id.ExpenseID, in models.ExpenseInput) (*models.Expense, error) {
	e, err := s.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if err := e.ApplyUpdate(in, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}

	if err := s.expenses.Update(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "expense not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update expense")
	}
	return e, nil
}

func (s *Service) DeleteExpense(ctx context.Context, expenseID id.ExpenseID) error {
	if err := s.expenses.Delete(ctx, expenseID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "expense not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete expense")
	}
	s.logger.InfoContext(ctx, "expense deleted", "expense_id", expenseID.String())
	return nil
}
