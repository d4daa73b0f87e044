package service

import (
	"context"
	"errors"

	authmodels "daystar/internal/auth/models"
	"daystar/internal/finance/models"
	paymentstore "daystar/internal/finance/store/payment"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/platform/sentinel"
	"daystar/pkg/requestcontext"
)

// CreatePayment records what a babysitter is owed. The total is derived
// from the child counts and rates; a supplied approved status stamps the
// acting user as approver.
func (s *Service) CreatePayment(ctx context.Context, in models.PaymentInput) (*models.Payment, error) {
	p, err := models.NewPayment(id.NewPaymentID(), in, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if _, err := s.sitters.FindByID(ctx, in.BabysitterID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "babysitter not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create payment")
	}

	if p.Status == models.PaymentApproved {
		approver := requestcontext.UserID(ctx)
		p.ApprovedBy = &approver
	}

	if err := s.payments.Create(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create payment")
	}

	s.metrics.PaymentCreated()
	s.logger.InfoContext(ctx, "payment created",
		"payment_id", p.ID.String(),
		"babysitter_id", p.BabysitterID.String(),
		"total_amount", p.TotalAmount,
	)
	return p, nil
}

// GetPayment loads one payment. Babysitters may only read payments that
// belong to their own linked roster profile.
func (s *Service) GetPayment(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "payment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load payment")
	}

	if requestcontext.Role(ctx) == string(authmodels.RoleBabysitter) {
		sitter, err := s.sitters.FindByUserID(ctx, requestcontext.UserID(ctx))
		if err != nil || sitter.ID != p.BabysitterID {
			return nil, dErrors.New(dErrors.CodeForbidden, "payment belongs to another babysitter")
		}
	}
	return p, nil
}

// ListPayments returns payments newest first, narrowed by status and
// babysitter.
func (s *Service) ListPayments(ctx context.Context, status string, babysitterID id.BabysitterID) ([]*models.Payment, error) {
	filter := paymentstore.Filter{BabysitterID: babysitterID}
	if status != "" {
		parsed, err := models.ParsePaymentStatus(status)
		if err != nil {
			return nil, dErrors.NewValidation("invalid payment query", map[string]string{
				"status": "status must be pending, approved or paid",
			})
		}
		filter.Status = parsed
	}

	payments, err := s.payments.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list payments")
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return payments, nil
}

// ListMyPayments resolves the roster profile linked to the acting user
// and returns only that babysitter's payments.
func (s *Service) ListMyPayments(ctx context.Context) ([]*models.Payment, error) {
	sitter, err := s.sitters.FindByUserID(ctx, requestcontext.UserID(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no babysitter profile linked to this account")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list payments")
	}
	return s.ListPayments(ctx, "", sitter.ID)
}

// UpdatePayment merges a partial update and re-derives the total.
func (s *Service) UpdatePayment(ctx context.Context, paymentID id.PaymentID, in models.PaymentUpdateInput) (*models.Payment, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "payment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load payment")
	}

	if err := p.ApplyUpdate(in, requestcontext.UserID(ctx), requestcontext.Now(ctx)); err != nil {
		return nil, err
	}

	if err := s.payments.Update(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "payment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update payment")
	}
	return p, nil
}

// UpdatePaymentStatus moves a payment through its workflow. Moving into
// approved stamps the acting user as approver.
func (s *Service) UpdatePaymentStatus(ctx context.Context, paymentID id.PaymentID, status string) (*models.Payment, error) {
	parsed, err := models.ParsePaymentStatus(status)
	if err != nil {
		return nil, dErrors.NewValidation("invalid payment", map[string]string{
			"status": "status must be pending, approved or paid",
		})
	}

	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "payment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load payment")
	}

	p.ApplyStatus(parsed, requestcontext.UserID(ctx), requestcontext.Now(ctx))

	if err := s.payments.Update(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update payment")
	}

	s.logger.InfoContext(ctx, "payment status changed",
		"payment_id", p.ID.String(),
		"status", string(p.Status),
	)
	return p, nil
}

func (s *Service) DeletePayment(ctx context.Context, paymentID id.PaymentID) error {
	if err := s.payments.Delete(ctx, paymentID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "payment not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete payment")
	}
	s.logger.InfoContext(ctx, "payment deleted", "payment_id", paymentID.String())
	return nil
}
