package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	authmodels "daystar/internal/auth/models"
	"daystar/internal/finance/models"
	expensestore "daystar/internal/finance/store/expense"
	paymentstore "daystar/internal/finance/store/payment"
	rostermodels "daystar/internal/roster/models"
	babysitterstore "daystar/internal/roster/store/babysitter"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/requestcontext"
)

type FinanceServiceSuite struct {
	suite.Suite
	service   *Service
	sitters   *babysitterstore.InMemory
	sitter    *rostermodels.Babysitter
	managerID id.UserID
	ctx       context.Context
	now       time.Time
}

func (s *FinanceServiceSuite) SetupTest() {
	payments := paymentstore.NewInMemory()
	expenses := expensestore.NewInMemory()
	s.sitters = babysitterstore.NewInMemory()
	s.service = New(payments, expenses, s.sitters)

	s.now = time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)
	s.managerID = id.NewUserID()
	ctx := requestcontext.WithTime(context.Background(), s.now)
	ctx = requestcontext.WithUserID(ctx, s.managerID)
	s.ctx = requestcontext.WithRole(ctx, string(authmodels.RoleManager))

	var err error
	s.sitter, err = rostermodels.NewBabysitter(id.NewBabysitterID(), rostermodels.BabysitterInput{
		FirstName:      "Joan",
		LastName:       "Apio",
		PhoneNumber:    "0700000001",
		NationalID:     "CM900011",
		DateOfBirth:    "1995-03-10",
		NextOfKinName:  "Mary Apio",
		NextOfKinPhone: "0700000002",
	}, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.sitters.CreateIfNationalIDAvailable(s.ctx, s.sitter))
}

func TestFinanceServiceSuite(t *testing.T) {
	suite.Run(t, new(FinanceServiceSuite))
}

func (s *FinanceServiceSuite) babysitterCtx(userID id.UserID) context.Context {
	ctx := requestcontext.WithTime(context.Background(), s.now)
	ctx = requestcontext.WithUserID(ctx, userID)
	return requestcontext.WithRole(ctx, string(authmodels.RoleBabysitter))
}

func (s *FinanceServiceSuite) linkSitter() id.UserID {
	userID := id.NewUserID()
	s.sitter.UserID = &userID
	s.Require().NoError(s.sitters.Update(s.ctx, s.sitter))
	return userID
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func (s *FinanceServiceSuite) TestCreatePayment() {
	s.Run("default rates derive the documented total", func() {
		p, err := s.service.CreatePayment(s.ctx, models.PaymentInput{
			BabysitterID:    s.sitter.ID,
			HalfDayChildren: 2,
			FullDayChildren: 3,
		})
		s.Require().NoError(err)
		s.Equal(int64(2*2000+3*5000), p.TotalAmount)
		s.Equal(models.PaymentPending, p.Status)
		s.Nil(p.ApprovedBy)
		s.Equal("2024-04-10", p.Date)
	})

	s.Run("explicit rates override the defaults", func() {
		p, err := s.service.CreatePayment(s.ctx, models.PaymentInput{
			BabysitterID:    s.sitter.ID,
			HalfDayChildren: 1,
			FullDayChildren: 1,
			HalfDayRate:     int64Ptr(1000),
			FullDayRate:     int64Ptr(3000),
		})
		s.Require().NoError(err)
		s.Equal(int64(4000), p.TotalAmount)
	})

	s.Run("creating as approved stamps the acting user", func() {
		p, err := s.service.CreatePayment(s.ctx, models.PaymentInput{
			BabysitterID: s.sitter.ID,
			Status:       "approved",
		})
		s.Require().NoError(err)
		s.Require().NotNil(p.ApprovedBy)
		s.Equal(s.managerID, *p.ApprovedBy)
	})

	s.Run("unknown babysitter is not found", func() {
		_, err := s.service.CreatePayment(s.ctx, models.PaymentInput{
			BabysitterID: id.NewBabysitterID(),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("negative counts are validation errors", func() {
		_, err := s.service.CreatePayment(s.ctx, models.PaymentInput{
			BabysitterID:    s.sitter.ID,
			HalfDayChildren: -1,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *FinanceServiceSuite) TestUpdatePayment() {
	p, err := s.service.CreatePayment(s.ctx, models.PaymentInput{
		BabysitterID:    s.sitter.ID,
		HalfDayChildren: 2,
		FullDayChildren: 3,
	})
	s.Require().NoError(err)

	s.Run("total is re-derived from the merged fields", func() {
		updated, err := s.service.UpdatePayment(s.ctx, p.ID, models.PaymentUpdateInput{
			FullDayChildren: intPtr(4),
			HalfDayRate:     int64Ptr(2500),
		})
		s.Require().NoError(err)
		s.Equal(int64(2*2500+4*5000), updated.TotalAmount)
	})

	s.Run("moving into approved stamps the approver once", func() {
		updated, err := s.service.UpdatePayment(s.ctx, p.ID, models.PaymentUpdateInput{
			Status: strPtr("approved"),
		})
		s.Require().NoError(err)
		s.Require().NotNil(updated.ApprovedBy)
		s.Equal(s.managerID, *updated.ApprovedBy)

		otherCtx := requestcontext.WithUserID(s.ctx, id.NewUserID())
		updated, err = s.service.UpdatePayment(otherCtx, p.ID, models.PaymentUpdateInput{
			Status: strPtr("approved"),
		})
		s.Require().NoError(err)
		s.Equal(s.managerID, *updated.ApprovedBy, "re-approving must not restamp the approver")
	})

	s.Run("unknown payment is not found", func() {
		_, err := s.service.UpdatePayment(s.ctx, id.NewPaymentID(), models.PaymentUpdateInput{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *FinanceServiceSuite) TestUpdatePaymentStatus() {
	p, err := s.service.CreatePayment(s.ctx, models.PaymentInput{BabysitterID: s.sitter.ID})
	s.Require().NoError(err)

	approved, err := s.service.UpdatePaymentStatus(s.ctx, p.ID, "approved")
	s.Require().NoError(err)
	s.Equal(models.PaymentApproved, approved.Status)
	s.Require().NotNil(approved.ApprovedBy)
	s.Equal(s.managerID, *approved.ApprovedBy)

	paid, err := s.service.UpdatePaymentStatus(s.ctx, p.ID, "paid")
	s.Require().NoError(err)
	s.Equal(models.PaymentPaid, paid.Status)
	s.Equal(s.managerID, *paid.ApprovedBy, "leaving approved must keep the approver")

	_, err = s.service.UpdatePaymentStatus(s.ctx, p.ID, "cancelled")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *FinanceServiceSuite) TestBabysitterScopedReads() {
	p, err := s.service.CreatePayment(s.ctx, models.PaymentInput{
		BabysitterID:    s.sitter.ID,
		HalfDayChildren: 2,
	})
	s.Require().NoError(err)

	s.Run("unlinked account cannot list its payments", func() {
		_, err := s.service.ListMyPayments(s.babysitterCtx(id.NewUserID()))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	userID := s.linkSitter()

	s.Run("linked account sees only its own payments", func() {
		payments, err := s.service.ListMyPayments(s.babysitterCtx(userID))
		s.Require().NoError(err)
		s.Require().Len(payments, 1)
		s.Equal(p.ID, payments[0].ID)
	})

	s.Run("owner reads the payment by id", func() {
		got, err := s.service.GetPayment(s.babysitterCtx(userID), p.ID)
		s.Require().NoError(err)
		s.Equal(p.ID, got.ID)
	})

	s.Run("another babysitter's payment is forbidden", func() {
		_, err := s.service.GetPayment(s.babysitterCtx(id.NewUserID()), p.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("managers read any payment", func() {
		_, err := s.service.GetPayment(s.ctx, p.ID)
		s.NoError(err)
	})
}

func (s *FinanceServiceSuite) expense(category string, amount int64, date string) *models.Expense {
	e, err := s.service.CreateExpense(s.ctx, models.ExpenseInput{
		Category:    category,
		Description: "april outgoing",
		Amount:      amount,
		Date:        date,
	})
	s.Require().NoError(err)
	return e
}

func (s *FinanceServiceSuite) TestCreateExpense() {
	s.Run("records the acting user as approver", func() {
		e := s.expense("salary", 3000, "2024-04-02")
		s.Equal(s.managerID, e.ApprovedBy)
	})

	s.Run("zero or negative amounts are validation errors", func() {
		for _, amount := range []int64{0, -500} {
			_, err := s.service.CreateExpense(s.ctx, models.ExpenseInput{
				Category:    "toys",
				Description: "blocks",
				Amount:      amount,
			})
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
			s.Contains(dErrors.FieldsOf(err), "amount")
		}
	})

	s.Run("unknown category is a validation error", func() {
		_, err := s.service.CreateExpense(s.ctx, models.ExpenseInput{
			Category:    "snacks",
			Description: "biscuits",
			Amount:      100,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *FinanceServiceSuite) TestExpenseSummary() {
	s.expense("salary", 3000, "2024-04-02")
	s.expense("toys", 1500, "2024-04-10")
	s.expense("salary", 2000, "2024-04-20")
	s.expense("utilities", 9000, "2024-05-01")

	s.Run("groups april by category, largest total first", func() {
		summary, err := s.service.ExpenseSummary(s.ctx, ExpenseQuery{
			DateFrom: "2024-04-01",
			DateTo:   "2024-04-30",
		})
		s.Require().NoError(err)
		s.Require().Len(summary.Categories, 2)
		s.Equal(models.CategorySalary, summary.Categories[0].Category)
		s.Equal(int64(5000), summary.Categories[0].TotalAmount)
		s.Equal(2, summary.Categories[0].Count)
		s.Equal(models.CategoryToys, summary.Categories[1].Category)
		s.Equal(int64(1500), summary.Categories[1].TotalAmount)
		s.Equal(int64(6500), summary.GrandTotal)
	})

	s.Run("grand total equals the sum of category totals", func() {
		summary, err := s.service.ExpenseSummary(s.ctx, ExpenseQuery{})
		s.Require().NoError(err)
		var sum int64
		for _, c := range summary.Categories {
			sum += c.TotalAmount
		}
		s.Equal(sum, summary.GrandTotal)
		s.Equal(int64(15500), summary.GrandTotal)
	})

	s.Run("malformed range is a validation error", func() {
		_, err := s.service.ExpenseSummary(s.ctx, ExpenseQuery{DateFrom: "April"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *FinanceServiceSuite) TestExpenseLifecycle() {
	e := s.expense("maintenance", 700, "2024-04-05")

	updated, err := s.service.UpdateExpense(s.ctx, e.ID, models.ExpenseInput{
		Category:    "maintenance",
		Description: "fence repair",
		Amount:      900,
		Date:        "2024-04-06",
	})
	s.Require().NoError(err)
	s.Equal(int64(900), updated.Amount)

	s.Require().NoError(s.service.DeleteExpense(s.ctx, e.ID))
	_, err = s.service.GetExpense(s.ctx, e.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
