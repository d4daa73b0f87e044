package models

import (
	"strings"
	"time"

	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
)

type ExpenseCategory string

const (
	CategorySalary      ExpenseCategory = "salary"
	CategoryToys        ExpenseCategory = "toys"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategoryUtilities   ExpenseCategory = "utilities"
	CategoryOther       ExpenseCategory = "other"
)

func ParseExpenseCategory(raw string) (ExpenseCategory, error) {
	switch ExpenseCategory(raw) {
	case CategorySalary, CategoryToys, CategoryMaintenance, CategoryUtilities, CategoryOther:
		return ExpenseCategory(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "category must be salary, toys, maintenance, utilities or other")
	}
}

// Expense records money spent by the daycare. Amount is strictly
// positive minor units.
type Expense struct {
	ID           id.ExpenseID    `json:"id"`
	Category     ExpenseCategory `json:"category"`
	Description  string          `json:"description"`
	Amount       int64           `json:"amount"`
	Date         string          `json:"date"`
	ApprovedBy   id.UserID       `json:"approvedById"`
	ReceiptImage string          `json:"receiptImage,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ExpenseInput carries the writable fields for create and update.
type ExpenseInput struct {
	Category     string `json:"category"`
	Description  string `json:"description"`
	Amount       int64  `json:"amount"`
	Date         string `json:"date"`
	ReceiptImage string `json:"receiptImage"`
	Notes        string `json:"notes"`
}

func (in *ExpenseInput) Validate() error {
	fields := map[string]string{}

	if _, err := ParseExpenseCategory(in.Category); err != nil {
		fields["category"] = "category must be salary, toys, maintenance, utilities or other"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "description is required"
	}
	if in.Amount <= 0 {
		fields["amount"] = "amount must be greater than zero"
	}
	if in.Date != "" {
		if err := id.ValidateDate(in.Date); err != nil {
			fields["date"] = "date must be in YYYY-MM-DD format"
		}
	}

	if len(fields) > 0 {
		return dErrors.NewValidation("invalid expense", fields)
	}
	return nil
}

// NewExpense builds a ledger entry approved by the acting user.
func NewExpense(expenseID id.ExpenseID, in ExpenseInput, approver id.UserID, now time.Time) (*Expense, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	date := in.Date
	if date == "" {
		date = id.FormatDate(now)
	}
	return &Expense{
		ID:           expenseID,
		Category:     ExpenseCategory(in.Category),
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		Date:         date,
		ApprovedBy:   approver,
		ReceiptImage: strings.TrimSpace(in.ReceiptImage),
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ApplyUpdate overwrites the writable fields from validated input.
func (e *Expense) ApplyUpdate(in ExpenseInput, now time.Time) error {
	if err := in.Validate(); err != nil {
		return err
	}
	e.Category = ExpenseCategory(in.Category)
	e.Description = strings.TrimSpace(in.Description)
	e.Amount = in.Amount
	if in.Date != "" {
		e.Date = in.Date
	}
	e.ReceiptImage = strings.TrimSpace(in.ReceiptImage)
	e.Notes = strings.TrimSpace(in.Notes)
	e.UpdatedAt = now
	return nil
}

// CategoryTotal is one line of the expense summary.
type CategoryTotal struct {
	Category    ExpenseCategory `json:"category"`
	TotalAmount int64           `json:"totalAmount"`
	Count       int             `json:"count"`
}

// Summary groups expenses by category with a grand total across all
// categories.
type Summary struct {
	Categories []CategoryTotal `json:"categories"`
	GrandTotal int64           `json:"grandTotal"`
}
