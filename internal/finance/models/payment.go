// Package models defines the financial ledger records. All monetary
// amounts are int64 minor currency units; floating point never touches
// storage or totals.
package models

import (
	"strings"
	"time"

	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentPaid     PaymentStatus = "paid"
)

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(raw) {
	case PaymentPending, PaymentApproved, PaymentPaid:
		return PaymentStatus(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "status must be pending, approved or paid")
	}
}

// Daily childcare rates in minor units, applied when a payment record
// does not carry explicit rates.
const (
	DefaultHalfDayRate int64 = 2000
	DefaultFullDayRate int64 = 5000
)

// Payment records what a babysitter is owed for one day of work. The
// total is always derived from the child counts and rates, never set
// directly.
type Payment struct {
	ID              id.PaymentID    `json:"id"`
	BabysitterID    id.BabysitterID `json:"babysitterId"`
	Date            string          `json:"date"`
	HalfDayChildren int             `json:"halfDayChildren"`
	FullDayChildren int             `json:"fullDayChildren"`
	HalfDayRate     int64           `json:"halfDayRate"`
	FullDayRate     int64           `json:"fullDayRate"`
	TotalAmount     int64           `json:"totalAmount"`
	Status          PaymentStatus   `json:"status"`
	ApprovedBy      *id.UserID      `json:"approvedById,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Recompute re-derives the total from the current counts and rates.
func (p *Payment) Recompute() {
	p.TotalAmount = int64(p.HalfDayChildren)*p.HalfDayRate + int64(p.FullDayChildren)*p.FullDayRate
}

// PaymentInput carries the fields accepted when a payment is created.
// Nil rates take the default daily rates.
type PaymentInput struct {
	BabysitterID    id.BabysitterID `json:"babysitterId"`
	Date            string          `json:"date"`
	HalfDayChildren int             `json:"halfDayChildren"`
	FullDayChildren int             `json:"fullDayChildren"`
	HalfDayRate     *int64          `json:"halfDayRate"`
	FullDayRate     *int64          `json:"fullDayRate"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes"`
}

func (in *PaymentInput) Validate() error {
	fields := map[string]string{}

	if in.BabysitterID.IsNil() {
		fields["babysitterId"] = "babysitter ID is required"
	}
	if in.Date != "" {
		if err := id.ValidateDate(in.Date); err != nil {
			fields["date"] = "date must be in YYYY-MM-DD format"
		}
	}
	if in.HalfDayChildren < 0 {
		fields["halfDayChildren"] = "half-day children must not be negative"
	}
	if in.FullDayChildren < 0 {
		fields["fullDayChildren"] = "full-day children must not be negative"
	}
	if in.HalfDayRate != nil && *in.HalfDayRate < 0 {
		fields["halfDayRate"] = "half-day rate must not be negative"
	}
	if in.FullDayRate != nil && *in.FullDayRate < 0 {
		fields["fullDayRate"] = "full-day rate must not be negative"
	}
	if in.Status != "" {
		if _, err := ParsePaymentStatus(in.Status); err != nil {
			fields["status"] = "status must be pending, approved or paid"
		}
	}

	if len(fields) > 0 {
		return dErrors.NewValidation("invalid payment", fields)
	}
	return nil
}

// NewPayment builds a ledger entry with the total derived from the
// counts and rates.
func NewPayment(paymentID id.PaymentID, in PaymentInput, now time.Time) (*Payment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	date := in.Date
	if date == "" {
		date = id.FormatDate(now)
	}
	status := PaymentPending
	if in.Status != "" {
		status = PaymentStatus(in.Status)
	}

	p := &Payment{
		ID:              paymentID,
		BabysitterID:    in.BabysitterID,
		Date:            date,
		HalfDayChildren: in.HalfDayChildren,
		FullDayChildren: in.FullDayChildren,
		HalfDayRate:     DefaultHalfDayRate,
		FullDayRate:     DefaultFullDayRate,
		Status:          status,
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.HalfDayRate != nil {
		p.HalfDayRate = *in.HalfDayRate
	}
	if in.FullDayRate != nil {
		p.FullDayRate = *in.FullDayRate
	}
	p.Recompute()
	return p, nil
}

// PaymentUpdateInput carries a partial update; nil fields are left
// untouched.
type PaymentUpdateInput struct {
	Date            *string `json:"date"`
	HalfDayChildren *int    `json:"halfDayChildren"`
	FullDayChildren *int    `json:"fullDayChildren"`
	HalfDayRate     *int64  `json:"halfDayRate"`
	FullDayRate     *int64  `json:"fullDayRate"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
}

// ApplyUpdate merges the supplied fields and re-derives the total. The
// approver is stamped only when the status moves into approved from a
// different status.
func (p *Payment) ApplyUpdate(in PaymentUpdateInput, actingUser id.UserID, now time.Time) error {
	fields := map[string]string{}

	if in.Date != nil {
		if err := id.ValidateDate(*in.Date); err != nil {
			fields["date"] = "date must be in YYYY-MM-DD format"
		}
	}
	if in.HalfDayChildren != nil && *in.HalfDayChildren < 0 {
		fields["halfDayChildren"] = "half-day children must not be negative"
	}
	if in.FullDayChildren != nil && *in.FullDayChildren < 0 {
		fields["fullDayChildren"] = "full-day children must not be negative"
	}
	if in.HalfDayRate != nil && *in.HalfDayRate < 0 {
		fields["halfDayRate"] = "half-day rate must not be negative"
	}
	if in.FullDayRate != nil && *in.FullDayRate < 0 {
		fields["fullDayRate"] = "full-day rate must not be negative"
	}
	if in.Status != nil {
		if _, err := ParsePaymentStatus(*in.Status); err != nil {
			fields["status"] = "status must be pending, approved or paid"
		}
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("invalid payment", fields)
	}

	if in.Date != nil {
		p.Date = *in.Date
	}
	if in.HalfDayChildren != nil {
		p.HalfDayChildren = *in.HalfDayChildren
	}
	if in.FullDayChildren != nil {
		p.FullDayChildren = *in.FullDayChildren
	}
	if in.HalfDayRate != nil {
		p.HalfDayRate = *in.HalfDayRate
	}
	if in.FullDayRate != nil {
		p.FullDayRate = *in.FullDayRate
	}
	if in.Status != nil {
		p.applyStatus(PaymentStatus(*in.Status), actingUser)
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	p.Recompute()
	p.UpdatedAt = now
	return nil
}

// ApplyStatus moves the payment to a new status with the same
// approver-stamping rule as a full update.
func (p *Payment) ApplyStatus(status PaymentStatus, actingUser id.UserID, now time.Time) {
	p.applyStatus(status, actingUser)
	p.UpdatedAt = now
}

func (p *Payment) applyStatus(status PaymentStatus, actingUser id.UserID) {
	if status == PaymentApproved && p.Status != PaymentApproved {
		approver := actingUser
		p.ApprovedBy = &approver
	}
	p.Status = status
}
