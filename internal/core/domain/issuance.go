package domain

import (
	"fmt"
	"time"
)

type IssuanceStatus string

const (
	IssuanceStatusIssued   IssuanceStatus = "Issued"
	IssuanceStatusReturned IssuanceStatus = "Returned"
	IssuanceStatusOverdue  IssuanceStatus = "Overdue"
	IssuanceStatusLost     IssuanceStatus = "Lost"
)

// ParseIssuanceStatus accepts the stored status names case-sensitively.
func ParseIssuanceStatus(s string) (IssuanceStatus, error) {
	switch st := IssuanceStatus(s); st {
	case IssuanceStatusIssued, IssuanceStatusReturned, IssuanceStatusOverdue, IssuanceStatusLost:
		return st, nil
	}
	return "", NewValidationError("status", fmt.Sprintf("unknown issuance status %q", s))
}

// Issuance records a quantity of an item lent to a user. QuantityIssued is
// the amount removed from the ledger at creation and is never re-validated.
type Issuance struct {
	ID             int64
	ItemID         int64
	ItemName       string
	UserID         string
	UserName       string
	UserEmail      string
	QuantityIssued int
	IssuedDate     time.Time
	ReturnDate     *time.Time // expected while open, actual once returned
	Status         IssuanceStatus
	Notes          string
}

// IsOverdue is evaluated at read time; Overdue is never stored.
func (i Issuance) IsOverdue(now time.Time) bool {
	return i.ReturnDate != nil && i.ReturnDate.Before(now) && i.Status == IssuanceStatusIssued
}

// DisplayStatus reports Overdue for open records past their return date.
func (i Issuance) DisplayStatus(now time.Time) IssuanceStatus {
	if i.IsOverdue(now) {
		return IssuanceStatusOverdue
	}
	return i.Status
}

type IssueRequest struct {
	ItemID             int64  `validate:"required,gt=0"`
	UserID             string `validate:"required,max=64"`
	Quantity           int    `validate:"min=1"`
	ExpectedReturnDate *time.Time
	Notes              string `validate:"max=1000"`
}

type IssuanceUpdate struct {
	ExpectedReturnDate *time.Time
	Notes              string `validate:"max=1000"`
}

// IssuanceFilter narrows issuance searches. Status Overdue selects open
// records whose return date is before AsOf.
type IssuanceFilter struct {
	Term   string
	Status IssuanceStatus
	UserID string
	From   *time.Time
	To     *time.Time
	AsOf   time.Time
}
