package domain

import (
	"context"
	"time"
)

// LedgerReason says why a balance changed.
type LedgerReason string

const (
	ReasonBooking LedgerReason = "booking"
	ReasonPackage LedgerReason = "package"
)

// LedgerEntry records one balance change. Delta is negative for debits.
type LedgerEntry struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	Delta        int          `json:"delta"`
	Reason       LedgerReason `json:"reason"`
	Reference    string       `json:"reference"`
	BalanceAfter int          `json:"balanceAfter"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// LedgerRepository is the port for the balance audit trail.
type LedgerRepository interface {
	Append(ctx context.Context, e *LedgerEntry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]LedgerEntry, error)
}
