package domain

import (
	"context"
	"time"
)

// PackageType names a purchasable bundle of class hours.
type PackageType string

const (
	PackageStandard PackageType = "standard"
	PackagePremium  PackageType = "premium"
)

// PackageOffer is the catalog entry for a PackageType.
type PackageOffer struct {
	AmountCents int64
	Hours       int
}

// Catalog prices every package type. Checkout takes amount and hours from
// here, never from the client.
var Catalog = map[PackageType]PackageOffer{
	PackageStandard: {AmountCents: 5000, Hours: 5},
	PackagePremium:  {AmountCents: 10000, Hours: 12},
}

// PackageStatus is the payment lifecycle state of a package.
type PackageStatus string

const (
	PackagePending PackageStatus = "pending"
	PackagePaid    PackageStatus = "paid"
	PackageFailed  PackageStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s PackageStatus) Terminal() bool {
	return s == PackagePaid || s == PackageFailed
}

// Package is one purchase attempt, correlated with the payment provider by
// StripePaymentIntentID.
type Package struct {
	ID                    string        `json:"id"`
	UserID                string        `json:"userId"`
	PackageType           PackageType   `json:"packageType"`
	AmountCents           int64         `json:"amount"`
	Hours                 int           `json:"hours"`
	Status                PackageStatus `json:"status"`
	StripePaymentIntentID string        `json:"stripePaymentIntentId"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

// Minutes is the credit issued when the package is paid.
func (p *Package) Minutes() int {
	return p.Hours * 60
}

// CanTransition allows only pending -> paid and pending -> failed.
func CanTransition(from, to PackageStatus) bool {
	return from == PackagePending && (to == PackagePaid || to == PackageFailed)
}

// PackageRepository is the port for package persistence.
type PackageRepository interface {
	Create(ctx context.Context, p *Package) error
	GetByPaymentIntentID(ctx context.Context, intentID string) (*Package, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Package, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]Package, error)
	// TransitionStatus moves the package from -> to and reports whether this
	// call performed the move. A package no longer in from is left untouched.
	TransitionStatus(ctx context.Context, id string, from, to PackageStatus) (bool, error)
}
