package domain

import "context"

// Tx exposes the repositories bound to one atomic unit of work.
type Tx interface {
	Users() UserRepository
	Classes() ClassRepository
	Bookings() BookingRepository
	Packages() PackageRepository
	Ledger() LedgerRepository
}

// Store runs fn atomically: every write made through tx is committed when fn
// returns nil and discarded when it returns an error.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
