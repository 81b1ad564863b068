// Package memory implements an in-memory store for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"classbook/internal/domain"
)

type state struct {
	users    map[string]domain.User
	classes  map[string]domain.Class
	bookings map[string]domain.Booking
	packages map[string]domain.Package
	ledger   []domain.LedgerEntry
}

func newState() *state {
	return &state{
		users:    make(map[string]domain.User),
		classes:  make(map[string]domain.Class),
		bookings: make(map[string]domain.Booking),
		packages: make(map[string]domain.Package),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.classes {
		v.Attendees = append([]string(nil), v.Attendees...)
		c.classes[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.packages {
		c.packages[k] = v
	}
	c.ledger = append([]domain.LedgerEntry(nil), s.ledger...)
	return c
}

// DB implements domain.Store in memory. Transactions are serialised by a
// single mutex and work on a copy that replaces the live state on commit.
type DB struct {
	mu sync.Mutex
	st *state
}

// New creates an empty in-memory store.
func New() *DB {
	return &DB{st: newState()}
}

// Ensure interfaces are met.
var _ domain.Store = (*DB)(nil)
var _ domain.Tx = (*tx)(nil)

// RunInTx runs fn against a private copy of the state and publishes the copy
// only when fn succeeds.
func (db *DB) RunInTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := db.st.clone()
	if err := fn(ctx, &tx{st: work}); err != nil {
		return err
	}
	db.st = work
	return nil
}

type tx struct {
	st *state
}

func (t *tx) Users() domain.UserRepository       { return userRepo{t.st} }
func (t *tx) Classes() domain.ClassRepository    { return classRepo{t.st} }
func (t *tx) Bookings() domain.BookingRepository { return bookingRepo{t.st} }
func (t *tx) Packages() domain.PackageRepository { return packageRepo{t.st} }
func (t *tx) Ledger() domain.LedgerRepository    { return ledgerRepo{t.st} }

// --- UserRepository ---

type userRepo struct{ st *state }

func (r userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r userRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range r.st.users {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	r.st.users[u.ID] = *u
	return nil
}

func (r userRepo) Count(ctx context.Context) (int, error) {
	return len(r.st.users), nil
}

// LockSetup is a no-op: the store lock is already held for the whole
// transaction.
func (r userRepo) LockSetup(ctx context.Context) error {
	return nil
}

func (r userRepo) DebitMinutes(ctx context.Context, userID string, minutes int) (int, error) {
	u, ok := r.st.users[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	if u.RemainingMinutes < minutes {
		return u.RemainingMinutes, domain.ErrInsufficientMinutes
	}
	u.RemainingMinutes -= minutes
	r.st.users[userID] = u
	return u.RemainingMinutes, nil
}

func (r userRepo) CreditMinutes(ctx context.Context, userID string, minutes int) (int, error) {
	u, ok := r.st.users[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	u.RemainingMinutes += minutes
	r.st.users[userID] = u
	return u.RemainingMinutes, nil
}

// --- ClassRepository ---

type classRepo struct{ st *state }

func (r classRepo) Create(ctx context.Context, c *domain.Class) error {
	stored := *c
	stored.Attendees = append([]string{}, c.Attendees...)
	r.st.classes[c.ID] = stored
	return nil
}

func (r classRepo) Update(ctx context.Context, c *domain.Class) error {
	if _, ok := r.st.classes[c.ID]; !ok {
		return domain.ErrClassNotFound
	}
	return r.Create(ctx, c)
}

func (r classRepo) GetByID(ctx context.Context, id string) (*domain.Class, error) {
	c, ok := r.st.classes[id]
	if !ok {
		return nil, domain.ErrClassNotFound
	}
	c.Attendees = append([]string{}, c.Attendees...)
	return &c, nil
}

// GetForUpdate needs no extra locking: the whole transaction holds the store mutex.
func (r classRepo) GetForUpdate(ctx context.Context, id string) (*domain.Class, error) {
	return r.GetByID(ctx, id)
}

func (r classRepo) List(ctx context.Context, limit int) ([]domain.Class, error) {
	out := make([]domain.Class, 0, len(r.st.classes))
	for _, c := range r.st.classes {
		c.Attendees = append([]string{}, c.Attendees...)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r classRepo) AddAttendee(ctx context.Context, classID, userID string) error {
	c, ok := r.st.classes[classID]
	if !ok {
		return domain.ErrClassNotFound
	}
	if c.HasAttendee(userID) {
		return domain.ErrAlreadyBooked
	}
	if !c.HasCapacity() {
		return domain.ErrClassFull
	}
	c.Attendees = append(append([]string{}, c.Attendees...), userID)
	c.UpdatedAt = time.Now().UTC()
	r.st.classes[classID] = c
	return nil
}

// --- BookingRepository ---

type bookingRepo struct{ st *state }

func (r bookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	for _, existing := range r.st.bookings {
		if existing.UserID == b.UserID && existing.ClassID == b.ClassID {
			return domain.ErrAlreadyBooked
		}
	}
	r.st.bookings[b.ID] = *b
	return nil
}

func (r bookingRepo) GetByUserAndClass(ctx context.Context, userID, classID string) (*domain.Booking, error) {
	for _, b := range r.st.bookings {
		if b.UserID == userID && b.ClassID == classID {
			return &b, nil
		}
	}
	return nil, nil
}

func (r bookingRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range r.st.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- PackageRepository ---

type packageRepo struct{ st *state }

func (r packageRepo) Create(ctx context.Context, p *domain.Package) error {
	r.st.packages[p.ID] = *p
	return nil
}

func (r packageRepo) GetByPaymentIntentID(ctx context.Context, intentID string) (*domain.Package, error) {
	for _, p := range r.st.packages {
		if p.StripePaymentIntentID == intentID {
			return &p, nil
		}
	}
	return nil, domain.ErrPackageNotFound
}

func (r packageRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Package, error) {
	var out []domain.Package
	for _, p := range r.st.packages {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r packageRepo) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.Package, error) {
	var out []domain.Package
	for _, p := range r.st.packages {
		if p.Status == domain.PackagePending && p.CreatedAt.Before(cutoff) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r packageRepo) TransitionStatus(ctx context.Context, id string, from, to domain.PackageStatus) (bool, error) {
	p, ok := r.st.packages[id]
	if !ok {
		return false, domain.ErrPackageNotFound
	}
	if p.Status != from {
		return false, nil
	}
	p.Status = to
	p.UpdatedAt = time.Now().UTC()
	r.st.packages[id] = p
	return true, nil
}

// --- LedgerRepository ---

type ledgerRepo struct{ st *state }

func (r ledgerRepo) Append(ctx context.Context, e *domain.LedgerEntry) error {
	r.st.ledger = append(r.st.ledger, *e)
	return nil
}

func (r ledgerRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	// newest first
	for i := len(r.st.ledger) - 1; i >= 0; i-- {
		if r.st.ledger[i].UserID != userID {
			continue
		}
		out = append(out, r.st.ledger[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
