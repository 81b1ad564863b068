package app

import (
	"context"
	"fmt"
	"time"

	"classbook/internal/domain"
	"classbook/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ledger is the only writer of User.RemainingMinutes. Debit and Credit run
// inside the caller's transaction so the balance change, the audit entry and
// whatever caused them commit together.
type Ledger struct {
	log *zap.Logger
}

// NewLedger creates a Ledger.
func NewLedger(log *zap.Logger) *Ledger {
	return &Ledger{log: log}
}

// Debit takes minutes from the user's balance. The balance may not go below
// zero: ErrInsufficientMinutes aborts the enclosing transaction.
func (l *Ledger) Debit(ctx context.Context, tx domain.Tx, userID string, minutes int, reason domain.LedgerReason, ref string) (int, error) {
	if minutes < 0 {
		return 0, domain.ErrInvalidMinutes
	}
	balance, err := tx.Users().DebitMinutes(ctx, userID, minutes)
	if err != nil {
		return balance, err
	}
	if err := l.record(ctx, tx, userID, -minutes, reason, ref, balance); err != nil {
		return 0, err
	}
	metrics.LedgerMinutes.WithLabelValues("debit").Add(float64(minutes))
	l.log.Debug("ledger debit", zap.String("user_id", userID), zap.Int("minutes", minutes), zap.String("ref", ref), zap.Int("balance", balance))
	return balance, nil
}

// Credit adds minutes to the user's balance.
func (l *Ledger) Credit(ctx context.Context, tx domain.Tx, userID string, minutes int, reason domain.LedgerReason, ref string) (int, error) {
	if minutes < 0 {
		return 0, domain.ErrInvalidMinutes
	}
	balance, err := tx.Users().CreditMinutes(ctx, userID, minutes)
	if err != nil {
		return 0, err
	}
	if err := l.record(ctx, tx, userID, minutes, reason, ref, balance); err != nil {
		return 0, err
	}
	metrics.LedgerMinutes.WithLabelValues("credit").Add(float64(minutes))
	l.log.Debug("ledger credit", zap.String("user_id", userID), zap.Int("minutes", minutes), zap.String("ref", ref), zap.Int("balance", balance))
	return balance, nil
}

func (l *Ledger) record(ctx context.Context, tx domain.Tx, userID string, delta int, reason domain.LedgerReason, ref string, balance int) error {
	entry := &domain.LedgerEntry{
		ID:           uuid.NewString(),
		UserID:       userID,
		Delta:        delta,
		Reason:       reason,
		Reference:    ref,
		BalanceAfter: balance,
		CreatedAt:    time.Now().UTC(),
	}
	if err := tx.Ledger().Append(ctx, entry); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// AccountService serves read-only views of a user's balance.
type AccountService struct {
	store domain.Store
}

// NewAccountService creates an AccountService.
func NewAccountService(store domain.Store) *AccountService {
	return &AccountService{store: store}
}

// Profile returns the user including the current balance.
func (s *AccountService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return view(ctx, s.store, func(ctx context.Context, tx domain.Tx) (*domain.User, error) {
		return tx.Users().GetByID(ctx, userID)
	})
}

// History returns the newest ledger entries for the user.
func (s *AccountService) History(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	return view(ctx, s.store, func(ctx context.Context, tx domain.Tx) ([]domain.LedgerEntry, error) {
		return tx.Ledger().ListByUser(ctx, userID, limit)
	})
}

// view runs a read inside a transaction and hands back its result.
func view[T any](ctx context.Context, store domain.Store, fn func(ctx context.Context, tx domain.Tx) (T, error)) (T, error) {
	var out T
	err := store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		out, err = fn(ctx, tx)
		return err
	})
	return out, err
}
