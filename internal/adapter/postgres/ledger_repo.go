package postgres

import (
	"context"

	"classbook/internal/domain"
)

type ledgerRepo struct {
	q queryer
}

// Append inserts a ledger entry.
func (r ledgerRepo) Append(ctx context.Context, e *domain.LedgerEntry) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO ledger_entries (id, user_id, delta, reason, reference, balance_after, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		e.ID, e.UserID, e.Delta, e.Reason, e.Reference, e.BalanceAfter, e.CreatedAt.UTC(),
	)
	if err != nil {
		return domain.Persistence(err)
	}
	return nil
}

// ListByUser returns the user's ledger entries, newest first.
func (r ledgerRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, user_id, delta, reason, reference, balance_after, created_at FROM ledger_entries WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT $2",
		userID, limitOrAll(limit),
	)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.LedgerEntry{}
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Delta, &e.Reason, &e.Reference, &e.BalanceAfter, &e.CreatedAt); err != nil {
			return nil, domain.Persistence(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence(err)
	}
	return out, nil
}
