package postgres

import (
	"context"

	"classbook/internal/domain"

	"github.com/lib/pq"
)

type classRepo struct {
	q queryer
}

const classColumns = "id, trainer_id, title, date, start_time, end_time, is_recurring, frequency, end_date, max_capacity, attendees, created_at, updated_at"

func scanClass(row interface{ Scan(...any) error }) (*domain.Class, error) {
	var (
		c         domain.Class
		attendees pq.StringArray
	)
	err := row.Scan(&c.ID, &c.TrainerID, &c.Title, &c.Date, &c.StartTime, &c.EndTime,
		&c.IsRecurringClass, &c.Frequency, &c.EndDate, &c.MaxCapacity, &attendees, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Attendees = []string(attendees)
	if c.Attendees == nil {
		c.Attendees = []string{}
	}
	return &c, nil
}

// Create inserts a class.
func (r classRepo) Create(ctx context.Context, c *domain.Class) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO classes ("+classColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)",
		c.ID, c.TrainerID, c.Title, c.Date, c.StartTime, c.EndTime,
		c.IsRecurringClass, c.Frequency, c.EndDate, c.MaxCapacity, pq.Array(c.Attendees), c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	if err != nil {
		return domain.Persistence(err)
	}
	return nil
}

// Update replaces the editable fields. Attendees are owned by AddAttendee
// and are not written here.
func (r classRepo) Update(ctx context.Context, c *domain.Class) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE classes SET title = $2, date = $3, start_time = $4, end_time = $5, is_recurring = $6,
			frequency = $7, end_date = $8, max_capacity = $9, updated_at = $10
		WHERE id = $1`,
		c.ID, c.Title, c.Date, c.StartTime, c.EndTime, c.IsRecurringClass,
		c.Frequency, c.EndDate, c.MaxCapacity, c.UpdatedAt.UTC(),
	)
	if err != nil {
		return domain.Persistence(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrClassNotFound
	}
	return nil
}

// GetByID retrieves a class.
func (r classRepo) GetByID(ctx context.Context, id string) (*domain.Class, error) {
	c, err := scanClass(r.q.QueryRowContext(ctx, "SELECT "+classColumns+" FROM classes WHERE id = $1", id))
	if err != nil {
		return nil, dbErr(err, domain.ErrClassNotFound)
	}
	return c, nil
}

// GetForUpdate retrieves a class and locks its row until the transaction ends.
func (r classRepo) GetForUpdate(ctx context.Context, id string) (*domain.Class, error) {
	c, err := scanClass(r.q.QueryRowContext(ctx, "SELECT "+classColumns+" FROM classes WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return nil, dbErr(err, domain.ErrClassNotFound)
	}
	return c, nil
}

// List returns classes ordered by date and start time.
func (r classRepo) List(ctx context.Context, limit int) ([]domain.Class, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT "+classColumns+" FROM classes ORDER BY date, start_time, id LIMIT $1", limitOrAll(limit))
	if err != nil {
		return nil, domain.Persistence(err)
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, domain.Persistence(err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistence(err)
	}
	return out, nil
}

// AddAttendee appends userID in a single conditional UPDATE that re-checks
// membership and capacity against the stored row.
func (r classRepo) AddAttendee(ctx context.Context, classID, userID string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE classes SET attendees = array_append(attendees, $2)
		WHERE id = $1 AND NOT ($2 = ANY(attendees)) AND cardinality(attendees) < max_capacity`,
		classID, userID,
	)
	if err != nil {
		return domain.Persistence(err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}

	c, err := r.GetByID(ctx, classID)
	if err != nil {
		return err
	}
	if c.HasAttendee(userID) {
		return domain.ErrAlreadyBooked
	}
	return domain.ErrClassFull
}
