package domain

import (
	"context"
	"time"
)

// Class is a trainer-led session, optionally repeating until EndDate.
type Class struct {
	ID               string    `json:"id"`
	TrainerID        string    `json:"trainerId"`
	Title            string    `json:"title"`
	Date             string    `json:"date"`
	StartTime        string    `json:"startTime"`
	EndTime          string    `json:"endTime"`
	IsRecurringClass bool      `json:"isRecurringClass"`
	Frequency        Frequency `json:"frequency,omitempty"`
	EndDate          string    `json:"endDate,omitempty"`
	MaxCapacity      int       `json:"maxCapacity"`
	Attendees        []string  `json:"attendees"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Validate checks the schedule and capacity fields and normalises Frequency.
func (c *Class) Validate() error {
	if _, err := ParseDate(c.Date); err != nil {
		return err
	}
	if _, err := SingleClassMinutes(c.StartTime, c.EndTime); err != nil {
		return err
	}
	if c.MaxCapacity <= 0 || c.MaxCapacity < len(c.Attendees) {
		return ErrInvalidCapacity
	}
	if !c.IsRecurringClass {
		c.Frequency = ""
		c.EndDate = ""
		return nil
	}
	f, ok := ParseFrequency(string(c.Frequency))
	if !ok {
		return ErrInvalidRecurrence
	}
	c.Frequency = f
	start, _ := ParseDate(c.Date)
	end, err := ParseDate(c.EndDate)
	if err != nil || end.Before(start) {
		return ErrInvalidRecurrence
	}
	// a weekly series ending on its first day has no started week
	if RecurrenceFor(f).Occurrences(start, end) < 1 {
		return ErrInvalidRecurrence
	}
	return nil
}

// TotalMinutes is what booking this class costs: one occurrence, or every
// occurrence of the series for recurring classes.
func (c *Class) TotalMinutes() (int, error) {
	single, err := SingleClassMinutes(c.StartTime, c.EndTime)
	if err != nil {
		return 0, err
	}
	if !c.IsRecurringClass {
		return single, nil
	}
	start, err := ParseDate(c.Date)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(c.EndDate)
	if err != nil {
		return 0, ErrInvalidRecurrence
	}
	return RecurringSeriesMinutes(start, end, c.Frequency, single), nil
}

// HasCapacity reports whether one more attendee fits.
func (c *Class) HasCapacity() bool {
	return len(c.Attendees) < c.MaxCapacity
}

// HasAttendee reports whether userID is already on the attendee list.
func (c *Class) HasAttendee(userID string) bool {
	for _, a := range c.Attendees {
		if a == userID {
			return true
		}
	}
	return false
}

// ClassRepository is the port for class persistence.
type ClassRepository interface {
	Create(ctx context.Context, c *Class) error
	Update(ctx context.Context, c *Class) error
	GetByID(ctx context.Context, id string) (*Class, error)
	// GetForUpdate loads the class and holds it exclusively until the
	// enclosing transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Class, error)
	List(ctx context.Context, limit int) ([]Class, error)
	// AddAttendee appends userID only while the class is below capacity;
	// ErrClassFull otherwise.
	AddAttendee(ctx context.Context, classID, userID string) error
}
