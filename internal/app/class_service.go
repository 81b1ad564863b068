package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"classbook/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrForbidden indicates the caller may not manage the class.
var ErrForbidden = errors.New("forbidden")

// ClassInput carries the trainer-editable fields of a class.
type ClassInput struct {
	Title            string
	Date             string
	StartTime        string
	EndTime          string
	IsRecurringClass bool
	Frequency        string
	EndDate          string
	MaxCapacity      int
}

// ClassService encapsulates class management use cases.
type ClassService struct {
	store domain.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewClassService creates a ClassService.
func NewClassService(store domain.Store, log *zap.Logger) *ClassService {
	return &ClassService{store: store, log: log, now: time.Now}
}

// CreateClass validates and stores a class owned by trainerID.
func (s *ClassService) CreateClass(ctx context.Context, trainerID string, role domain.Role, in ClassInput) (*domain.Class, error) {
	if role != domain.RoleTrainer && role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	now := s.now().UTC()
	c := &domain.Class{
		ID:        uuid.NewString(),
		TrainerID: trainerID,
		Attendees: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(c, in)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		return tx.Classes().Create(ctx, c)
	}); err != nil {
		return nil, err
	}
	s.log.Info("class created", zap.String("class_id", c.ID), zap.String("trainer_id", trainerID))
	return c, nil
}

// UpdateClass replaces the editable fields of a class. Only the owning
// trainer or an admin may do this. Bookings already made keep the minutes
// they were charged.
func (s *ClassService) UpdateClass(ctx context.Context, userID string, role domain.Role, classID string, in ClassInput) (*domain.Class, error) {
	var updated *domain.Class
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		c, err := tx.Classes().GetForUpdate(ctx, classID)
		if err != nil {
			return err
		}
		if role != domain.RoleAdmin && c.TrainerID != userID {
			return ErrForbidden
		}
		applyInput(c, in)
		c.UpdatedAt = s.now().UTC()
		if err := c.Validate(); err != nil {
			return err
		}
		if err := tx.Classes().Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetClass returns one class.
func (s *ClassService) GetClass(ctx context.Context, id string) (*domain.Class, error) {
	return view(ctx, s.store, func(ctx context.Context, tx domain.Tx) (*domain.Class, error) {
		return tx.Classes().GetByID(ctx, id)
	})
}

// ListClasses returns classes ordered by date and start time.
func (s *ClassService) ListClasses(ctx context.Context, limit int) ([]domain.Class, error) {
	return view(ctx, s.store, func(ctx context.Context, tx domain.Tx) ([]domain.Class, error) {
		return tx.Classes().List(ctx, limit)
	})
}

func applyInput(c *domain.Class, in ClassInput) {
	c.Title = strings.TrimSpace(in.Title)
	c.Date = in.Date
	c.StartTime = in.StartTime
	c.EndTime = in.EndTime
	c.IsRecurringClass = in.IsRecurringClass
	c.Frequency = domain.Frequency(in.Frequency)
	c.EndDate = in.EndDate
	c.MaxCapacity = in.MaxCapacity
}
