package app

import (
	"context"
	"errors"
	"time"

	"classbook/internal/domain"
	"classbook/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Settlement sources, used for logs and metrics.
const (
	SourceWebhook      = "webhook"
	SourceConfirmation = "confirmation"
	SourceSweeper      = "sweeper"
)

// PaymentService owns the package payment lifecycle. Every path that learns
// about a payment outcome goes through settle, which credits the ledger only
// when it is the one moving the package out of pending.
type PaymentService struct {
	store     domain.Store
	provider  domain.PaymentProvider
	ledger    *Ledger
	publisher domain.EventPublisher
	log       *zap.Logger
	currency  string
	now       func() time.Time
}

// NewPaymentService creates a PaymentService charging in currency.
func NewPaymentService(store domain.Store, provider domain.PaymentProvider, ledger *Ledger, publisher domain.EventPublisher, log *zap.Logger, currency string) *PaymentService {
	return &PaymentService{
		store:     store,
		provider:  provider,
		ledger:    ledger,
		publisher: publisher,
		log:       log,
		currency:  currency,
		now:       time.Now,
	}
}

// Checkout opens a payment intent for a catalog package and records the
// pending package. The returned client secret lets the client complete the
// charge with the provider.
func (s *PaymentService) Checkout(ctx context.Context, userID string, pt domain.PackageType) (*domain.Package, string, error) {
	offer, ok := domain.Catalog[pt]
	if !ok {
		return nil, "", domain.ErrInvalidPackageType
	}

	intent, err := s.provider.CreateIntent(ctx, domain.CreateIntentParams{
		AmountCents: offer.AmountCents,
		Currency:    s.currency,
		UserID:      userID,
		PackageType: pt,
	})
	if err != nil {
		return nil, "", err
	}

	now := s.now().UTC()
	pkg := &domain.Package{
		ID:                    uuid.NewString(),
		UserID:                userID,
		PackageType:           pt,
		AmountCents:           offer.AmountCents,
		Hours:                 offer.Hours,
		Status:                domain.PackagePending,
		StripePaymentIntentID: intent.ID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			return err
		}
		return tx.Packages().Create(ctx, pkg)
	})
	if err != nil {
		return nil, "", err
	}

	s.log.Info("checkout started",
		zap.String("package_id", pkg.ID),
		zap.String("user_id", userID),
		zap.String("package_type", string(pt)),
		zap.String("payment_intent_id", intent.ID),
	)
	return pkg, intent.ClientSecret, nil
}

// HandleWebhook verifies and applies one provider event. Only a bad
// signature is returned to the caller; everything after verification is
// logged and acknowledged, and left for the sweeper when it failed.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(payload, signature)
	if errors.Is(err, domain.ErrInvalidSignature) {
		metrics.WebhookEvents.WithLabelValues("rejected").Inc()
		return err
	}
	if err != nil {
		// signed but unusable; retrying will not fix it
		metrics.WebhookEvents.WithLabelValues("malformed").Inc()
		s.log.Warn("webhook event not applied", zap.Error(err))
		return nil
	}

	var target domain.PackageStatus
	switch event.Type {
	case domain.PaymentEventSucceeded:
		target = domain.PackagePaid
	case domain.PaymentEventFailed:
		target = domain.PackageFailed
	default:
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		return nil
	}

	_, _, err = s.settle(ctx, event.PaymentIntentID, target, SourceWebhook)
	switch {
	case err == nil:
		metrics.WebhookEvents.WithLabelValues("applied").Inc()
	case errors.Is(err, domain.ErrPackageNotFound):
		metrics.WebhookEvents.WithLabelValues("unknown_intent").Inc()
		s.log.Warn("webhook for unknown payment intent", zap.String("event_id", event.ID), zap.String("payment_intent_id", event.PaymentIntentID))
	default:
		metrics.WebhookEvents.WithLabelValues("error").Inc()
		s.log.Error("webhook settlement failed", zap.String("event_id", event.ID), zap.String("payment_intent_id", event.PaymentIntentID), zap.Error(err))
	}
	return nil
}

// ConfirmPayment is the client-side "payment succeeded" call. The provider is
// asked again so the client cannot claim a payment that did not happen.
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID, intentID string) (*domain.Package, error) {
	pkg, err := view(ctx, s.store, func(ctx context.Context, tx domain.Tx) (*domain.Package, error) {
		return tx.Packages().GetByPaymentIntentID(ctx, intentID)
	})
	if err != nil {
		return nil, err
	}
	if pkg.UserID != userID {
		return nil, domain.ErrPackageNotFound
	}

	intent, err := s.provider.GetIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if intent.Status != domain.IntentSucceeded {
		return nil, domain.ErrPaymentNotSucceeded
	}

	settled, _, err := s.settle(ctx, intentID, domain.PackagePaid, SourceConfirmation)
	if err != nil {
		return nil, err
	}
	if settled.Status != domain.PackagePaid {
		return nil, domain.ErrPackageSettled
	}
	return settled, nil
}

// ReconcilePending asks the provider about packages that have been pending
// longer than minAge and settles the ones with a final outcome. It returns
// how many packages it moved.
func (s *PaymentService) ReconcilePending(ctx context.Context, minAge time.Duration, limit int) (int, error) {
	cutoff := s.now().Add(-minAge)
	pending, err := view(ctx, s.store, func(ctx context.Context, tx domain.Tx) ([]domain.Package, error) {
		return tx.Packages().ListPendingBefore(ctx, cutoff, limit)
	})
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, p := range pending {
		intent, err := s.provider.GetIntent(ctx, p.StripePaymentIntentID)
		if err != nil {
			s.log.Warn("reconcile: fetch intent failed", zap.String("package_id", p.ID), zap.String("payment_intent_id", p.StripePaymentIntentID), zap.Error(err))
			continue
		}
		var target domain.PackageStatus
		switch intent.Status {
		case domain.IntentSucceeded:
			target = domain.PackagePaid
		case domain.IntentFailed:
			target = domain.PackageFailed
		default:
			continue
		}
		_, transitioned, err := s.settle(ctx, p.StripePaymentIntentID, target, SourceSweeper)
		if err != nil {
			s.log.Error("reconcile: settle failed", zap.String("package_id", p.ID), zap.Error(err))
			continue
		}
		if transitioned {
			moved++
		}
	}
	return moved, nil
}

// ListPackages returns the user's purchase attempts, newest first.
func (s *PaymentService) ListPackages(ctx context.Context, userID string, limit int) ([]domain.Package, error) {
	return view(ctx, s.store, func(ctx context.Context, tx domain.Tx) ([]domain.Package, error) {
		return tx.Packages().ListByUser(ctx, userID, limit)
	})
}

// settle moves the package for intentID to target. The second result is true
// only for the call that performed the transition; repeated or late calls
// return the package as stored and change nothing.
func (s *PaymentService) settle(ctx context.Context, intentID string, target domain.PackageStatus, source string) (*domain.Package, bool, error) {
	if !domain.CanTransition(domain.PackagePending, target) {
		return nil, false, domain.ErrInvalidStatus
	}

	var (
		pkg          *domain.Package
		transitioned bool
	)
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		p, err := tx.Packages().GetByPaymentIntentID(ctx, intentID)
		if err != nil {
			return err
		}
		pkg = p
		if p.Status.Terminal() {
			return nil
		}

		ok, err := tx.Packages().TransitionStatus(ctx, p.ID, domain.PackagePending, target)
		if err != nil {
			return err
		}
		if !ok {
			// lost the race; report what the winner stored
			pkg, err = tx.Packages().GetByPaymentIntentID(ctx, intentID)
			return err
		}
		if target == domain.PackagePaid {
			if _, err := s.ledger.Credit(ctx, tx, p.UserID, p.Minutes(), domain.ReasonPackage, p.ID); err != nil {
				return err
			}
		}
		p.Status = target
		p.UpdatedAt = s.now().UTC()
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !transitioned {
		s.log.Info("package already settled",
			zap.String("package_id", pkg.ID),
			zap.String("status", string(pkg.Status)),
			zap.String("source", source),
		)
		return pkg, false, nil
	}

	credited := 0
	key := domain.EventPackageFailed
	if target == domain.PackagePaid {
		credited = pkg.Minutes()
		key = domain.EventPackagePaid
	}
	metrics.PackageTransitions.WithLabelValues(string(target), source).Inc()
	s.log.Info("package settled",
		zap.String("package_id", pkg.ID),
		zap.String("user_id", pkg.UserID),
		zap.String("status", string(target)),
		zap.Int("minutes_credited", credited),
		zap.String("source", source),
	)
	if s.publisher != nil {
		err := s.publisher.Publish(ctx, key, domain.PackageSettledEvent{
			PackageID:       pkg.ID,
			UserID:          pkg.UserID,
			Status:          target,
			MinutesCredited: credited,
			OccurredAt:      pkg.UpdatedAt,
		})
		if err != nil {
			s.log.Warn("publish event failed", zap.String("routing_key", key), zap.Error(err))
		}
	}
	return pkg, true, nil
}
