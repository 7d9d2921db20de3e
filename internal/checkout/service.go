package checkout

import (
	"context"
	"time"

	"storefront-be/internal/events"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/order"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*Checkout, error)
	Get(ctx context.Context, id uuid.UUID) (*Checkout, error)
	MarkPaid(ctx context.Context, id uuid.UUID, in PayInput) (*Checkout, error)
	Finalize(ctx context.Context, id uuid.UUID) (*order.Order, error)
}

type service struct {
	repo      Repository
	events    events.Publisher
	finalized *metrics.Counter
	now       func() time.Time
}

func NewService(repo Repository, pub events.Publisher, finalized *metrics.Counter) Service {
	if pub == nil {
		pub = events.Noop{}
	}
	if finalized == nil {
		finalized = &metrics.Counter{}
	}
	return &service{repo: repo, events: pub, finalized: finalized, now: time.Now}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*Checkout, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	if len(in.CheckoutItems) == 0 {
		return nil, ErrNoItems
	}
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	c := newCheckout(userID, in)
	if err := s.repo.Create(ctx, c); err != nil {
		log.Error("failed to create checkout", zap.Error(err))
		return nil, err
	}

	log.Info("checkout created", zap.String("checkout_id", c.ID.String()))
	s.events.Publish(ctx, events.CheckoutCreated, c.ID.String(), events.CheckoutCreatedPayload{
		CheckoutID: c.ID.String(),
		UserID:     userID.String(),
		ItemCount:  len(c.CheckoutItems),
		TotalPrice: c.TotalPrice,
	})
	return c, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Checkout, error) {
	return s.load(ctx, id)
}

// load fetches the checkout and checks the caller owns it or is an admin.
func (s *service) load(ctx context.Context, id uuid.UUID) (*Checkout, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if c.UserID != userID && !utils.IsAdmin(ctx) {
		return nil, ErrNotCheckoutOwner
	}
	return c, nil
}

func (s *service) MarkPaid(ctx context.Context, id uuid.UUID, in PayInput) (*Checkout, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MarkPaid"),
		zap.String("checkout_id", id.String()),
	)

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.PaymentStatus != order.PaymentStatusPaid {
		return nil, ErrInvalidPaymentStatus
	}
	if c.IsFinalized {
		return nil, ErrAlreadyFinalized
	}

	now := s.now()
	c.IsPaid = true
	c.PaymentStatus = in.PaymentStatus
	c.PaymentDetails = in.PaymentDetails
	c.PaidAt = &now

	if err := s.repo.MarkPaid(ctx, c); err != nil {
		log.Error("failed to mark checkout paid", zap.Error(err))
		return nil, err
	}

	log.Info("checkout paid")
	s.events.Publish(ctx, events.CheckoutPaid, c.ID.String(), events.CheckoutPaidPayload{
		CheckoutID:    c.ID.String(),
		PaymentStatus: c.PaymentStatus,
		PaidAt:        now,
	})
	return c, nil
}

func (s *service) Finalize(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Finalize"),
		zap.String("checkout_id", id.String()),
	)

	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	timer := metrics.StartTimer()
	o, err := s.repo.Finalize(ctx, id, s.now())
	if err != nil {
		log.Warn("finalize rejected", zap.Error(err))
		return nil, err
	}
	s.finalized.Inc()

	log.Info("checkout finalized",
		zap.String("order_id", o.ID.String()),
		zap.Duration("duration", timer.Duration()),
	)
	s.events.Publish(ctx, events.OrderFinalized, o.ID.String(), events.OrderFinalizedPayload{
		OrderID:    o.ID.String(),
		CheckoutID: id.String(),
		UserID:     o.User.ID.String(),
		TotalPrice: o.TotalPrice,
	})
	return o, nil
}
