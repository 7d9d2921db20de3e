package order

import (
	"context"
	"time"

	"storefront-be/internal/cache"
	"storefront-be/internal/events"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	ListAll(ctx context.Context) ([]Order, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]Order, error)
	// Get returns one order. With owner checks enabled the caller must be
	// the customer who placed it or an admin.
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Options struct {
	RequireOwner bool
	CacheHits    *metrics.Counter
	CacheMisses  *metrics.Counter
}

type service struct {
	repo   Repository
	cache  cache.Cache
	events events.Publisher
	opts   Options
	now    func() time.Time
}

func NewService(repo Repository, c cache.Cache, pub events.Publisher, opts Options) Service {
	if c == nil {
		c = cache.Noop{}
	}
	if pub == nil {
		pub = events.Noop{}
	}
	if opts.CacheHits == nil {
		opts.CacheHits = &metrics.Counter{}
	}
	if opts.CacheMisses == nil {
		opts.CacheMisses = &metrics.Counter{}
	}
	return &service{repo: repo, cache: c, events: pub, opts: opts, now: time.Now}
}

func (s *service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.opts.RequireOwner {
		return o, nil
	}

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrAuthRequired
	}
	if !o.IsOwnedBy(userID) && !utils.IsAdmin(ctx) {
		return nil, ErrNotOrderOwner
	}
	return o, nil
}

// load reads through the order cache. Only the order row is cached; the
// customer's name and email are read fresh so profile edits show at once.
// Cache failures fall back to the database.
func (s *service) load(ctx context.Context, id uuid.UUID) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Get"),
		zap.String("order_id", id.String()),
	)
	key := cache.OrderDetailKey(id)

	var cached Order
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("order cache read failed", zap.Error(err))
	}
	if hit {
		s.opts.CacheHits.Inc()
		customer, err := s.repo.FindCustomer(ctx, cached.User.ID)
		if err != nil {
			return nil, err
		}
		cached.User = customer
		return &cached, nil
	}
	s.opts.CacheMisses.Inc()

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	row := *o
	row.User = UserSummary{ID: o.User.ID}
	if err := s.cache.Set(ctx, key, row, cache.TTLOrderDetail); err != nil {
		log.Warn("order cache write failed", zap.Error(err))
	}
	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.String("order_id", id.String()),
	)

	if status != "" && !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.ApplyStatus(status, s.now())

	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		log.Error("failed to update order", zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx, id)

	log.Info("order status updated", zap.String("status", o.Status))
	s.events.Publish(ctx, events.OrderStatusUpdated, o.ID.String(), events.OrderStatusUpdatedPayload{
		OrderID:     o.ID.String(),
		Status:      o.Status,
		IsDelivered: o.IsDelivered,
	})
	return o, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *service) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, cache.OrderDetailKey(id)); err != nil {
		logger.FromCtx(ctx).Warn("order cache invalidation failed",
			zap.String("order_id", id.String()),
			zap.Error(err),
		)
	}
}
