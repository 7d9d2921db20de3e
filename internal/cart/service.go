package cart

import (
	"context"
	"errors"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
}

type Service interface {
	// AddItem reports created=true when a new cart was made for the owner.
	AddItem(ctx context.Context, owner Identity, in AddItemInput) (c *Cart, created bool, err error)
	UpdateItem(ctx context.Context, owner Identity, in UpdateItemInput) (*Cart, error)
	RemoveItem(ctx context.Context, owner Identity, key ItemKey) (*Cart, error)
	GetCart(ctx context.Context, owner Identity) (*Cart, error)
	MergeGuestCart(ctx context.Context, guestID string, userID uuid.UUID) (*Cart, error)
}

type service struct {
	repo      Repository
	products  ProductLookup
	conflicts *metrics.Counter
}

func NewService(repo Repository, products ProductLookup, conflicts *metrics.Counter) Service {
	if conflicts == nil {
		conflicts = &metrics.Counter{}
	}
	return &service{repo: repo, products: products, conflicts: conflicts}
}

func (s *service) AddItem(ctx context.Context, owner Identity, in AddItemInput) (*Cart, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("owner", owner.String()),
	)

	if in.ProductID == uuid.Nil {
		return nil, false, ErrProductIDRequired
	}
	if in.Quantity < 1 {
		return nil, false, ErrInvalidQuantity
	}

	p, err := s.products.GetByID(ctx, in.ProductID)
	if errors.Is(err, product.ErrProductNotFound) {
		return nil, false, ErrProductNotFound
	}
	if err != nil {
		log.Error("failed to load product", zap.Error(err))
		return nil, false, err
	}

	item := LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.PrimaryImage(),
		Price:     p.Price,
		Size:      in.Size,
		Color:     in.Color,
		Quantity:  in.Quantity,
	}

	c, err := s.repo.FindByIdentity(ctx, owner)
	switch {
	case err == nil:
		c.Add(item)
		if err := s.save(ctx, c); err != nil {
			return nil, false, err
		}
		return c, false, nil

	case errors.Is(err, ErrCartNotFound):
		if owner.IsZero() {
			owner = GuestIdentity(NewGuestID())
		}
		c = newCart(owner)
		c.Add(item)
		if err := s.repo.Create(ctx, c); err != nil {
			s.countConflict(err)
			return nil, false, err
		}
		log.Info("cart created", zap.String("cart_id", c.ID.String()))
		return c, true, nil

	default:
		log.Error("failed to load cart", zap.Error(err))
		return nil, false, err
	}
}

func (s *service) UpdateItem(ctx context.Context, owner Identity, in UpdateItemInput) (*Cart, error) {
	c, err := s.repo.FindByIdentity(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := c.SetQuantity(in.ItemKey, in.Quantity); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) RemoveItem(ctx context.Context, owner Identity, key ItemKey) (*Cart, error) {
	c, err := s.repo.FindByIdentity(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := c.Remove(key); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCart(ctx context.Context, owner Identity) (*Cart, error) {
	return s.repo.FindByIdentity(ctx, owner)
}

func (s *service) MergeGuestCart(ctx context.Context, guestID string, userID uuid.UUID) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MergeGuestCart"),
		zap.String("user_id", userID.String()),
	)

	if guestID == "" {
		return nil, ErrGuestIDRequired
	}

	guest, err := s.repo.FindByIdentity(ctx, GuestIdentity(guestID))
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return nil, err
	}
	userCart, err := s.repo.FindByIdentity(ctx, UserIdentity(userID))
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return nil, err
	}

	switch {
	case guest == nil && userCart == nil:
		return nil, ErrGuestCartNotFound

	case guest == nil:
		// Guest cart already merged or never existed.
		return userCart, nil

	case guest.IsEmpty():
		return nil, ErrGuestCartEmpty

	case userCart != nil:
		userCart.Absorb(guest)
		if err := s.repo.MergeInto(ctx, userCart, guest.ID); err != nil {
			s.countConflict(err)
			return nil, err
		}
		log.Info("guest cart merged", zap.String("cart_id", userCart.ID.String()))
		return userCart, nil

	default:
		guest.UserID = &userID
		guest.GuestID = ""
		guest.Recalculate()
		if err := s.save(ctx, guest); err != nil {
			return nil, err
		}
		log.Info("guest cart assigned to user", zap.String("cart_id", guest.ID.String()))
		return guest, nil
	}
}

func (s *service) save(ctx context.Context, c *Cart) error {
	if err := s.repo.Save(ctx, c); err != nil {
		s.countConflict(err)
		if !errors.Is(err, ErrCartConflict) {
			logger.FromCtx(ctx).Error("failed to save cart", zap.String("cart_id", c.ID.String()), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *service) countConflict(err error) {
	if errors.Is(err, ErrCartConflict) {
		s.conflicts.Inc()
	}
}
