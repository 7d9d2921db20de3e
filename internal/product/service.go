package product

import (
	"context"
	"strings"
	"time"

	"storefront-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	BestSeller(ctx context.Context) (*Product, error)
	NewArrivals(ctx context.Context) ([]Product, error)
	Similar(ctx context.Context, id uuid.UUID) ([]Product, error)

	Create(ctx context.Context, creator uuid.UUID, in Input) (*Product, error)
	Update(ctx context.Context, id uuid.UUID, in Input) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, f Filter) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "List"),
	)

	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, ErrInvalidPriceFilter
	}
	if f.Limit < 0 {
		f.Limit = 0
	}

	start := time.Now()
	products, err := s.repo.List(ctx, f)
	if err != nil {
		log.Error("failed to fetch product list", zap.Error(err))
		return nil, err
	}

	log.Debug("get product list success",
		zap.Int("count", len(products)),
		zap.Duration("duration", time.Since(start)),
	)
	return products, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) BestSeller(ctx context.Context) (*Product, error) {
	return s.repo.BestSeller(ctx)
}

func (s *service) NewArrivals(ctx context.Context) ([]Product, error) {
	return s.repo.NewArrivals(ctx, newArrivalsLimit)
}

func (s *service) Similar(ctx context.Context, id uuid.UUID) ([]Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.repo.Similar(ctx, p, similarLimit)
}

func (s *service) Create(ctx context.Context, creator uuid.UUID, in Input) (*Product, error) {
	p := &Product{UserID: &creator}
	applyInput(p, in)

	if err := validate(p); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("product created",
		zap.String("product_id", created.ID.String()),
		zap.String("sku", created.SKU),
	)
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in Input) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyInput(p, in)
	if err := validate(p); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, p)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func applyInput(p *Product, in Input) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.DiscountPrice != nil {
		p.DiscountPrice = in.DiscountPrice
	}
	if in.CountInStock != nil {
		p.CountInStock = *in.CountInStock
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Sizes != nil {
		p.Sizes = in.Sizes
	}
	if in.Colors != nil {
		p.Colors = in.Colors
	}
	if in.Collections != nil {
		p.Collections = *in.Collections
	}
	if in.Material != nil {
		p.Material = *in.Material
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
}

func validate(p *Product) error {
	switch {
	case p.Name == "":
		return ErrNameRequired
	case p.SKU == "":
		return ErrSKURequired
	case p.Price <= 0:
		return ErrInvalidPrice
	case p.CountInStock < 0:
		return ErrInvalidStock
	case p.DiscountPrice != nil && *p.DiscountPrice < 0:
		return ErrInvalidDiscount
	}
	return nil
}
