package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	BestSeller(ctx context.Context) (*Product, error)
	NewArrivals(ctx context.Context, limit int) ([]Product, error)
	Similar(ctx context.Context, p *Product, limit int) ([]Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, description, price, discount_price, count_in_stock, sku,
	category, brand, sizes, colors, collections, material, gender, images,
	is_featured, is_published, rating, num_reviews, tags, user_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var (
		p        Product
		discount sql.NullFloat64
		creator  uuid.NullUUID
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &discount, &p.CountInStock, &p.SKU,
		&p.Category, &p.Brand, pq.Array(&p.Sizes), pq.Array(&p.Colors), &p.Collections,
		&p.Material, &p.Gender, &p.Images,
		&p.IsFeatured, &p.IsPublished, &p.Rating, &p.NumReviews, pq.Array(&p.Tags),
		&creator, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if discount.Valid {
		p.DiscountPrice = &discount.Float64
	}
	if creator.Valid {
		p.UserID = &creator.UUID
	}
	return &p, nil
}

func (r *repository) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// buildListQuery turns a Filter into a parameterised SELECT.
func buildListQuery(f Filter) (string, []any) {
	whereClause := " WHERE 1=1"
	args := []any{}
	argIndex := 1

	if f.Collection != "" && f.Collection != "all" {
		whereClause += fmt.Sprintf(" AND collections = $%d", argIndex)
		args = append(args, f.Collection)
		argIndex++
	}

	if f.Category != "" && f.Category != "all" {
		whereClause += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, f.Category)
		argIndex++
	}

	if len(f.Materials) > 0 {
		whereClause += fmt.Sprintf(" AND material = ANY($%d)", argIndex)
		args = append(args, pq.Array(f.Materials))
		argIndex++
	}

	if len(f.Brands) > 0 {
		whereClause += fmt.Sprintf(" AND brand = ANY($%d)", argIndex)
		args = append(args, pq.Array(f.Brands))
		argIndex++
	}

	if len(f.Sizes) > 0 {
		whereClause += fmt.Sprintf(" AND sizes && $%d", argIndex)
		args = append(args, pq.Array(f.Sizes))
		argIndex++
	}

	if f.Color != "" {
		whereClause += fmt.Sprintf(" AND $%d = ANY(colors)", argIndex)
		args = append(args, f.Color)
		argIndex++
	}

	if f.Gender != "" {
		whereClause += fmt.Sprintf(" AND gender = $%d", argIndex)
		args = append(args, f.Gender)
		argIndex++
	}

	if f.MinPrice != nil {
		whereClause += fmt.Sprintf(" AND price >= $%d", argIndex)
		args = append(args, *f.MinPrice)
		argIndex++
	}

	if f.MaxPrice != nil {
		whereClause += fmt.Sprintf(" AND price <= $%d", argIndex)
		args = append(args, *f.MaxPrice)
		argIndex++
	}

	if f.Search != "" {
		whereClause += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+f.Search+"%")
		argIndex++
	}

	orderBy := "created_at DESC"
	switch f.SortBy {
	case SortPriceAsc:
		orderBy = "price ASC"
	case SortPriceDesc:
		orderBy = "price DESC"
	case SortPopularity:
		orderBy = "rating DESC"
	}

	query := "SELECT " + productColumns + " FROM products" + whereClause + " ORDER BY " + orderBy
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, f.Limit)
	}

	return query, args
}

func (r *repository) List(ctx context.Context, f Filter) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	query, args := buildListQuery(f)
	log.Debug("executing query", zap.String("query", query), zap.Any("args", args))

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *repository) BestSeller(ctx context.Context) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY rating DESC, num_reviews DESC LIMIT 1",
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoBestSeller
	}
	if err != nil {
		return nil, fmt.Errorf("best seller: %w", err)
	}
	return p, nil
}

func (r *repository) NewArrivals(ctx context.Context, limit int) ([]Product, error) {
	products, err := r.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at DESC LIMIT $1", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("new arrivals: %w", err)
	}
	return products, nil
}

func (r *repository) Similar(ctx context.Context, p *Product, limit int) ([]Product, error) {
	products, err := r.queryProducts(ctx,
		"SELECT "+productColumns+` FROM products
		WHERE id <> $1 AND gender = $2 AND category = $3
		ORDER BY created_at DESC LIMIT $4`,
		p.ID, p.Gender, p.Category, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("similar products: %w", err)
	}
	return products, nil
}

func (r *repository) Create(ctx context.Context, p *Product) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
	)

	created, err := scanProduct(r.db.QueryRowContext(ctx,
		`INSERT INTO products (
			name, description, price, discount_price, count_in_stock, sku,
			category, brand, sizes, colors, collections, material, gender, images,
			is_featured, is_published, tags, user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.DiscountPrice, p.CountInStock, p.SKU,
		p.Category, p.Brand, pq.Array(p.Sizes), pq.Array(p.Colors), p.Collections, p.Material, p.Gender, p.Images,
		p.IsFeatured, p.IsPublished, pq.Array(p.Tags), p.UserID,
	))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateSKU
		}
		log.Error("db: failed to insert product", zap.String("sku", p.SKU), zap.Error(err))
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, p *Product) (*Product, error) {
	updated, err := scanProduct(r.db.QueryRowContext(ctx,
		`UPDATE products SET
			name = $2, description = $3, price = $4, discount_price = $5, count_in_stock = $6,
			sku = $7, category = $8, brand = $9, sizes = $10, colors = $11, collections = $12,
			material = $13, gender = $14, images = $15, is_featured = $16, is_published = $17,
			tags = $18, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.Price, p.DiscountPrice, p.CountInStock,
		p.SKU, p.Category, p.Brand, pq.Array(p.Sizes), pq.Array(p.Colors), p.Collections,
		p.Material, p.Gender, p.Images, p.IsFeatured, p.IsPublished,
		pq.Array(p.Tags),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateSKU
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
