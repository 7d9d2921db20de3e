package product

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{
	"id", "name", "description", "price", "discount_price", "count_in_stock", "sku",
	"category", "brand", "sizes", "colors", "collections", "material", "gender", "images",
	"is_featured", "is_published", "rating", "num_reviews", "tags", "user_id", "created_at", "updated_at",
}

func productRow(rows *sqlmock.Rows, id uuid.UUID, name string, price float64) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id.String(), name, "desc", price, nil, 10, "SKU-"+name,
		"Top Wear", "Acme", "{S,M}", "{Red}", "Summer", "Cotton", "Men", []byte(`[{"url":"https://img/1.jpg","altText":"front"}]`),
		false, true, 4.5, 12, "{new}", nil, now, now,
	)
}

func TestBuildListQuery(t *testing.T) {
	t.Run("No filters", func(t *testing.T) {
		query, args := buildListQuery(Filter{})

		assert.Contains(t, query, "FROM products WHERE 1=1 ORDER BY created_at DESC")
		assert.NotContains(t, query, "LIMIT")
		assert.Empty(t, args)
	})

	t.Run("All filters", func(t *testing.T) {
		minPrice, maxPrice := 10.0, 100.0
		query, args := buildListQuery(Filter{
			Collection: "Summer",
			Category:   "Top Wear",
			Materials:  []string{"Cotton", "Wool"},
			Brands:     []string{"Acme"},
			Sizes:      []string{"S", "M"},
			Color:      "Red",
			Gender:     "Men",
			MinPrice:   &minPrice,
			MaxPrice:   &maxPrice,
			Search:     "shirt",
			SortBy:     SortPriceAsc,
			Limit:      5,
		})

		assert.Contains(t, query, "collections = $1")
		assert.Contains(t, query, "category = $2")
		assert.Contains(t, query, "material = ANY($3)")
		assert.Contains(t, query, "brand = ANY($4)")
		assert.Contains(t, query, "sizes && $5")
		assert.Contains(t, query, "$6 = ANY(colors)")
		assert.Contains(t, query, "gender = $7")
		assert.Contains(t, query, "price >= $8")
		assert.Contains(t, query, "price <= $9")
		assert.Contains(t, query, "(name ILIKE $10 OR description ILIKE $10)")
		assert.Contains(t, query, "ORDER BY price ASC LIMIT $11")
		require.Len(t, args, 11)
		assert.Equal(t, "%shirt%", args[9])
		assert.Equal(t, 5, args[10])
	})

	t.Run("All collection and category are ignored", func(t *testing.T) {
		query, args := buildListQuery(Filter{Collection: "all", Category: "all"})

		assert.NotContains(t, query, "collections =")
		assert.NotContains(t, query, "category =")
		assert.Empty(t, args)
	})

	t.Run("Sort options", func(t *testing.T) {
		q, _ := buildListQuery(Filter{SortBy: SortPriceDesc})
		assert.Contains(t, q, "ORDER BY price DESC")

		q, _ = buildListQuery(Filter{SortBy: SortPopularity})
		assert.Contains(t, q, "ORDER BY rating DESC")

		q, _ = buildListQuery(Filter{SortBy: "bogus"})
		assert.Contains(t, q, "ORDER BY created_at DESC")
	})
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products WHERE 1=1 AND gender = \$1 ORDER BY created_at DESC`).
			WithArgs("Men").
			WillReturnRows(productRow(sqlmock.NewRows(productCols), id, "Shirt", 25))

		products, err := repo.List(context.Background(), Filter{Gender: "Men"})

		require.NoError(t, err)
		require.Len(t, products, 1)
		p := products[0]
		assert.Equal(t, id, p.ID)
		assert.Equal(t, []string{"S", "M"}, p.Sizes)
		assert.Equal(t, []string{"Red"}, p.Colors)
		assert.Equal(t, "https://img/1.jpg", p.PrimaryImage())
		assert.Nil(t, p.DiscountPrice)
		assert.Nil(t, p.UserID)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products`).
			WillReturnError(errors.New("db error"))

		_, err := repo.List(context.Background(), Filter{})

		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(productRow(sqlmock.NewRows(productCols), id, "Shirt", 25))

		p, err := repo.GetByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, "Shirt", p.Name)
		assert.Equal(t, 25.0, p.Price)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(productCols))

		_, err := repo.GetByID(context.Background(), id)

		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_BestSeller(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`ORDER BY rating DESC, num_reviews DESC LIMIT 1`).
			WillReturnRows(productRow(sqlmock.NewRows(productCols), uuid.New(), "Top", 30))

		p, err := repo.BestSeller(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "Top", p.Name)
	})

	t.Run("Empty catalog", func(t *testing.T) {
		mock.ExpectQuery(`ORDER BY rating DESC`).
			WillReturnRows(sqlmock.NewRows(productCols))

		_, err := repo.BestSeller(context.Background())

		assert.ErrorIs(t, err, ErrNoBestSeller)
	})
}

func TestRepository_Similar(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	src := &Product{ID: uuid.New(), Gender: "Men", Category: "Top Wear"}

	mock.ExpectQuery(`WHERE id <> \$1 AND gender = \$2 AND category = \$3`).
		WithArgs(src.ID, "Men", "Top Wear", 4).
		WillReturnRows(productRow(sqlmock.NewRows(productCols), uuid.New(), "Other", 20))

	products, err := repo.Similar(context.Background(), src, 4)

	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	creator := uuid.New()
	in := &Product{Name: "Shirt", SKU: "SKU-1", Price: 25, Sizes: []string{"S"}, UserID: &creator}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products (")).
			WithArgs("Shirt", "", 25.0, nil, 0, "SKU-1",
				"", "", pq.Array([]string{"S"}), pq.Array([]string(nil)), "", "", "", sqlmock.AnyArg(),
				false, false, pq.Array([]string(nil)), creator).
			WillReturnRows(productRow(sqlmock.NewRows(productCols), uuid.New(), "Shirt", 25))

		p, err := repo.Create(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, "Shirt", p.Name)
	})

	t.Run("DuplicateSKU", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products (")).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "products_sku_key"})

		_, err := repo.Create(context.Background(), in)

		assert.ErrorIs(t, err, ErrDuplicateSKU)
	})
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	p := &Product{ID: uuid.New(), Name: "Shirt", SKU: "SKU-1", Price: 30}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE products SET`).
			WillReturnRows(productRow(sqlmock.NewRows(productCols), p.ID, "Shirt", 30))

		out, err := repo.Update(context.Background(), p)

		require.NoError(t, err)
		assert.Equal(t, 30.0, out.Price)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE products SET`).
			WillReturnRows(sqlmock.NewRows(productCols))

		_, err := repo.Update(context.Background(), p)

		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), id), ErrProductNotFound)
	})
}
