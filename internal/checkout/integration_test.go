//go:build integration

package checkout_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront-be/internal/checkout"
	"storefront-be/internal/order"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	files, err := filepath.Glob(filepath.Join("..", "..", "migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	slices.Sort(files)
	for _, f := range files {
		content, err := os.ReadFile(f)
		require.NoError(t, err)
		up, _, _ := strings.Cut(string(content), "-- +migrate Down")
		_, err = db.ExecContext(ctx, up)
		require.NoError(t, err, f)
	}
	return db
}

func seedCustomer(t *testing.T, db *sql.DB) (uuid.UUID, context.Context) {
	t.Helper()
	var id uuid.UUID
	email := uuid.NewString() + "@example.com"
	err := db.QueryRow(
		`INSERT INTO users (name, email, password, role) VALUES ('Alice', $1, 'hash', 'customer') RETURNING id`,
		email,
	).Scan(&id)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO carts (user_id, products, total_price) VALUES ($1, '[]', 0)`, id)
	require.NoError(t, err)

	return id, utils.SetUserContext(context.Background(), id, email, utils.RoleCustomer)
}

func paidCheckout(t *testing.T, ctx context.Context, svc checkout.Service, userID uuid.UUID) *checkout.Checkout {
	t.Helper()
	c, err := svc.Create(ctx, userID, checkout.CreateInput{
		CheckoutItems: order.Items{{ProductID: uuid.New(), Name: "Tee", Price: 10, Quantity: 2}},
		ShippingAddress: order.ShippingAddress{
			Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US",
		},
		PaymentMethod: "PayPal",
		TotalPrice:    20,
	})
	require.NoError(t, err)

	c, err = svc.MarkPaid(ctx, c.ID, checkout.PayInput{
		PaymentStatus:  "paid",
		PaymentDetails: []byte(`{"id":"PAY-1"}`),
	})
	require.NoError(t, err)
	return c
}

func TestFinalize_Postgres(t *testing.T) {
	db := setupTestDB(t)
	svc := checkout.NewService(checkout.NewRepository(db), nil, nil)
	orders := order.NewService(order.NewRepository(db), nil, nil, order.Options{})

	t.Run("Creates order and clears cart", func(t *testing.T) {
		userID, ctx := seedCustomer(t, db)
		c := paidCheckout(t, ctx, svc, userID)

		o, err := svc.Finalize(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, o.CheckoutID)
		assert.True(t, o.IsPaid)
		assert.Equal(t, order.StatusProcessing, o.Status)

		stored, err := orders.Get(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", stored.User.Name)
		assert.Equal(t, 20.0, stored.TotalPrice)
		require.Len(t, stored.OrderItems, 1)

		var carts int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM carts WHERE user_id = $1`, userID).Scan(&carts))
		assert.Zero(t, carts)

		_, err = svc.Finalize(ctx, c.ID)
		assert.ErrorIs(t, err, checkout.ErrAlreadyFinalized)
	})

	t.Run("Concurrent finalize yields one order", func(t *testing.T) {
		userID, ctx := seedCustomer(t, db)
		c := paidCheckout(t, ctx, svc, userID)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.Finalize(ctx, c.ID); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, succeeded)
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders WHERE checkout_id = $1`, c.ID).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("Unpaid checkout", func(t *testing.T) {
		userID, ctx := seedCustomer(t, db)
		c, err := svc.Create(ctx, userID, checkout.CreateInput{
			CheckoutItems: order.Items{{ProductID: uuid.New(), Name: "Tee", Price: 10, Quantity: 1}},
			TotalPrice:    10,
		})
		require.NoError(t, err)

		_, err = svc.Finalize(ctx, c.ID)
		assert.ErrorIs(t, err, checkout.ErrNotPaid)
	})
}
