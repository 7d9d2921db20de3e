package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{"id", "name", "email", "password", "role", "created_at", "updated_at"}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()
	id := uuid.New()

	in := &User{Name: "John", Email: "john@example.com", Password: "hashed", Role: RoleCustomer}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users \(name, email, password, role\)`).
			WithArgs("John", "john@example.com", "hashed", RoleCustomer).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(id.String(), "John", "john@example.com", "hashed", RoleCustomer, now, now))

		u, err := repo.Create(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, id, u.ID)
		assert.Equal(t, "john@example.com", u.Email)
		assert.Equal(t, RoleCustomer, u.Role)
	})

	t.Run("Duplicate", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		_, err := repo.Create(ctx, in)

		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(errors.New("db error"))

		_, err := repo.Create(ctx, in)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUserExists)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	email := "john@example.com"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE email = \$1`).
			WithArgs(email).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(uuid.NewString(), "John", email, "hashed", RoleAdmin, time.Now(), time.Now()))

		u, err := repo.FindByEmail(ctx, email)

		assert.NoError(t, err)
		assert.Equal(t, email, u.Email)
		assert.True(t, u.IsAdmin())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email`).
			WithArgs(email).
			WillReturnRows(sqlmock.NewRows(userCols))

		u, err := repo.FindByEmail(ctx, email)

		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, u)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE email`).
			WithArgs(email).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.FindByEmail(ctx, email)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(id.String(), "John", "john@example.com", "hashed", RoleCustomer, time.Now(), time.Now()))

		u, err := repo.FindByID(context.Background(), id)

		assert.NoError(t, err)
		assert.Equal(t, id, u.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userCols))

		_, err := repo.FindByID(context.Background(), id)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(uuid.NewString(), "A", "a@example.com", "h", RoleCustomer, time.Now(), time.Now()).
				AddRow(uuid.NewString(), "B", "b@example.com", "h", RoleAdmin, time.Now(), time.Now()))

		users, err := repo.List(context.Background())

		assert.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users`).
			WillReturnRows(sqlmock.NewRows(userCols))

		users, err := repo.List(context.Background())

		assert.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()
	role := RoleAdmin

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE users SET`).
			WithArgs(id, nil, nil, role).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(id.String(), "John", "john@example.com", "h", RoleAdmin, time.Now(), time.Now()))

		u, err := repo.Update(context.Background(), id, UpdateParams{Role: &role})

		assert.NoError(t, err)
		assert.Equal(t, RoleAdmin, u.Role)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE users SET`).
			WillReturnRows(sqlmock.NewRows(userCols))

		_, err := repo.Update(context.Background(), id, UpdateParams{Role: &role})

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE users SET`).
			WillReturnError(&pq.Error{Code: "23505"})

		email := "taken@example.com"
		_, err := repo.Update(context.Background(), id, UpdateParams{Email: &email})

		assert.ErrorIs(t, err, ErrUserExists)
	})
}

func TestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), id), ErrUserNotFound)
	})
}
