package persistence

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gradguide/backend/internal/domain/identity"
	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/gradguide/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	t.Run("missing user is absent, not an error", func(t *testing.T) {
		user, err := repo.FindByID(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("finds an upserted user", func(t *testing.T) {
		seedUser(t, db, "u1")
		user, err := repo.FindByID(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "u1", user.ID)
	})
}

func TestGormUserRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts a new user", func(t *testing.T) {
		repo := NewGormUserRepository(setupTestDB(t))

		user, err := repo.Upsert(ctx, identity.UserCandidate{
			ID:        "u1",
			Email:     strPtr("jane@example.com"),
			FirstName: strPtr("Jane"),
		})
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "jane@example.com", *user.Email)
		assert.Equal(t, "Jane", *user.FirstName)
		assert.Nil(t, user.LastName)
		assert.False(t, user.CreatedAt.IsZero())
		assert.False(t, user.UpdatedAt.IsZero())
	})

	t.Run("is idempotent for identical candidates", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormUserRepository(db)
		candidate := identity.UserCandidate{ID: "u1", Email: strPtr("jane@example.com")}

		first, err := repo.Upsert(ctx, candidate)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		second, err := repo.Upsert(ctx, candidate)
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.UserModel{}).Where("id = ?", "u1").Count(&count).Error)
		assert.Equal(t, int64(1), count)
		assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
		assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	})

	t.Run("merges only supplied fields", func(t *testing.T) {
		repo := NewGormUserRepository(setupTestDB(t))

		_, err := repo.Upsert(ctx, identity.UserCandidate{
			ID:        "u1",
			Email:     strPtr("jane@example.com"),
			FirstName: strPtr("Jane"),
		})
		require.NoError(t, err)

		merged, err := repo.Upsert(ctx, identity.UserCandidate{ID: "u1", LastName: strPtr("Doe")})
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", *merged.Email)
		assert.Equal(t, "Jane", *merged.FirstName)
		assert.Equal(t, "Doe", *merged.LastName)

		stored, err := repo.FindByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Doe", *stored.LastName)
		assert.Equal(t, "Jane", *stored.FirstName)
	})

	t.Run("email stays unique across users", func(t *testing.T) {
		repo := NewGormUserRepository(setupTestDB(t))

		_, err := repo.Upsert(ctx, identity.UserCandidate{ID: "u1", Email: strPtr("same@example.com")})
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, identity.UserCandidate{ID: "u2", Email: strPtr("same@example.com")})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGormUserRepository_Upsert_SQL(t *testing.T) {
	t.Run("issues a single conditional insert", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "email", "first_name", "last_name", "profile_image_url", "created_at", "updated_at"}).
			AddRow("u1", "jane@example.com", nil, nil, nil, now.Add(-time.Hour), now)

		mock.ExpectQuery(`INSERT INTO "users" .+ ON CONFLICT \("id"\) DO UPDATE SET "email"="excluded"\."email","updated_at"="excluded"\."updated_at" RETURNING \*`).
			WillReturnRows(rows)

		user, err := repo.Upsert(context.Background(), identity.UserCandidate{ID: "u1", Email: strPtr("jane@example.com")})
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.True(t, user.CreatedAt.Before(user.UpdatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports an unreachable store", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		mock.ExpectQuery(`INSERT INTO "users"`).
			WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})

		_, err := repo.Upsert(context.Background(), identity.UserCandidate{ID: "u1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
