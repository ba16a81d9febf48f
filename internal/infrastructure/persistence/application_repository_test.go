package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/gradguide/backend/internal/domain/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApplication(t *testing.T, userID, company, role string) *tracker.Application {
	t.Helper()
	app, err := tracker.NewApplication(userID, company, role)
	require.NoError(t, err)
	return app
}

func TestGormApplicationRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the persisted row with defaults", func(t *testing.T) {
		db := setupTestDB(t)
		seedUser(t, db, "u1")
		repo := NewGormApplicationRepository(db)

		applied := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		app := newApplication(t, "u1", "Acme", "Grad")
		app.ApplicationDate = &applied
		app.University = strPtr("UNSW")
		require.NoError(t, app.SetWAM(strPtr("81")))

		saved, err := repo.Create(ctx, app)
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)
		assert.Equal(t, "u1", saved.UserID)
		assert.Equal(t, "Acme", saved.Company)
		assert.Equal(t, "Grad", saved.Role)
		assert.Equal(t, tracker.DefaultStatus, saved.Status)
		assert.Equal(t, tracker.DefaultPriority, saved.Priority)
		assert.False(t, saved.CreatedAt.IsZero())
		assert.False(t, saved.UpdatedAt.IsZero())

		list, err := repo.FindByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, saved.ID, list[0].ID)
		require.NotNil(t, list[0].ApplicationDate)
		assert.Equal(t, "2024-03-01", list[0].ApplicationDate.Format("2006-01-02"))
		assert.Equal(t, "UNSW", *list[0].University)
		assert.Equal(t, "81", *list[0].WAM)
		assert.Nil(t, list[0].ResponseDate)
	})

	t.Run("unknown owner violates the foreign key", func(t *testing.T) {
		repo := NewGormApplicationRepository(setupTestDB(t))

		_, err := repo.Create(ctx, newApplication(t, "ghost", "Acme", "Grad"))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrConstraintViolation)
	})
}

func TestGormApplicationRepository_FindByUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")
	repo := NewGormApplicationRepository(db)

	for _, company := range []string{"First", "Second", "Third"} {
		_, err := repo.Create(ctx, newApplication(t, "u1", company, "Grad"))
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}
	_, err := repo.Create(ctx, newApplication(t, "u2", "Other", "Grad"))
	require.NoError(t, err)

	t.Run("newest first and owner only", func(t *testing.T) {
		list, err := repo.FindByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "Third", list[0].Company)
		assert.Equal(t, "First", list[2].Company)
		for i := 1; i < len(list); i++ {
			assert.False(t, list[i-1].CreatedAt.Before(list[i].CreatedAt))
		}
	})

	t.Run("empty and not nil for a user without applications", func(t *testing.T) {
		list, err := repo.FindByUser(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}

func TestGormApplicationRepository_Update(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*GormApplicationRepository, *tracker.Application) {
		db := setupTestDB(t)
		seedUser(t, db, "u1")
		seedUser(t, db, "u2")
		repo := NewGormApplicationRepository(db)
		app := newApplication(t, "u1", "Acme", "Grad")
		app.Notes = strPtr("first round")
		saved, err := repo.Create(ctx, app)
		require.NoError(t, err)
		return repo, saved
	}

	t.Run("merges supplied fields only", func(t *testing.T) {
		repo, saved := setup(t)
		time.Sleep(2 * time.Millisecond)

		updated, err := repo.Update(ctx, saved.ID, "u1", tracker.ApplicationPatch{Status: strPtr("Offer")})
		require.NoError(t, err)
		assert.Equal(t, "Offer", updated.Status)
		assert.Equal(t, "Acme", updated.Company)
		assert.Equal(t, "Grad", updated.Role)
		assert.Equal(t, tracker.DefaultPriority, updated.Priority)
		assert.Equal(t, "first round", *updated.Notes)
		assert.True(t, updated.UpdatedAt.After(saved.UpdatedAt))
		assert.True(t, updated.CreatedAt.Equal(saved.CreatedAt))
	})

	t.Run("blank wam clears the column", func(t *testing.T) {
		repo, saved := setup(t)
		_, err := repo.Update(ctx, saved.ID, "u1", tracker.ApplicationPatch{WAM: strPtr("75")})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, saved.ID, "u1", tracker.ApplicationPatch{WAM: strPtr("")})
		require.NoError(t, err)
		assert.Nil(t, updated.WAM)
	})

	t.Run("zero date clears the column", func(t *testing.T) {
		repo, saved := setup(t)
		applied := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
		heard := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		_, err := repo.Update(ctx, saved.ID, "u1", tracker.ApplicationPatch{ApplicationDate: &applied, ResponseDate: &heard})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, saved.ID, "u1", tracker.ApplicationPatch{ResponseDate: &time.Time{}})
		require.NoError(t, err)
		assert.Nil(t, updated.ResponseDate)
		require.NotNil(t, updated.ApplicationDate)
		assert.Equal(t, "2025-03-14", updated.ApplicationDate.Format("2006-01-02"))
	})

	t.Run("another user's row is not found and left untouched", func(t *testing.T) {
		repo, saved := setup(t)

		_, err := repo.Update(ctx, saved.ID, "u2", tracker.ApplicationPatch{Status: strPtr("Rejected")})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		list, err := repo.FindByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, tracker.DefaultStatus, list[0].Status)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		repo, _ := setup(t)
		_, err := repo.Update(ctx, 9999, "u1", tracker.ApplicationPatch{Status: strPtr("Offer")})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormApplicationRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")
	repo := NewGormApplicationRepository(db)

	saved, err := repo.Create(ctx, newApplication(t, "u1", "Acme", "Grad"))
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, saved.ID, "u2")
	require.NoError(t, err)
	assert.False(t, removed, "non-owner must not remove the row")

	list, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	removed, err = repo.Delete(ctx, saved.ID, "u1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, saved.ID, "u1")
	require.NoError(t, err)
	assert.False(t, removed, "a second delete affects no row")

	list, err = repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGormApplicationRepository_Delete_SQL(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormApplicationRepository(db)

	mock.ExpectExec(`DELETE FROM "applications" WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(7), "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.Delete(context.Background(), 7, "u2")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")
	repo := NewGormApplicationRepository(db)

	created, err := repo.Create(ctx, newApplication(t, "u1", "Acme", "Grad"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Applied", created.Status)
	assert.Equal(t, "Medium", created.Priority)
	assert.False(t, created.CreatedAt.IsZero())

	time.Sleep(2 * time.Millisecond)
	updated, err := repo.Update(ctx, created.ID, "u1", tracker.ApplicationPatch{Status: strPtr("Offer")})
	require.NoError(t, err)
	assert.Equal(t, "Offer", updated.Status)
	assert.Equal(t, created.Company, updated.Company)
	assert.Equal(t, created.Role, updated.Role)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	removed, err := repo.Delete(ctx, created.ID, "u2")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = repo.Delete(ctx, created.ID, "u1")
	require.NoError(t, err)
	assert.True(t, removed)

	list, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	for _, a := range list {
		assert.NotEqual(t, created.ID, a.ID)
	}
}
