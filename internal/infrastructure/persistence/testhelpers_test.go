package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gradguide/backend/internal/domain/identity"
	"github.com/gradguide/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory sqlite database with foreign keys enforced
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t)
}

// newMockDB creates a GORM postgres connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	m := testutil.NewMockDB(t)
	return m.DB, m.Mock, m.SqlDB
}

func seedUser(t *testing.T, db *gorm.DB, id string) *identity.User {
	t.Helper()
	user, err := NewGormUserRepository(db).Upsert(context.Background(), identity.UserCandidate{ID: id})
	require.NoError(t, err)
	return user
}

func strPtr(s string) *string { return &s }
