package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/gradguide/backend/internal/domain/identity"
	"github.com/gradguide/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Upsert inserts the user or merges the supplied fields into the existing row.
// It is a single INSERT ... ON CONFLICT (id) DO UPDATE ... RETURNING statement.
func (r *GormUserRepository) Upsert(ctx context.Context, candidate identity.UserCandidate) (*identity.User, error) {
	model := models.UserModelFromCandidate(candidate)
	now := time.Now()
	model.CreatedAt = now
	model.UpdatedAt = now

	columns := append(models.SuppliedUserColumns(candidate), "updated_at")
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns(columns),
			},
			clause.Returning{},
		).
		Create(model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
