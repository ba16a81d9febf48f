package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/gradguide/backend/internal/domain/tracker"
	"github.com/gradguide/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormApplicationRepository implements tracker.ApplicationRepository using GORM.
// Every mutation filters on both id and user_id.
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewGormApplicationRepository creates a new GormApplicationRepository
func NewGormApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// FindByUser returns the user's applications, newest first
func (r *GormApplicationRepository) FindByUser(ctx context.Context, userID string) ([]tracker.Application, error) {
	var rows []models.ApplicationModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	apps := make([]tracker.Application, 0, len(rows))
	for i := range rows {
		apps = append(apps, *rows[i].ToDomain())
	}
	return apps, nil
}

// Create inserts the application and returns the persisted row
func (r *GormApplicationRepository) Create(ctx context.Context, app *tracker.Application) (*tracker.Application, error) {
	model := models.ApplicationModelFromDomain(app)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Update merges the patch into the row owned by userID in one transaction
func (r *GormApplicationRepository) Update(ctx context.Context, id int64, userID string, patch tracker.ApplicationPatch) (*tracker.Application, error) {
	changes := models.ApplicationPatchColumns(patch)
	changes["updated_at"] = time.Now()

	var model models.ApplicationModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ApplicationModel{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(changes)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Application not found")
		}
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Delete removes the row matching id and userID and reports whether one was removed
func (r *GormApplicationRepository) Delete(ctx context.Context, id int64, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.ApplicationModel{})
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

var _ tracker.ApplicationRepository = (*GormApplicationRepository)(nil)
