package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/gradguide/backend/internal/domain/experience"
	"github.com/gradguide/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormSubmissionRepository implements experience.SubmissionRepository using GORM
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewGormSubmissionRepository creates a new GormSubmissionRepository
func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// Create inserts the submission and returns the persisted row
func (r *GormSubmissionRepository) Create(ctx context.Context, sub *experience.Submission) (*experience.Submission, error) {
	model := models.SubmissionModelFromDomain(sub)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByID finds a submission by ID
func (r *GormSubmissionRepository) FindByID(ctx context.Context, id int64) (*experience.Submission, error) {
	var model models.SubmissionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUser returns the user's submissions, newest first
func (r *GormSubmissionRepository) FindByUser(ctx context.Context, userID string) ([]experience.Submission, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// FindAll returns every submission, newest first
func (r *GormSubmissionRepository) FindAll(ctx context.Context) ([]experience.Submission, error) {
	return r.find(r.db.WithContext(ctx))
}

// Search returns the submissions matching the filter, newest first
func (r *GormSubmissionRepository) Search(ctx context.Context, filter experience.Filter) ([]experience.Submission, error) {
	filter = filter.Normalized()
	query := r.db.WithContext(ctx)
	if filter.Company != "" {
		query = query.Where("LOWER(company) = LOWER(?)", filter.Company)
	}
	if filter.Theme != "" {
		query = query.Where("theme = ?", filter.Theme)
	}
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Search)) + "%"
		query = query.Where(
			`(LOWER(company) LIKE ? ESCAPE '\' OR LOWER(role) LIKE ? ESCAPE '\' OR LOWER(COALESCE(general_experience, '')) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
	return r.find(query)
}

func (r *GormSubmissionRepository) find(query *gorm.DB) ([]experience.Submission, error) {
	var rows []models.SubmissionModel
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	subs := make([]experience.Submission, 0, len(rows))
	for i := range rows {
		subs = append(subs, *rows[i].ToDomain())
	}
	return subs, nil
}

var _ experience.SubmissionRepository = (*GormSubmissionRepository)(nil)
