package models

import (
	"time"

	"github.com/gradguide/backend/internal/domain/experience"
)

// SubmissionModel is the persistence model for experience.Submission
type SubmissionModel struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement"`
	UserID              string     `gorm:"type:varchar(255);not null;index:idx_submissions_user_created,priority:1"`
	User                *UserModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Company             string     `gorm:"type:varchar(255);not null;index"`
	Role                string     `gorm:"type:varchar(255);not null"`
	ExperienceType      *string    `gorm:"type:varchar(100)"`
	Theme               *string    `gorm:"type:varchar(100)"`
	ApplicationStages   *string    `gorm:"type:text"`
	InterviewExperience *string    `gorm:"type:text"`
	AssessmentCentre    *string    `gorm:"type:text"`
	ProgramStructure    *string    `gorm:"type:text"`
	SalaryBenefits      *string    `gorm:"type:text"`
	CultureEnvironment  *string    `gorm:"type:text"`
	HoursWorkload       *string    `gorm:"type:text"`
	PracticeAreas       *string    `gorm:"type:text"`
	GeneralExperience   *string    `gorm:"type:text"`
	ProTip              *string    `gorm:"type:text"`
	Advice              *string    `gorm:"type:text"`
	CreatedAt           time.Time  `gorm:"not null;index;index:idx_submissions_user_created,priority:2,sort:desc"`
}

// TableName returns the table name for GORM
func (SubmissionModel) TableName() string {
	return "submissions"
}

// SubmissionModelFromDomain converts a domain submission to the model
func SubmissionModelFromDomain(s *experience.Submission) *SubmissionModel {
	return &SubmissionModel{
		ID:                  s.ID,
		UserID:              s.UserID,
		Company:             s.Company,
		Role:                s.Role,
		ExperienceType:      s.ExperienceType,
		Theme:               s.Theme,
		ApplicationStages:   s.ApplicationStages,
		InterviewExperience: s.InterviewExperience,
		AssessmentCentre:    s.AssessmentCentre,
		ProgramStructure:    s.ProgramStructure,
		SalaryBenefits:      s.SalaryBenefits,
		CultureEnvironment:  s.CultureEnvironment,
		HoursWorkload:       s.HoursWorkload,
		PracticeAreas:       s.PracticeAreas,
		GeneralExperience:   s.GeneralExperience,
		ProTip:              s.ProTip,
		Advice:              s.Advice,
		CreatedAt:           s.CreatedAt,
	}
}

// ToDomain converts the model to a domain submission
func (m *SubmissionModel) ToDomain() *experience.Submission {
	return &experience.Submission{
		ID:             m.ID,
		UserID:         m.UserID,
		Company:        m.Company,
		Role:           m.Role,
		ExperienceType: m.ExperienceType,
		Theme:          m.Theme,
		Narrative: experience.Narrative{
			ApplicationStages:   m.ApplicationStages,
			InterviewExperience: m.InterviewExperience,
			AssessmentCentre:    m.AssessmentCentre,
			ProgramStructure:    m.ProgramStructure,
			SalaryBenefits:      m.SalaryBenefits,
			CultureEnvironment:  m.CultureEnvironment,
			HoursWorkload:       m.HoursWorkload,
			PracticeAreas:       m.PracticeAreas,
			GeneralExperience:   m.GeneralExperience,
			ProTip:              m.ProTip,
			Advice:              m.Advice,
		},
		CreatedAt: m.CreatedAt,
	}
}

// AllModels lists every model, in dependency order, for AutoMigrate in tests
func AllModels() []any {
	return []any{&UserModel{}, &ApplicationModel{}, &SubmissionModel{}}
}
