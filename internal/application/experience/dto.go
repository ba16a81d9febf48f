package experience

import (
	"time"

	"github.com/gradguide/backend/internal/domain/experience"
)

// SubmissionDTO is the public view of an experience report
type SubmissionDTO struct {
	ID                  int64     `json:"id"`
	UserID              string    `json:"user_id"`
	Company             string    `json:"company"`
	Role                string    `json:"role"`
	ExperienceType      *string   `json:"experience_type"`
	Theme               *string   `json:"theme"`
	ApplicationStages   *string   `json:"application_stages"`
	InterviewExperience *string   `json:"interview_experience"`
	AssessmentCentre    *string   `json:"assessment_centre"`
	ProgramStructure    *string   `json:"program_structure"`
	SalaryBenefits      *string   `json:"salary_benefits"`
	CultureEnvironment  *string   `json:"culture_environment"`
	HoursWorkload       *string   `json:"hours_workload"`
	PracticeAreas       *string   `json:"practice_areas"`
	GeneralExperience   *string   `json:"general_experience"`
	ProTip              *string   `json:"pro_tip"`
	Advice              *string   `json:"advice"`
	CreatedAt           time.Time `json:"created_at"`
}

// CompanySummaryDTO aggregates the reports about one company
type CompanySummaryDTO struct {
	Name             string   `json:"name"`
	TotalSubmissions int      `json:"total_submissions"`
	AvgSalary        *int64   `json:"avg_salary"`
	RecentRoles      []string `json:"recent_roles"`
}

// CompanyDetailDTO is one company's summary and its reports.
// Company is nil when nobody has written about it yet.
type CompanyDetailDTO struct {
	Company     *CompanySummaryDTO `json:"company"`
	Experiences []SubmissionDTO    `json:"experiences"`
}

// SubmitInput carries a new report. IdempotencyKey is optional.
type SubmitInput struct {
	UserID         string
	Company        string
	Role           string
	ExperienceType *string
	Theme          *string
	Narrative      experience.Narrative
	IdempotencyKey string
}

// ToSubmissionDTO converts a domain submission to its DTO
func ToSubmissionDTO(s *experience.Submission) *SubmissionDTO {
	return &SubmissionDTO{
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

// ToSubmissionDTOs converts a list of submissions. The result is never nil.
func ToSubmissionDTOs(subs []experience.Submission) []SubmissionDTO {
	out := make([]SubmissionDTO, 0, len(subs))
	for i := range subs {
		out = append(out, *ToSubmissionDTO(&subs[i]))
	}
	return out
}

// ToCompanySummaryDTO converts a company summary to its DTO
func ToCompanySummaryDTO(s *experience.CompanySummary) *CompanySummaryDTO {
	roles := s.RecentRoles
	if roles == nil {
		roles = []string{}
	}
	return &CompanySummaryDTO{
		Name:             s.Name,
		TotalSubmissions: s.TotalSubmissions,
		AvgSalary:        s.AvgSalary,
		RecentRoles:      roles,
	}
}

// ToCompanySummaryDTOs converts a list of summaries. The result is never nil.
func ToCompanySummaryDTOs(summaries []experience.CompanySummary) []CompanySummaryDTO {
	out := make([]CompanySummaryDTO, 0, len(summaries))
	for i := range summaries {
		out = append(out, *ToCompanySummaryDTO(&summaries[i]))
	}
	return out
}
