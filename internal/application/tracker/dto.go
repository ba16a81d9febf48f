package tracker

import (
	"time"

	"github.com/gradguide/backend/internal/domain/tracker"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ApplicationDTO is the owner's view of a tracked application
type ApplicationDTO struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	Company         string    `json:"company"`
	Role            string    `json:"role"`
	ApplicationDate *string   `json:"application_date"`
	University      *string   `json:"university"`
	WAM             *string   `json:"wam"`
	Status          string    `json:"status"`
	ResponseDate    *string   `json:"response_date"`
	Priority        string    `json:"priority"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateApplicationInput carries the fields of a new application.
// Blank status and priority take the defaults.
type CreateApplicationInput struct {
	UserID          string
	Company         string
	Role            string
	ApplicationDate *time.Time
	University      *string
	WAM             *string
	Status          string
	ResponseDate    *time.Time
	Priority        string
	Notes           *string
}

// ToApplicationDTO converts a domain application
func ToApplicationDTO(a *tracker.Application) *ApplicationDTO {
	return &ApplicationDTO{
		ID:              a.ID,
		UserID:          a.UserID,
		Company:         a.Company,
		Role:            a.Role,
		ApplicationDate: formatDate(a.ApplicationDate),
		University:      a.University,
		WAM:             a.WAM,
		Status:          a.Status,
		ResponseDate:    formatDate(a.ResponseDate),
		Priority:        a.Priority,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// ToApplicationDTOs converts a list, returning an empty slice for none
func ToApplicationDTOs(apps []tracker.Application) []ApplicationDTO {
	out := make([]ApplicationDTO, 0, len(apps))
	for i := range apps {
		out = append(out, *ToApplicationDTO(&apps[i]))
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
