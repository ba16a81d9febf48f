package dto

import (
	"time"

	apptracker "github.com/gradguide/backend/internal/application/tracker"
	"github.com/gradguide/backend/internal/domain/tracker"
)

// CreateApplicationRequest is the body of POST /api/applications
type CreateApplicationRequest struct {
	Company         string  `json:"company" binding:"required,max=255"`
	Role            string  `json:"role" binding:"required,max=255"`
	ApplicationDate *string `json:"application_date" binding:"omitempty,datetime=2006-01-02"`
	University      *string `json:"university" binding:"omitempty,max=255"`
	WAM             *string `json:"wam" binding:"omitempty,max=10"`
	Status          string  `json:"status" binding:"omitempty,max=50"`
	ResponseDate    *string `json:"response_date" binding:"omitempty,datetime=2006-01-02"`
	Priority        string  `json:"priority" binding:"omitempty,max=50"`
	Notes           *string `json:"notes"`
}

// ToInput converts the request for the tracker service
func (r *CreateApplicationRequest) ToInput(userID string) apptracker.CreateApplicationInput {
	return apptracker.CreateApplicationInput{
		UserID:          userID,
		Company:         r.Company,
		Role:            r.Role,
		ApplicationDate: parseDate(r.ApplicationDate),
		University:      r.University,
		WAM:             r.WAM,
		Status:          r.Status,
		ResponseDate:    parseDate(r.ResponseDate),
		Priority:        r.Priority,
		Notes:           r.Notes,
	}
}

// UpdateApplicationRequest is the body of PUT /api/applications/{id}.
// Omitted or null fields keep their stored value; an empty wam or date
// clears it.
type UpdateApplicationRequest struct {
	Company         *string `json:"company" binding:"omitempty,max=255"`
	Role            *string `json:"role" binding:"omitempty,max=255"`
	ApplicationDate *string `json:"application_date" binding:"omitempty,datetime=2006-01-02"`
	University      *string `json:"university" binding:"omitempty,max=255"`
	WAM             *string `json:"wam" binding:"omitempty,max=10"`
	Status          *string `json:"status" binding:"omitempty,max=50"`
	ResponseDate    *string `json:"response_date" binding:"omitempty,datetime=2006-01-02"`
	Priority        *string `json:"priority" binding:"omitempty,max=50"`
	Notes           *string `json:"notes"`
}

// ToPatch converts the request into a partial update
func (r *UpdateApplicationRequest) ToPatch() tracker.ApplicationPatch {
	return tracker.ApplicationPatch{
		Company:         r.Company,
		Role:            r.Role,
		ApplicationDate: patchDate(r.ApplicationDate),
		University:      r.University,
		WAM:             r.WAM,
		Status:          r.Status,
		ResponseDate:    patchDate(r.ResponseDate),
		Priority:        r.Priority,
		Notes:           r.Notes,
	}
}

// ApplicationIDRequest binds the {id} path parameter
type ApplicationIDRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// parseDate expects a value already checked by the datetime binding
func parseDate(v *string) *time.Time {
	if v == nil || *v == "" {
		return nil
	}
	t, err := time.Parse(apptracker.DateLayout, *v)
	if err != nil {
		return nil
	}
	return &t
}

// patchDate is parseDate for updates: a supplied blank becomes the zero time,
// which clears the column
func patchDate(v *string) *time.Time {
	if v != nil && *v == "" {
		return &time.Time{}
	}
	return parseDate(v)
}
