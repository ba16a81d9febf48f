// Package tracker holds a user's private record of job applications.
package tracker

import (
	"strings"
	"time"

	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Defaults applied when an application is created without them
const (
	DefaultStatus   = "Applied"
	DefaultPriority = "Medium"
)

const (
	maxCompanyLength = 255
	maxRoleLength    = 255
)

var maxWAM = decimal.NewFromInt(100)

// Application is one job application owned by exactly one user
type Application struct {
	ID              int64
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
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewApplication builds a validated application for userID, filling the
// status and priority defaults.
func NewApplication(userID, company, role string) (*Application, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Application owner is required")
	}
	company, err := requiredText("company", company, maxCompanyLength)
	if err != nil {
		return nil, err
	}
	role, err = requiredText("role", role, maxRoleLength)
	if err != nil {
		return nil, err
	}
	return &Application{
		UserID:   userID,
		Company:  company,
		Role:     role,
		Status:   DefaultStatus,
		Priority: DefaultPriority,
	}, nil
}

// SetStatus sets the status, falling back to the default for blank input
func (a *Application) SetStatus(status string) {
	status = strings.TrimSpace(status)
	if status == "" {
		status = DefaultStatus
	}
	a.Status = status
}

// SetPriority sets the priority, falling back to the default for blank input
func (a *Application) SetPriority(priority string) {
	priority = strings.TrimSpace(priority)
	if priority == "" {
		priority = DefaultPriority
	}
	a.Priority = priority
}

// SetWAM validates and stores the academic score
func (a *Application) SetWAM(wam *string) error {
	normalized, err := normalizeWAM(wam)
	if err != nil {
		return err
	}
	a.WAM = normalized
	return nil
}

// IsOwnedBy reports whether userID owns the application
func (a *Application) IsOwnedBy(userID string) bool {
	return a.UserID == userID
}

// ApplicationPatch lists the fields of a partial update. A nil field is not
// supplied and leaves the stored value untouched. A blank WAM or a zero
// date clears the stored value.
type ApplicationPatch struct {
	Company         *string
	Role            *string
	ApplicationDate *time.Time
	University      *string
	WAM             *string
	Status          *string
	ResponseDate    *time.Time
	Priority        *string
	Notes           *string
}

// IsEmpty reports whether the patch supplies no field at all
func (p *ApplicationPatch) IsEmpty() bool {
	return p.Company == nil && p.Role == nil && p.ApplicationDate == nil &&
		p.University == nil && p.WAM == nil && p.Status == nil &&
		p.ResponseDate == nil && p.Priority == nil && p.Notes == nil
}

// Validate normalizes supplied fields and rejects blanks for required ones
func (p *ApplicationPatch) Validate() error {
	if p.Company != nil {
		v, err := requiredText("company", *p.Company, maxCompanyLength)
		if err != nil {
			return err
		}
		p.Company = &v
	}
	if p.Role != nil {
		v, err := requiredText("role", *p.Role, maxRoleLength)
		if err != nil {
			return err
		}
		p.Role = &v
	}
	if p.Status != nil {
		v, err := requiredText("status", *p.Status, 50)
		if err != nil {
			return err
		}
		p.Status = &v
	}
	if p.Priority != nil {
		v, err := requiredText("priority", *p.Priority, 50)
		if err != nil {
			return err
		}
		p.Priority = &v
	}
	if p.WAM != nil {
		wam, err := normalizeWAM(p.WAM)
		if err != nil {
			return err
		}
		if wam == nil {
			empty := ""
			wam = &empty
		}
		p.WAM = wam
	}
	return nil
}

func requiredText(field, value string, maxLen int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", shared.NewDomainError(shared.CodeInvalidInput, field+" is required")
	}
	if len(value) > maxLen {
		return "", shared.NewDomainError(shared.CodeInvalidInput, field+" is too long")
	}
	return value, nil
}

// normalizeWAM accepts a blank or a number in [0, 100]
func normalizeWAM(wam *string) (*string, error) {
	if wam == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*wam)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_WAM", "WAM must be a number")
	}
	if d.IsNegative() || d.GreaterThan(maxWAM) {
		return nil, shared.NewDomainError("INVALID_WAM", "WAM must be between 0 and 100")
	}
	return &v, nil
}
