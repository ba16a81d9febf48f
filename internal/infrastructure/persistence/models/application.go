package models

import (
	"time"

	"github.com/gradguide/backend/internal/domain/tracker"
	"gorm.io/datatypes"
)

// ApplicationModel is the persistence model for tracker.Application
type ApplicationModel struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	UserID          string          `gorm:"type:varchar(255);not null;index"`
	User            *UserModel      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Company         string          `gorm:"type:varchar(255);not null"`
	Role            string          `gorm:"type:varchar(255);not null"`
	ApplicationDate *datatypes.Date `gorm:"type:date"`
	University      *string         `gorm:"type:varchar(255)"`
	WAM             *string         `gorm:"column:wam;type:varchar(20)"`
	Status          string          `gorm:"type:varchar(50);not null;default:Applied"`
	ResponseDate    *datatypes.Date `gorm:"type:date"`
	Priority        string          `gorm:"type:varchar(50);not null;default:Medium"`
	Notes           *string         `gorm:"type:text"`
	TimestampModel
}

// TableName returns the table name for GORM
func (ApplicationModel) TableName() string {
	return "applications"
}

// ApplicationModelFromDomain converts a domain application to the model
func ApplicationModelFromDomain(a *tracker.Application) *ApplicationModel {
	return &ApplicationModel{
		ID:              a.ID,
		UserID:          a.UserID,
		Company:         a.Company,
		Role:            a.Role,
		ApplicationDate: toDate(a.ApplicationDate),
		University:      a.University,
		WAM:             a.WAM,
		Status:          a.Status,
		ResponseDate:    toDate(a.ResponseDate),
		Priority:        a.Priority,
		Notes:           a.Notes,
		TimestampModel: TimestampModel{
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		},
	}
}

// ToDomain converts the model to a domain application
func (m *ApplicationModel) ToDomain() *tracker.Application {
	return &tracker.Application{
		ID:              m.ID,
		UserID:          m.UserID,
		Company:         m.Company,
		Role:            m.Role,
		ApplicationDate: fromDate(m.ApplicationDate),
		University:      m.University,
		WAM:             m.WAM,
		Status:          m.Status,
		ResponseDate:    fromDate(m.ResponseDate),
		Priority:        m.Priority,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ApplicationPatchColumns converts a patch into the column map of an UPDATE.
// A supplied blank WAM clears the column.
func ApplicationPatchColumns(p tracker.ApplicationPatch) map[string]any {
	cols := make(map[string]any)
	if p.Company != nil {
		cols["company"] = *p.Company
	}
	if p.Role != nil {
		cols["role"] = *p.Role
	}
	if p.ApplicationDate != nil {
		cols["application_date"] = patchDate(p.ApplicationDate)
	}
	if p.University != nil {
		cols["university"] = *p.University
	}
	if p.WAM != nil {
		if *p.WAM == "" {
			cols["wam"] = nil
		} else {
			cols["wam"] = *p.WAM
		}
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.ResponseDate != nil {
		cols["response_date"] = patchDate(p.ResponseDate)
	}
	if p.Priority != nil {
		cols["priority"] = *p.Priority
	}
	if p.Notes != nil {
		cols["notes"] = *p.Notes
	}
	return cols
}

// patchDate maps the zero time to NULL
func patchDate(t *time.Time) any {
	if t.IsZero() {
		return nil
	}
	return *toDate(t)
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}

func fromDate(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	y, m, day := time.Time(*d).Date()
	t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return &t
}
