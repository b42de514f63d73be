package project

import (
	"time"

	projectDatamodel "budgetbot/internal/core/datamodel/project"
)

// Project is a named budgeting context (a trip, a renovation, a month).
// At most one project per user is active at any time; expenses always
// land in the active one.
type Project struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	BaseCurrency string    `json:"base_currency"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromDataModel(dm *projectDatamodel.Project) *Project {
	return &Project{
		ID:           dm.ID,
		UserID:       dm.UserID,
		Name:         dm.Name,
		BaseCurrency: dm.BaseCurrency,
		IsActive:     dm.IsActive,
		CreatedAt:    dm.CreatedAt,
	}
}
