package postgres

import (
	"gorm.io/gorm"

	projectDatamodel "budgetbot/internal/core/datamodel/project"
	"budgetbot/internal/project"
)

// ProjectRepository implements the project.Repository interface using GORM.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.Repository {
	return &ProjectRepository{db: db}
}

// CreateAndActivate inserts the project and deactivates the user's other
// projects in one transaction.
func (r *ProjectRepository) CreateAndActivate(p *projectDatamodel.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&projectDatamodel.Project{}).
			Where("user_id = ? AND is_active = ?", p.UserID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		p.IsActive = true
		return tx.Create(p).Error
	})
}

func (r *ProjectRepository) ListByUser(userID int64) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	err := r.db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC, id DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) GetByID(id int64) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := r.db.First(&p, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) GetActive(userID int64) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := r.db.
		Where("user_id = ? AND is_active = ? AND is_deleted = ?", userID, true, false).
		First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Activate flips the active flag to the given project atomically.
func (r *ProjectRepository) Activate(userID, projectID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&projectDatamodel.Project{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&projectDatamodel.Project{}).
			Where("id = ?", projectID).
			Update("is_active", true).Error
	})
}

// SoftDelete marks the project deleted and inactive; the row is kept so
// recorded expenses stay attributable.
func (r *ProjectRepository) SoftDelete(projectID int64) error {
	return r.db.Model(&projectDatamodel.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error
}
