package repository

import (
	"github.com/crewcard/crewcard-api/internal/models"
	"gorm.io/gorm"
)

// GormMenuRepository is a GORM implementation of MenuRepository
type GormMenuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new MenuRepository
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &GormMenuRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormMenuRepository) WithTx(tx *gorm.DB) MenuRepository {
	return &GormMenuRepository{db: tx}
}

// FindRoutine finds a crew's self-care routine by milestone type
func (r *GormMenuRepository) FindRoutine(crewID uint64, milestoneType string) (*models.SelfCareRoutine, error) {
	var routine models.SelfCareRoutine
	err := r.db.
		Where("crew_id = ? AND milestone_type = ? AND is_active = ?", crewID, milestoneType, true).
		First(&routine).Error
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

// ListActiveRoutines lists a crew's active self-care routines
func (r *GormMenuRepository) ListActiveRoutines(crewID uint64) ([]models.SelfCareRoutine, error) {
	var routines []models.SelfCareRoutine
	err := r.db.Where("crew_id = ? AND is_active = ?", crewID, true).
		Order("point_value DESC").
		Find(&routines).Error
	if err != nil {
		return nil, err
	}
	return routines, nil
}

// ListActiveTemplates lists a crew's active task menu templates
func (r *GormMenuRepository) ListActiveTemplates(crewID uint64) ([]models.TaskMenuTemplate, error) {
	var templates []models.TaskMenuTemplate
	err := r.db.Where("crew_id = ? AND is_active = ?", crewID, true).
		Order("category ASC, default_points ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}
