package repository

import (
	"github.com/crewcard/crewcard-api/internal/models"
	"gorm.io/gorm"
)

// GormMilestoneRepository is a GORM implementation of MilestoneRepository
type GormMilestoneRepository struct {
	db *gorm.DB
}

// NewMilestoneRepository creates a new MilestoneRepository
func NewMilestoneRepository(db *gorm.DB) MilestoneRepository {
	return &GormMilestoneRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormMilestoneRepository) WithTx(tx *gorm.DB) MilestoneRepository {
	return &GormMilestoneRepository{db: tx}
}

// Create appends a milestone row
func (r *GormMilestoneRepository) Create(milestone *models.Milestone) error {
	return r.db.Create(milestone).Error
}

// ListRecentByType returns up to limit milestones of one type for a
// (user, crew), newest first. Streak bonus rows are excluded so bonuses never
// count as logged days themselves.
func (r *GormMilestoneRepository) ListRecentByType(userID, crewID uint64, milestoneType string, limit int) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := r.db.
		Where("user_id = ? AND crew_id = ? AND milestone_type = ?", userID, crewID, milestoneType).
		Where("is_streak_bonus = ?", false).
		Order("logged_at DESC").
		Limit(limit).
		Find(&milestones).Error
	if err != nil {
		return nil, err
	}
	return milestones, nil
}

// ListRecentByCrew returns up to limit milestones for a crew, newest first
func (r *GormMilestoneRepository) ListRecentByCrew(crewID uint64, limit int) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := r.db.Where("crew_id = ?", crewID).
		Preload("User").
		Order("logged_at DESC").
		Limit(limit).
		Find(&milestones).Error
	if err != nil {
		return nil, err
	}
	return milestones, nil
}
