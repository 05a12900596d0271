package repository

import (
	"time"

	"github.com/crewcard/crewcard-api/internal/models"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormActivityRepository) WithTx(tx *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: tx}
}

// Append writes one activity entry
func (r *GormActivityRepository) Append(entry *models.ActivityEntry) error {
	return r.db.Create(entry).Error
}

// ListByCrew pages a crew's feed by creation time, newest first
func (r *GormActivityRepository) ListByCrew(crewID uint64, limit, offset int) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	err := r.db.Where("crew_id = ?", crewID).
		Preload("Actor").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListSince returns a crew's entries created after the given time, oldest
// first, for incremental polling.
func (r *GormActivityRepository) ListSince(crewID uint64, since time.Time) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	err := r.db.Where("crew_id = ? AND created_at > ?", crewID, since).
		Preload("Actor").
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
