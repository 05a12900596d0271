package repository

import (
	"github.com/crewcard/crewcard-api/internal/models"
	"gorm.io/gorm"
)

// GormBidRepository is a GORM implementation of BidRepository
type GormBidRepository struct {
	db *gorm.DB
}

// NewBidRepository creates a new BidRepository
func NewBidRepository(db *gorm.DB) BidRepository {
	return &GormBidRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormBidRepository) WithTx(tx *gorm.DB) BidRepository {
	return &GormBidRepository{db: tx}
}

// Create inserts a bid
func (r *GormBidRepository) Create(bid *models.Bid) error {
	return r.db.Create(bid).Error
}

// LowestForTask returns the currently winning bid: lowest amount first,
// earliest placement on ties.
func (r *GormBidRepository) LowestForTask(taskID uint64) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.Where("task_id = ?", taskID).
		Order("bid_amount ASC, created_at ASC").
		First(&bid).Error
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// CountForTask counts bids placed on a task
func (r *GormBidRepository) CountForTask(taskID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Bid{}).Where("task_id = ?", taskID).Count(&count).Error
	return count, err
}

// ListForTask lists a task's bids, best (lowest) first
func (r *GormBidRepository) ListForTask(taskID uint64) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.Where("task_id = ?", taskID).
		Preload("User").
		Order("bid_amount ASC, created_at ASC").
		Find(&bids).Error
	if err != nil {
		return nil, err
	}
	return bids, nil
}
