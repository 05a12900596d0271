package repository

import (
	"time"

	"github.com/crewcard/crewcard-api/internal/database"
	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormTaskRepository) WithTx(tx *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: tx}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves a crew's tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.crew_id = ?", filter.CrewID)

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Offset: (filter.Page - 1) * filter.PageSize,
			Limit:  filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Creator").Preload("ClaimedUser").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ClaimPending transitions pending → claimed for the given claimant. The
// status guard is part of the UPDATE, so of two concurrent claimers exactly
// one sees RowsAffected == 1.
func (r *GormTaskRepository) ClaimPending(taskID, userID uint64) (bool, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND status = ?", taskID, models.TaskStatusPending).
		Updates(map[string]interface{}{
			"status":     models.TaskStatusClaimed,
			"claimed_by": userID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TouchPending re-verifies a task is still pending by writing its row, so the
// caller's transaction holds the row lock until commit. Returns false when the
// task has left pending.
func (r *GormTaskRepository) TouchPending(taskID uint64) (bool, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND status = ?", taskID, models.TaskStatusPending).
		Update("updated_at", time.Now())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// StartClaimed transitions claimed → in_progress
func (r *GormTaskRepository) StartClaimed(taskID uint64) (bool, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND status = ?", taskID, models.TaskStatusClaimed).
		Update("status", models.TaskStatusInProgress)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CompleteActive transitions claimed/in_progress → completed, recording the
// charged cost and completion time.
func (r *GormTaskRepository) CompleteActive(taskID uint64, finalCost int, completedAt time.Time) (bool, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND status IN ?", taskID, []models.TaskStatus{
			models.TaskStatusClaimed,
			models.TaskStatusInProgress,
		}).
		Updates(map[string]interface{}{
			"status":           models.TaskStatusCompleted,
			"final_point_cost": finalCost,
			"completed_at":     completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CancelPendingOrActive transitions any non-terminal state → cancelled
func (r *GormTaskRepository) CancelPendingOrActive(taskID uint64) (bool, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND status IN ?", taskID, []models.TaskStatus{
			models.TaskStatusPending,
			models.TaskStatusClaimed,
			models.TaskStatusInProgress,
		}).
		Update("status", models.TaskStatusCancelled)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ResolveAuction transitions pending → claimed for the auction winner and
// fixes the final point cost at the winning amount.
func (r *GormTaskRepository) ResolveAuction(taskID, winnerID uint64, winningAmount int) (bool, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND status = ?", taskID, models.TaskStatusPending).
		Updates(map[string]interface{}{
			"status":           models.TaskStatusClaimed,
			"claimed_by":       winnerID,
			"final_point_cost": winningAmount,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListExpiredAuctions returns pending auction tasks whose deadline has passed
func (r *GormTaskRepository) ListExpiredAuctions(now time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("request_mode = ?", models.RequestModeAuction).
		Where("status = ?", models.TaskStatusPending).
		Where("auction_ends_at IS NOT NULL AND auction_ends_at <= ?", now).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
