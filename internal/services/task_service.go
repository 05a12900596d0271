package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crewcard/crewcard-api/internal/constants"
	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrNotRequester         = errors.New("only the card holder or an admin can perform this action")
	ErrTitleRequired        = errors.New("title is required")
	ErrInvalidPointCost     = errors.New("point cost must be at least 1")
	ErrInvalidRequestMode   = errors.New("invalid request mode")
	ErrInvalidUrgency       = errors.New("invalid urgency")
	ErrAssigneeRequired     = errors.New("direct requests need an assignee")
	ErrAssigneeNotMember    = errors.New("assignee is not a member of the crew")
	ErrInvalidAuctionWindow = errors.New("auction duration out of range")
	ErrTaskNotClaimable     = errors.New("auction tasks cannot be claimed directly")
	ErrNotAssignee          = errors.New("task is assigned to someone else")
	ErrTaskNotPending       = errors.New("task is no longer pending")
	ErrNotClaimant          = errors.New("only the claimant can start the task")
	ErrTaskNotClaimed       = errors.New("task is not in a claimed state")
	ErrTaskNotActive        = errors.New("task must be claimed before completion")
	ErrTaskAlreadyCompleted = errors.New("task is already completed")
	ErrTaskAlreadyCancelled = errors.New("task is already cancelled")
	ErrTaskAlreadyFinished  = errors.New("task is already in a terminal state")
)

// TaskService handles task lifecycle business logic.
type TaskService struct {
	db           *gorm.DB
	taskRepo     repository.TaskRepository
	crewRepo     repository.CrewRepository
	activityRepo repository.ActivityRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *gorm.DB, taskRepo repository.TaskRepository, crewRepo repository.CrewRepository, activityRepo repository.ActivityRepository) *TaskService {
	return &TaskService{
		db:           db,
		taskRepo:     taskRepo,
		crewRepo:     crewRepo,
		activityRepo: activityRepo,
	}
}

// AuctionInput carries the optional auction configuration of a new task.
type AuctionInput struct {
	MinBid             *int
	DurationMinutes    *int
	AutoCloseAfterBids *int
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	CrewID      uint64
	CreatorID   uint64
	Title       string
	Description *string
	Category    string
	PointCost   int
	RequestMode models.RequestMode
	Urgency     models.TaskUrgency
	AssignedTo  *uint64
	DueBy       *time.Time
	Auction     *AuctionInput
}

// CreateTask creates a help request. Only the card holder or an admin may
// create tasks. Auction tasks get their deadline computed here, from the
// requested duration.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	actor, err := s.crewRepo.FindMember(input.CrewID, input.CreatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCrewMember
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	if !actor.IsRequester() {
		return nil, ErrNotRequester
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.PointCost < 1 {
		return nil, ErrInvalidPointCost
	}

	switch input.RequestMode {
	case models.RequestModeOpen, models.RequestModeDirect, models.RequestModeAuction:
	default:
		return nil, ErrInvalidRequestMode
	}

	urgency := input.Urgency
	switch urgency {
	case "":
		urgency = models.UrgencyWhenever
	case models.UrgencyWhenever, models.UrgencyToday, models.UrgencyASAP:
	default:
		return nil, ErrInvalidUrgency
	}

	task := &models.Task{
		CrewID:      input.CrewID,
		CreatedBy:   input.CreatorID,
		Title:       title,
		Description: input.Description,
		Category:    input.Category,
		PointCost:   input.PointCost,
		RequestMode: input.RequestMode,
		Status:      models.TaskStatusPending,
		Urgency:     urgency,
		DueBy:       input.DueBy,
	}

	if input.RequestMode == models.RequestModeDirect {
		if input.AssignedTo == nil {
			return nil, ErrAssigneeRequired
		}
		if _, err := s.crewRepo.FindMember(input.CrewID, *input.AssignedTo); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotMember
			}
			return nil, fmt.Errorf("failed to check assignee: %w", err)
		}
		task.AssignedTo = input.AssignedTo
	}

	if input.RequestMode == models.RequestModeAuction {
		auction, err := buildAuctionSettings(input.Auction, time.Now())
		if err != nil {
			return nil, err
		}
		task.Auction = *auction
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).Create(task); err != nil {
			return err
		}
		return s.activityRepo.WithTx(tx).Append(&models.ActivityEntry{
			CrewID:    task.CrewID,
			EventType: models.EventTaskCreated,
			ActorID:   input.CreatorID,
			Payload: models.ActivityPayload{
				TaskID:    task.ID,
				TaskTitle: task.Title,
				Mode:      task.RequestMode,
				PointCost: task.PointCost,
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func buildAuctionSettings(input *AuctionInput, now time.Time) (*models.AuctionSettings, error) {
	settings := &models.AuctionSettings{
		MinBid:          constants.DefaultAuctionMinBid,
		DurationMinutes: constants.DefaultAuctionDurationMinutes,
	}
	if input != nil {
		if input.MinBid != nil {
			if *input.MinBid < 1 {
				return nil, ErrInvalidPointCost
			}
			settings.MinBid = *input.MinBid
		}
		if input.DurationMinutes != nil {
			if *input.DurationMinutes < constants.MinAuctionDurationMinutes ||
				*input.DurationMinutes > constants.MaxAuctionDurationMinutes {
				return nil, ErrInvalidAuctionWindow
			}
			settings.DurationMinutes = *input.DurationMinutes
		}
		settings.AutoCloseAfterBids = input.AutoCloseAfterBids
	}

	endsAt := now.Add(time.Duration(settings.DurationMinutes) * time.Minute)
	settings.EndsAt = &endsAt
	return settings, nil
}

// ClaimTask transitions a pending open or direct task to claimed. Auction
// tasks resolve through bidding only. Direct tasks may only be claimed by
// their assignee. Of two racing claimers exactly one succeeds; the loser gets
// ErrTaskNotPending.
func (s *TaskService) ClaimTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if _, err := s.crewRepo.FindMember(task.CrewID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCrewMember
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	if task.RequestMode == models.RequestModeAuction {
		return nil, ErrTaskNotClaimable
	}
	if task.RequestMode == models.RequestModeDirect &&
		(task.AssignedTo == nil || *task.AssignedTo != userID) {
		return nil, ErrNotAssignee
	}
	if task.Status != models.TaskStatusPending {
		return nil, ErrTaskNotPending
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		claimed, err := s.taskRepo.WithTx(tx).ClaimPending(taskID, userID)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrTaskNotPending
		}

		member, err := s.crewRepo.WithTx(tx).FindMember(task.CrewID, userID)
		if err != nil {
			return err
		}
		// Response time is measured from request to claim.
		member.Stats.ResponseCount++
		member.Stats.TotalResponseTimeMs += now.Sub(task.CreatedAt).Milliseconds()
		if err := s.crewRepo.WithTx(tx).SaveMember(member); err != nil {
			return err
		}

		return s.activityRepo.WithTx(tx).Append(&models.ActivityEntry{
			CrewID:    task.CrewID,
			EventType: models.EventTaskClaimed,
			ActorID:   userID,
			Payload: models.ActivityPayload{
				TaskID:    task.ID,
				TaskTitle: task.Title,
				PointCost: task.PointCost,
			},
		})
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotPending) {
			return nil, ErrTaskNotPending
		}
		return nil, fmt.Errorf("failed to claim task: %w", err)
	}

	return s.findTask(taskID)
}

// StartTask transitions a claimed task to in_progress. Only the claimant may
// start their task.
func (s *TaskService) StartTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.ClaimedBy == nil || *task.ClaimedBy != userID {
		return nil, ErrNotClaimant
	}

	started, err := s.taskRepo.StartClaimed(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to start task: %w", err)
	}
	if !started {
		return nil, ErrTaskNotClaimed
	}

	return s.findTask(taskID)
}

// CompleteTaskResult is the outcome of confirming a completion.
type CompleteTaskResult struct {
	Task       *models.Task
	FinalCost  int
	NewBalance int
}

// CompleteTask confirms a task was done and settles it: the crew is charged
// the final cost, the claimant's stats grow, badges are re-evaluated, and a
// task_completed entry lands on the feed. The card holder confirms completion;
// helpers do not self-certify.
func (s *TaskService) CompleteTask(taskID, actorID uint64) (*CompleteTaskResult, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	actor, err := s.crewRepo.FindMember(task.CrewID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCrewMember
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	if !actor.IsRequester() {
		return nil, ErrNotRequester
	}

	switch task.Status {
	case models.TaskStatusCompleted:
		return nil, ErrTaskAlreadyCompleted
	case models.TaskStatusCancelled:
		return nil, ErrTaskAlreadyCancelled
	case models.TaskStatusPending:
		return nil, ErrTaskNotActive
	}
	if task.ClaimedBy == nil {
		return nil, ErrTaskNotActive
	}

	finalCost := task.FinalCost()
	claimantID := *task.ClaimedBy
	result := &CompleteTaskResult{FinalCost: finalCost}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		taskRepo := s.taskRepo.WithTx(tx)
		crewRepo := s.crewRepo.WithTx(tx)
		activityRepo := s.activityRepo.WithTx(tx)

		completed, err := taskRepo.CompleteActive(taskID, finalCost, time.Now())
		if err != nil {
			return err
		}
		if !completed {
			return ErrTaskAlreadyCompleted
		}

		newBalance, err := crewRepo.DeductPoints(task.CrewID, finalCost)
		if err != nil {
			return err
		}
		result.NewBalance = newBalance

		claimant, err := crewRepo.FindMember(task.CrewID, claimantID)
		if err != nil {
			return err
		}
		claimant.Stats.TasksCompleted++
		claimant.Stats.PointsSpent += finalCost
		if err := awardNewBadges(tx, s.crewRepo, s.activityRepo, claimant); err != nil {
			return err
		}
		if err := crewRepo.SaveMember(claimant); err != nil {
			return err
		}

		return activityRepo.Append(&models.ActivityEntry{
			CrewID:    task.CrewID,
			EventType: models.EventTaskCompleted,
			ActorID:   actorID,
			Payload: models.ActivityPayload{
				TaskID:      task.ID,
				TaskTitle:   task.Title,
				PointCost:   finalCost,
				CompletedBy: claimantID,
			},
		})
	})
	if err != nil {
		if errors.Is(err, ErrTaskAlreadyCompleted) {
			return nil, ErrTaskAlreadyCompleted
		}
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	result.Task, err = s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelTask moves a non-terminal task to cancelled. Requester-only, like
// creation.
func (s *TaskService) CancelTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	actor, err := s.crewRepo.FindMember(task.CrewID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCrewMember
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	if !actor.IsRequester() {
		return nil, ErrNotRequester
	}

	cancelled, err := s.taskRepo.CancelPendingOrActive(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel task: %w", err)
	}
	if !cancelled {
		return nil, ErrTaskAlreadyFinished
	}

	return s.findTask(taskID)
}

// GetTask returns a task with its bids and user references.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Creator", "ClaimedUser", "AssignedUser", "Bids", "Bids.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasksInput represents filters for listing a crew's tasks.
type ListTasksInput struct {
	CrewID   uint64
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// ListTasks returns a crew's tasks, newest first.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		CrewID:   input.CrewID,
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
