package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/crewcard/crewcard-api/internal/dto"
	apierrors "github.com/crewcard/crewcard-api/internal/errors"
	"github.com/crewcard/crewcard-api/internal/middleware"
	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/services"
	"github.com/crewcard/crewcard-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task lifecycle and bidding HTTP handlers.
type TaskHandler struct {
	taskService    *services.TaskService
	auctionService *services.AuctionService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, auctionService *services.AuctionService) *TaskHandler {
	return &TaskHandler{
		taskService:    taskService,
		auctionService: auctionService,
	}
}

// taskIDFromParam parses the :id route parameter.
func taskIDFromParam(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return taskID, true
}

// CreateTask creates a task in the crew loaded by RequireCrewAccess.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	crew, member, ok := crewFromContext(c)
	if !ok {
		return
	}

	type AuctionRequest struct {
		MinBid             *int `json:"min_bid"`
		DurationMinutes    *int `json:"duration_minutes"`
		AutoCloseAfterBids *int `json:"auto_close_after_bids"`
	}
	type CreateTaskRequest struct {
		Title       string          `json:"title" binding:"required,min=1,max=100"`
		Description *string         `json:"description"`
		Category    string          `json:"category" binding:"required,max=50"`
		PointCost   int             `json:"point_cost" binding:"required"`
		RequestMode string          `json:"request_mode" binding:"required"`
		Urgency     string          `json:"urgency"`
		AssignedTo  *uint64         `json:"assigned_to"`
		DueBy       *time.Time      `json:"due_by"`
		Auction     *AuctionRequest `json:"auction"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		CrewID:      crew.ID,
		CreatorID:   member.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PointCost:   req.PointCost,
		RequestMode: models.RequestMode(req.RequestMode),
		Urgency:     models.TaskUrgency(req.Urgency),
		AssignedTo:  req.AssignedTo,
		DueBy:       req.DueBy,
	}
	if req.Auction != nil {
		input.Auction = &services.AuctionInput{
			MinBid:             req.Auction.MinBid,
			DurationMinutes:    req.Auction.DurationMinutes,
			AutoCloseAfterBids: req.Auction.AutoCloseAfterBids,
		}
	}

	task, err := h.taskService.CreateTask(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns the crew's tasks, optionally filtered by status.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	crew, _, ok := crewFromContext(c)
	if !ok {
		return
	}

	status, ok := parseStatusFilter(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.taskService.ListTasks(services.ListTasksInput{
		CrewID:   crew.ID,
		Status:   status,
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a task with its bids and user references. Crew membership
// was checked by RequireTaskAccess.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := taskIDFromParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ClaimTask claims a pending open or direct task for the caller.
func (h *TaskHandler) ClaimTask(c *gin.Context) {
	taskID, ok := taskIDFromParam(c)
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.ClaimTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// StartTask moves the caller's claimed task to in_progress.
func (h *TaskHandler) StartTask(c *gin.Context) {
	taskID, ok := taskIDFromParam(c)
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.StartTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CompleteTask confirms completion and settles the task.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	taskID, ok := taskIDFromParam(c)
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	result, err := h.taskService.CompleteTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CompleteTaskResponse{
		Task:       dto.ToTaskDTO(*result.Task),
		FinalCost:  result.FinalCost,
		NewBalance: result.NewBalance,
	})
}

// CancelTask cancels a non-terminal task.
func (h *TaskHandler) CancelTask(c *gin.Context) {
	taskID, ok := taskIDFromParam(c)
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.CancelTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// PlaceBid places a bid on an auction task.
func (h *TaskHandler) PlaceBid(c *gin.Context) {
	taskID, ok := taskIDFromParam(c)
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type PlaceBidRequest struct {
		Amount  int     `json:"amount" binding:"required"`
		Comment *string `json:"comment" binding:"omitempty,max=200"`
	}

	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.auctionService.PlaceBid(services.PlaceBidInput{
		TaskID:  taskID,
		UserID:  userID,
		Amount:  req.Amount,
		Comment: req.Comment,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PlaceBidResponse{
		Bid:      dto.ToBidDTO(*result.Bid),
		Resolved: result.Resolved,
		Task:     dto.ToTaskDTO(*result.Task),
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotCrewMember),
		errors.Is(err, services.ErrNotRequester),
		errors.Is(err, services.ErrNotAssignee),
		errors.Is(err, services.ErrNotClaimant),
		errors.Is(err, services.ErrRequesterCannotBid):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidPointCost),
		errors.Is(err, services.ErrInvalidRequestMode),
		errors.Is(err, services.ErrInvalidUrgency),
		errors.Is(err, services.ErrAssigneeRequired),
		errors.Is(err, services.ErrAssigneeNotMember),
		errors.Is(err, services.ErrInvalidAuctionWindow),
		errors.Is(err, services.ErrInvalidBidAmount),
		errors.Is(err, services.ErrBidNotLower),
		errors.Is(err, services.ErrBidBelowMinimum):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotClaimable),
		errors.Is(err, services.ErrTaskNotActive),
		errors.Is(err, services.ErrTaskNotClaimed),
		errors.Is(err, services.ErrNotAuctionTask):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrTaskNotPending),
		errors.Is(err, services.ErrTaskAlreadyCompleted),
		errors.Is(err, services.ErrTaskAlreadyCancelled),
		errors.Is(err, services.ErrTaskAlreadyFinished),
		errors.Is(err, services.ErrAuctionClosed):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
