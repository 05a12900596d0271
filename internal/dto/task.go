package dto

import (
	"time"

	"github.com/crewcard/crewcard-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64  `json:"id"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// BidDTO represents a bid in API responses
type BidDTO struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	BidAmount int       `json:"bid_amount"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	User      *UserDTO  `json:"user,omitempty"`
}

// AuctionDTO represents a task's auction configuration in API responses
type AuctionDTO struct {
	MinBid             int        `json:"min_bid"`
	DurationMinutes    int        `json:"duration_minutes"`
	AutoCloseAfterBids *int       `json:"auto_close_after_bids,omitempty"`
	EndsAt             *time.Time `json:"ends_at,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64             `json:"id"`
	CrewID         uint64             `json:"crew_id"`
	Title          string             `json:"title"`
	Description    *string            `json:"description,omitempty"`
	Category       string             `json:"category"`
	PointCost      int                `json:"point_cost"`
	FinalPointCost *int               `json:"final_point_cost,omitempty"`
	RequestMode    models.RequestMode `json:"request_mode"`
	Status         models.TaskStatus  `json:"status"`
	Urgency        models.TaskUrgency `json:"urgency"`
	AssignedTo     *uint64            `json:"assigned_to,omitempty"`
	ClaimedBy      *uint64            `json:"claimed_by,omitempty"`
	DueBy          *time.Time         `json:"due_by,omitempty"`
	Auction        *AuctionDTO        `json:"auction,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	Creator        *UserDTO           `json:"creator,omitempty"`
	ClaimedUser    *UserDTO           `json:"claimed_user,omitempty"`
	AssignedUser   *UserDTO           `json:"assigned_user,omitempty"`
	Bids           []BidDTO           `json:"bids,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// CompleteTaskResponse reports the settled task and the crew's new balance
type CompleteTaskResponse struct {
	Task       TaskDTO `json:"task"`
	FinalCost  int     `json:"final_cost"`
	NewBalance int     `json:"new_balance"`
}

// PlaceBidResponse reports the accepted bid and, when the bid auto-closed the
// auction, the resolved task
type PlaceBidResponse struct {
	Bid      BidDTO  `json:"bid"`
	Resolved bool    `json:"resolved"`
	Task     TaskDTO `json:"task"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}
}

// ToBidDTO converts a Bid model to BidDTO
func ToBidDTO(bid models.Bid) BidDTO {
	dto := BidDTO{
		ID:        bid.ID,
		UserID:    bid.UserID,
		BidAmount: bid.BidAmount,
		Comment:   bid.Comment,
		CreatedAt: bid.CreatedAt,
	}
	if bid.User.ID != 0 {
		user := ToUserDTO(bid.User)
		dto.User = &user
	}
	return dto
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		CrewID:         task.CrewID,
		Title:          task.Title,
		Description:    task.Description,
		Category:       task.Category,
		PointCost:      task.PointCost,
		FinalPointCost: task.FinalPointCost,
		RequestMode:    task.RequestMode,
		Status:         task.Status,
		Urgency:        task.Urgency,
		AssignedTo:     task.AssignedTo,
		ClaimedBy:      task.ClaimedBy,
		DueBy:          task.DueBy,
		CreatedAt:      task.CreatedAt,
		CompletedAt:    task.CompletedAt,
	}

	if task.RequestMode == models.RequestModeAuction {
		dto.Auction = &AuctionDTO{
			MinBid:             task.Auction.MinBid,
			DurationMinutes:    task.Auction.DurationMinutes,
			AutoCloseAfterBids: task.Auction.AutoCloseAfterBids,
			EndsAt:             task.Auction.EndsAt,
		}
	}

	// Include user refs if preloaded
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}
	if task.ClaimedUser != nil && task.ClaimedUser.ID != 0 {
		claimed := ToUserDTO(*task.ClaimedUser)
		dto.ClaimedUser = &claimed
	}
	if task.AssignedUser != nil && task.AssignedUser.ID != 0 {
		assigned := ToUserDTO(*task.AssignedUser)
		dto.AssignedUser = &assigned
	}

	if len(task.Bids) > 0 {
		dto.Bids = make([]BidDTO, len(task.Bids))
		for i, bid := range task.Bids {
			dto.Bids[i] = ToBidDTO(bid)
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
