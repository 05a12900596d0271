package dto

import (
	"time"

	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/services"
)

// FeedEntryDTO represents one activity feed entry
type FeedEntryDTO struct {
	ID        uint64                   `json:"id"`
	EventType models.ActivityEventType `json:"event_type"`
	ActorID   uint64                   `json:"actor_id"`
	Actor     *UserDTO                 `json:"actor,omitempty"`
	Payload   models.ActivityPayload   `json:"payload"`
	CreatedAt time.Time                `json:"created_at"`
}

// FeedResponse represents a page of the activity feed
type FeedResponse struct {
	Entries []FeedEntryDTO `json:"entries"`
}

// MilestoneDTO represents a milestone in API responses
type MilestoneDTO struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"user_id"`
	MilestoneType string    `json:"milestone_type"`
	PointsEarned  int       `json:"points_earned"`
	Note          *string   `json:"note,omitempty"`
	IsStreakBonus bool      `json:"is_streak_bonus"`
	LoggedAt      time.Time `json:"logged_at"`
	User          *UserDTO  `json:"user,omitempty"`
}

// LogMilestoneResponse reports the logged milestone, any streak bonus, and
// the crew's new balance
type LogMilestoneResponse struct {
	Milestone     MilestoneDTO `json:"milestone"`
	PointsEarned  int          `json:"points_earned"`
	CurrentStreak int          `json:"current_streak"`
	BonusPoints   int          `json:"bonus_points"`
	BonusType     string       `json:"bonus_type,omitempty"`
	NewBalance    int          `json:"new_balance"`
}

// ToFeedEntryDTO converts an activity entry to DTO
func ToFeedEntryDTO(entry models.ActivityEntry) FeedEntryDTO {
	dto := FeedEntryDTO{
		ID:        entry.ID,
		EventType: entry.EventType,
		ActorID:   entry.ActorID,
		Payload:   entry.Payload,
		CreatedAt: entry.CreatedAt,
	}
	if entry.Actor.ID != 0 {
		actor := ToUserDTO(entry.Actor)
		dto.Actor = &actor
	}
	return dto
}

// ToFeedResponse converts activity entries to the feed response
func ToFeedResponse(entries []models.ActivityEntry) FeedResponse {
	dtos := make([]FeedEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = ToFeedEntryDTO(entry)
	}
	return FeedResponse{Entries: dtos}
}

// ToMilestoneDTO converts a Milestone model to MilestoneDTO
func ToMilestoneDTO(milestone models.Milestone) MilestoneDTO {
	dto := MilestoneDTO{
		ID:            milestone.ID,
		UserID:        milestone.UserID,
		MilestoneType: milestone.MilestoneType,
		PointsEarned:  milestone.PointsEarned,
		Note:          milestone.Note,
		IsStreakBonus: milestone.IsStreakBonus,
		LoggedAt:      milestone.LoggedAt,
	}
	if milestone.User.ID != 0 {
		user := ToUserDTO(milestone.User)
		dto.User = &user
	}
	return dto
}

// ToLogMilestoneResponse converts a log result to the response DTO
func ToLogMilestoneResponse(result *services.LogMilestoneResult) LogMilestoneResponse {
	return LogMilestoneResponse{
		Milestone:     ToMilestoneDTO(*result.Milestone),
		PointsEarned:  result.PointsEarned,
		CurrentStreak: result.CurrentStreak,
		BonusPoints:   result.BonusPoints,
		BonusType:     result.BonusType,
		NewBalance:    result.NewBalance,
	}
}
