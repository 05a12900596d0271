package dto

import (
	"time"

	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/services"
)

// CrewDTO represents a crew in API responses
type CrewDTO struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	PointBalance int    `json:"point_balance"`
	InviteCode   string `json:"invite_code,omitempty"`
}

// CrewMemberDTO represents a member in a crew
type CrewMemberDTO struct {
	User     UserDTO            `json:"user"`
	Role     models.CrewRole    `json:"role"`
	Stats    models.MemberStats `json:"stats"`
	Badges   []string           `json:"badges"`
	JoinedAt time.Time          `json:"joined_at"`
}

// CrewWithRoleDTO represents a crew with the user's role
type CrewWithRoleDTO struct {
	CrewDTO
	Role models.CrewRole `json:"role"`
}

// CrewDetailDTO represents detailed crew information
type CrewDetailDTO struct {
	CrewDTO
	Members  []CrewMemberDTO `json:"members"`
	YourRole models.CrewRole `json:"your_role"`
}

// LeaderboardEntryDTO is one ranked row of the helper leaderboard
type LeaderboardEntryDTO struct {
	Rank   int           `json:"rank"`
	Score  int           `json:"score"`
	Member CrewMemberDTO `json:"member"`
}

// MenuResponse bundles a crew's task templates and self-care routines
type MenuResponse struct {
	Templates []TaskTemplateDTO `json:"templates"`
	Routines  []RoutineDTO      `json:"routines"`
}

// TaskTemplateDTO represents a task menu template
type TaskTemplateDTO struct {
	ID            uint64 `json:"id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	DefaultPoints int    `json:"default_points"`
	Emoji         string `json:"emoji"`
}

// RoutineDTO represents a self-care routine
type RoutineDTO struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	MilestoneType string `json:"milestone_type"`
	PointValue    int    `json:"point_value"`
	Emoji         string `json:"emoji"`
}

// ToCrewDTO converts a Crew model to CrewDTO
func ToCrewDTO(crew models.Crew, includeInviteCode bool) CrewDTO {
	dto := CrewDTO{
		ID:           crew.ID,
		Name:         crew.Name,
		PointBalance: crew.PointBalance,
	}
	if includeInviteCode {
		dto.InviteCode = crew.InviteCode
	}
	return dto
}

// ToCrewMemberDTO converts a member to DTO
func ToCrewMemberDTO(member models.CrewMember) CrewMemberDTO {
	badges := member.Badges
	if badges == nil {
		badges = []string{}
	}
	return CrewMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		Stats:    member.Stats,
		Badges:   badges,
		JoinedAt: member.JoinedAt,
	}
}

// ToCrewWithRoleDTO converts a membership to a crew DTO with role
func ToCrewWithRoleDTO(member models.CrewMember) CrewWithRoleDTO {
	return CrewWithRoleDTO{
		CrewDTO: ToCrewDTO(member.Crew, false),
		Role:    member.Role,
	}
}

// ToCrewDetailDTO converts a crew with members to a detailed DTO
func ToCrewDetailDTO(crew models.Crew, members []models.CrewMember, yourRole models.CrewRole) CrewDetailDTO {
	memberDTOs := make([]CrewMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToCrewMemberDTO(member)
	}

	return CrewDetailDTO{
		CrewDTO:  ToCrewDTO(crew, yourRole == models.RoleCardHolder || yourRole == models.RoleAdmin),
		Members:  memberDTOs,
		YourRole: yourRole,
	}
}

// ToLeaderboardResponse converts ranked entries to DTOs
func ToLeaderboardResponse(entries []services.LeaderboardEntry) []LeaderboardEntryDTO {
	dtos := make([]LeaderboardEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = LeaderboardEntryDTO{
			Rank:   e.Rank,
			Score:  e.Score,
			Member: ToCrewMemberDTO(e.Member),
		}
	}
	return dtos
}

// ToMenuResponse converts templates and routines to the menu response
func ToMenuResponse(templates []models.TaskMenuTemplate, routines []models.SelfCareRoutine) MenuResponse {
	resp := MenuResponse{
		Templates: make([]TaskTemplateDTO, len(templates)),
	}
	for i, t := range templates {
		resp.Templates[i] = TaskTemplateDTO{
			ID:            t.ID,
			Title:         t.Title,
			Category:      t.Category,
			DefaultPoints: t.DefaultPoints,
			Emoji:         t.Emoji,
		}
	}
	resp.Routines = ToRoutineDTOs(routines)
	return resp
}

// ToRoutineDTOs converts routines to DTOs
func ToRoutineDTOs(routines []models.SelfCareRoutine) []RoutineDTO {
	dtos := make([]RoutineDTO, len(routines))
	for i, r := range routines {
		dtos[i] = RoutineDTO{
			ID:            r.ID,
			Name:          r.Name,
			MilestoneType: r.MilestoneType,
			PointValue:    r.PointValue,
			Emoji:         r.Emoji,
		}
	}
	return dtos
}
