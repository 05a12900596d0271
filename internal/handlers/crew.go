package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/crewcard/crewcard-api/internal/dto"
	apierrors "github.com/crewcard/crewcard-api/internal/errors"
	"github.com/crewcard/crewcard-api/internal/middleware"
	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/crewcard/crewcard-api/internal/services"
	"github.com/crewcard/crewcard-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// CrewHandler coordinates crew-related HTTP handlers.
type CrewHandler struct {
	crewService *services.CrewService
}

// NewCrewHandler creates a new CrewHandler.
func NewCrewHandler(crewService *services.CrewService) *CrewHandler {
	return &CrewHandler{
		crewService: crewService,
	}
}

// crewFromContext reads the crew and membership loaded by RequireCrewAccess.
func crewFromContext(c *gin.Context) (models.Crew, models.CrewMember, bool) {
	crewInterface, exists := c.Get("crew")
	if !exists {
		apierrors.InternalError(c, "Crew not found in context")
		return models.Crew{}, models.CrewMember{}, false
	}
	crew, ok := crewInterface.(models.Crew)
	if !ok {
		apierrors.InternalError(c, "Invalid crew data")
		return models.Crew{}, models.CrewMember{}, false
	}

	memberInterface, exists := c.Get("crew_member")
	if !exists {
		apierrors.InternalError(c, "Membership not found in context")
		return models.Crew{}, models.CrewMember{}, false
	}
	member, ok := memberInterface.(models.CrewMember)
	if !ok {
		apierrors.InternalError(c, "Invalid crew member data")
		return models.Crew{}, models.CrewMember{}, false
	}

	return crew, member, true
}

// CreateCrew creates a crew owned by the caller.
func (h *CrewHandler) CreateCrew(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateCrewRequest struct {
		Name           string `json:"name" binding:"required,min=1,max=50"`
		StartingPoints *int   `json:"starting_points"`
	}

	var req CreateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	crew, err := h.crewService.CreateCrew(services.CreateCrewInput{
		Name:           req.Name,
		CardHolderID:   userID,
		StartingPoints: req.StartingPoints,
	})
	if err != nil {
		respondCrewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCrewDTO(*crew, true))
}

// JoinCrew adds the caller to the crew matching an invite code.
func (h *CrewHandler) JoinCrew(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type JoinCrewRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	crew, err := h.crewService.JoinCrew(userID, req.InviteCode)
	if err != nil {
		respondCrewError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCrewDTO(*crew, false))
}

// ListCrews returns the caller's crews with their roles.
func (h *CrewHandler) ListCrews(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.crewService.ListCrews(userID)
	if err != nil {
		respondCrewError(c, err)
		return
	}

	crews := make([]dto.CrewWithRoleDTO, len(memberships))
	for i, m := range memberships {
		crews[i] = dto.ToCrewWithRoleDTO(m)
	}
	c.JSON(http.StatusOK, gin.H{"crews": crews})
}

// GetCrew returns a crew with its members.
func (h *CrewHandler) GetCrew(c *gin.Context) {
	crew, member, ok := crewFromContext(c)
	if !ok {
		return
	}

	_, members, err := h.crewService.GetCrew(crew.ID)
	if err != nil {
		respondCrewError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCrewDetailDTO(crew, members, member.Role))
}

// GetFeed returns a page of the crew's activity feed. With ?since=RFC3339 the
// feed switches to incremental polling mode and returns entries oldest-first.
func (h *CrewHandler) GetFeed(c *gin.Context) {
	crew, _, ok := crewFromContext(c)
	if !ok {
		return
	}

	input := services.FeedInput{CrewID: crew.ID}
	if sinceStr := c.Query("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid since timestamp")
			return
		}
		input.Since = &since
	} else {
		params := utils.GetPaginationParams(c)
		input.Limit = params.Limit
		input.Offset = params.Offset
	}

	entries, err := h.crewService.GetFeed(input)
	if err != nil {
		respondCrewError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFeedResponse(entries))
}

// GetLeaderboard returns the crew's helper leaderboard.
func (h *CrewHandler) GetLeaderboard(c *gin.Context) {
	crew, _, ok := crewFromContext(c)
	if !ok {
		return
	}

	entries, err := h.crewService.GetLeaderboard(crew.ID)
	if err != nil {
		respondCrewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": dto.ToLeaderboardResponse(entries)})
}

// GetMenu returns the crew's task templates and self-care routines.
func (h *CrewHandler) GetMenu(c *gin.Context) {
	crew, _, ok := crewFromContext(c)
	if !ok {
		return
	}

	templates, routines, err := h.crewService.GetMenu(crew.ID)
	if err != nil {
		respondCrewError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMenuResponse(templates, routines))
}

func parseStatusFilter(c *gin.Context) (*models.TaskStatus, bool) {
	statusStr := c.Query("status")
	if statusStr == "" {
		return nil, true
	}
	status := models.TaskStatus(statusStr)
	switch status {
	case models.TaskStatusPending, models.TaskStatusClaimed, models.TaskStatusInProgress,
		models.TaskStatusCompleted, models.TaskStatusCancelled:
		return &status, true
	default:
		apierrors.BadRequest(c, "Invalid status filter")
		return nil, false
	}
}

func respondCrewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCrewNameRequired),
		errors.Is(err, services.ErrInvalidPoints):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCrewNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotCrewMember):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
