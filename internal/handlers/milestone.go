package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/crewcard/crewcard-api/internal/dto"
	apierrors "github.com/crewcard/crewcard-api/internal/errors"
	"github.com/crewcard/crewcard-api/internal/services"
	"github.com/gin-gonic/gin"
)

// MilestoneHandler coordinates self-care milestone HTTP handlers.
type MilestoneHandler struct {
	milestoneService *services.MilestoneService
}

// NewMilestoneHandler creates a new MilestoneHandler.
func NewMilestoneHandler(milestoneService *services.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{
		milestoneService: milestoneService,
	}
}

// LogMilestone records a self-care event for the crew loaded by
// RequireCrewAccess.
func (h *MilestoneHandler) LogMilestone(c *gin.Context) {
	crew, member, ok := crewFromContext(c)
	if !ok {
		return
	}

	type LogMilestoneRequest struct {
		MilestoneType string  `json:"milestone_type" binding:"required,max=50"`
		Note          *string `json:"note" binding:"omitempty,max=200"`
	}

	var req LogMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.milestoneService.LogMilestone(services.LogMilestoneInput{
		CrewID:        crew.ID,
		UserID:        member.UserID,
		MilestoneType: req.MilestoneType,
		Note:          req.Note,
	})
	if err != nil {
		respondMilestoneError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLogMilestoneResponse(result))
}

// ListMilestones returns the crew's recent milestones.
func (h *MilestoneHandler) ListMilestones(c *gin.Context) {
	crew, _, ok := crewFromContext(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	milestones, routines, err := h.milestoneService.ListRecent(crew.ID, limit)
	if err != nil {
		respondMilestoneError(c, err)
		return
	}

	dtos := make([]dto.MilestoneDTO, len(milestones))
	for i, m := range milestones {
		dtos[i] = dto.ToMilestoneDTO(m)
	}
	c.JSON(http.StatusOK, gin.H{
		"milestones": dtos,
		"routines":   dto.ToRoutineDTOs(routines),
	})
}

func respondMilestoneError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMilestoneTypeMissing):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotCardHolder),
		errors.Is(err, services.ErrNotCrewMember):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
