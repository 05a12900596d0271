package middleware

import (
	"strconv"

	"github.com/crewcard/crewcard-api/internal/database"
	apierrors "github.com/crewcard/crewcard-api/internal/errors"
	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireCrewAccess checks if the user is a member of the crew
func RequireCrewAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		crewIDStr := c.Param("id")
		crewID, err := strconv.ParseUint(crewIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid crew ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var crew models.Crew
		if err := database.GetDB().First(&crew, crewID).Error; err != nil {
			apierrors.NotFound(c, "Crew not found")
			c.Abort()
			return
		}

		// Return 404 instead of 403 to avoid leaking crew existence
		var member models.CrewMember
		err = database.GetDB().Where("crew_id = ? AND user_id = ?", crewID, userID).First(&member).Error
		if err != nil {
			apierrors.NotFound(c, "Crew not found")
			c.Abort()
			return
		}

		c.Set("crew", crew)
		c.Set("crew_member", member)
		c.Next()
	}
}

// RequireRequesterRole checks if the caller is the crew's card holder or an
// admin. Must run after RequireCrewAccess.
func RequireRequesterRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberInterface, exists := c.Get("crew_member")
		if !exists {
			apierrors.Forbidden(c, "Crew access required")
			c.Abort()
			return
		}

		member, ok := memberInterface.(models.CrewMember)
		if !ok {
			apierrors.InternalError(c, "Invalid crew member data")
			c.Abort()
			return
		}

		if !member.IsRequester() {
			apierrors.Forbidden(c, "Only the card holder or an admin can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
