package middleware

import (
	"strconv"

	"github.com/crewcard/crewcard-api/internal/database"
	apierrors "github.com/crewcard/crewcard-api/internal/errors"
	"github.com/crewcard/crewcard-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireTaskAccess checks if the user has access to a task.
// User must be a member of the task's crew.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		// Return 404 instead of 403 to avoid leaking task existence
		var member models.CrewMember
		err = database.GetDB().
			Where("crew_id = ? AND user_id = ?", task.CrewID, userID).
			First(&member).Error
		if err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set("task", task)
		c.Set("crew_member", member)
		c.Next()
	}
}
