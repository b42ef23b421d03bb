package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"famtasks/internal/middleware"
	"famtasks/internal/model"
	"famtasks/internal/repository"
)

// currentUser resolves the authenticated user context for a request: the
// middleware supplies the id, the user store supplies role and family. On
// failure it writes the response itself and returns false.
func currentUser(c *gin.Context, repo repository.UserRepositoryInterface) (*model.User, bool) {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return nil, false
	}

	user, err := repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return nil, false
	}
	return user, true
}
