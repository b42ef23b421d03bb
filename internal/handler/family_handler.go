package handler

import (
	"net/http"
	"strings"

	"famtasks/internal/model"
	"famtasks/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FamilyHandler struct {
	familyRepo *repository.FamilyRepository
	userRepo   repository.UserRepositoryInterface
}

func NewFamilyHandler(familyRepo *repository.FamilyRepository, userRepo repository.UserRepositoryInterface) *FamilyHandler {
	return &FamilyHandler{familyRepo: familyRepo, userRepo: userRepo}
}

type FamilyCreateRequest struct {
	Name string `json:"name" binding:"required,min=2"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type FamilyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
}

// Create creates a family; the creator joins it as admin
func (h *FamilyHandler) Create(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	if user.FamilyID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already belongs to a family"})
		return
	}

	var req FamilyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	family := &model.Family{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedBy: user.ID,
	}
	if err := h.familyRepo.Create(c.Request.Context(), family); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create family"})
		return
	}

	if err := h.userRepo.SetFamily(c.Request.Context(), user.ID, family.ID, model.RoleAdmin); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join family"})
		return
	}

	c.JSON(http.StatusCreated, FamilyResponse{
		ID:        family.ID.String(),
		Name:      family.Name,
		CreatedBy: family.CreatedBy.String(),
	})
}

// GetMembers lists the members of the user's own family
func (h *FamilyHandler) GetMembers(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	familyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid family ID format"})
		return
	}

	if user.FamilyID == nil || *user.FamilyID != familyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this family"})
		return
	}

	members, err := h.userRepo.ListByFamily(c.Request.Context(), familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	response := make([]UserResponse, len(members))
	for i := range members {
		response[i] = toUserResponse(&members[i])
	}
	c.JSON(http.StatusOK, response)
}

// AddMember adds a registered user to the family by email; admin only
func (h *FamilyHandler) AddMember(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	familyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid family ID format"})
		return
	}

	if user.FamilyID == nil || *user.FamilyID != familyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this family"})
		return
	}
	if user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a family admin can add members"})
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	member, err := h.userRepo.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if member == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if member.FamilyID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already belongs to a family"})
		return
	}

	if err := h.userRepo.SetFamily(c.Request.Context(), member.ID, familyID, model.RoleMember); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	member.FamilyID = &familyID
	member.Role = model.RoleMember
	c.JSON(http.StatusOK, toUserResponse(member))
}
