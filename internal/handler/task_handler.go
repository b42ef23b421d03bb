package handler

import (
	"net/http"
	"strings"
	"time"

	"famtasks/internal/model"
	"famtasks/internal/repository"
	"famtasks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	tasks    *service.TaskService
	userRepo repository.UserRepositoryInterface
}

func NewTaskHandler(tasks *service.TaskService, userRepo repository.UserRepositoryInterface) *TaskHandler {
	return &TaskHandler{tasks: tasks, userRepo: userRepo}
}

// TaskCreateRequest is the payload for creating a task
type TaskCreateRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	Tags         []string   `json:"tags"`
	AssignedToID *string    `json:"assigned_to_id"`
	ParentTaskID *string    `json:"parent_task_id"`
}

// TaskUpdateRequest is a partial update; omitted fields are untouched.
// An empty-string parent_task_id detaches the task from its parent.
type TaskUpdateRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	Priority     *string    `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	Tags         *[]string  `json:"tags"`
	AssignedToID *string    `json:"assigned_to_id"`
	ParentTaskID *string    `json:"parent_task_id"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID           string   `json:"id"`
	FamilyID     string   `json:"family_id"`
	CreatorID    string   `json:"creator_id"`
	AssignedToID *string  `json:"assigned_to_id,omitempty"`
	ParentTaskID *string  `json:"parent_task_id,omitempty"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	DueDate      *string  `json:"due_date,omitempty"`
	CompletedAt  *string  `json:"completed_at,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func toTaskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		FamilyID:    task.FamilyID.String(),
		CreatorID:   task.CreatorID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		Tags:        task.Tags,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.AssignedToID != nil {
		s := task.AssignedToID.String()
		resp.AssignedToID = &s
	}
	if task.ParentTaskID != nil {
		s := task.ParentTaskID.String()
		resp.ParentTaskID = &s
	}
	if task.DueDate != nil {
		s := task.DueDate.Format(time.RFC3339)
		resp.DueDate = &s
	}
	if task.CompletedAt != nil {
		s := task.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

// Create creates a new task in the authenticated user's family
func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	svcReq := service.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatus(req.Status),
		Priority:    model.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}

	if req.AssignedToID != nil {
		id, err := uuid.Parse(*req.AssignedToID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID format"})
			return
		}
		svcReq.AssignedToID = &id
	}
	if req.ParentTaskID != nil {
		id, err := uuid.Parse(*req.ParentTaskID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent task ID format"})
			return
		}
		svcReq.ParentTaskID = &id
	}

	task, err := h.tasks.Create(c.Request.Context(), user.AuthContext(), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// GetByID returns a single task
func (h *TaskHandler) GetByID(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), user.AuthContext(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// ListByFamily returns a family's tasks filtered and ordered per query params
func (h *TaskHandler) ListByFamily(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	familyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid family ID format"})
		return
	}

	filter, sortReq, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := h.tasks.List(c.Request.Context(), user.AuthContext(), familyID, filter, sortReq)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = toTaskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, response)
}

// Update applies a partial update to a task
func (h *TaskHandler) Update(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	svcReq := service.UpdateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
	if req.Status != nil {
		svcReq.Status = model.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		svcReq.Priority = model.TaskPriority(*req.Priority)
	}
	if req.AssignedToID != nil {
		id, err := uuid.Parse(*req.AssignedToID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID format"})
			return
		}
		svcReq.AssignedToID = &id
	}
	if req.ParentTaskID != nil {
		if *req.ParentTaskID == "" {
			svcReq.ClearParent = true
		} else {
			id, err := uuid.Parse(*req.ParentTaskID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent task ID format"})
				return
			}
			svcReq.ParentTaskID = &id
		}
	}

	task, err := h.tasks.Update(c.Request.Context(), user.AuthContext(), taskID, svcReq)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Complete marks a task as completed
func (h *TaskHandler) Complete(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), user.AuthContext(), taskID, service.UpdateTaskRequest{
		Status: model.TaskStatusCompleted,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete removes a task
func (h *TaskHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), user.AuthContext(), taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// parseListQuery translates query params into a filter and sort request.
// Enum members are passed through as-is; the service rejects unknown values.
func parseListQuery(c *gin.Context) (service.TaskFilter, service.TaskSort, error) {
	var filter service.TaskFilter

	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Status = append(filter.Status, model.TaskStatus(strings.TrimSpace(s)))
		}
	}
	if raw := c.Query("priority"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			filter.Priority = append(filter.Priority, model.TaskPriority(strings.TrimSpace(p)))
		}
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, service.TaskSort{}, errInvalidQuery("assigned_to")
		}
		filter.AssignedToID = &id
	}
	if raw := c.Query("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Tags = append(filter.Tags, t)
			}
		}
	}
	if raw := c.Query("parent_task_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, service.TaskSort{}, errInvalidQuery("parent_task_id")
		}
		filter.ParentTaskID = &id
	}
	if raw := c.Query("has_subtasks"); raw != "" {
		switch raw {
		case "true":
			v := true
			filter.HasSubtasks = &v
		case "false":
			v := false
			filter.HasSubtasks = &v
		default:
			return filter, service.TaskSort{}, errInvalidQuery("has_subtasks")
		}
	}
	if raw := c.Query("due_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, service.TaskSort{}, errInvalidQuery("due_from")
		}
		filter.DueFrom = &t
	}
	if raw := c.Query("due_until"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, service.TaskSort{}, errInvalidQuery("due_until")
		}
		filter.DueUntil = &t
	}

	sortReq := service.TaskSort{
		By:    service.SortField(c.Query("sort_by")),
		Order: service.SortOrder(c.Query("order")),
	}
	return filter, sortReq, nil
}

type invalidQueryError string

func errInvalidQuery(param string) error {
	return invalidQueryError(param)
}

func (e invalidQueryError) Error() string {
	return "Invalid query parameter: " + string(e)
}
