package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"famtasks/internal/model"
	"famtasks/internal/repository"
)

// TaskStore is the persistence contract the lifecycle service depends on.
// The store owns id uniqueness and timestamp stamping.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByFamily(ctx context.Context, familyID uuid.UUID) ([]model.Task, error)
}

// TaskService orchestrates task mutations: it normalizes input, consults the
// access policy before any mutation and the hierarchy validator before any
// parent-link change, and translates store failures into domain errors.
type TaskService struct {
	store     TaskStore
	hierarchy *HierarchyValidator
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{
		store:     store,
		hierarchy: NewHierarchyValidator(store),
	}
}

// CreateTaskRequest carries client-supplied fields for a new task. FamilyID
// and CreatorID are always taken from the authenticated user, never from the
// request.
type CreateTaskRequest struct {
	Title        string
	Description  string
	Status       model.TaskStatus
	Priority     model.TaskPriority
	DueDate      *time.Time
	Tags         []string
	AssignedToID *uuid.UUID
	ParentTaskID *uuid.UUID
}

// UpdateTaskRequest is a partial update: nil / zero fields are left
// untouched. ClearParent detaches the task from its parent.
type UpdateTaskRequest struct {
	Title        *string
	Description  *string
	Status       model.TaskStatus
	Priority     model.TaskPriority
	DueDate      *time.Time
	Tags         *[]string
	AssignedToID *uuid.UUID
	ParentTaskID *uuid.UUID
	ClearParent  bool
}

// Create validates and persists a new task owned by the user's family.
func (s *TaskService) Create(ctx context.Context, user model.AuthUser, req CreateTaskRequest) (*model.Task, error) {
	if user.FamilyID == nil {
		return nil, E(CodeFamilyNotFound, "user does not belong to a family")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, E(CodeValidation, "title is required")
	}

	status := model.TaskStatusPending
	if req.Status != "" {
		if !req.Status.Valid() {
			return nil, E(CodeInvalidStatus, "unknown task status: "+string(req.Status))
		}
		status = req.Status
	}

	priority := model.TaskPriorityMedium
	if req.Priority != "" {
		if !req.Priority.Valid() {
			return nil, E(CodeInvalidPriority, "unknown task priority: "+string(req.Priority))
		}
		priority = req.Priority
	}

	if req.DueDate != nil && !req.DueDate.After(time.Now()) {
		return nil, E(CodePastDueDate, "due date must be in the future")
	}

	// The id is stamped here so the cycle walk can run against the
	// definitive id before the insert.
	taskID := uuid.New()

	if req.ParentTaskID != nil {
		if err := s.checkParent(ctx, user, *req.ParentTaskID, taskID); err != nil {
			return nil, err
		}
	}

	assignedTo := req.AssignedToID
	if assignedTo == nil {
		creator := user.ID
		assignedTo = &creator
	}

	task := &model.Task{
		ID:           taskID,
		FamilyID:     *user.FamilyID,
		CreatorID:    user.ID,
		AssignedToID: assignedTo,
		ParentTaskID: req.ParentTaskID,
		Title:        title,
		Description:  req.Description,
		Status:       status,
		Priority:     priority,
		DueDate:      req.DueDate,
		Tags:         model.Tags(req.Tags),
	}
	if status == model.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.store.Create(ctx, task); err != nil {
		return nil, Wrap(CodeInternal, "failed to create task", err)
	}
	return task, nil
}

// Get fetches a single task. Existence is checked before access so that
// NOT_FOUND and FORBIDDEN stay distinguishable.
func (s *TaskService) Get(ctx context.Context, user model.AuthUser, id uuid.UUID) (*model.Task, error) {
	task, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanRead(user, task) {
		return nil, E(CodeForbidden, "no access to this task")
	}
	return task, nil
}

// List returns the family's tasks matching filter, ordered per sort. Users
// only ever list their own family.
func (s *TaskService) List(ctx context.Context, user model.AuthUser, familyID uuid.UUID, filter TaskFilter, sort TaskSort) ([]model.Task, error) {
	if user.FamilyID == nil || *user.FamilyID != familyID {
		return nil, E(CodeForbidden, "no access to this family")
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := sort.Validate(); err != nil {
		return nil, err
	}

	tasks, err := s.store.ListByFamily(ctx, familyID)
	if err != nil {
		return nil, Wrap(CodeInternal, "failed to list tasks", err)
	}

	tasks = ApplyFilter(tasks, filter)
	SortTasks(tasks, sort)
	return tasks, nil
}

// Update applies a partial update. Only supplied fields are persisted;
// a parent-link change is re-validated against the hierarchy.
func (s *TaskService) Update(ctx context.Context, user model.AuthUser, id uuid.UUID, req UpdateTaskRequest) (*model.Task, error) {
	task, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanWrite(user, task) {
		return nil, E(CodeForbidden, "no access to this task")
	}

	fields := make(map[string]interface{})

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, E(CodeValidation, "title is required")
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != "" {
		if !req.Status.Valid() {
			return nil, E(CodeInvalidStatus, "unknown task status: "+string(req.Status))
		}
		fields["status"] = req.Status
		if req.Status == model.TaskStatusCompleted && task.Status != model.TaskStatusCompleted {
			fields["completed_at"] = time.Now()
		} else if req.Status != model.TaskStatusCompleted && task.Status == model.TaskStatusCompleted {
			fields["completed_at"] = nil
		}
	}
	if req.Priority != "" {
		if !req.Priority.Valid() {
			return nil, E(CodeInvalidPriority, "unknown task priority: "+string(req.Priority))
		}
		fields["priority"] = req.Priority
	}
	if req.DueDate != nil {
		if !req.DueDate.After(time.Now()) {
			return nil, E(CodePastDueDate, "due date must be in the future")
		}
		fields["due_date"] = *req.DueDate
	}
	if req.Tags != nil {
		fields["tags"] = model.Tags(*req.Tags)
	}
	if req.AssignedToID != nil {
		fields["assigned_to_id"] = *req.AssignedToID
	}

	switch {
	case req.ClearParent:
		if task.ParentTaskID != nil {
			fields["parent_task_id"] = nil
		}
	case req.ParentTaskID != nil:
		// Unchanged parent links are not re-validated.
		if task.ParentTaskID == nil || *task.ParentTaskID != *req.ParentTaskID {
			if err := s.checkParent(ctx, user, *req.ParentTaskID, task.ID); err != nil {
				return nil, err
			}
			fields["parent_task_id"] = *req.ParentTaskID
		}
	}

	if len(fields) == 0 {
		return task, nil
	}

	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, E(CodeTaskNotFound, "task not found")
		}
		return nil, Wrap(CodeInternal, "failed to update task", err)
	}
	return updated, nil
}

// Delete hard-deletes the task. Children survive with their parent link
// cleared; the store does both in one transaction.
func (s *TaskService) Delete(ctx context.Context, user model.AuthUser, id uuid.UUID) error {
	task, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if !CanWrite(user, task) {
		return E(CodeForbidden, "no access to this task")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return E(CodeTaskNotFound, "task not found")
		}
		return Wrap(CodeInternal, "failed to delete task", err)
	}
	return nil
}

func (s *TaskService) fetch(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, E(CodeTaskNotFound, "task not found")
		}
		return nil, Wrap(CodeInternal, "failed to fetch task", err)
	}
	return task, nil
}

// checkParent confirms the candidate parent exists, belongs to the user's
// family, and would not close a cycle with taskID attached under it. The
// existence check and the eventual insert are separate store round-trips;
// a concurrent parent delete between them is an accepted race backed by the
// database constraint.
func (s *TaskService) checkParent(ctx context.Context, user model.AuthUser, parentID, taskID uuid.UUID) error {
	parent, err := s.store.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return E(CodeTaskNotFound, "parent task not found")
		}
		return Wrap(CodeInternal, "failed to fetch parent task", err)
	}
	if user.FamilyID == nil || parent.FamilyID != *user.FamilyID {
		return E(CodeValidation, "parent task belongs to a different family")
	}

	cycle, err := s.hierarchy.WouldCreateCycle(ctx, parentID, taskID)
	if err != nil {
		return err
	}
	if cycle {
		return E(CodeSubtaskCycle, "task cannot be its own ancestor")
	}
	return nil
}
