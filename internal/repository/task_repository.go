package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"famtasks/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListByFamily retrieves all tasks belonging to a family
func (r *TaskRepository) ListByFamily(ctx context.Context, familyID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("family_id = ?", familyID).Order("created_at").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update persists only the given fields and returns the refreshed task.
// The updated_at stamp is the database layer's job.
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Task, error) {
	result := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a task and detaches its children in one transaction, so no
// live subtask is left pointing at a missing parent.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Task{}).
			Where("parent_task_id = ?", id).
			Update("parent_task_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Task{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// CountChildren returns the number of direct subtasks of a task.
func (r *TaskRepository) CountChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("parent_task_id = ?", id).
		Count(&count).Error
	return count, err
}
