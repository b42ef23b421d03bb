package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// Valid reports whether s is a recognized status value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// Valid reports whether p is a recognized priority value.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Rank returns the numeric ordering of a priority: LOW=1 .. URGENT=4.
// Unknown values rank below LOW so they never float to the top.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityLow:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityHigh:
		return 3
	case TaskPriorityUrgent:
		return 4
	}
	return 0
}

// Tags is the domain-side view of a task's tag set. The database stores it
// as a single comma-joined text column; that encoding stays inside Value/Scan
// and never leaks into filtering.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "", nil
	}
	return strings.Join(t, ","), nil
}

func (t *Tags) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("tags: cannot scan %T", src)
	}
	if raw == "" {
		*t = nil
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make(Tags, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*t = out
	return nil
}

// Contains reports whether the tag set includes every given tag.
// Matching is on whole tags, not substrings.
func (t Tags) Contains(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range t {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type Task struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	FamilyID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	CreatorID    uuid.UUID    `gorm:"type:uuid;not null"`
	AssignedToID *uuid.UUID   `gorm:"type:uuid"`
	ParentTaskID *uuid.UUID   `gorm:"type:uuid;index"`
	Title        string       `gorm:"not null"`
	Description  string
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:PENDING"`
	Priority     TaskPriority `gorm:"type:varchar(20);not null;default:MEDIUM"`
	DueDate      *time.Time
	CompletedAt  *time.Time
	Tags         Tags         `gorm:"type:text"`
	CreatedAt    time.Time    `gorm:"autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime"`

	Family   Family `gorm:"foreignKey:FamilyID"`
	Creator  User   `gorm:"foreignKey:CreatorID"`
	Assignee User   `gorm:"foreignKey:AssignedToID"`
}
