package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"famtasks/internal/model"
)

// TaskFilter is the declarative selection over a family's tasks. All
// predicates are optional and conjunctive.
type TaskFilter struct {
	Status       []model.TaskStatus
	Priority     []model.TaskPriority
	AssignedToID *uuid.UUID
	// Tags selects tasks whose tag set contains every listed tag.
	Tags         []string
	ParentTaskID *uuid.UUID
	HasSubtasks  *bool
	// DueFrom/DueUntil bound DueDate inclusively on both ends.
	DueFrom  *time.Time
	DueUntil *time.Time
}

// Validate rejects unrecognized enum members before any query runs.
func (f TaskFilter) Validate() error {
	for _, s := range f.Status {
		if !s.Valid() {
			return E(CodeInvalidStatus, "unknown task status: "+string(s))
		}
	}
	for _, p := range f.Priority {
		if !p.Valid() {
			return E(CodeInvalidPriority, "unknown task priority: "+string(p))
		}
	}
	return nil
}

type SortField string

const (
	SortByPriority  SortField = "priority"
	SortByDueDate   SortField = "dueDate"
	SortByCreatedAt SortField = "createdAt"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TaskSort is an explicit ordering request. The zero value means default
// ordering: ascending priority rank (LOW first), then due date, nulls last.
type TaskSort struct {
	By    SortField
	Order SortOrder
}

// Validate rejects unknown sort fields and orders; it never silently ignores
// them.
func (s TaskSort) Validate() error {
	switch s.By {
	case "", SortByPriority, SortByDueDate, SortByCreatedAt:
	default:
		return E(CodeValidation, "unknown sort field: "+string(s.By))
	}
	switch s.Order {
	case "", SortAsc, SortDesc:
	default:
		return E(CodeValidation, "unknown sort order: "+string(s.Order))
	}
	return nil
}

// ApplyFilter selects the tasks matching f. The hasSubtasks predicate is
// answered from the same family listing, so it needs no extra store trips.
func ApplyFilter(tasks []model.Task, f TaskFilter) []model.Task {
	var childCount map[uuid.UUID]int
	if f.HasSubtasks != nil {
		childCount = make(map[uuid.UUID]int)
		for _, t := range tasks {
			if t.ParentTaskID != nil {
				childCount[*t.ParentTaskID]++
			}
		}
	}

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if len(f.Status) > 0 && !containsStatus(f.Status, t.Status) {
			continue
		}
		if len(f.Priority) > 0 && !containsPriority(f.Priority, t.Priority) {
			continue
		}
		if f.AssignedToID != nil {
			if t.AssignedToID == nil || *t.AssignedToID != *f.AssignedToID {
				continue
			}
		}
		if len(f.Tags) > 0 && !t.Tags.Contains(f.Tags) {
			continue
		}
		if f.ParentTaskID != nil {
			if t.ParentTaskID == nil || *t.ParentTaskID != *f.ParentTaskID {
				continue
			}
		}
		if f.HasSubtasks != nil {
			if *f.HasSubtasks != (childCount[t.ID] > 0) {
				continue
			}
		}
		if f.DueFrom != nil {
			if t.DueDate == nil || t.DueDate.Before(*f.DueFrom) {
				continue
			}
		}
		if f.DueUntil != nil {
			if t.DueDate == nil || t.DueDate.After(*f.DueUntil) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// SortTasks orders tasks in place per s. Ties and missing due dates keep
// their relative order (stable sort, nulls last).
func SortTasks(tasks []model.Task, s TaskSort) {
	desc := s.Order == SortDesc

	var less func(a, b *model.Task) bool
	switch s.By {
	case SortByDueDate:
		less = func(a, b *model.Task) bool { return dueDateLess(a, b, desc) }
	case SortByCreatedAt:
		less = func(a, b *model.Task) bool {
			if desc {
				return b.CreatedAt.Before(a.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case SortByPriority:
		less = func(a, b *model.Task) bool {
			if desc {
				return a.Priority.Rank() > b.Priority.Rank()
			}
			return a.Priority.Rank() < b.Priority.Rank()
		}
	default:
		// Default ordering: priority rank ascending, then due date
		// ascending with nulls last.
		less = func(a, b *model.Task) bool {
			if a.Priority.Rank() != b.Priority.Rank() {
				return a.Priority.Rank() < b.Priority.Rank()
			}
			return dueDateLess(a, b, false)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return less(&tasks[i], &tasks[j])
	})
}

func dueDateLess(a, b *model.Task, desc bool) bool {
	// Tasks without a due date always sort after dated ones.
	if a.DueDate == nil {
		return false
	}
	if b.DueDate == nil {
		return true
	}
	if desc {
		return b.DueDate.Before(*a.DueDate)
	}
	return a.DueDate.Before(*b.DueDate)
}

func containsStatus(set []model.TaskStatus, s model.TaskStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsPriority(set []model.TaskPriority, p model.TaskPriority) bool {
	for _, v := range set {
		if v == p {
			return true
		}
	}
	return false
}
