package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"famtasks/internal/handler"
	"famtasks/internal/middleware"
	"famtasks/internal/model"
	"famtasks/internal/repository"
	"famtasks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fakeTaskStore keeps tasks in memory so handler tests exercise the full
// service path without a database.
type fakeTaskStore struct {
	tasks map[uuid.UUID]*model.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*model.Task)}
}

func (f *fakeTaskStore) Create(_ context.Context, task *model.Task) error {
	cp := *task
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskStore) GetByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	cp := *task
	return &cp, nil
}

func (f *fakeTaskStore) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	for key, value := range fields {
		switch key {
		case "title":
			task.Title = value.(string)
		case "description":
			task.Description = value.(string)
		case "status":
			task.Status = value.(model.TaskStatus)
		case "priority":
			task.Priority = value.(model.TaskPriority)
		case "due_date":
			d := value.(time.Time)
			task.DueDate = &d
		case "completed_at":
			if value == nil {
				task.CompletedAt = nil
			} else {
				ts := value.(time.Time)
				task.CompletedAt = &ts
			}
		case "tags":
			task.Tags = value.(model.Tags)
		case "assigned_to_id":
			id := value.(uuid.UUID)
			task.AssignedToID = &id
		case "parent_task_id":
			if value == nil {
				task.ParentTaskID = nil
			} else {
				p := value.(uuid.UUID)
				task.ParentTaskID = &p
			}
		}
	}
	task.UpdatedAt = time.Now()
	cp := *task
	return &cp, nil
}

func (f *fakeTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	for _, task := range f.tasks {
		if task.ParentTaskID != nil && *task.ParentTaskID == id {
			task.ParentTaskID = nil
		}
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskStore) ListByFamily(_ context.Context, familyID uuid.UUID) ([]model.Task, error) {
	var out []model.Task
	for _, task := range f.tasks {
		if task.FamilyID == familyID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func setupTaskTest(user *model.User) (*gin.Engine, *fakeTaskStore) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store := newFakeTaskStore()
	svc := service.NewTaskService(store)

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	taskHandler := handler.NewTaskHandler(svc, mockRepo)

	// Stand-in for the JWT middleware: inject the user id directly
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		c.Next()
	})

	r.POST("/tasks", taskHandler.Create)
	r.GET("/tasks/:id", taskHandler.GetByID)
	r.PUT("/tasks/:id", taskHandler.Update)
	r.DELETE("/tasks/:id", taskHandler.Delete)
	r.POST("/tasks/:id/complete", taskHandler.Complete)
	r.GET("/families/:id/tasks", taskHandler.ListByFamily)

	return r, store
}

func familyUser() *model.User {
	familyID := uuid.New()
	return &model.User{
		ID:       uuid.New(),
		Email:    "parent@example.com",
		Name:     "Parent",
		Role:     model.RoleMember,
		FamilyID: &familyID,
	}
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestTaskCreate_DefaultsApplied(t *testing.T) {
	// Arrange
	user := familyUser()
	router, _ := setupTaskTest(user)

	// Act
	resp := doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{Title: "Plan trip"})

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var task handler.TaskResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &task))
	assert.Equal(t, "Plan trip", task.Title)
	assert.Equal(t, "PENDING", task.Status)
	assert.Equal(t, "MEDIUM", task.Priority)
	assert.Equal(t, user.FamilyID.String(), task.FamilyID)
	assert.Equal(t, user.ID.String(), task.CreatorID)
	// Assignment defaults to the creator
	assert.NotNil(t, task.AssignedToID)
	assert.Equal(t, user.ID.String(), *task.AssignedToID)
}

func TestTaskCreate_InvalidStatusCode(t *testing.T) {
	// Arrange
	user := familyUser()
	router, _ := setupTaskTest(user)

	// Act
	resp := doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{Title: "x", Status: "DONE"})

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), string(service.CodeInvalidStatus))
}

func TestTaskCreate_PastDueDateCode(t *testing.T) {
	// Arrange
	user := familyUser()
	router, _ := setupTaskTest(user)

	past := time.Now().Add(-time.Hour)

	// Act
	resp := doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{Title: "x", DueDate: &past})

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), string(service.CodePastDueDate))
}

func TestTaskGet_NotFoundVsForbidden(t *testing.T) {
	// Arrange
	user := familyUser()
	router, store := setupTaskTest(user)

	foreign := &model.Task{
		ID:        uuid.New(),
		FamilyID:  uuid.New(),
		CreatorID: uuid.New(),
		Title:     "not yours",
		Status:    model.TaskStatusPending,
		Priority:  model.TaskPriorityMedium,
	}
	store.tasks[foreign.ID] = foreign

	// Act / Assert: unknown id is 404
	resp := doJSON(router, "GET", "/tasks/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), string(service.CodeTaskNotFound))

	// Existing task in another family is 403, not 404
	resp = doJSON(router, "GET", "/tasks/"+foreign.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), string(service.CodeForbidden))
}

func TestTaskUpdate_SubtaskCycle(t *testing.T) {
	// Arrange
	user := familyUser()
	router, _ := setupTaskTest(user)

	respA := doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{Title: "Plan trip"})
	assert.Equal(t, http.StatusCreated, respA.Code)
	var a handler.TaskResponse
	assert.NoError(t, json.Unmarshal(respA.Body.Bytes(), &a))

	respB := doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{Title: "Book hotel", ParentTaskID: &a.ID})
	assert.Equal(t, http.StatusCreated, respB.Code)
	var b handler.TaskResponse
	assert.NoError(t, json.Unmarshal(respB.Body.Bytes(), &b))

	// Act: reparent A under its own subtask
	resp := doJSON(router, "PUT", "/tasks/"+a.ID, handler.TaskUpdateRequest{ParentTaskID: &b.ID})

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), string(service.CodeSubtaskCycle))
}

func TestTaskComplete(t *testing.T) {
	// Arrange
	user := familyUser()
	router, _ := setupTaskTest(user)

	created := doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{Title: "chore"})
	var task handler.TaskResponse
	assert.NoError(t, json.Unmarshal(created.Body.Bytes(), &task))

	// Act
	resp := doJSON(router, "POST", "/tasks/"+task.ID+"/complete", nil)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	var completed handler.TaskResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &completed))
	assert.Equal(t, "COMPLETED", completed.Status)
	assert.NotNil(t, completed.CompletedAt)
}

func TestTaskDelete_DetachesChildren(t *testing.T) {
	// Arrange
	user := familyUser()
	router, _ := setupTaskTest(user)

	created := doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{Title: "parent"})
	var parent handler.TaskResponse
	assert.NoError(t, json.Unmarshal(created.Body.Bytes(), &parent))

	created = doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{Title: "child", ParentTaskID: &parent.ID})
	var child handler.TaskResponse
	assert.NoError(t, json.Unmarshal(created.Body.Bytes(), &child))

	// Act
	resp := doJSON(router, "DELETE", "/tasks/"+parent.ID, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Assert: parent gone, child survives without a parent link
	resp = doJSON(router, "GET", "/tasks/"+parent.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doJSON(router, "GET", "/tasks/"+child.ID, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	var got handler.TaskResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Nil(t, got.ParentTaskID)
}

func TestTaskList_SortAndFilter(t *testing.T) {
	// Arrange
	user := familyUser()
	router, _ := setupTaskTest(user)

	for _, p := range []string{"URGENT", "MEDIUM", "LOW"} {
		resp := doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{Title: p, Priority: p})
		assert.Equal(t, http.StatusCreated, resp.Code)
	}

	familyID := user.FamilyID.String()

	// Default ordering: LOW first
	resp := doJSON(router, "GET", "/families/"+familyID+"/tasks", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	var tasks []handler.TaskResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 3)
	assert.Equal(t, "LOW", tasks[0].Priority)
	assert.Equal(t, "URGENT", tasks[2].Priority)

	// Descending priority: URGENT first
	resp = doJSON(router, "GET", "/families/"+familyID+"/tasks?sort_by=priority&order=desc", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tasks))
	assert.Equal(t, "URGENT", tasks[0].Priority)

	// Priority filter narrows the listing
	resp = doJSON(router, "GET", "/families/"+familyID+"/tasks?priority=LOW", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)

	// Unknown sort field is rejected, never ignored
	resp = doJSON(router, "GET", "/families/"+familyID+"/tasks?sort_by=title", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Another family's listing is forbidden
	resp = doJSON(router, "GET", "/families/"+uuid.New().String()+"/tasks", nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
