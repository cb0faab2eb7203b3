package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nexboard/nexboard/dao/model"
	"github.com/nexboard/nexboard/internal/handler"
	"github.com/nexboard/nexboard/pkg/aggregate"
	"github.com/nexboard/nexboard/pkg/db/comment"
	"github.com/nexboard/nexboard/pkg/db/master"
	"github.com/nexboard/nexboard/pkg/db/orm"
	"github.com/nexboard/nexboard/pkg/db/project"
)

func newTestBackend(t *testing.T) (*Backend, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, orm.SyncSchema(db))

	conf := &handler.RegisterConfig{
		DB:        db,
		ProjectDB: project.NewDBService(db),
		MasterDB:  master.NewDBService(db),
		CommentDB: comment.NewDBService(db),
		Decorator: aggregate.NewDecorator(db),
	}
	return Register(conf), db
}

func do(t *testing.T, b *Backend, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	b.R.ServeHTTP(w, req)

	var payload map[string]any
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w, payload
}

func TestHealthz(t *testing.T) {
	b, _ := newTestBackend(t)
	w, body := do(t, b, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", body["message"])
}

func TestRequestIDHeader(t *testing.T) {
	b, _ := newTestBackend(t)
	w, _ := do(t, b, http.MethodGet, "/healthz", "")
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCreateProjectEndpoint(t *testing.T) {
	b, _ := newTestBackend(t)

	w, body := do(t, b, http.MethodPost, "/api/projects",
		`{"title":"Launch","owners":[1],"tasks":[{"title":"Design"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "Project created successfully", body["message"])

	proj, ok := body["project"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Launch", proj["title"])
	require.Nil(t, proj["category"])
	subtasks, ok := proj["subtasks"].([]any)
	require.True(t, ok)
	require.Len(t, subtasks, 1)
}

func TestCreateProjectValidation(t *testing.T) {
	b, _ := newTestBackend(t)

	w, body := do(t, b, http.MethodPost, "/api/projects", `{"description":"no title"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, false, body["success"])

	w, _ = do(t, b, http.MethodPost, "/api/projects", `{"title":"X","dueDate":"not-a-date"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProjectsEndpoint(t *testing.T) {
	b, _ := newTestBackend(t)
	for i := 0; i < 3; i++ {
		w, _ := do(t, b, http.MethodPost, "/api/projects", fmt.Sprintf(`{"title":"P%d"}`, i))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, body := do(t, b, http.MethodGet, "/api/projects?page=1&limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["success"])
	require.EqualValues(t, 3, body["total"])
	require.EqualValues(t, 1, body["page"])
	require.EqualValues(t, 2, body["limit"])
	require.Len(t, body["projects"].([]any), 2)

	w, _ = do(t, b, http.MethodGet, "/api/projects?page=0", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProjectEndpoint(t *testing.T) {
	b, _ := newTestBackend(t)

	w, body := do(t, b, http.MethodGet, "/api/projects/999", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Project not found", body["message"])

	w, _ = do(t, b, http.MethodGet, "/api/projects/abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProjectEndpoint(t *testing.T) {
	b, db := newTestBackend(t)

	w, created := do(t, b, http.MethodPost, "/api/projects", `{"title":"Before","owners":[1,2]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(created["project"].(map[string]any)["id"].(float64))

	w, body := do(t, b, http.MethodPut, fmt.Sprintf("/api/projects/%d", id),
		`{"title":"After","owners":[2,3]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Project updated successfully", body["message"])
	require.Equal(t, "After", body["project"].(map[string]any)["title"])

	var links []model.ProjectOwner
	require.NoError(t, db.Where("project_id = ?", id).Order("owner_id").Find(&links).Error)
	require.Len(t, links, 2)
	require.EqualValues(t, 2, links[0].OwnerID)
	require.EqualValues(t, 3, links[1].OwnerID)

	w, _ = do(t, b, http.MethodPut, "/api/projects/999", `{"title":"Ghost"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteEndpoints(t *testing.T) {
	b, db := newTestBackend(t)

	w, created := do(t, b, http.MethodPost, "/api/projects",
		`{"title":"Doomed","tasks":[{"title":"A"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(created["project"].(map[string]any)["id"].(float64))

	var task model.Task
	require.NoError(t, db.Where("project_id = ?", id).First(&task).Error)

	w, _ = do(t, b, http.MethodDelete, fmt.Sprintf("/api/projects/tasks/%d", task.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, b, http.MethodDelete, fmt.Sprintf("/api/projects/tasks/%d", task.ID), "")
	require.Equal(t, http.StatusNotFound, w.Code)
	w, _ = do(t, b, http.MethodDelete, "/api/projects/tasks/abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, body := do(t, b, http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Project and its tasks deleted successfully", body["message"])

	w, _ = do(t, b, http.MethodGet, fmt.Sprintf("/api/projects/%d", id), "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMasterEndpoints(t *testing.T) {
	b, db := newTestBackend(t)
	require.NoError(t, db.Create(&model.Team{Name: "Platform"}).Error)
	require.NoError(t, db.Create(&model.Board{Name: "Roadmap"}).Error)

	w, body := do(t, b, http.MethodGet, "/api/master?type=teams", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "teams", body["type"])
	require.EqualValues(t, 1, body["count"])
	require.Len(t, body["data"].([]any), 1)

	w, body = do(t, b, http.MethodGet, "/api/master?type=bogus", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, body["message"], "priority")

	w, _ = do(t, b, http.MethodGet, "/api/master", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(t, b, http.MethodGet, "/api/master/all", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	require.Len(t, data["teams"].([]any), 1)
	require.Len(t, data["boards"].([]any), 1)
	require.Empty(t, data["employees"])
}

func TestCommentEndpoints(t *testing.T) {
	b, db := newTestBackend(t)
	require.NoError(t, db.Create(&model.Employee{ID: 1, Name: "Alice"}).Error)

	w, created := do(t, b, http.MethodPost, "/api/projects",
		`{"title":"Host","tasks":[{"title":"T"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	projID := uint(created["project"].(map[string]any)["id"].(float64))

	var task model.Task
	require.NoError(t, db.Where("project_id = ?", projID).First(&task).Error)

	w, body := do(t, b, http.MethodPost, "/api/comments",
		fmt.Sprintf(`{"taskId":%d,"userId":1,"content":"nice"}`, task.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, true, body["success"])

	w, _ = do(t, b, http.MethodPost, "/api/comments", `{"taskId":1,"content":"no user"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(t, b, http.MethodPost, "/api/comments", `{"taskId":999,"userId":1,"content":"x"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, false, body["success"])

	w, body = do(t, b, http.MethodPost, "/api/comments/project",
		fmt.Sprintf(`{"projectId":%d,"content":"hello"}`, projID))
	require.Equal(t, http.StatusCreated, w.Code)
	cmt := body["comment"].(map[string]any)
	require.Equal(t, "You", cmt["userName"])

	w, body = do(t, b, http.MethodGet, fmt.Sprintf("/api/comments/task/%d", task.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	comments := body["comments"].([]any)
	require.Len(t, comments, 1)
	user := comments[0].(map[string]any)["user"].(map[string]any)
	require.Equal(t, "Alice", user["name"])

	w, body = do(t, b, http.MethodGet, fmt.Sprintf("/api/comments/project/%d", projID), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body["comments"].([]any), 1)
}

func TestMetricsEndpoint(t *testing.T) {
	b, _ := newTestBackend(t)
	do(t, b, http.MethodGet, "/healthz", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	b.R.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "nexboard_http_requests_total")
}
