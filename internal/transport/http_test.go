package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/domain/project"
	"github.com/ganot/project-registry/internal/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	return NewRouter(Config{
		Projects:     project.NewService(sqlite.NewStore(db), nil),
		Audit:        audit.NewService(sqlite.NewAuditRepository(db), nil),
		DefaultActor: "rest-default",
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics\n"))
		}),
	})
}

func do(t *testing.T, r http.Handler, method, path string, body any, actor string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(ActorHeader, actor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func sampleRequest(id string, tags ...string) map[string]any {
	return map[string]any{
		"id":          id,
		"title":       "Invoice Reader",
		"description": "Reads invoices",
		"status":      "Active",
		"tags":        tags,
		"timeline": []map[string]any{
			{"title": "Kickoff", "date": "Jan 1", "description": "start", "is_step_active": true},
		},
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[HealthResponse](t, w).Status)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# metrics")
}

func TestProjectLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/projects", sampleRequest("p1", "ai", "ml"), "alice")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[project.Project](t, w)
	assert.Equal(t, "p1", created.ID)
	assert.Equal(t, int64(1), created.Version)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, "alice", *created.CreatedBy)
	assert.Len(t, created.Tags, 2)

	w = do(t, r, http.MethodGet, "/projects/p1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Invoice Reader", decode[project.Project](t, w).Title)

	update := sampleRequest("", "ai", "nlp")
	update["expected_version"] = 1
	w = do(t, r, http.MethodPut, "/projects/p1", update, "bob")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[project.UpdateResult](t, w)
	assert.Empty(t, result.FieldsChanged)
	assert.Equal(t, 1, result.Changes.Tags.Added)
	assert.Equal(t, 1, result.Changes.Tags.Removed)
	assert.Equal(t, 1, result.Changes.Tags.Kept)
	assert.Equal(t, int64(2), result.Project.Version)

	w = do(t, r, http.MethodDelete, "/projects/p1", nil, "carol")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/projects/p1", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, decode[ErrorResponse](t, w).Code)
}

func TestCreateProject_Errors(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/projects", map[string]any{"description": "x", "status": "Active"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidInput, decode[ErrorResponse](t, w).Code)

	w = do(t, r, http.MethodPost, "/projects", sampleRequest("p1", ""), "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "blank tag")

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/projects", sampleRequest("p1"), "").Code)
	w = do(t, r, http.MethodPost, "/projects", sampleRequest("p1"), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeAlreadyExists, decode[ErrorResponse](t, w).Code)
}

func TestUpdateProject_StaleVersion(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/projects", sampleRequest("p1"), "").Code)

	update := sampleRequest("", "new")
	update["expected_version"] = 7
	w := do(t, r, http.MethodPut, "/projects/p1", update, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeConflict, decode[ErrorResponse](t, w).Code)

	w = do(t, r, http.MethodPut, "/projects/missing", sampleRequest(""), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProjects_Filters(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/projects", sampleRequest("p1", "ai"), "").Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/projects", sampleRequest("p2", "ops"), "").Code)

	w := do(t, r, http.MethodGet, "/projects", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[ListProjectsResponse](t, w).Projects, 2)

	w = do(t, r, http.MethodGet, "/projects?tag=ai", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[ListProjectsResponse](t, w)
	require.Len(t, list.Projects, 1)
	assert.Equal(t, "p1", list.Projects[0].ID)

	w = do(t, r, http.MethodGet, "/projects?status=Paused", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"projects":[]}`, w.Body.String())
}

func TestAuditHistory(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/projects", sampleRequest("p1", "ai"), "").Code)

	w := do(t, r, http.MethodGet, "/audit?table_name=projects&row_id=p1", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	records := decode[AuditResponse](t, w).Records
	require.Len(t, records, 1)
	assert.Equal(t, audit.ActionInsert, records[0].Action)
	assert.Equal(t, "rest-default", records[0].Actor)
	require.NotNil(t, records[0].Context)
	assert.Equal(t, project.ContextCreate, *records[0].Context)

	w = do(t, r, http.MethodGet, "/audit?action=UPSERT", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/audit?limit=5000", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalytics(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/projects", sampleRequest("p1", "ai"), "").Code)

	w := do(t, r, http.MethodGet, "/analytics/overview", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	overview := decode[project.Overview](t, w)
	assert.Equal(t, 1, overview.TotalProjects)
	assert.Equal(t, 1, overview.ActiveMilestones)

	w = do(t, r, http.MethodGet, "/analytics/timeline", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[project.TimelineReport](t, w)
	require.Len(t, report.Projects, 1)
	assert.Equal(t, 1, report.Projects[0].TotalMilestones)
}

type failingProjects struct {
	ProjectService
	err error
}

func (f failingProjects) Get(context.Context, string) (*project.Project, error) {
	return nil, f.err
}

func TestInternalErrorsAreHidden(t *testing.T) {
	r := NewRouter(Config{Projects: failingProjects{err: errors.New("disk on fire")}})

	w := do(t, r, http.MethodGet, "/projects/p1", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, CodeInternal, resp.Code)
	assert.NotContains(t, resp.Error, "disk")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{project.ErrProjectNotFound, http.StatusNotFound, CodeNotFound},
		{fmt.Errorf("updating project: %w", project.ErrConflict), http.StatusConflict, CodeConflict},
		{project.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists},
		{project.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
		{audit.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
		{errors.New("other"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		status, code := StatusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}
