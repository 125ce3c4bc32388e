package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/domain/project"
	"github.com/ganot/project-registry/internal/sqlite"
)

func newTestSession(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	server := NewServer(Config{
		Services: Services{
			Projects: project.NewService(sqlite.NewStore(db), nil),
			Audit:    audit.NewService(sqlite.NewAuditRepository(db), nil),
		},
		DefaultActor: "mcp-default",
	})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, meta sdkmcp.Meta) (*sdkmcp.CallToolResult, string) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Meta:      meta,
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "tool %s returned no text content", name)
	return result, text.Text
}

func projectArgs(title string, tags ...string) map[string]any {
	args := map[string]any{
		"title":       title,
		"description": "Reads invoices",
		"status":      "Active",
		"timeline": []map[string]any{
			{"title": "Kickoff", "date": "Jan 1", "description": "start"},
		},
	}
	if len(tags) > 0 {
		args["tags"] = tags
	}
	return args
}

func TestServer_ListsTools(t *testing.T) {
	session := newTestSession(t)

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"create_project",
		"get_project",
		"list_projects",
		"update_project",
		"delete_project",
		"get_audit_history",
		"get_analytics_overview",
		"get_timeline_progress",
	}, names)
}

func TestServer_ProjectLifecycle(t *testing.T) {
	session := newTestSession(t)
	bob := sdkmcp.Meta{"actor": "bob"}

	result, text := callTool(t, session, "create_project", map[string]any{
		"id":      "p1",
		"project": projectArgs("Invoice OCR", "Finance", "IT"),
	}, bob)
	require.False(t, result.IsError, text)

	var created project.Project
	require.NoError(t, json.Unmarshal([]byte(text), &created))
	assert.Equal(t, "p1", created.ID)
	assert.Len(t, created.Tags, 2)
	assert.Equal(t, int64(1), created.Version)

	result, text = callTool(t, session, "update_project", map[string]any{
		"id":               "p1",
		"expected_version": 1,
		"project":          projectArgs("Invoice OCR", "IT", "Ops"),
	}, nil)
	require.False(t, result.IsError, text)

	var updated project.UpdateResult
	require.NoError(t, json.Unmarshal([]byte(text), &updated))
	assert.Equal(t, project.Outcome{Added: 1, Removed: 1, Kept: 1}, updated.Changes.Tags)
	assert.Equal(t, int64(2), updated.Project.Version)

	_, text = callTool(t, session, "get_audit_history", map[string]any{"table_name": "project_tags"}, nil)
	var history AuditHistoryResponse
	require.NoError(t, json.Unmarshal([]byte(text), &history))
	require.Len(t, history.Records, 4)
	assert.Equal(t, "mcp-default", history.Records[0].Actor)
	assert.Equal(t, "bob", history.Records[3].Actor)

	_, text = callTool(t, session, "list_projects", map[string]any{"tag": "Ops"}, nil)
	var list ListProjectsResponse
	require.NoError(t, json.Unmarshal([]byte(text), &list))
	require.Len(t, list.Projects, 1)

	result, text = callTool(t, session, "delete_project", map[string]any{"id": "p1"}, bob)
	require.False(t, result.IsError, text)

	result, text = callTool(t, session, "get_project", map[string]any{"id": "p1"}, nil)
	require.True(t, result.IsError)
	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(text), &apiErr))
	assert.Equal(t, "PROJECT_NOT_FOUND", apiErr.Code)
}

func TestServer_StaleVersionConflicts(t *testing.T) {
	session := newTestSession(t)

	result, text := callTool(t, session, "create_project", map[string]any{
		"id":      "p1",
		"project": projectArgs("Invoice OCR", "Finance"),
	}, nil)
	require.False(t, result.IsError, text)

	result, text = callTool(t, session, "update_project", map[string]any{
		"id":               "p1",
		"expected_version": 5,
		"project":          projectArgs("Invoice OCR", "Ops"),
	}, nil)
	require.True(t, result.IsError)
	assert.Contains(t, text, `"code":"CONFLICT"`)

	result, text = callTool(t, session, "create_project", map[string]any{
		"id":      "p1",
		"project": projectArgs("Invoice OCR"),
	}, nil)
	require.True(t, result.IsError)
	assert.Contains(t, text, `"code":"ALREADY_EXISTS"`)

	result, text = callTool(t, session, "get_audit_history", map[string]any{"action": "TRUNCATE"}, nil)
	require.True(t, result.IsError)
	assert.Contains(t, text, `"code":"INVALID_INPUT"`)
}

func TestServer_Analytics(t *testing.T) {
	session := newTestSession(t)

	_, text := callTool(t, session, "create_project", map[string]any{
		"project": projectArgs("Invoice OCR", "Finance"),
	}, nil)
	require.NotContains(t, text, "code")

	_, text = callTool(t, session, "get_analytics_overview", map[string]any{}, nil)
	var overview project.Overview
	require.NoError(t, json.Unmarshal([]byte(text), &overview))
	assert.Equal(t, 1, overview.TotalProjects)
	assert.Equal(t, []project.Count{{Key: "Finance", Count: 1}}, overview.TopTags)

	_, text = callTool(t, session, "get_timeline_progress", map[string]any{}, nil)
	var report project.TimelineReport
	require.NoError(t, json.Unmarshal([]byte(text), &report))
	require.Len(t, report.Projects, 1)
	assert.Equal(t, 1, report.TotalTimelineItems)
	assert.Equal(t, 100.0, report.Projects[0].ProgressPercentage)
}

func TestServer_ReadsDocs(t *testing.T) {
	session := newTestSession(t)

	result, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "registry://docs/concepts"})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, "Reconciliation")
}

func TestMapError(t *testing.T) {
	assert.Nil(t, MapError(nil))
	assert.Equal(t, "PROJECT_NOT_FOUND", MapError(project.ErrProjectNotFound).Code)
	assert.Equal(t, "INTERNAL", MapError(assert.AnError).Code)
	assert.NotContains(t, MapError(assert.AnError).Message, assert.AnError.Error())
}
