package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/project-registry/internal/domain/project"
)

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project with its tags, contributors and timeline",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
		proj, err := svc.Projects.Create(ctx, getActor(ctx), in.Project.payload(in.ID))
		return respond(proj, err)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a live project with its live children",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
		proj, err := svc.Projects.Get(ctx, in.ID)
		return respond(proj, err)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List live projects, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
		projects, err := svc.Projects.List(ctx, project.ListOptions{Status: in.Status, Function: in.Function, Tag: in.Tag})
		if projects == nil {
			projects = []*project.Project{}
		}
		return respond(ListProjectsResponse{Projects: projects}, err)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name: "update_project",
		Description: "Replace a project's desired state. Unchanged fields and children are left alone; " +
			"children missing from the lists are soft-deleted",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateProjectParams) (*sdkmcp.CallToolResult, any, error) {
		result, err := svc.Projects.Update(ctx, getActor(ctx), in.ID, in.Project.payload(in.ID), in.ExpectedVersion)
		return respond(result, err)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Soft-delete a project and all of its children",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteProjectParams) (*sdkmcp.CallToolResult, any, error) {
		err := svc.Projects.Delete(ctx, getActor(ctx), in.ID)
		return respond(DeleteProjectResponse{ID: in.ID, Deleted: err == nil}, err)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_audit_history",
		Description: "List audit records, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetAuditHistoryParams) (*sdkmcp.CallToolResult, any, error) {
		records, err := svc.Audit.History(ctx, in.filter())
		return respond(AuditHistoryResponse{Records: records}, err)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_analytics_overview",
		Description: "Counts of live projects by status, function and benefit category, plus top tags",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
		overview, err := svc.Projects.Overview(ctx)
		return respond(overview, err)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_timeline_progress",
		Description: "Milestone completion for every live project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
		report, err := svc.Projects.TimelineProgress(ctx)
		return respond(report, err)
	})
}

// respond renders v as JSON text content, or err as a tool error.
func respond(v any, err error) (*sdkmcp.CallToolResult, any, error) {
	if err != nil {
		return errorResult(err), nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
