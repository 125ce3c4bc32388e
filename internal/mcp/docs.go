package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `project-registry tracks projects with their tags, contributors and timeline milestones, and keeps an audit log of every change.

Core concepts:
- Project: scalar fields plus three child collections. Carries a version that advances on every effective change.
- Tag / contributor: identified by value within a project.
- Milestone: identified by title + date; description and is_step_active can change in place.
- Soft delete: nothing is physically removed. Deleted rows disappear from every read but stay in the audit log.

Writing:
1) Send the complete desired state to create_project or update_project. Children missing from a list are deleted.
2) Resending the same state is a no-op: no writes, no audit records, no version change.
3) Pass expected_version from get_project to update_project to reject stale writes (CONFLICT).
4) Identify yourself with _meta.actor (stdio) or the X-Actor header (HTTP); otherwise the server default is recorded.

Docs:
- registry://docs/concepts
- registry://docs/audit
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "registry://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Registry concepts",
		Description: "Identity rules, reconciliation and versioning.",
		Content: `# Registry concepts

## Identity

| Collection | Identity | Mutable in place |
|---|---|---|
| tags | tag value | nothing |
| contributors | name | nothing |
| timeline | title + date | description, is_step_active |

Changing a milestone's title or date deletes the old milestone and creates a new one.
Duplicate entries in a desired list collapse to one; the last one wins.

## Reconciliation

For each collection the server compares the desired list with the live rows:

- desired but not live: inserted
- live but not desired: soft-deleted
- in both: updated only when a mutable field differs

Scalar fields are compared with null and "" treated as equal.

## Versioning

` + "`version`" + ` starts at 1 and increments once per update that wrote anything.
Supplying ` + "`expected_version`" + ` turns an update into compare-and-swap.
`,
	},
	{
		URI:         "registry://docs/audit",
		Name:        "docs_audit",
		Title:       "Audit log",
		Description: "What gets recorded and how to query it.",
		Content: `# Audit log

Every insert, update and soft delete of a project or child row writes one audit record in the same transaction:

- ` + "`old_data`" + `: row snapshot before the change (null for INSERT)
- ` + "`new_data`" + `: row snapshot after the change (null for DELETE)
- ` + "`actor`" + `: who made the change
- ` + "`context`" + `: create, smart-update or delete

Version increments are not audited.

Query with ` + "`get_audit_history`" + `, filtering by table_name, row_id, action or actor.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
