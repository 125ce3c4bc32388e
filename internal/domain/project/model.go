package project

import "strconv"

// Table names, also used as audit table identifiers.
const (
	TableProjects     = "projects"
	TableTags         = "project_tags"
	TableContributors = "project_individuals"
	TableTimeline     = "timeline_items"
)

// Project is a registry entry and the owner of its child collections.
type Project struct {
	ID string `json:"id"`
	Fields
	Version int64 `json:"version"`
	AuditFields

	Tags         []*Tag          `json:"tags"`
	Contributors []*Contributor  `json:"contributors"`
	Timeline     []*TimelineItem `json:"timeline"`
}

func (p *Project) TableName() string    { return TableProjects }
func (p *Project) PrimaryKey() []string { return []string{p.ID} }

// Columns leaves out version: it advances after the row's audit record is
// written, so a snapshot would always show the previous value.
func (p *Project) Columns() map[string]any {
	cols := map[string]any{
		"id": p.ID,
	}
	p.Fields.columns(cols)
	p.AuditFields.columns(cols)
	return cols
}

// Tag is a free-text label. Its value is its identity within a project.
type Tag struct {
	ID        int64  `json:"id"`
	ProjectID string `json:"project_id"`
	Value     string `json:"tag"`
	AuditFields
}

func (t *Tag) TableName() string    { return TableTags }
func (t *Tag) PrimaryKey() []string { return []string{strconv.FormatInt(t.ID, 10)} }

func (t *Tag) Columns() map[string]any {
	cols := map[string]any{
		"id":         t.ID,
		"project_id": t.ProjectID,
		"tag":        t.Value,
	}
	t.AuditFields.columns(cols)
	return cols
}

// Contributor is a person involved in a project, identified by display name.
type Contributor struct {
	ID        int64  `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	AuditFields
}

func (c *Contributor) TableName() string    { return TableContributors }
func (c *Contributor) PrimaryKey() []string { return []string{strconv.FormatInt(c.ID, 10)} }

func (c *Contributor) Columns() map[string]any {
	cols := map[string]any{
		"id":         c.ID,
		"project_id": c.ProjectID,
		"name":       c.Name,
	}
	c.AuditFields.columns(cols)
	return cols
}

// TimelineItem is a milestone. Title and Date identify it; Description and
// StepActive are mutable.
type TimelineItem struct {
	ID          int64  `json:"id"`
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StepActive  bool   `json:"is_step_active"`
	AuditFields
}

func (i *TimelineItem) TableName() string    { return TableTimeline }
func (i *TimelineItem) PrimaryKey() []string { return []string{strconv.FormatInt(i.ID, 10)} }

func (i *TimelineItem) Columns() map[string]any {
	cols := map[string]any{
		"id":             i.ID,
		"project_id":     i.ProjectID,
		"title":          i.Title,
		"description":    i.Description,
		"date":           i.Date,
		"is_step_active": i.StepActive,
	}
	i.AuditFields.columns(cols)
	return cols
}

// Payload is the desired state of a project submitted by a caller.
type Payload struct {
	ID string `json:"id,omitempty"`
	Fields
	Tags         []string        `json:"tags"`
	Contributors []string        `json:"contributors"`
	Timeline     []TimelineInput `json:"timeline"`
}

// TimelineInput is one desired milestone.
type TimelineInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	StepActive  bool   `json:"is_step_active"`
}

func (p Payload) desiredTags() []*Tag {
	tags := make([]*Tag, 0, len(p.Tags))
	for _, value := range p.Tags {
		tags = append(tags, &Tag{Value: value})
	}
	return tags
}

func (p Payload) desiredContributors() []*Contributor {
	contributors := make([]*Contributor, 0, len(p.Contributors))
	for _, name := range p.Contributors {
		contributors = append(contributors, &Contributor{Name: name})
	}
	return contributors
}

func (p Payload) desiredTimeline() []*TimelineItem {
	items := make([]*TimelineItem, 0, len(p.Timeline))
	for _, in := range p.Timeline {
		items = append(items, &TimelineItem{
			Title:       in.Title,
			Description: in.Description,
			Date:        in.Date,
			StepActive:  in.StepActive,
		})
	}
	return items
}
