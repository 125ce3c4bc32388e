package project

import (
	"context"
	"fmt"
)

// TopTagsLimit bounds the tag ranking of the overview.
const TopTagsLimit = 10

// Count is one bucket of a grouped count.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Overview summarizes the live registry.
type Overview struct {
	TotalProjects    int     `json:"total_projects"`
	ActiveMilestones int     `json:"active_milestones"`
	ByStatus         []Count `json:"projects_by_status"`
	ByFunction       []Count `json:"projects_by_function"`
	ByBenefits       []Count `json:"projects_by_benefits"`
	ByAIBenefits     []Count `json:"projects_by_ai_benefits"`
	TopTags          []Count `json:"top_tags"`
}

// Progress is the milestone completion of one project.
type Progress struct {
	ProjectID           string  `json:"project_id"`
	ProjectTitle        string  `json:"project_title"`
	Status              string  `json:"status"`
	TotalMilestones     int     `json:"total_milestones"`
	ActiveMilestones    int     `json:"active_milestones"`
	CompletedMilestones int     `json:"completed_milestones"`
	ProgressPercentage  float64 `json:"progress_percentage"`
}

// NewProgress derives completion from total and active milestone counts.
// A milestone that is not the active step counts as completed.
func NewProgress(id, title, status string, total, active int) Progress {
	p := Progress{
		ProjectID:           id,
		ProjectTitle:        title,
		Status:              status,
		TotalMilestones:     total,
		ActiveMilestones:    active,
		CompletedMilestones: total - active,
	}
	if total > 0 {
		p.ProgressPercentage = float64(p.CompletedMilestones) / float64(total) * 100
	}
	return p
}

// TimelineReport is the per-project milestone progress of the live registry.
type TimelineReport struct {
	Projects           []Progress `json:"project_progress"`
	TotalTimelineItems int        `json:"total_timeline_items"`
}

// Overview returns dashboard counts over live projects and live children.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	overview, err := s.store.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("building overview: %w", err)
	}
	return overview, nil
}

// TimelineProgress returns milestone progress for every live project.
func (s *Service) TimelineProgress(ctx context.Context) (*TimelineReport, error) {
	report, err := s.store.TimelineProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("building timeline progress: %w", err)
	}
	return report, nil
}
