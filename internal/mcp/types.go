package mcp

import (
	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/domain/project"
)

type TimelineParams struct {
	Title        string `json:"title" jsonschema:"Milestone title, part of its identity"`
	Date         string `json:"date" jsonschema:"Milestone date as free text, part of its identity"`
	Description  string `json:"description,omitempty" jsonschema:"What the milestone covers"`
	IsStepActive bool   `json:"is_step_active,omitempty" jsonschema:"True while this is the current step"`
}

type ProjectParams struct {
	Title                    string           `json:"title" jsonschema:"Project title"`
	Description              string           `json:"description" jsonschema:"Project description"`
	Status                   string           `json:"status" jsonschema:"Lifecycle status such as Active or Done"`
	WhyWeBuiltThis           *string          `json:"why_we_built_this,omitempty"`
	WhatWeveBuilt            *string          `json:"what_weve_built,omitempty"`
	NTIStatus                *string          `json:"nti_status,omitempty"`
	NTILink                  *string          `json:"nti_link,omitempty"`
	PrimaryBenefitsCategory  *string          `json:"primary_benefits_category,omitempty"`
	PrimaryAIBenefitCategory *string          `json:"primary_ai_benefit_category,omitempty"`
	InvestmentRequired       *string          `json:"investment_required,omitempty"`
	ExpectedNearTermBenefits *string          `json:"expected_near_term_benefits,omitempty"`
	ExpectedLongTermBenefits *string          `json:"expected_long_term_benefits,omitempty"`
	PrimaryBusinessFunction  *string          `json:"primary_business_function,omitempty"`
	Tags                     []string         `json:"tags,omitempty" jsonschema:"Complete desired tag list"`
	Contributors             []string         `json:"contributors,omitempty" jsonschema:"Complete desired contributor list"`
	Timeline                 []TimelineParams `json:"timeline,omitempty" jsonschema:"Complete desired milestone list"`
}

func (p ProjectParams) payload(id string) project.Payload {
	payload := project.Payload{
		ID: id,
		Fields: project.Fields{
			Title:                    p.Title,
			Description:              p.Description,
			Status:                   p.Status,
			WhyWeBuiltThis:           p.WhyWeBuiltThis,
			WhatWeveBuilt:            p.WhatWeveBuilt,
			NTIStatus:                p.NTIStatus,
			NTILink:                  p.NTILink,
			PrimaryBenefitsCategory:  p.PrimaryBenefitsCategory,
			PrimaryAIBenefitCategory: p.PrimaryAIBenefitCategory,
			InvestmentRequired:       p.InvestmentRequired,
			ExpectedNearTermBenefits: p.ExpectedNearTermBenefits,
			ExpectedLongTermBenefits: p.ExpectedLongTermBenefits,
			PrimaryBusinessFunction:  p.PrimaryBusinessFunction,
		},
		Tags:         p.Tags,
		Contributors: p.Contributors,
	}
	for _, item := range p.Timeline {
		payload.Timeline = append(payload.Timeline, project.TimelineInput{
			Title:       item.Title,
			Description: item.Description,
			Date:        item.Date,
			StepActive:  item.IsStepActive,
		})
	}
	return payload
}

type CreateProjectParams struct {
	ID      string        `json:"id,omitempty" jsonschema:"Project id; generated when omitted"`
	Project ProjectParams `json:"project"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"Project id"`
}

type ListProjectsParams struct {
	Status   string `json:"status,omitempty" jsonschema:"Only projects with this status"`
	Function string `json:"function,omitempty" jsonschema:"Only projects with this primary business function"`
	Tag      string `json:"tag,omitempty" jsonschema:"Only projects carrying this tag"`
}

type UpdateProjectParams struct {
	ID              string        `json:"id" jsonschema:"Project id"`
	ExpectedVersion *int64        `json:"expected_version,omitempty" jsonschema:"Reject the update unless the stored version matches"`
	Project         ProjectParams `json:"project"`
}

type DeleteProjectParams struct {
	ID string `json:"id" jsonschema:"Project id"`
}

type GetAuditHistoryParams struct {
	TableName string `json:"table_name,omitempty" jsonschema:"projects, project_tags, project_individuals or timeline_items"`
	RowID     string `json:"row_id,omitempty" jsonschema:"Primary key of the row"`
	Action    string `json:"action,omitempty" jsonschema:"INSERT, UPDATE or DELETE"`
	Actor     string `json:"actor,omitempty"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum records, default 100"`
	Offset    int    `json:"offset,omitempty"`
}

func (p GetAuditHistoryParams) filter() audit.Filter {
	return audit.Filter{
		TableName: p.TableName,
		RowID:     p.RowID,
		Action:    audit.Action(p.Action),
		Actor:     p.Actor,
		Limit:     p.Limit,
		Offset:    p.Offset,
	}
}

type EmptyParams struct{}

type ListProjectsResponse struct {
	Projects []*project.Project `json:"projects"`
}

type DeleteProjectResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type AuditHistoryResponse struct {
	Records []audit.Record `json:"records"`
}
