package transport

import (
	"github.com/go-playground/validator/v10"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/domain/project"
)

// requestValidate checks request bodies before they reach the services.
var requestValidate = validator.New()

// TimelineRequest is one desired milestone.
type TimelineRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description"`
	Date         string `json:"date" validate:"required,max=50"`
	IsStepActive bool   `json:"is_step_active"`
}

// ProjectRequest is the desired state of a project.
type ProjectRequest struct {
	ID                       string            `json:"id" validate:"omitempty,max=36"`
	Title                    string            `json:"title" validate:"required,max=255"`
	Description              string            `json:"description" validate:"required"`
	Status                   string            `json:"status" validate:"required,max=50"`
	WhyWeBuiltThis           *string           `json:"why_we_built_this"`
	WhatWeveBuilt            *string           `json:"what_weve_built"`
	NTIStatus                *string           `json:"nti_status" validate:"omitempty,max=50"`
	NTILink                  *string           `json:"nti_link" validate:"omitempty,max=255"`
	PrimaryBenefitsCategory  *string           `json:"primary_benefits_category" validate:"omitempty,max=100"`
	PrimaryAIBenefitCategory *string           `json:"primary_ai_benefit_category" validate:"omitempty,max=100"`
	InvestmentRequired       *string           `json:"investment_required" validate:"omitempty,max=100"`
	ExpectedNearTermBenefits *string           `json:"expected_near_term_benefits"`
	ExpectedLongTermBenefits *string           `json:"expected_long_term_benefits"`
	PrimaryBusinessFunction  *string           `json:"primary_business_function" validate:"omitempty,max=100"`
	Tags                     []string          `json:"tags" validate:"dive,required,max=50"`
	Contributors             []string          `json:"contributors" validate:"dive,required,max=100"`
	Timeline                 []TimelineRequest `json:"timeline" validate:"dive"`
}

// UpdateProjectRequest adds optimistic concurrency to ProjectRequest.
type UpdateProjectRequest struct {
	ProjectRequest
	ExpectedVersion *int64 `json:"expected_version" validate:"omitempty,min=1"`
}

func (r ProjectRequest) payload(id string) project.Payload {
	p := project.Payload{
		ID: id,
		Fields: project.Fields{
			Title:                    r.Title,
			Description:              r.Description,
			Status:                   r.Status,
			WhyWeBuiltThis:           r.WhyWeBuiltThis,
			WhatWeveBuilt:            r.WhatWeveBuilt,
			NTIStatus:                r.NTIStatus,
			NTILink:                  r.NTILink,
			PrimaryBenefitsCategory:  r.PrimaryBenefitsCategory,
			PrimaryAIBenefitCategory: r.PrimaryAIBenefitCategory,
			InvestmentRequired:       r.InvestmentRequired,
			ExpectedNearTermBenefits: r.ExpectedNearTermBenefits,
			ExpectedLongTermBenefits: r.ExpectedLongTermBenefits,
			PrimaryBusinessFunction:  r.PrimaryBusinessFunction,
		},
		Tags:         r.Tags,
		Contributors: r.Contributors,
	}
	for _, item := range r.Timeline {
		p.Timeline = append(p.Timeline, project.TimelineInput{
			Title:       item.Title,
			Description: item.Description,
			Date:        item.Date,
			StepActive:  item.IsStepActive,
		})
	}
	return p
}

// AuditQuery filters GET /audit.
type AuditQuery struct {
	TableName string `form:"table_name" validate:"omitempty,oneof=projects project_tags project_individuals timeline_items"`
	RowID     string `form:"row_id"`
	Action    string `form:"action" validate:"omitempty,oneof=INSERT UPDATE DELETE"`
	Actor     string `form:"actor"`
	Limit     int    `form:"limit" validate:"min=0,max=1000"`
	Offset    int    `form:"offset" validate:"min=0"`
}

func (q AuditQuery) filter() audit.Filter {
	return audit.Filter{
		TableName: q.TableName,
		RowID:     q.RowID,
		Action:    audit.Action(q.Action),
		Actor:     q.Actor,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type ListProjectsResponse struct {
	Projects []*project.Project `json:"projects"`
}

type AuditResponse struct {
	Records []audit.Record `json:"records"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
