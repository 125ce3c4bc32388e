package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/project-registry/internal/domain/audit"
	"github.com/ganot/project-registry/internal/domain/project"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to
// INTERNAL without leaking their text.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check the id with list_projects"}
	case errors.Is(err, project.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: "project was modified since it was read", RecoveryHint: "Call get_project and retry with the current version"}
	case errors.Is(err, project.ErrAlreadyExists):
		return &APIError{Code: "ALREADY_EXISTS", Message: "a project with this id already exists", RecoveryHint: "Omit id to generate one"}
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, audit.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Fix the listed fields"}
	default:
		return &APIError{Code: "INTERNAL", Message: "internal error"}
	}
}

// errorResult reports a failed tool call to the client as a tool error.
func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	data, marshalErr := json.Marshal(apiErr)
	if marshalErr != nil {
		data = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
