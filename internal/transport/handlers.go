package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ganot/project-registry/internal/domain/project"
)

func (s *Server) handleListProjects(c *gin.Context) {
	opts := project.ListOptions{
		Status:   c.Query("status"),
		Function: c.Query("function"),
		Tag:      c.Query("tag"),
	}
	projects, err := s.projects.List(c.Request.Context(), opts)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if projects == nil {
		projects = []*project.Project{}
	}
	c.JSON(http.StatusOK, ListProjectsResponse{Projects: projects})
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req ProjectRequest
	if !s.bind(c, &req) {
		return
	}
	created, err := s.projects.Create(c.Request.Context(), actorOf(c), req.payload(req.ID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetProject(c *gin.Context) {
	p, err := s.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	var req UpdateProjectRequest
	if !s.bind(c, &req) {
		return
	}
	id := c.Param("id")
	result, err := s.projects.Update(c.Request.Context(), actorOf(c), id, req.payload(id), req.ExpectedVersion)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.projects.Delete(c.Request.Context(), actorOf(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAuditHistory(c *gin.Context) {
	var q AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query: " + err.Error(), Code: CodeInvalidInput})
		return
	}
	if err := requestValidate.Struct(q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidInput})
		return
	}
	records, err := s.audit.History(c.Request.Context(), q.filter())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuditResponse{Records: records})
}

func (s *Server) handleOverview(c *gin.Context) {
	overview, err := s.projects.Overview(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) handleTimelineProgress(c *gin.Context) {
	report, err := s.projects.TimelineProgress(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// bind decodes and validates a JSON body, writing a 400 on failure.
func (s *Server) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Code: CodeInvalidInput})
		return false
	}
	if err := requestValidate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidInput})
		return false
	}
	return true
}
