package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gtodo/internal/task"
	"gtodo/internal/view"
)

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleList(c *gin.Context) {
	filter, err := view.ParseFilter(c.Query("filter"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := s.svc.Tasks(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	visible := view.Project(tasks, filter, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    visible,
		"count":   len(visible),
	})
}

func (s *Server) handleCreate(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.svc.Add(c.Request.Context(), req.Text)
	if err != nil {
		s.mutationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    t,
	})
}

func (s *Server) handleEdit(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	t, changed, err := s.svc.Edit(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		s.mutationError(c, err)
		return
	}
	if !changed {
		unchanged(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"changed": true,
		"data":    t,
	})
}

func (s *Server) handleToggle(c *gin.Context) {
	t, changed, err := s.svc.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.mutationError(c, err)
		return
	}
	if !changed {
		unchanged(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"changed": true,
		"data":    t,
	})
}

func (s *Server) handleDelete(c *gin.Context) {
	if !confirmed(c) {
		return
	}

	changed, err := s.svc.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.mutationError(c, err)
		return
	}
	if !changed {
		unchanged(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"changed": true,
	})
}

// unchanged answers a mutation aimed at an id that no longer exists. Like
// the CLI, the API treats it as a no-op rather than an error.
func unchanged(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"changed": false,
	})
}

func (s *Server) handleClearCompleted(c *gin.Context) {
	if !confirmed(c) {
		return
	}

	n, err := s.svc.ClearCompleted(c.Request.Context())
	if err != nil {
		s.mutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"removed": n,
	})
}

func (s *Server) handleStats(c *gin.Context) {
	tasks, err := s.svc.Tasks(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view.Compute(tasks),
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    s.svc.Status(),
	})
}

// confirmed enforces the confirmation gate for destructive requests. The
// client must send confirm=true once the user has agreed.
func confirmed(c *gin.Context) bool {
	if c.Query("confirm") == "true" {
		return true
	}
	fail(c, http.StatusPreconditionRequired, "confirmation required (add confirm=true)")
	return false
}

func (s *Server) mutationError(c *gin.Context, err error) {
	if task.IsValidation(err) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Error("mutation failed", "path", c.FullPath(), "error", err)
	fail(c, http.StatusInternalServerError, err.Error())
}

func fail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   msg,
	})
}
