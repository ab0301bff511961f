package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/booksd/internal/authorization"
	userroledomain "github.com/smallbiznis/booksd/internal/userrole/domain"
)

func (s *Server) AssignUserRole(c *gin.Context) {
	var req userroledomain.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if !s.authorizeOrg(c, req.OrganizationID, authorization.ObjectUserRole, authorization.ActionWrite) {
		return
	}

	resp, err := s.userRoleSvc.Assign(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListUserRoles returns the caller's own role assignments. Other users'
// assignments are visible through the organization users listing instead.
func (s *Server) ListUserRoles(c *gin.Context) {
	callerID, ok := s.userIDFromSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	userID := strings.TrimSpace(c.Param("userId"))
	if userID != callerID.String() {
		AbortWithError(c, ErrForbidden)
		return
	}

	items, err := s.userRoleSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) UpdateUserRole(c *gin.Context) {
	assignment, ok := s.findAssignment(c)
	if !ok {
		return
	}
	if !s.authorizeOrg(c, assignment.OrganizationID.String(), authorization.ObjectUserRole, authorization.ActionWrite) {
		return
	}

	var req userroledomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.userRoleSvc.Update(c.Request.Context(), assignment.ID.String(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) RemoveUserRole(c *gin.Context) {
	assignment, ok := s.findAssignment(c)
	if !ok {
		return
	}
	if !s.authorizeOrg(c, assignment.OrganizationID.String(), authorization.ObjectUserRole, authorization.ActionDelete) {
		return
	}

	if err := s.userRoleSvc.Remove(c.Request.Context(), assignment.ID.String()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (s *Server) findAssignment(c *gin.Context) (*userroledomain.UserRole, bool) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || parsed == 0 {
		AbortWithError(c, invalidRequestError())
		return nil, false
	}

	assignment, err := s.roleRepo.FindByID(c.Request.Context(), parsed.Int64())
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	if assignment == nil {
		AbortWithError(c, userroledomain.ErrNotFound)
		return nil, false
	}
	return assignment, true
}

func isUserRoleValidationError(err error) bool {
	switch {
	case errors.Is(err, userroledomain.ErrInvalidUser),
		errors.Is(err, userroledomain.ErrInvalidOrganization),
		errors.Is(err, userroledomain.ErrInvalidRole),
		errors.Is(err, userroledomain.ErrInvalidAssignment):
		return true
	default:
		return false
	}
}
