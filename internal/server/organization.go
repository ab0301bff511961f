package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/booksd/internal/authorization"
	organizationdomain "github.com/smallbiznis/booksd/internal/organization/domain"
	userroledomain "github.com/smallbiznis/booksd/internal/userrole/domain"
	"gorm.io/datatypes"
)

// CreateOrganization opens a new organization and grants the caller its
// admin role, mirroring what registration does for the first organization.
func (s *Server) CreateOrganization(c *gin.Context) {
	userID, ok := s.userIDFromSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req organizationdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.organizationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if _, err := s.userRoleSvc.Assign(c.Request.Context(), userroledomain.AssignRequest{
		UserID:         userID.String(),
		OrganizationID: resp.ID,
		Role:           userroledomain.RoleAdmin,
		Permissions:    datatypes.JSONMap{"all": true},
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) GetOrganization(c *gin.Context) {
	orgID := c.Param("id")
	if !s.authorizeOrg(c, orgID, authorization.ObjectOrganization, authorization.ActionRead) {
		return
	}

	resp, err := s.organizationSvc.GetByID(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateOrganization(c *gin.Context) {
	orgID := c.Param("id")
	if !s.authorizeOrg(c, orgID, authorization.ObjectOrganization, authorization.ActionWrite) {
		return
	}

	var req organizationdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.organizationSvc.Update(c.Request.Context(), orgID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeactivateOrganization(c *gin.Context) {
	orgID := c.Param("id")
	if !s.authorizeOrg(c, orgID, authorization.ObjectOrganization, authorization.ActionDelete) {
		return
	}

	if err := s.organizationSvc.Deactivate(c.Request.Context(), orgID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

func (s *Server) ListOrganizationUsers(c *gin.Context) {
	orgID := c.Param("id")
	if !s.authorizeOrg(c, orgID, authorization.ObjectOrganization, authorization.ActionRead) {
		return
	}

	items, err := s.organizationSvc.ListUsers(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func isOrganizationValidationError(err error) bool {
	switch {
	case errors.Is(err, organizationdomain.ErrInvalidName),
		errors.Is(err, organizationdomain.ErrInvalidOrganization):
		return true
	default:
		return false
	}
}
