package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/booksd/internal/authorization"
	bookdomain "github.com/smallbiznis/booksd/internal/book/domain"
)

// ProvisionBook creates a book with its base currency, root account and
// settings row in one transaction.
func (s *Server) ProvisionBook(c *gin.Context) {
	var req bookdomain.ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if !s.authorizeOrg(c, req.OrganizationID, authorization.ObjectBook, authorization.ActionWrite) {
		return
	}

	result, err := s.bookSvc.Provision(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (s *Server) ListBooks(c *gin.Context) {
	orgID := c.Param("orgId")
	if !s.authorizeOrg(c, orgID, authorization.ObjectBook, authorization.ActionRead) {
		return
	}

	books, err := s.bookSvc.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": books})
}

func (s *Server) GetBookSettings(c *gin.Context) {
	bookID := c.Param("bookId")
	orgID, ok := s.orgIDForBook(c, bookID)
	if !ok {
		return
	}
	if !s.authorizeOrg(c, orgID, authorization.ObjectSettings, authorization.ActionRead) {
		return
	}

	settings, err := s.bookSvc.GetSettings(c.Request.Context(), bookID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (s *Server) UpdateBookSettings(c *gin.Context) {
	bookID := c.Param("bookId")
	orgID, ok := s.orgIDForBook(c, bookID)
	if !ok {
		return
	}
	if !s.authorizeOrg(c, orgID, authorization.ObjectSettings, authorization.ActionWrite) {
		return
	}

	var req bookdomain.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	settings, err := s.bookSvc.UpdateSettings(c.Request.Context(), bookID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func isBookValidationError(err error) bool {
	switch {
	case errors.Is(err, bookdomain.ErrInvalidOrganization),
		errors.Is(err, bookdomain.ErrInvalidName),
		errors.Is(err, bookdomain.ErrInvalidFiscalStart),
		errors.Is(err, bookdomain.ErrInvalidMnemonic),
		errors.Is(err, bookdomain.ErrInvalidFraction),
		errors.Is(err, bookdomain.ErrInvalidBook),
		errors.Is(err, bookdomain.ErrEmptySettingsPatch):
		return true
	default:
		return false
	}
}
