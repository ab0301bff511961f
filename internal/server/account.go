package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/smallbiznis/booksd/internal/account/domain"
	"github.com/smallbiznis/booksd/internal/authorization"
)

func (s *Server) CreateAccount(c *gin.Context) {
	var req accountdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, ok := s.orgIDForBook(c, req.BookID)
	if !ok {
		return
	}
	if !s.authorizeOrg(c, orgID, authorization.ObjectAccount, authorization.ActionWrite) {
		return
	}

	account, err := s.accountSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (s *Server) ListAccounts(c *gin.Context) {
	bookID := c.Param("bookId")
	orgID, ok := s.orgIDForBook(c, bookID)
	if !ok {
		return
	}
	if !s.authorizeOrg(c, orgID, authorization.ObjectAccount, authorization.ActionRead) {
		return
	}

	accounts, err := s.accountSvc.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

func isAccountValidationError(err error) bool {
	switch {
	case errors.Is(err, accountdomain.ErrInvalidBook),
		errors.Is(err, accountdomain.ErrInvalidName),
		errors.Is(err, accountdomain.ErrInvalidType),
		errors.Is(err, accountdomain.ErrRootReserved),
		errors.Is(err, accountdomain.ErrInvalidParent),
		errors.Is(err, accountdomain.ErrParentOtherBook),
		errors.Is(err, accountdomain.ErrInvalidCommodity):
		return true
	default:
		return false
	}
}
