package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/booksd/internal/authorization"
	taxdomain "github.com/smallbiznis/booksd/internal/tax/domain"
)

func (s *Server) CreateTaxTable(c *gin.Context) {
	var req taxdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, ok := s.orgIDForBook(c, req.BookID)
	if !ok {
		return
	}
	if !s.authorizeOrg(c, orgID, authorization.ObjectTax, authorization.ActionWrite) {
		return
	}

	table, err := s.taxSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, table)
}

func (s *Server) ListTaxTables(c *gin.Context) {
	bookID := c.Param("bookId")
	orgID, ok := s.orgIDForBook(c, bookID)
	if !ok {
		return
	}
	if !s.authorizeOrg(c, orgID, authorization.ObjectTax, authorization.ActionRead) {
		return
	}

	tables, err := s.taxSvc.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tables})
}

func (s *Server) TaxTableRate(c *gin.Context) {
	tableID := c.Param("id")
	parsed, err := snowflake.ParseString(strings.TrimSpace(tableID))
	if err != nil || parsed == 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	table, err := s.taxRepo.FindTable(c.Request.Context(), parsed.Int64())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if table == nil {
		AbortWithError(c, taxdomain.ErrTableNotFound)
		return
	}

	orgID, ok := s.orgIDForBook(c, table.BookID.String())
	if !ok {
		return
	}
	if !s.authorizeOrg(c, orgID, authorization.ObjectTax, authorization.ActionRead) {
		return
	}

	rate, err := s.taxSvc.TotalRate(c.Request.Context(), tableID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rate)
}

func isTaxValidationError(err error) bool {
	switch {
	case errors.Is(err, taxdomain.ErrInvalidBook),
		errors.Is(err, taxdomain.ErrInvalidName),
		errors.Is(err, taxdomain.ErrInvalidTable),
		errors.Is(err, taxdomain.ErrInvalidAccount),
		errors.Is(err, taxdomain.ErrInvalidRate),
		errors.Is(err, taxdomain.ErrInvalidEntryType):
		return true
	default:
		return false
	}
}
