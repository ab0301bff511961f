package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/booksd/internal/authorization"
	commoditydomain "github.com/smallbiznis/booksd/internal/commodity/domain"
)

// ListStandardCurrencies serves the static reference catalog. It is not
// org-scoped, so authentication alone suffices.
func (s *Server) ListStandardCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.commoditySvc.StandardCurrencies()})
}

func (s *Server) CreateCommodity(c *gin.Context) {
	var req commoditydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, ok := s.orgIDForBook(c, req.BookID)
	if !ok {
		return
	}
	if !s.authorizeOrg(c, orgID, authorization.ObjectCommodity, authorization.ActionWrite) {
		return
	}

	commodity, err := s.commoditySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, commodity)
}

func (s *Server) ListCommodities(c *gin.Context) {
	bookID := c.Param("bookId")
	orgID, ok := s.orgIDForBook(c, bookID)
	if !ok {
		return
	}
	if !s.authorizeOrg(c, orgID, authorization.ObjectCommodity, authorization.ActionRead) {
		return
	}

	commodities, err := s.commoditySvc.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": commodities})
}

func isCommodityValidationError(err error) bool {
	switch {
	case errors.Is(err, commoditydomain.ErrInvalidBook),
		errors.Is(err, commoditydomain.ErrInvalidMnemonic),
		errors.Is(err, commoditydomain.ErrInvalidFraction):
		return true
	default:
		return false
	}
}
