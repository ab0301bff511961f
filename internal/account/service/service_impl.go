package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/booksd/internal/account/domain"
)

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
}

func NewService(repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{repo: repo, genID: genID}
}

// Create adds an ordinary account to a book's chart. The ROOT node is created
// only by book provisioning and is refused here.
func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Account, error) {
	bookID, err := snowflake.ParseString(strings.TrimSpace(req.BookID))
	if err != nil || bookID == 0 {
		return nil, domain.ErrInvalidBook
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	accType := strings.ToUpper(strings.TrimSpace(req.Type))
	if accType == domain.TypeRoot {
		return nil, domain.ErrRootReserved
	}
	if !domain.ValidType(accType) {
		return nil, domain.ErrInvalidType
	}

	parentRaw := strings.TrimSpace(req.ParentID)
	if parentRaw == "" {
		// Only the ROOT node may live without a parent.
		return nil, domain.ErrInvalidParent
	}
	parentID, err := snowflake.ParseString(parentRaw)
	if err != nil || parentID == 0 {
		return nil, domain.ErrInvalidParent
	}
	parent, err := s.repo.FindByID(ctx, parentID.Int64())
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrParentNotFound
	}
	if parent.BookID != bookID {
		return nil, domain.ErrParentOtherBook
	}

	commodityID, err := snowflake.ParseString(strings.TrimSpace(req.CommodityID))
	if err != nil || commodityID == 0 {
		return nil, domain.ErrInvalidCommodity
	}
	ok, err := s.repo.CommodityInBook(ctx, commodityID.Int64(), bookID.Int64())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCommodity
	}

	account := domain.Account{
		ID:          s.genID.Generate(),
		BookID:      bookID,
		ParentID:    &parentID,
		Name:        name,
		Type:        accType,
		CommodityID: commodityID,
		Code:        strings.TrimSpace(req.Code),
		Description: strings.TrimSpace(req.Description),
		Placeholder: req.Placeholder,
		Hidden:      false,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *service) ListByBook(ctx context.Context, bookID string) ([]domain.Account, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(bookID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidBook
	}
	return s.repo.ListByBook(ctx, id.Int64())
}
