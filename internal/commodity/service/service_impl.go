package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/booksd/internal/commodity/domain"
)

// standardCurrencies is the immutable reference catalog used to populate
// selection UIs and as provisioning defaults.
var standardCurrencies = []domain.StandardCurrency{
	{Namespace: domain.NamespaceISO4217, Mnemonic: "USD", Fullname: "United States Dollar", Fraction: 100},
	{Namespace: domain.NamespaceISO4217, Mnemonic: "EUR", Fullname: "Euro", Fraction: 100},
	{Namespace: domain.NamespaceISO4217, Mnemonic: "GBP", Fullname: "Pound Sterling", Fraction: 100},
	{Namespace: domain.NamespaceISO4217, Mnemonic: "JPY", Fullname: "Japanese Yen", Fraction: 1},
	{Namespace: domain.NamespaceISO4217, Mnemonic: "CAD", Fullname: "Canadian Dollar", Fraction: 100},
	{Namespace: domain.NamespaceISO4217, Mnemonic: "AUD", Fullname: "Australian Dollar", Fraction: 100},
	{Namespace: domain.NamespaceISO4217, Mnemonic: "LKR", Fullname: "Sri Lankan Rupee", Fraction: 100},
}

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
}

func NewService(repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{repo: repo, genID: genID}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Commodity, error) {
	bookID, err := snowflake.ParseString(strings.TrimSpace(req.BookID))
	if err != nil || bookID == 0 {
		return nil, domain.ErrInvalidBook
	}

	mnemonic := strings.TrimSpace(req.Mnemonic)
	if mnemonic == "" {
		return nil, domain.ErrInvalidMnemonic
	}
	if req.Fraction <= 0 {
		return nil, domain.ErrInvalidFraction
	}

	exists, err := s.repo.BookExists(ctx, bookID.Int64())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrBookNotFound
	}

	namespace := strings.TrimSpace(req.Namespace)
	if namespace == "" {
		namespace = domain.NamespaceCurrency
	}
	quoteSource := strings.TrimSpace(req.QuoteSource)
	if quoteSource == "" {
		quoteSource = domain.NamespaceCurrency
	}

	commodity := domain.Commodity{
		ID:          s.genID.Generate(),
		BookID:      bookID,
		Namespace:   namespace,
		Mnemonic:    mnemonic,
		Fullname:    strings.TrimSpace(req.Fullname),
		Fraction:    req.Fraction,
		QuoteSource: quoteSource,
		GetQuotes:   req.GetQuotes,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, commodity); err != nil {
		return nil, err
	}
	return &commodity, nil
}

func (s *service) ListByBook(ctx context.Context, bookID string) ([]domain.Commodity, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(bookID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidBook
	}
	return s.repo.ListByBook(ctx, id.Int64())
}

func (s *service) StandardCurrencies() []domain.StandardCurrency {
	out := make([]domain.StandardCurrency, len(standardCurrencies))
	copy(out, standardCurrencies)
	return out
}
