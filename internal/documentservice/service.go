// Package documentservice manages business logic layer of accounts and cards.
package documentservice

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/dream-bank/internal/domain"
)

// Repo provides data access layer interface needed by document service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package documentservice
type Repo interface {
	GetAccount(ctx context.Context, id int64) (domain.Account, error)
	GetCard(ctx context.Context, id int64) (domain.Card, error)
	ListAccounts(ctx context.Context, ownerID int64) ([]domain.Account, error)
	ListCards(ctx context.Context, ownerID int64) ([]domain.Card, error)
}

// Service facilitates document service layer logic.
type Service struct {
	repo Repo
}

// New returns document service struct to manage accounts and cards.
func New(dr Repo) *Service {
	return &Service{
		repo: dr,
	}
}

// Get loads the account or the card the reference points to.
func (s *Service) Get(ctx context.Context, ref domain.DocumentRef) (domain.Document, error) {
	switch ref.Kind {
	case domain.KindAccount:
		a, err := s.repo.GetAccount(ctx, ref.ID)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrDocumentNotFound
		}

		if err != nil {
			return nil, err
		}

		return a, nil
	case domain.KindCard:
		c, err := s.repo.GetCard(ctx, ref.ID)
		if errors.Is(err, domain.ErrCardNotFound) {
			return nil, domain.ErrDocumentNotFound
		}

		if err != nil {
			return nil, err
		}

		return c, nil
	}

	return nil, domain.ErrUnknownDocumentKind
}

// ResolveToAccount returns the account that actually holds the document's balance.
//
// An account resolves to itself, a card is resolved by loading its account.
func (s *Service) ResolveToAccount(ctx context.Context, doc domain.Document) (domain.Account, error) {
	switch d := doc.(type) {
	case domain.Account:
		return d, nil
	case *domain.Account:
		return *d, nil
	case domain.Card:
		return s.repo.GetAccount(ctx, d.AccountID())
	case *domain.Card:
		return s.repo.GetAccount(ctx, d.AccountID())
	}

	zerolog.Ctx(ctx).Error().Msgf("ResolveToAccount: unexpected document %T", doc)

	return domain.Account{}, domain.ErrUnknownDocumentKind
}

// IsBalanceZero reports whether the document's account holds no money.
func (s *Service) IsBalanceZero(ctx context.Context, doc domain.Document) (bool, error) {
	a, err := s.ResolveToAccount(ctx, doc)
	if err != nil {
		return false, err
	}

	return a.Balance().IsZero(), nil
}

// DocumentsFor returns all documents of the owner numbered from 1:
// accounts first ordered by id, then cards ordered by id.
func (s *Service) DocumentsFor(ctx context.Context, ownerID int64) (map[int]domain.Document, error) {
	accounts, err := s.repo.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	cards, err := s.repo.ListCards(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	docs := make(map[int]domain.Document, len(accounts)+len(cards))

	for _, a := range accounts {
		docs[len(docs)+1] = a
	}

	for _, c := range cards {
		docs[len(docs)+1] = c
	}

	return docs, nil
}
