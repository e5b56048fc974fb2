// Package historyservice manages business logic layer of the transaction history.
package historyservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-petr/dream-bank/internal/domain"
)

// Repo provides data access layer interface needed by history service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package historyservice
type Repo interface {
	ListTransactions(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	ListCounterparties(ctx context.Context, ownerID int64) ([]string, error)
	MarkViewed(ctx context.Context, id, ownerID int64) (domain.Transaction, error)
}

// DocumentService provides access to accounts and cards needed by history service layer.
type DocumentService interface {
	Get(ctx context.Context, ref domain.DocumentRef) (domain.Document, error)
	ResolveToAccount(ctx context.Context, doc domain.Document) (domain.Account, error)
}

// Service facilitates history service layer logic.
type Service struct {
	repo      Repo
	documents DocumentService
}

// New returns history service struct.
func New(hr Repo, ds DocumentService) *Service {
	return &Service{
		repo:      hr,
		documents: ds,
	}
}

// GetTransactions returns every transaction touching the account, newest first.
func (s *Service) GetTransactions(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx, accountID)
}

// GetRelatedCounterparties returns the sorted usernames the owner has exchanged money with.
func (s *Service) GetRelatedCounterparties(ctx context.Context, ownerID int64) ([]string, error) {
	return s.repo.ListCounterparties(ctx, ownerID)
}

// MarkViewed marks the transaction as seen by the owner.
func (s *Service) MarkViewed(ctx context.Context, id, ownerID int64) (domain.Transaction, error) {
	return s.repo.MarkViewed(ctx, id, ownerID)
}

// History returns the account behind the owner's document and its transactions.
func (s *Service) History(ctx context.Context, ownerID int64, ref domain.DocumentRef) (domain.Account, []domain.Transaction, error) {
	_, account, err := s.ownedAccount(ctx, ownerID, ref)
	if err != nil {
		return domain.Account{}, nil, err
	}

	txs, err := s.GetTransactions(ctx, account.ID)
	if err != nil {
		return domain.Account{}, nil, err
	}

	return account, txs, nil
}

func (s *Service) ownedAccount(ctx context.Context, ownerID int64, ref domain.DocumentRef) (domain.Document, domain.Account, error) {
	doc, err := s.documents.Get(ctx, ref)
	if err != nil {
		return nil, domain.Account{}, err
	}

	if doc.Owner() != ownerID {
		zerolog.Ctx(ctx).Warn().Msgf("owner %d tried to read history of %s %d", ownerID, ref.Kind, ref.ID)
		return nil, domain.Account{}, domain.ErrInvalidOwner
	}

	account, err := s.documents.ResolveToAccount(ctx, doc)
	if err != nil {
		return nil, domain.Account{}, err
	}

	return doc, account, nil
}
