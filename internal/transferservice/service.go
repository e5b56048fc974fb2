// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/dream-bank/internal/attachment"
	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/pkg/errorspkg"
	"github.com/go-petr/dream-bank/pkg/moneypkg"
)

var (
	// ErrInvalidAttachment indicates a photo that is too large or not an image.
	ErrInvalidAttachment = errors.New("invalid attachment")
	// ErrAttachmentsDisabled indicates a photo sent to a service configured without a store.
	ErrAttachmentsDisabled = errors.New("attachments are not accepted")
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	Transfer(ctx context.Context, arg domain.CreateTransactionParams) (domain.TransferResult, error)
}

// DocumentService provides access to accounts and cards needed by transfer service layer.
type DocumentService interface {
	Get(ctx context.Context, ref domain.DocumentRef) (domain.Document, error)
	ResolveToAccount(ctx context.Context, doc domain.Document) (domain.Account, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo          Repo
	documents     DocumentService
	store         attachment.Store
	maxPhotoBytes int64
	now           func() time.Time
}

// New return transfer service struct to manage transfer bussines logic.
func New(tr Repo, ds DocumentService, store attachment.Store, maxPhotoBytes int64) *Service {
	if maxPhotoBytes <= 0 {
		maxPhotoBytes = attachment.DefaultMaxBytes
	}

	return &Service{
		repo:          tr,
		documents:     ds,
		store:         store,
		maxPhotoBytes: maxPhotoBytes,
		now:           time.Now,
	}
}

// CanExtractFrom reports whether the document's balance covers the accrual.
// The answer is advisory, TryTransfer checks again under lock.
func (s *Service) CanExtractFrom(doc domain.Document, accrual decimal.Decimal) bool {
	return moneypkg.CanExtract(doc.Balance(), accrual)
}

// TryTransfer moves the accrual from source to destination and records the transaction.
//
// Insufficient funds is a regular outcome reported as ok == false with a nil error.
// An invalid accrual or attachment is reported as an error wrapping
// domain.ErrContractViolation.
func (s *Service) TryTransfer(
	ctx context.Context,
	source, destination domain.Document,
	accrual decimal.Decimal,
	file *domain.Attachment,
) (domain.Transaction, bool, error) {
	l := zerolog.Ctx(ctx)

	if err := moneypkg.ValidateAccrual(accrual); err != nil {
		l.Error().Err(err).Msgf("TryTransfer: accrual %v", accrual)
		return domain.Transaction{}, false, fmt.Errorf("%w: %w", domain.ErrContractViolation, err)
	}

	if !attachment.Validate(file, s.maxPhotoBytes) {
		l.Error().Msgf("TryTransfer: attachment %q of %d bytes rejected", file.ContentType, file.Size)
		return domain.Transaction{}, false, fmt.Errorf("%w: %w", domain.ErrContractViolation, ErrInvalidAttachment)
	}

	if file != nil && s.store == nil {
		l.Error().Msg("TryTransfer: attachment sent without a store")
		return domain.Transaction{}, false, fmt.Errorf("%w: %w", domain.ErrContractViolation, ErrAttachmentsDisabled)
	}

	sourceAccount, err := s.documents.ResolveToAccount(ctx, source)
	if err != nil {
		return domain.Transaction{}, false, err
	}

	destinationAccount, err := s.documents.ResolveToAccount(ctx, destination)
	if err != nil {
		return domain.Transaction{}, false, err
	}

	if sourceAccount.ID == destinationAccount.ID {
		return domain.Transaction{}, false, domain.ErrSameAccount
	}

	arg := domain.CreateTransactionParams{
		SourceID:      sourceAccount.ID,
		DestinationID: destinationAccount.ID,
		Accrual:       accrual,
	}

	if file != nil {
		arg.Photo, err = s.store.Put(ctx, file, s.now())
		if err != nil {
			return domain.Transaction{}, false, errorspkg.ErrInternal
		}
	}

	result, err := s.repo.Transfer(ctx, arg)
	if err != nil {
		s.discard(ctx, arg.Photo)

		switch {
		case errors.Is(err, domain.ErrInsufficientBalance):
			return domain.Transaction{}, false, nil
		case errors.Is(err, domain.ErrContractViolation),
			errors.Is(err, domain.ErrSameAccount),
			errors.Is(err, domain.ErrAccountNotFound):
			return domain.Transaction{}, false, err
		}

		return domain.Transaction{}, false, errorspkg.ErrInternal
	}

	l.Info().Msgf("transaction %d: %v from %d to %d",
		result.Transaction.ID, accrual, sourceAccount.ID, destinationAccount.ID)

	return result.Transaction, true, nil
}

func (s *Service) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}

	if err := s.store.Delete(ctx, key); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msgf("orphaned attachment %s", key)
	}
}

// Transfer loads both documents, checks that the source belongs to the owner and
// then runs TryTransfer.
func (s *Service) Transfer(ctx context.Context, ownerID int64, arg domain.TransferParams) (domain.Transaction, bool, error) {
	l := zerolog.Ctx(ctx)

	source, err := s.documents.Get(ctx, arg.Source)
	if err != nil {
		return domain.Transaction{}, false, err
	}

	if source.Owner() != ownerID {
		l.Warn().Msgf("owner %d tried to spend %s %d", ownerID, arg.Source.Kind, arg.Source.ID)
		return domain.Transaction{}, false, domain.ErrInvalidOwner
	}

	destination, err := s.documents.Get(ctx, arg.Destination)
	if err != nil {
		return domain.Transaction{}, false, err
	}

	return s.TryTransfer(ctx, source, destination, arg.Accrual, arg.Attachment)
}
