package transferservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/dream-bank/internal/attachment"
	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/internal/test"
	"github.com/go-petr/dream-bank/pkg/errorspkg"
	"github.com/go-petr/dream-bank/pkg/moneypkg"
	"github.com/go-petr/dream-bank/pkg/randompkg"
)

func TestCanExtractFrom(t *testing.T) {
	account := test.RandomAccount(randompkg.OwnerID())
	account.Amount = test.Money("100")
	card := test.RandomCard(account)

	s := New(nil, nil, nil, 0)

	require.True(t, s.CanExtractFrom(account, test.Money("100")))
	require.True(t, s.CanExtractFrom(card, test.Money("99.99")))
	require.False(t, s.CanExtractFrom(card, test.Money("100.01")))
}

func TestTryTransfer(t *testing.T) {
	owner1, owner2 := randompkg.OwnerID(), randompkg.OwnerID()

	account1 := test.RandomAccount(owner1)
	account1.ID, account1.Amount = 1, test.Money("100.00")
	account2 := test.RandomAccount(owner2)
	account2.ID, account2.Amount = 2, test.Money("0.00")
	card1 := test.RandomCard(account1)

	accrual := test.Money("40.00")
	photo := &domain.Attachment{ContentType: "image/png", Size: 4, Content: []byte("png!")}
	photoKey := "transactions/2024/01/02/photo.png"

	okResult := domain.TransferResult{
		Transaction: domain.Transaction{ID: 7, SourceID: account1.ID, DestinationID: account2.ID, Accrual: accrual},
		Source:      account1,
		Destination: account2,
	}

	type input struct {
		source      domain.Document
		destination domain.Document
		accrual     decimal.Decimal
		file        *domain.Attachment
	}

	testCases := []struct {
		name          string
		input         input
		buildStubs    func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore)
		checkResponse func(tx domain.Transaction, ok bool, err error)
	}{
		{
			name:  "OK",
			input: input{source: account1, destination: account2, accrual: accrual},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account1)).Times(1).Return(account1, nil)
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account2)).Times(1).Return(account2, nil)
				arg := domain.CreateTransactionParams{SourceID: account1.ID, DestinationID: account2.ID, Accrual: accrual}
				repo.EXPECT().Transfer(gomock.Any(), gomock.Eq(arg)).Times(1).Return(okResult, nil)
				store.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, okResult.Transaction, tx)
			},
		},
		{
			name:  "CardSourceUsesItsAccount",
			input: input{source: card1, destination: account2, accrual: accrual},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(card1)).Times(1).Return(account1, nil)
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account2)).Times(1).Return(account2, nil)
				arg := domain.CreateTransactionParams{SourceID: account1.ID, DestinationID: account2.ID, Accrual: accrual}
				repo.EXPECT().Transfer(gomock.Any(), gomock.Eq(arg)).Times(1).Return(okResult, nil)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, account1.ID, tx.SourceID)
			},
		},
		{
			name:  "InsufficientBalance",
			input: input{source: account1, destination: account2, accrual: test.Money("100.01")},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account1)).Times(1).Return(account1, nil)
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account2)).Times(1).Return(account2, nil)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(1).
					Return(domain.TransferResult{}, domain.ErrInsufficientBalance)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.NoError(t, err)
				require.False(t, ok)
				require.Empty(t, tx)
			},
		},
		{
			name:  "ZeroAccrual",
			input: input{source: account1, destination: account2, accrual: decimal.Zero},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.ErrorIs(t, err, domain.ErrContractViolation)
				require.ErrorIs(t, err, moneypkg.ErrAccrualNotPositive)
				require.False(t, ok)
			},
		},
		{
			name:  "NegativeAccrual",
			input: input{source: account1, destination: account2, accrual: test.Money("-1")},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.ErrorIs(t, err, domain.ErrContractViolation)
				require.False(t, ok)
			},
		},
		{
			name:  "TooPreciseAccrual",
			input: input{source: account1, destination: account2, accrual: test.Money("0.001")},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.ErrorIs(t, err, domain.ErrContractViolation)
				require.ErrorIs(t, err, moneypkg.ErrAccrualTooPrecise)
			},
		},
		{
			name:  "SameAccount",
			input: input{source: card1, destination: account1, accrual: accrual},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Any()).Times(2).Return(account1, nil)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.ErrorIs(t, err, domain.ErrSameAccount)
				require.False(t, ok)
			},
		},
		{
			name: "InvalidAttachment",
			input: input{
				source:      account1,
				destination: account2,
				accrual:     accrual,
				file:        &domain.Attachment{ContentType: "text/plain", Size: 3, Content: []byte("txt")},
			},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				store.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.ErrorIs(t, err, domain.ErrContractViolation)
				require.ErrorIs(t, err, ErrInvalidAttachment)
			},
		},
		{
			name:  "WithPhoto",
			input: input{source: account1, destination: account2, accrual: accrual, file: photo},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account1)).Times(1).Return(account1, nil)
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account2)).Times(1).Return(account2, nil)
				store.EXPECT().Put(gomock.Any(), gomock.Eq(photo), gomock.Any()).Times(1).Return(photoKey, nil)
				arg := domain.CreateTransactionParams{
					SourceID:      account1.ID,
					DestinationID: account2.ID,
					Accrual:       accrual,
					Photo:         photoKey,
				}
				res := okResult
				res.Transaction.Photo = photoKey
				repo.EXPECT().Transfer(gomock.Any(), gomock.Eq(arg)).Times(1).Return(res, nil)
				store.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, photoKey, tx.Photo)
			},
		},
		{
			name:  "PhotoRemovedWhenTransferFails",
			input: input{source: account1, destination: account2, accrual: accrual, file: photo},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account1)).Times(1).Return(account1, nil)
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account2)).Times(1).Return(account2, nil)
				store.EXPECT().Put(gomock.Any(), gomock.Eq(photo), gomock.Any()).Times(1).Return(photoKey, nil)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(1).
					Return(domain.TransferResult{}, domain.ErrInsufficientBalance)
				store.EXPECT().Delete(gomock.Any(), gomock.Eq(photoKey)).Times(1).Return(nil)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.NoError(t, err)
				require.False(t, ok)
			},
		},
		{
			name:  "StoreErr",
			input: input{source: account1, destination: account2, accrual: accrual, file: photo},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account1)).Times(1).Return(account1, nil)
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account2)).Times(1).Return(account2, nil)
				store.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Times(1).Return("", errorspkg.ErrInternal)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.ErrorIs(t, err, errorspkg.ErrInternal)
				require.False(t, ok)
			},
		},
		{
			name:  "RepoErr",
			input: input{source: account1, destination: account2, accrual: accrual},
			buildStubs: func(repo *MockRepo, docs *MockDocumentService, store *attachment.MockStore) {
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account1)).Times(1).Return(account1, nil)
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account2)).Times(1).Return(account2, nil)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(1).
					Return(domain.TransferResult{}, errorspkg.ErrInternal)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.ErrorIs(t, err, errorspkg.ErrInternal)
				require.False(t, ok)
				require.Empty(t, tx)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			docs := NewMockDocumentService(ctrl)
			store := attachment.NewMockStore(ctrl)
			tc.buildStubs(repo, docs, store)

			s := New(repo, docs, store, attachment.DefaultMaxBytes)
			s.now = func() time.Time { return time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC) }

			tx, ok, err := s.TryTransfer(context.Background(), tc.input.source, tc.input.destination, tc.input.accrual, tc.input.file)
			tc.checkResponse(tx, ok, err)
		})
	}
}

func TestTryTransferWithoutStore(t *testing.T) {
	account1 := test.RandomAccount(randompkg.OwnerID())
	account1.ID, account1.Amount = 1, test.Money("100.00")
	account2 := test.RandomAccount(randompkg.OwnerID())
	account2.ID = 2

	photo := &domain.Attachment{ContentType: "image/png", Size: 4, Content: []byte("png!")}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	docs := NewMockDocumentService(ctrl)

	s := New(repo, docs, nil, attachment.DefaultMaxBytes)

	tx, ok, err := s.TryTransfer(context.Background(), account1, account2, test.Money("1.00"), photo)
	require.ErrorIs(t, err, domain.ErrContractViolation)
	require.ErrorIs(t, err, ErrAttachmentsDisabled)
	require.False(t, ok)
	require.Empty(t, tx)

	repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(1).Return(domain.TransferResult{
		Transaction: domain.Transaction{ID: 3, SourceID: 1, DestinationID: 2, Accrual: test.Money("1.00")},
	}, nil)
	docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account1)).Times(1).Return(account1, nil)
	docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account2)).Times(1).Return(account2, nil)

	_, ok, err = s.TryTransfer(context.Background(), account1, account2, test.Money("1.00"), nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTransfer(t *testing.T) {
	owner1, owner2 := randompkg.OwnerID(), randompkg.OwnerID()

	account1 := test.RandomAccount(owner1)
	account1.ID = 1
	account2 := test.RandomAccount(owner2)
	account2.ID = 2

	accrual := test.Money("10.00")
	arg := domain.TransferParams{
		Source:      domain.DocumentRef{Kind: domain.KindAccount, ID: account1.ID},
		Destination: domain.DocumentRef{Kind: domain.KindAccount, ID: account2.ID},
		Accrual:     accrual,
	}

	testCases := []struct {
		name          string
		ownerID       int64
		buildStubs    func(repo *MockRepo, docs *MockDocumentService)
		checkResponse func(tx domain.Transaction, ok bool, err error)
	}{
		{
			name:    "OK",
			ownerID: owner1,
			buildStubs: func(repo *MockRepo, docs *MockDocumentService) {
				docs.EXPECT().Get(gomock.Any(), gomock.Eq(arg.Source)).Times(1).Return(account1, nil)
				docs.EXPECT().Get(gomock.Any(), gomock.Eq(arg.Destination)).Times(1).Return(account2, nil)
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account1)).Times(1).Return(account1, nil)
				docs.EXPECT().ResolveToAccount(gomock.Any(), gomock.Eq(account2)).Times(1).Return(account2, nil)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(1).Return(domain.TransferResult{
					Transaction: domain.Transaction{ID: 1, SourceID: account1.ID, DestinationID: account2.ID, Accrual: accrual},
				}, nil)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, account2.ID, tx.DestinationID)
			},
		},
		{
			name:    "InvalidOwner",
			ownerID: owner2,
			buildStubs: func(repo *MockRepo, docs *MockDocumentService) {
				docs.EXPECT().Get(gomock.Any(), gomock.Eq(arg.Source)).Times(1).Return(account1, nil)
				docs.EXPECT().Get(gomock.Any(), gomock.Eq(arg.Destination)).Times(0)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidOwner)
				require.False(t, ok)
			},
		},
		{
			name:    "DestinationNotFound",
			ownerID: owner1,
			buildStubs: func(repo *MockRepo, docs *MockDocumentService) {
				docs.EXPECT().Get(gomock.Any(), gomock.Eq(arg.Source)).Times(1).Return(account1, nil)
				docs.EXPECT().Get(gomock.Any(), gomock.Eq(arg.Destination)).Times(1).Return(nil, domain.ErrDocumentNotFound)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(tx domain.Transaction, ok bool, err error) {
				require.ErrorIs(t, err, domain.ErrDocumentNotFound)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			docs := NewMockDocumentService(ctrl)
			tc.buildStubs(repo, docs)

			s := New(repo, docs, nil, 0)

			tx, ok, err := s.Transfer(context.Background(), tc.ownerID, arg)
			tc.checkResponse(tx, ok, err)
		})
	}
}
