// Package transferrepo manages repository layer of transfers.
package transferrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/dream-bank/internal/documentrepo"
	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/pkg/dbpkg"
	"github.com/go-petr/dream-bank/pkg/errorspkg"
	"github.com/go-petr/dream-bank/pkg/moneypkg"
)

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transfer RepoPGS bound to an already started transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transfer RepoPGS wiht connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (domain.Transaction, error) {
	var (
		t     domain.Transaction
		photo sql.NullString
	)

	err := row.Scan(
		&t.ID,
		&t.SourceID,
		&t.DestinationID,
		&t.Accrual,
		&photo,
		&t.WasSourceViewed,
		&t.WasDestinationViewed,
		&t.CreatedAt,
	)

	t.Photo = photo.String

	return t, err
}

const createQuery = `
INSERT INTO
    transactions (source_id, destination_id, accrual, photo)
VALUES
    ($1, $2, $3, $4)
RETURNING id, source_id, destination_id, accrual, photo, was_source_viewed, was_destination_viewed, created_at
`

// Create records the transaction and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	photo := sql.NullString{String: arg.Photo, Valid: arg.Photo != ""}

	t, err := scanTransaction(r.db.QueryRowContext(ctx, createQuery,
		arg.SourceID,
		arg.DestinationID,
		arg.Accrual,
		photo,
	))
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		switch name, _ := dbpkg.Constraint(err); name {
		case "transactions_source_id_fkey", "transactions_destination_id_fkey":
			return t, domain.ErrAccountNotFound
		case "transactions_accrual_check":
			return t, domain.ErrContractViolation
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT
	id, source_id, destination_id, accrual, photo, was_source_viewed, was_destination_viewed, created_at
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

// Transfer moves the accrual between two accounts.
//
// Both account rows are locked in ascending id order, the locked source balance
// is checked, both balances are updated and the transaction row is inserted
// within a single database transaction. When the source can not cover the
// accrual nothing is written and domain.ErrInsufficientBalance is returned.
func (r *RepoPGS) Transfer(ctx context.Context, arg domain.CreateTransactionParams) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferResult

	if arg.SourceID == arg.DestinationID {
		return result, domain.ErrSameAccount
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := documentrepo.NewRepoPGS(tx)

	// To avoid deadlocks lock and update rows in consistent id order
	firstID, secondID := arg.SourceID, arg.DestinationID
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}

	locked := make(map[int64]domain.Account, 2)

	for _, id := range []int64{firstID, secondID} {
		a, err := accountRepo.GetAccountForUpdate(ctx, id)
		if err != nil {
			return result, err
		}

		locked[id] = a
	}

	if !moneypkg.CanExtract(locked[arg.SourceID].Balance(), arg.Accrual) {
		l.Info().Msgf("account %d can not cover %v", arg.SourceID, arg.Accrual)
		return result, domain.ErrInsufficientBalance
	}

	for _, id := range []int64{firstID, secondID} {
		amount := arg.Accrual
		if id == arg.SourceID {
			amount = amount.Neg()
		}

		a, err := accountRepo.AddBalance(ctx, amount, id)
		if err != nil {
			return result, err
		}

		locked[id] = a
	}

	result.Source, result.Destination = locked[arg.SourceID], locked[arg.DestinationID]

	result.Transaction, err = NewTxRepoPGS(tx).Create(ctx, arg)
	if err != nil {
		return domain.TransferResult{}, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.TransferResult{}, errorspkg.ErrInternal
	}

	return result, nil
}
