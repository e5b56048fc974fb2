// Package historyrepo manages repository layer of the transaction history.
package historyrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/pkg/dbpkg"
	"github.com/go-petr/dream-bank/pkg/errorspkg"
)

// RepoPGS facilitates history repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns history RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
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

const listTransactionsQuery = `
SELECT
	id, source_id, destination_id, accrual, photo, was_source_viewed, was_destination_viewed, created_at
FROM transactions
WHERE source_id = $1 OR destination_id = $1
ORDER BY created_at DESC, id DESC
`

// ListTransactions returns every transaction touching the account, newest first.
func (r *RepoPGS) ListTransactions(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listTransactionsQuery, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const listCounterpartiesQuery = `
SELECT DISTINCT
	CASE WHEN src.owner_id = $1 THEN dst_owner.username ELSE src_owner.username END AS username
FROM transactions t
JOIN bank_accounts src ON src.id = t.source_id
JOIN bank_accounts dst ON dst.id = t.destination_id
JOIN owners src_owner ON src_owner.id = src.owner_id
JOIN owners dst_owner ON dst_owner.id = dst.owner_id
WHERE (src.owner_id = $1 OR dst.owner_id = $1)
	AND src.owner_id <> dst.owner_id
ORDER BY username
`

// ListCounterparties returns the usernames the owner has exchanged money with.
func (r *RepoPGS) ListCounterparties(ctx context.Context, ownerID int64) ([]string, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listCounterpartiesQuery, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	usernames := []string{}

	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		usernames = append(usernames, username)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return usernames, nil
}

const markViewedQuery = `
UPDATE transactions t
SET
	was_source_viewed = t.was_source_viewed OR src.owner_id = $2,
	was_destination_viewed = t.was_destination_viewed OR dst.owner_id = $2
FROM bank_accounts src, bank_accounts dst
WHERE t.id = $1
	AND src.id = t.source_id
	AND dst.id = t.destination_id
	AND (src.owner_id = $2 OR dst.owner_id = $2)
RETURNING
	t.id, t.source_id, t.destination_id, t.accrual, t.photo,
	t.was_source_viewed, t.was_destination_viewed, t.created_at
`

// MarkViewed sets the viewed flag of every side of the transaction the owner is on.
func (r *RepoPGS) MarkViewed(ctx context.Context, id, ownerID int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, markViewedQuery, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Msgf("MarkViewed(ctx, %v, %v)", id, ownerID)

		return t, errorspkg.ErrInternal
	}

	return t, nil
}
