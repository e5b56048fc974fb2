// Package documentrepo manages repository layer of accounts and cards.
package documentrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/pkg/dbpkg"
	"github.com/go-petr/dream-bank/pkg/errorspkg"
)

// RepoPGS facilitates account and card repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns document RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Number,
		&a.Amount,
		&a.CreatedAt,
	)

	return a, err
}

func scanCard(row scanner) (domain.Card, error) {
	var c domain.Card

	err := row.Scan(
		&c.ID,
		&c.Number,
		&c.CreatedAt,
		&c.Account.ID,
		&c.Account.OwnerID,
		&c.Account.Number,
		&c.Account.Amount,
		&c.Account.CreatedAt,
	)

	return c, err
}

const createOwnerQuery = `
INSERT INTO
    owners (id, username, first_name)
VALUES
    ($1, $2, $3)
RETURNING id, username, first_name, created_at
`

// CreateOwner registers the owner the accounts will belong to.
func (r *RepoPGS) CreateOwner(ctx context.Context, arg domain.Owner) (domain.Owner, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createOwnerQuery, arg.ID, arg.Username, arg.FirstName)

	var o domain.Owner

	err := row.Scan(&o.ID, &o.Username, &o.FirstName, &o.CreatedAt)
	if err != nil {
		l.Error().Err(err).Msgf("CreateOwner(ctx, %+v)", arg)
		return o, errorspkg.ErrInternal
	}

	return o, nil
}

const createAccountQuery = `
INSERT INTO
    bank_accounts (owner_id, number, balance)
VALUES
    ($1, $2, $3)
RETURNING id, owner_id, number, balance, created_at
`

// CreateAccount creates the account and then returns it.
func (r *RepoPGS) CreateAccount(ctx context.Context, ownerID int64, number string, balance decimal.Decimal) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, createAccountQuery, ownerID, number, balance))
	if err != nil {
		l.Error().Err(err).Msgf("CreateAccount(ctx, %v, %v, %v)", ownerID, number, balance)

		if name, _ := dbpkg.Constraint(err); name == "bank_accounts_owner_id_fkey" {
			return a, domain.ErrOwnerNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const createCardQuery = `
WITH card AS (
    INSERT INTO bank_cards (account_id, number)
    VALUES ($1, $2)
    RETURNING id, account_id, number, created_at
)
SELECT
    card.id, card.number, card.created_at,
    a.id, a.owner_id, a.number, a.balance, a.created_at
FROM card
JOIN bank_accounts a ON a.id = card.account_id
`

// CreateCard issues a card for the account and then returns it.
func (r *RepoPGS) CreateCard(ctx context.Context, accountID int64, number string) (domain.Card, error) {
	l := zerolog.Ctx(ctx)

	c, err := scanCard(r.db.QueryRowContext(ctx, createCardQuery, accountID, number))
	if err != nil {
		l.Error().Err(err).Msgf("CreateCard(ctx, %v, %v)", accountID, number)

		if name, _ := dbpkg.Constraint(err); name == "bank_cards_account_id_fkey" {
			return c, domain.ErrAccountNotFound
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const getAccountQuery = `
SELECT
	id, owner_id, number, balance, created_at
FROM bank_accounts
WHERE id = $1
`

// GetAccount returns the account with the given id.
func (r *RepoPGS) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getAccountQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getAccountForUpdateQuery = `
SELECT
	id, owner_id, number, balance, created_at
FROM bank_accounts
WHERE id = $1
FOR UPDATE
`

// GetAccountForUpdate returns the account and locks its row until the surrounding transaction ends.
func (r *RepoPGS) GetAccountForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getAccountForUpdateQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const addBalanceQuery = `
UPDATE bank_accounts
SET balance = balance + $1
WHERE id = $2
RETURNING id, owner_id, number, balance, created_at
`

// AddBalance changes the account's balance and returns the changed account.
func (r *RepoPGS) AddBalance(ctx context.Context, amount decimal.Decimal, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, addBalanceQuery, amount, id))
	if err != nil {
		l.Error().Err(err).Msgf("AddBalance(ctx, %v, %v)", amount, id)

		if errors.Is(err, sql.ErrNoRows) {
			return a, domain.ErrAccountNotFound
		}

		if name, _ := dbpkg.Constraint(err); name == "bank_accounts_balance_check" {
			return a, domain.ErrInsufficientBalance
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getCardQuery = `
SELECT
	c.id, c.number, c.created_at,
	a.id, a.owner_id, a.number, a.balance, a.created_at
FROM bank_cards c
JOIN bank_accounts a ON a.id = c.account_id
WHERE c.id = $1
`

// GetCard returns the card with the given id together with its account.
func (r *RepoPGS) GetCard(ctx context.Context, id int64) (domain.Card, error) {
	l := zerolog.Ctx(ctx)

	c, err := scanCard(r.db.QueryRowContext(ctx, getCardQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, domain.ErrCardNotFound
		}

		l.Error().Err(err).Send()

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const listAccountsQuery = `
SELECT
	id, owner_id, number, balance, created_at
FROM bank_accounts
WHERE owner_id = $1
ORDER BY id
`

// ListAccounts returns all accounts of the owner in creation order.
func (r *RepoPGS) ListAccounts(ctx context.Context, ownerID int64) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listAccountsQuery, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const listCardsQuery = `
SELECT
	c.id, c.number, c.created_at,
	a.id, a.owner_id, a.number, a.balance, a.created_at
FROM bank_cards c
JOIN bank_accounts a ON a.id = c.account_id
WHERE a.owner_id = $1
ORDER BY c.id
`

// ListCards returns all cards of the owner in creation order.
func (r *RepoPGS) ListCards(ctx context.Context, ownerID int64) ([]domain.Card, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listCardsQuery, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Card{}

	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
