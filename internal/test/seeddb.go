// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/go-petr/dream-bank/internal/documentrepo"
	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/internal/transferrepo"
	"github.com/go-petr/dream-bank/pkg/dbpkg"
	"github.com/go-petr/dream-bank/pkg/randompkg"
)

// SeedOwner creates random Owner inside a test transaction.
func SeedOwner(t *testing.T, tx dbpkg.SQLInterface) domain.Owner {
	t.Helper()

	arg := domain.Owner{
		ID:        randompkg.OwnerID(),
		Username:  randompkg.Owner() + randompkg.Digits(6),
		FirstName: randompkg.String(10),
	}

	owner, err := documentrepo.NewRepoPGS(tx).CreateOwner(context.Background(), arg)
	if err != nil {
		t.Fatalf("CreateOwner(context.Background(), %+v) returned error: %v", arg, err)
	}

	return owner
}

// SeedAccount creates Account with the given balance inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, ownerID int64, balance string) domain.Account {
	t.Helper()

	number := randompkg.AccountNumber()

	account, err := documentrepo.NewRepoPGS(tx).CreateAccount(context.Background(), ownerID, number, decimal.RequireFromString(balance))
	if err != nil {
		t.Fatalf("CreateAccount(context.Background(), %v, %v, %v) returned error: %v",
			ownerID, number, balance, err)
	}

	return account
}

// SeedAccountWith1000Balance creates Account with 1000 on balance inside a test transaction.
func SeedAccountWith1000Balance(t *testing.T, tx dbpkg.SQLInterface, ownerID int64) domain.Account {
	t.Helper()

	return SeedAccount(t, tx, ownerID, "1000")
}

// SeedCard creates Card for the account inside a test transaction.
func SeedCard(t *testing.T, tx dbpkg.SQLInterface, accountID int64) domain.Card {
	t.Helper()

	number := randompkg.CardNumber()

	card, err := documentrepo.NewRepoPGS(tx).CreateCard(context.Background(), accountID, number)
	if err != nil {
		t.Fatalf("CreateCard(context.Background(), %v, %v) returned error: %v", accountID, number, err)
	}

	return card
}

// SeedTransaction records a transaction row without touching balances.
func SeedTransaction(t *testing.T, tx dbpkg.SQLInterface, sourceID, destinationID int64, accrual string) domain.Transaction {
	t.Helper()

	arg := domain.CreateTransactionParams{
		SourceID:      sourceID,
		DestinationID: destinationID,
		Accrual:       decimal.RequireFromString(accrual),
	}

	transaction, err := transferrepo.NewTxRepoPGS(tx).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("transferrepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return transaction
}
