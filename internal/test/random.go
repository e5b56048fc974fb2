package test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-petr/dream-bank/internal/domain"
	"github.com/go-petr/dream-bank/pkg/randompkg"
)

// RandomAccount returns random account owned by the given owner.
func RandomAccount(ownerID int64) domain.Account {
	return domain.Account{
		ID:        randompkg.IntBetween(1, 100),
		OwnerID:   ownerID,
		Number:    randompkg.AccountNumber(),
		Amount:    randompkg.MoneyAmountBetween(1000, 10_000),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomCard returns random card issued for the given account.
func RandomCard(account domain.Account) domain.Card {
	return domain.Card{
		ID:        randompkg.IntBetween(1, 100),
		Number:    randompkg.CardNumber(),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
		Account:   account,
	}
}

// RandomTransaction returns random transaction between the given accounts.
func RandomTransaction(sourceID, destinationID int64) domain.Transaction {
	return domain.Transaction{
		ID:            randompkg.IntBetween(1, 1000),
		SourceID:      sourceID,
		DestinationID: destinationID,
		Accrual:       randompkg.MoneyAmountBetween(1, 100),
		CreatedAt:     time.Now().Truncate(time.Second).UTC(),
	}
}

// Money parses s and panics on failure.
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
