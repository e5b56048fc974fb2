// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrCardNotFound indicates that the card is not found.
	ErrCardNotFound = errors.New("card not found")
	// ErrDocumentNotFound indicates that neither an account nor a card matches the reference.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrUnknownDocumentKind indicates a document kind other than account or card.
	ErrUnknownDocumentKind = errors.New("unknown document kind")
)

// DocumentKind tells accounts and cards apart.
type DocumentKind string

// Supported document kinds.
const (
	KindAccount DocumentKind = "account"
	KindCard    DocumentKind = "card"
)

// ParseDocumentKind validates the given kind.
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch k := DocumentKind(s); k {
	case KindAccount, KindCard:
		return k, nil
	}

	return "", ErrUnknownDocumentKind
}

// Document is a financial instrument that can be a transfer source or destination.
//
// Account and Card are the only implementations.
type Document interface {
	Kind() DocumentKind
	DocumentID() int64
	AccountID() int64
	Owner() int64
	Balance() decimal.Decimal
	ShortNumber() string
}

// DocumentRef addresses a document by kind and id.
type DocumentRef struct {
	Kind DocumentKind `json:"kind"`
	ID   int64        `json:"id"`
}

// Account holds an owner's balance.
type Account struct {
	ID        int64           `json:"id"`
	OwnerID   int64           `json:"owner_id"`
	Number    string          `json:"number"`
	Amount    decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// Kind implements Document.
func (a Account) Kind() DocumentKind { return KindAccount }

// DocumentID implements Document.
func (a Account) DocumentID() int64 { return a.ID }

// AccountID implements Document.
func (a Account) AccountID() int64 { return a.ID }

// Owner implements Document.
func (a Account) Owner() int64 { return a.OwnerID }

// Balance implements Document.
func (a Account) Balance() decimal.Decimal { return a.Amount }

// ShortNumber implements Document.
func (a Account) ShortNumber() string { return shortNumber(a.Number) }

// Card is a payment card; its balance and owner are those of its account.
type Card struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	CreatedAt time.Time `json:"created_at"`
	Account   Account   `json:"account"`
}

// Kind implements Document.
func (c Card) Kind() DocumentKind { return KindCard }

// DocumentID implements Document.
func (c Card) DocumentID() int64 { return c.ID }

// AccountID implements Document.
func (c Card) AccountID() int64 { return c.Account.ID }

// Owner implements Document.
func (c Card) Owner() int64 { return c.Account.OwnerID }

// Balance implements Document.
func (c Card) Balance() decimal.Decimal { return c.Account.Amount }

// ShortNumber implements Document.
func (c Card) ShortNumber() string { return shortNumber(c.Number) }

const shortNumberDigits = 4

func shortNumber(number string) string {
	if len(number) <= shortNumberDigits {
		return number
	}

	return "*" + number[len(number)-shortNumberDigits:]
}
