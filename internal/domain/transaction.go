package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrContractViolation indicates a caller bug such as a non-positive accrual reaching the ledger.
	ErrContractViolation = errors.New("contract violation")
	// ErrInsufficientBalance indicates that the source account can not cover the accrual.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSameAccount indicates that source and destination resolve to one account.
	ErrSameAccount = errors.New("source and destination is the same account")
	// ErrInvalidOwner indicates that the user is unauthorized to use the document.
	ErrInvalidOwner = errors.New("unauthorized owner")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Transaction is an immutable record of money moved between two accounts.
type Transaction struct {
	ID                   int64           `json:"id"`
	SourceID             int64           `json:"source_id"`
	DestinationID        int64           `json:"destination_id"`
	Accrual              decimal.Decimal `json:"accrual"` // always positive
	Photo                string          `json:"photo,omitempty"`
	WasSourceViewed      bool            `json:"was_source_viewed"`
	WasDestinationViewed bool            `json:"was_destination_viewed"`
	CreatedAt            time.Time       `json:"created_at"`
}

// CreateTransactionParams is the input data for the transfer atomic unit.
type CreateTransactionParams struct {
	SourceID      int64
	DestinationID int64
	Accrual       decimal.Decimal
	Photo         string
}

// TransferResult holds the ledger row and both accounts after the transfer commits.
type TransferResult struct {
	Transaction Transaction `json:"transaction"`
	Source      Account     `json:"source"`
	Destination Account     `json:"destination"`
}

// TransferParams is a transfer request between two documents on behalf of the source owner.
type TransferParams struct {
	Source      DocumentRef
	Destination DocumentRef
	Accrual     decimal.Decimal
	Attachment  *Attachment
}
