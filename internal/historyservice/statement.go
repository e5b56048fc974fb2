package historyservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-petr/dream-bank/internal/domain"
)

const (
	statementDateLayout = "2006-01-02"
	statementTimeLayout = "2006-01-02 15:04:05"
)

// StatementFilename returns the name of the statement file for the document number.
func StatementFilename(number string, date time.Time) string {
	return fmt.Sprintf("Statement for %s to %s.txt", number, date.Format(statementDateLayout))
}

// BuildStatement renders the account transactions as plain text, one per line,
// in the order given.
func BuildStatement(account domain.Account, txs []domain.Transaction) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Account %s\n", account.ShortNumber())
	fmt.Fprintf(&sb, "Balance: %s\n", account.Balance().StringFixed(2))

	if len(txs) == 0 {
		sb.WriteString("\nNo transactions\n")
		return sb.String()
	}

	sb.WriteString("\n")

	for _, t := range txs {
		sign, direction, counterparty := "-", "to", t.DestinationID
		if t.DestinationID == account.ID {
			sign, direction, counterparty = "+", "from", t.SourceID
		}

		fmt.Fprintf(&sb, "%s  %s%s  %s account %d",
			t.CreatedAt.UTC().Format(statementTimeLayout),
			sign, t.Accrual.StringFixed(2),
			direction, counterparty,
		)

		if t.Photo != "" {
			sb.WriteString("  [photo]")
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// Statement renders the statement of the owner's document and returns its file name and content.
func (s *Service) Statement(ctx context.Context, ownerID int64, ref domain.DocumentRef, date time.Time) (string, string, error) {
	doc, account, err := s.ownedAccount(ctx, ownerID, ref)
	if err != nil {
		return "", "", err
	}

	txs, err := s.GetTransactions(ctx, account.ID)
	if err != nil {
		return "", "", err
	}

	return StatementFilename(doc.ShortNumber(), date), BuildStatement(account, txs), nil
}
