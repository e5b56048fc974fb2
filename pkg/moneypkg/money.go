// Package moneypkg provides parsing and validation of money amounts.
package moneypkg

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Bounds of every stored amount: NUMERIC(DigitsCount+DecimalPlaces, DecimalPlaces).
const (
	DigitsCount   = 16
	DecimalPlaces = 2
)

var (
	// ErrInvalidAccrual indicates that the text is not a valid transfer amount.
	ErrInvalidAccrual = errors.New("invalid accrual")
	// ErrAccrualNotPositive indicates a zero or negative amount.
	ErrAccrualNotPositive = errors.New("accrual must be positive")
	// ErrAccrualTooPrecise indicates more fraction digits than DecimalPlaces.
	ErrAccrualTooPrecise = fmt.Errorf("accrual must have at most %d decimal places", DecimalPlaces)
	// ErrAccrualOutOfRange indicates an amount that does not fit into DigitsCount integer digits.
	ErrAccrualOutOfRange = fmt.Errorf("accrual must have at most %d integer digits", DigitsCount)
)

// Upper is the smallest amount that does not fit into the storage bounds.
var Upper = decimal.New(1, DigitsCount)

var plainDecimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// ParseError holds the text that failed to parse as an accrual.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse accrual %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrInvalidAccrual, e.Err}
}

// ParseAccrual parses user input into a positive amount rounded half-up to DecimalPlaces.
func ParseAccrual(raw string) (decimal.Decimal, error) {
	text := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")

	if !plainDecimal.MatchString(text) {
		return decimal.Decimal{}, &ParseError{Text: raw, Err: errors.New("not a decimal number")}
	}

	// "5." and ".5" are complete numbers
	if strings.HasSuffix(text, ".") {
		text += "0"
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, &ParseError{Text: raw, Err: err}
	}

	if !d.IsPositive() {
		return decimal.Decimal{}, &ParseError{Text: raw, Err: ErrAccrualNotPositive}
	}

	if d.GreaterThanOrEqual(Upper) {
		return decimal.Decimal{}, &ParseError{Text: raw, Err: ErrAccrualOutOfRange}
	}

	// Round is half away from zero which equals half-up for positive values.
	rounded := d.Round(DecimalPlaces)

	if !rounded.IsPositive() {
		return decimal.Decimal{}, &ParseError{Text: raw, Err: ErrAccrualNotPositive}
	}

	if rounded.GreaterThanOrEqual(Upper) {
		return decimal.Decimal{}, &ParseError{Text: raw, Err: ErrAccrualOutOfRange}
	}

	return rounded, nil
}

// ValidateAccrual reports why the amount can not be moved by the ledger.
func ValidateAccrual(accrual decimal.Decimal) error {
	switch {
	case !accrual.IsPositive():
		return ErrAccrualNotPositive
	case !accrual.Equal(accrual.Truncate(DecimalPlaces)):
		return ErrAccrualTooPrecise
	case accrual.GreaterThanOrEqual(Upper):
		return ErrAccrualOutOfRange
	}

	return nil
}

// CanExtract reports whether balance covers the accrual.
func CanExtract(balance, accrual decimal.Decimal) bool {
	return !balance.Sub(accrual).IsNegative()
}
