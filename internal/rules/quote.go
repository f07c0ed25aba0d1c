package rules

import (
	"errors"
	"math"
	"strings"
)

// QuoteInput carries the builder-quote fields the rules care about.
type QuoteInput struct {
	Title       string
	Scope       string
	BuilderName string
	Amount      float64
	Currency    string
	Notes       string
}

// ValidateQuote enforces the builder-quote business rules.
func ValidateQuote(input QuoteInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return errors.New("Quote title is required")
	}
	if err := MaxLength(input.Title, MaxQuoteTitle, "Quote title"); err != nil {
		return err
	}
	if err := MaxLength(input.Scope, MaxQuoteScope, "Quote scope"); err != nil {
		return err
	}
	if strings.TrimSpace(input.BuilderName) == "" {
		return errors.New("Builder name is required")
	}
	if err := MaxLength(input.BuilderName, MaxQuoteBuilderName, "Builder name"); err != nil {
		return err
	}
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) || input.Amount <= 0 {
		return errors.New("Quote amount must be greater than zero")
	}
	if strings.TrimSpace(input.Currency) == "" {
		return errors.New("Currency is required")
	}
	if err := MaxLength(input.Currency, MaxQuoteCurrency, "Currency"); err != nil {
		return err
	}
	return MaxLength(input.Notes, MaxQuoteNotes, "Quote notes")
}
