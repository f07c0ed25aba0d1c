package rules

import (
	"errors"
	"math"
)

// MaxExpenseAmount caps a single expense. Anything above this is far
// more likely a typo or a corrupted backup row than a real purchase.
const MaxExpenseAmount = 1_000_000

// ExpenseInput carries the expense fields the rules care about.
type ExpenseInput struct {
	Category   string
	Vendor     string
	Amount     float64
	IncurredOn string
	Notes      string
}

// ValidateExpense enforces the expense business rules: strictly
// positive bounded amount and a required incurred-on date.
func ValidateExpense(input ExpenseInput) error {
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) || input.Amount <= 0 {
		return errors.New("Expense amount must be greater than 0")
	}
	if input.Amount > MaxExpenseAmount {
		return errors.New("Expense amount must be 1,000,000 or less")
	}
	if err := MaxLength(input.Category, MaxExpenseCategory, "Expense category"); err != nil {
		return err
	}
	if err := MaxLength(input.Vendor, MaxExpenseVendor, "Expense vendor"); err != nil {
		return err
	}
	if err := MaxLength(input.Notes, MaxExpenseNotes, "Expense notes"); err != nil {
		return err
	}
	if input.IncurredOn == "" {
		return errors.New("Expense date is required")
	}
	return nil
}
