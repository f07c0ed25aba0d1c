package rules

import (
	"math"
	"strings"
	"testing"
)

func TestValidateExpense(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ExpenseInput)
		wantErr string
	}{
		{"valid", func(*ExpenseInput) {}, ""},
		{"zero amount", func(in *ExpenseInput) { in.Amount = 0 },
			"Expense amount must be greater than 0"},
		{"negative amount", func(in *ExpenseInput) { in.Amount = -10 },
			"Expense amount must be greater than 0"},
		{"NaN amount", func(in *ExpenseInput) { in.Amount = math.NaN() },
			"Expense amount must be greater than 0"},
		{"infinite amount", func(in *ExpenseInput) { in.Amount = math.Inf(1) },
			"Expense amount must be greater than 0"},
		{"at ceiling", func(in *ExpenseInput) { in.Amount = 1000000 }, ""},
		{"over ceiling", func(in *ExpenseInput) { in.Amount = 1000000.01 },
			"Expense amount must be 1,000,000 or less"},
		{"missing date", func(in *ExpenseInput) { in.IncurredOn = "" },
			"Expense date is required"},
		{"overlong category", func(in *ExpenseInput) { in.Category = strings.Repeat("x", 61) },
			"Expense category must be 60 characters or fewer"},
		{"overlong vendor", func(in *ExpenseInput) { in.Vendor = strings.Repeat("x", 121) },
			"Expense vendor must be 120 characters or fewer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := ExpenseInput{Category: "plumbing", Amount: 250, IncurredOn: "2026-03-01"}
			tt.mutate(&input)
			err := ValidateExpense(input)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateExpense() error = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("ValidateExpense() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
