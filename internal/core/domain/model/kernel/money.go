package kernel

import (
	"fmt"

	"shop/internal/pkg/errs"
	"shop/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrMoneyIsNotConstructed indicates that a Money value was not created
// through one of the constructor functions.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"Money must be created via NewMoneyFromDecimal, MoneyFromString, or ZeroMoney",
)

// Money is a value object for a non-negative monetary amount in the shop's
// single currency. It wraps github.com/shopspring/decimal so price arithmetic
// is exact: captured unit prices multiplied by quantities and summed into an
// order total never accumulate binary floating point error.
//
// Money is immutable; arithmetic methods return new values.
type Money struct {
	amount decimal.Decimal

	guard guard.ConstructorGuard
}

// NewMoneyFromDecimal creates a Money value from a decimal amount.
// Negative amounts are rejected.
func NewMoneyFromDecimal(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is negative", amount))
	}
	return Money{amount: amount, guard: guard.NewConstructorGuard()}, nil
}

// MoneyFromString parses a Money value from its decimal string form, e.g. "49.99".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoneyFromDecimal(amount)
}

// ZeroMoney returns a properly constructed zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero, guard: guard.NewConstructorGuard()}
}

// Amount returns the underlying decimal value.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add returns the sum of two Money values.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), guard: guard.NewConstructorGuard()}
}

// MulInt returns the Money value multiplied by a whole quantity.
func (m Money) MulInt(n int) Money {
	return Money{
		amount: m.amount.Mul(decimal.NewFromInt(int64(n))),
		guard:  guard.NewConstructorGuard(),
	}
}

// IsEqual reports whether two Money values represent the same amount.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String returns the amount fixed to two decimal places, e.g. "25.00".
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// Validate checks that the Money value was properly constructed and is not negative.
func (m Money) Validate() error {
	if err := m.guard.Validate(ErrMoneyIsNotConstructed); err != nil {
		return err
	}
	if m.amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is negative", m.amount))
	}
	return nil
}
