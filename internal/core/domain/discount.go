package domain

// Discount is a fixed-amount reduction applied to an invoice total.
// Percentage-based discounts are deliberately not modeled.
type Discount struct {
	amount Money
}

// NewDiscount creates a fixed-amount discount.
func NewDiscount(amount Money) Discount {
	return Discount{amount: amount}
}

// Amount returns the discounted amount.
func (d Discount) Amount() Money {
	return d.amount
}

func (d Discount) String() string {
	return d.amount.String()
}
