package domain

// Tax is a fixed-amount tax applied to an invoice total.
type Tax struct {
	amount Money
}

// NewTax creates a fixed-amount tax.
func NewTax(amount Money) Tax {
	return Tax{amount: amount}
}

// Amount returns the taxed amount.
func (t Tax) Amount() Money {
	return t.amount
}

func (t Tax) String() string {
	return t.amount.String()
}
