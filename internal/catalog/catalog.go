package catalog

import "errors"

var ErrNotFound = errors.New("food not found")

// Food is a menu entry. Price is in whole currency units with two-decimal
// precision; orders snapshot Name and Price at creation time so later
// catalog edits never touch historical orders.
type Food struct {
	ID          int     `json:"foodId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
}

// Lookup is the read-side contract the order assembler depends on.
type Lookup interface {
	Get(foodID int) (Food, error)
}
