package model

import "github.com/shopspring/decimal"

// Gift is a reward with finite stock that a promotion can hand out.
type Gift struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Remaining  int             `json:"remaining"`
	ExpiryDate Date            `json:"expiryDate"`
	Value      decimal.Decimal `json:"value"`
}
