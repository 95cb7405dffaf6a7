package types

import "strings"

// ShippingAddress mirrors the direccion_envio jsonb column.
type ShippingAddress struct {
	Street     string  `json:"street"`
	City       string  `json:"city"`
	State      *string `json:"state,omitempty"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
}

// Complete reports whether the address carries everything a carrier needs.
func (a ShippingAddress) Complete() bool {
	return strings.TrimSpace(a.Street) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.PostalCode) != "" &&
		strings.TrimSpace(a.Country) != ""
}
