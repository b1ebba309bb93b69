package models

// Delivery is a saved shipping address. A user may hold at most five.
// Address, DetailAddress, Recipient and PostalCode are encrypted at rest.
type Delivery struct {
	ID            string
	UserID        string
	Address       string
	DetailAddress string
	Recipient     string
	PostalCode    string
}
