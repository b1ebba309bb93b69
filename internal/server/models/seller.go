package models

// Seller holds a user's merchant registration. One per user, enforced by a
// unique index on UserID. BankName, AccountNumber and AccountHolder are
// encrypted at rest.
type Seller struct {
	ID             string
	UserID         string
	CompanyName    string
	BusinessNumber string
	BankName       string
	AccountNumber  string
	OwnerName      string
	AccountHolder  string
	ContactNumber  string
}
