package models

import "time"

// Bill is one checkout transaction. It snapshots the delivery destination at
// order time; the snapshot fields are encrypted at rest like a Delivery's.
type Bill struct {
	ID            string
	UserID        string
	Address       string
	DetailAddress string
	Recipient     string
	PostalCode    string
	IsPaid        bool
	CreatedAt     time.Time
}

// OrderItem is a single product line within a Bill. Name, Price, Amount and
// SellerID are snapshots taken at order placement and never change afterwards;
// only StatusID moves, monotonically forward through the status catalog.
type OrderItem struct {
	ID        string
	BillID    string
	ProductID string
	SellerID  string
	Name      string
	Price     int64
	Amount    int64
	StatusID  int64
}

// StatusCategory is one stage of the order lifecycle. IDs are ordinals:
// lower means earlier; the catalog's maximum is the terminal state.
type StatusCategory struct {
	ID   int64
	Name string
}
