package models

// Product is the sellable item referenced by cart lines and order items.
// Image holds the object-storage key of the product picture.
type Product struct {
	ID       string
	SellerID string
	Name     string
	Price    int64
	Image    string
}

// CartItem is a pending purchase line owned by a user. Consumed at checkout.
type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Amount    int64
}
