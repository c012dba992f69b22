package entities

// WishlistEntry links a canonical username to a product. Unique per
// (username, product) pair; toggled rather than added/removed.
type WishlistEntry struct {
	Username  string
	ProductID int64
}
