package cart

// Cart holds one user's food selection as a foodID -> quantity map.
// Creation is not transactional, so the carts table may briefly hold more
// than one row per user; the service merges those back into one before any
// operation touches them.
type Cart struct {
	ID     int         `json:"-"`
	UserID int         `json:"userId"`
	Items  map[int]int `json:"items"`
}
