package cart

import "fmt"

// Service owns cart business logic. Every operation goes through load(),
// which heals the at-most-one-cart-per-user invariant before the requested
// mutation is applied: duplicate rows are merged by summing per-food
// quantities into the oldest row and the extras are deleted.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// load returns the user's single cart, merging duplicates first. A missing
// cart is not an error; it comes back as an unsaved empty cart (ID zero).
func (s *Service) load(userID int) (Cart, error) {
	carts, err := s.repo.FindAllByUser(userID)
	if err != nil {
		return Cart{}, err
	}
	switch len(carts) {
	case 0:
		return Cart{UserID: userID, Items: make(map[int]int)}, nil
	case 1:
		c := carts[0]
		if c.Items == nil {
			c.Items = make(map[int]int)
		}
		return c, nil
	}

	// duplicate rows: merge everything into the oldest, drop the rest
	merged := carts[0]
	if merged.Items == nil {
		merged.Items = make(map[int]int)
	}
	for _, extra := range carts[1:] {
		for foodID, qty := range extra.Items {
			merged.Items[foodID] += qty
		}
	}
	merged, err = s.repo.Save(merged)
	if err != nil {
		return Cart{}, err
	}
	for _, extra := range carts[1:] {
		if err := s.repo.Delete(extra.ID); err != nil {
			fmt.Printf("warning: could not delete duplicate cart %d for user %d: %v\n", extra.ID, userID, err)
		}
	}
	return merged, nil
}

func (s *Service) Get(userID int) (Cart, error) {
	return s.load(userID)
}

// Add increments the quantity of foodID by one, creating the cart if the
// user has none yet.
func (s *Service) Add(userID, foodID int) (Cart, error) {
	c, err := s.load(userID)
	if err != nil {
		return Cart{}, err
	}
	c.Items[foodID]++
	return s.repo.Save(c)
}

// SetAll replaces the whole item map. Zero or negative quantities are
// dropped rather than stored.
func (s *Service) SetAll(userID int, items map[int]int) (Cart, error) {
	c, err := s.load(userID)
	if err != nil {
		return Cart{}, err
	}
	next := make(map[int]int, len(items))
	for foodID, qty := range items {
		if qty > 0 {
			next[foodID] = qty
		}
	}
	c.Items = next
	return s.repo.Save(c)
}

func (s *Service) Remove(userID, foodID int) (Cart, error) {
	c, err := s.load(userID)
	if err != nil {
		return Cart{}, err
	}
	delete(c.Items, foodID)
	if c.ID == 0 {
		// nothing stored; removing from an absent cart is a no-op
		return c, nil
	}
	return s.repo.Save(c)
}

func (s *Service) Clear(userID int) error {
	c, err := s.load(userID)
	if err != nil {
		return err
	}
	if c.ID == 0 {
		return nil
	}
	c.Items = make(map[int]int)
	_, err = s.repo.Save(c)
	return err
}

// Snapshot returns a copy of the user's current items for order assembly.
func (s *Service) Snapshot(userID int) (map[int]int, error) {
	c, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	items := make(map[int]int, len(c.Items))
	for foodID, qty := range c.Items {
		items[foodID] = qty
	}
	return items, nil
}
