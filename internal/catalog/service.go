package catalog

// Service provides read access to the menu. It implements Lookup for the
// order assembler.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) Get(foodID int) (Food, error) {
	if foodID <= 0 {
		return Food{}, ErrNotFound
	}
	return s.repo.Get(foodID)
}

func (s *Service) List() ([]Food, error) {
	return s.repo.List()
}

func (s *Service) ListByIDs(ids []int) ([]Food, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) Create(f Food) (Food, error) {
	return s.repo.Create(f)
}
