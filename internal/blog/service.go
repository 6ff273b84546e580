package blog

// Service wraps a Store with the lifecycle rules for posts: existence
// checks and slug uniqueness. It holds no state of its own, so one value
// can serve concurrent requests.
//
// The uniqueness check and the following write are two separate store
// calls. Two concurrent writers racing for the same new slug can both pass
// the check; the SQL stores carry a UNIQUE constraint that turns the loser
// into ErrDuplicateSlug instead of a silent duplicate.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetAll returns every post, newest first.
func (s *Service) GetAll() ([]Post, error) {
	return s.store.List()
}

// GetBySlug returns the post with the given slug or ErrNotFound.
func (s *Service) GetBySlug(slug string) (*Post, error) {
	post, err := s.store.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// GetByID returns the post with the given id, or (nil, nil) when there is
// none. Unlike GetBySlug it does not signal not-found; callers decide.
func (s *Service) GetByID(id string) (*Post, error) {
	return s.store.FindByID(id)
}

// Create inserts a new post from validator-approved data. It fails with
// ErrDuplicateSlug when another post already owns the slug, without
// writing anything.
func (s *Service) Create(data PostData) (*Post, error) {
	existing, err := s.store.FindBySlug(data.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateSlug
	}
	return s.store.Insert(data)
}

// Update overwrites the post currently known by currentSlug, possibly
// renaming it. It fails with ErrNotFound when no such post exists, and
// with ErrDuplicateSlug when the new slug is already taken. The conflict
// check is skipped only when the slug is unchanged.
func (s *Service) Update(currentSlug string, data PostData) (*Post, error) {
	current, err := s.store.FindBySlug(currentSlug)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	if data.Slug != currentSlug {
		taken, err := s.store.FindBySlug(data.Slug)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, ErrDuplicateSlug
		}
	}

	return s.store.Update(currentSlug, data)
}

// DeleteByID removes the post with the given id or fails with ErrNotFound.
func (s *Service) DeleteByID(id string) error {
	post, err := s.store.FindByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	return s.store.DeleteByID(id)
}

// DeleteBySlug removes the post with the given slug or fails with
// ErrNotFound.
func (s *Service) DeleteBySlug(slug string) error {
	post, err := s.store.FindBySlug(slug)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	return s.store.DeleteBySlug(slug)
}
