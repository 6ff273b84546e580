package blog

// Store is the persistence contract for posts. Insert assigns the id and
// both timestamps; Update preserves id and created_at and refreshes
// updated_at. Lookups return (nil, nil) when no post matches.
type Store interface {
	List() ([]Post, error)
	FindBySlug(slug string) (*Post, error)
	FindByID(id string) (*Post, error)
	Insert(data PostData) (*Post, error)
	Update(currentSlug string, data PostData) (*Post, error)
	DeleteByID(id string) error
	DeleteBySlug(slug string) error
	Close() error
}

// SubscriberStore is implemented by stores that also keep newsletter
// subscribers.
type SubscriberStore interface {
	AddSubscriber(email string) error
	RemoveSubscriber(email string) error
	ListSubscribers() ([]Subscriber, error)
}
