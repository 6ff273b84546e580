package blog

import (
	"encoding/json"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileStore keeps posts in a single JSON file. It needs no setup, which
// makes it the default backend for local runs and for tests. Writes go
// through atomicWriteFile under an exclusive lock.
type FileStore struct {
	path  string
	mu    sync.RWMutex
	posts []Post
}

func NewFileStore(path string) (*FileStore, error) {
	store := &FileStore{path: path}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *FileStore) List() ([]Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// 返回副本，避免外部修改内部切片
	posts := make([]Post, len(s.posts))
	copy(posts, s.posts)
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *FileStore) FindBySlug(slug string) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, post := range s.posts {
		if post.Slug == slug {
			p := post
			return &p, nil
		}
	}
	return nil, nil
}

func (s *FileStore) FindByID(id string) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, post := range s.posts {
		if post.ID == id {
			p := post
			return &p, nil
		}
	}
	return nil, nil
}

func (s *FileStore) Insert(data PostData) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.posts {
		if existing.Slug == data.Slug {
			return nil, ErrDuplicateSlug
		}
	}

	now := time.Now()
	post := Post{
		ID:        uuid.NewString(),
		Title:     data.Title,
		Slug:      data.Slug,
		Content:   data.Content,
		ImageURL:  data.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.posts = append(s.posts, post)
	if err := s.save(); err != nil {
		s.posts = s.posts[:len(s.posts)-1]
		return nil, err
	}
	return &post, nil
}

func (s *FileStore) Update(currentSlug string, data PostData) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, post := range s.posts {
		if post.Slug == currentSlug {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrNotFound
	}

	if data.Slug != currentSlug {
		for _, existing := range s.posts {
			if existing.Slug == data.Slug {
				return nil, ErrDuplicateSlug
			}
		}
	}

	previous := s.posts[index]
	updated := Post{
		ID:        previous.ID,
		Title:     data.Title,
		Slug:      data.Slug,
		Content:   data.Content,
		ImageURL:  data.ImageURL,
		CreatedAt: previous.CreatedAt,
		UpdatedAt: time.Now(),
	}

	s.posts[index] = updated
	if err := s.save(); err != nil {
		s.posts[index] = previous
		return nil, err
	}
	return &updated, nil
}

func (s *FileStore) DeleteByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, post := range s.posts {
		if post.ID == id {
			return s.removeAt(i)
		}
	}
	return ErrNotFound
}

func (s *FileStore) DeleteBySlug(slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, post := range s.posts {
		if post.Slug == slug {
			return s.removeAt(i)
		}
	}
	return ErrNotFound
}

func (s *FileStore) Close() error {
	return nil
}

// removeAt must be called with the write lock held.
func (s *FileStore) removeAt(index int) error {
	removed := s.posts[index]
	s.posts = append(s.posts[:index], s.posts[index+1:]...)
	if err := s.save(); err != nil {
		s.posts = append(s.posts, removed)
		return err
	}
	return nil
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			s.posts = []Post{}
			return nil
		}
		return err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		s.posts = []Post{}
		return nil
	}

	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return err
	}
	s.posts = posts
	return nil
}

// save must be called with the write lock held.
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.posts, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return atomicWriteFile(s.path, data, 0o644)
}
