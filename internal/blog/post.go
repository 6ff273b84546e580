package blog

import "time"

// Post is a published blog entry. ID and CreatedAt are assigned by the
// store on insert and never change afterwards.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostData is a validated payload for creating or updating a post.
// Build it through ValidatePostData rather than by hand.
type PostData struct {
	Title    string
	Slug     string
	Content  string
	ImageURL string
}
