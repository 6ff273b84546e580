package web

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
)

func (s *Server) RSS(w http.ResponseWriter, r *http.Request) {
	siteURL := s.Config.SiteBaseURL

	posts, err := s.Posts.GetAll()
	if err != nil {
		http.Error(w, "failed to load posts", http.StatusInternalServerError)
		return
	}
	if len(posts) > 20 {
		posts = posts[:20]
	}

	feed := &feeds.Feed{
		Title:       "Remix Blog",
		Link:        &feeds.Link{Href: siteURL},
		Description: "Latest posts",
		Created:     time.Now(),
	}

	for _, post := range posts {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:   post.Title,
			Link:    &feeds.Link{Href: siteURL + "/posts/" + post.Slug},
			Created: post.CreatedAt,
			Updated: post.UpdatedAt,
			Content: renderMarkdown(post.Content),
		})
	}

	w.Header().Set("Content-Type", "application/xml")
	if err := feed.WriteRss(w); err != nil {
		log.Printf("RSS error: %v", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
	}
}
