package web

import (
	"html/template"

	"github.com/espitman/remix-blog-sample/internal/blog"
	"github.com/espitman/remix-blog-sample/internal/config"
	"github.com/espitman/remix-blog-sample/internal/stay"
)

type Server struct {
	Config        *config.Config
	Posts         *blog.Service
	Subscribers   blog.SubscriberStore
	Stays         *stay.Client
	TemplatesDir  string
	TemplateCache map[string]*template.Template
}

func NewServer(cfg *config.Config, posts *blog.Service, subs blog.SubscriberStore, stays *stay.Client) *Server {
	return &Server{
		Config:        cfg,
		Posts:         posts,
		Subscribers:   subs,
		Stays:         stays,
		TemplatesDir:  "internal/web/templates",
		TemplateCache: make(map[string]*template.Template),
	}
}
