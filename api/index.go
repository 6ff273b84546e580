package handler

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/espitman/remix-blog-sample/internal/blog"
	"github.com/espitman/remix-blog-sample/internal/config"
	"github.com/espitman/remix-blog-sample/internal/stay"
	"github.com/espitman/remix-blog-sample/internal/web"
)

var (
	handler http.Handler
	once    sync.Once
)

// initApp wires the app for a serverless runtime. Without a DATABASE_URL
// the store falls back to SQLite under /tmp, which is ephemeral there:
// configure Postgres for real persistence.
func initApp() {
	if os.Getenv("DATA_DIR") == "" && os.Getenv("DATABASE_URL") == "" {
		os.Setenv("DATA_DIR", "/tmp")
	}

	cfg := config.Load()

	var store blog.Store
	var err error
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err = blog.NewPostgresStore(ctx, cfg.DatabaseURL)
	} else {
		store, err = blog.NewSQLiteStore(filepath.Join(cfg.DataDir, "blog.db"))
	}
	if err != nil {
		log.Printf("Error initializing store: %v", err)
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		})
		return
	}

	posts := blog.NewService(store)
	subs, _ := store.(blog.SubscriberStore)
	stays := stay.NewClient(cfg.StayAPIURL)

	server := web.NewServer(cfg, posts, subs, stays)
	handler = server.Routes()
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(initApp)
	handler.ServeHTTP(w, r)
}
