package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/espitman/remix-blog-sample/internal/blog"
	"github.com/espitman/remix-blog-sample/internal/config"
	"github.com/espitman/remix-blog-sample/internal/stay"
	"github.com/espitman/remix-blog-sample/internal/web"
)

func main() {
	cfg := config.Load()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	posts := blog.NewService(store)
	subs, _ := store.(blog.SubscriberStore)
	stays := stay.NewClient(cfg.StayAPIURL)

	server := web.NewServer(cfg, posts, subs, stays)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openStore picks the post store from config: Postgres when DATABASE_URL
// is set, SQLite when DATA_DIR is, otherwise a JSON file store.
func openStore(cfg *config.Config) (blog.Store, error) {
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return blog.NewPostgresStore(ctx, cfg.DatabaseURL)
	}
	if cfg.DataDir != "" {
		return blog.NewSQLiteStore(filepath.Join(cfg.DataDir, "blog.db"))
	}
	return blog.NewFileStore("posts.json")
}
