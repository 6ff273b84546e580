// Command notifier emails active subscribers about a post. By default it
// announces the newest post; -slug picks another, -dry-run prints the
// message instead of sending it.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"github.com/espitman/remix-blog-sample/internal/blog"
	"github.com/espitman/remix-blog-sample/internal/config"

	"gopkg.in/gomail.v2"
)

func main() {
	slug := flag.String("slug", "", "Slug of the post to announce (default: latest)")
	dryRun := flag.Bool("dry-run", false, "Print the email instead of sending")
	flag.Parse()

	cfg := config.Load()

	store, err := blog.NewSQLiteStore(filepath.Join(cfg.DataDir, "blog.db"))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	posts := blog.NewService(store)

	var post *blog.Post
	if *slug != "" {
		post, err = posts.GetBySlug(*slug)
		if err != nil {
			log.Fatalf("Post not found: %s", *slug)
		}
	} else {
		all, err := posts.GetAll()
		if err != nil {
			log.Fatalf("Failed to list posts: %v", err)
		}
		if len(all) == 0 {
			log.Fatal("No posts found")
		}
		post = &all[0]
	}

	subs, err := store.ListSubscribers()
	if err != nil {
		log.Fatalf("Failed to list subscribers: %v", err)
	}
	if len(subs) == 0 {
		log.Println("No active subscribers.")
		return
	}

	subject := "New post: " + post.Title
	body := fmt.Sprintf("%s\n\nRead it at %s/posts/%s\n", post.Title, cfg.SiteBaseURL, post.Slug)

	if *dryRun {
		fmt.Printf("Subject: %s\n\n%s\n", subject, body)
		fmt.Printf("Would send to %d subscriber(s)\n", len(subs))
		return
	}

	if cfg.SMTPHost == "" || cfg.MailFrom == "" {
		log.Fatal("SMTP_HOST and MAIL_FROM must be configured")
	}
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		log.Fatalf("Invalid SMTP_PORT: %v", err)
	}

	dialer := gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPass)

	sent := 0
	for _, sub := range subs {
		m := gomail.NewMessage()
		m.SetHeader("From", cfg.MailFrom)
		m.SetHeader("To", sub.Email)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", body)

		if err := dialer.DialAndSend(m); err != nil {
			log.Printf("Failed to send to %s: %v", sub.Email, err)
			continue
		}
		sent++
	}
	log.Printf("Sent %d/%d notifications", sent, len(subs))
}
