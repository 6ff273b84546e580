package web

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/espitman/remix-blog-sample/internal/blog"
	"github.com/espitman/remix-blog-sample/internal/stay"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.indexPage(w, r)
	case http.MethodPost:
		s.indexAction(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) indexPage(w http.ResponseWriter, r *http.Request) {
	posts, err := s.Posts.GetAll()
	if err != nil {
		http.Error(w, "failed to load posts", http.StatusInternalServerError)
		return
	}

	// 房源列表加载失败不影响文章展示
	var stays []stay.Accommodation
	if s.Stays != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		stays, err = s.Stays.Search(ctx, stay.SearchParams{PageSize: 10, PageNumber: 1})
		if err != nil {
			log.Printf("accommodation search failed: %v", err)
		}
	}

	data := s.baseData(r)
	data["Posts"] = posts
	data["Accommodations"] = stays
	data["Subscribed"] = r.URL.Query().Get("subscribed") == "1"
	s.render(w, "index.html", data)
}

// indexAction handles the delete-by-id intent posted from the post cards
// on the home page.
func (s *Server) indexAction(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	if r.FormValue("intent") != "delete" {
		http.Error(w, "Invalid action", http.StatusBadRequest)
		return
	}
	postID := r.FormValue("postId")
	if postID == "" {
		http.Error(w, "Invalid action", http.StatusBadRequest)
		return
	}

	if err := s.Posts.DeleteByID(postID); err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete post", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) PostDetail(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/posts/")
	if slug == "" || strings.Contains(slug, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.postPage(w, r, slug)
	case http.MethodPost:
		s.postAction(w, r, slug)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) postPage(w http.ResponseWriter, r *http.Request, slug string) {
	post, err := s.Posts.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}

	data := s.baseData(r)
	data["Post"] = post
	data["PostHTML"] = template.HTML(renderMarkdown(post.Content))
	data["PageTitle"] = post.Title
	s.render(w, "post.html", data)
}

// postAction handles the delete-by-slug intent from the detail page.
func (s *Server) postAction(w http.ResponseWriter, r *http.Request, slug string) {
	_ = r.ParseForm()
	if r.FormValue("intent") != "delete" {
		http.Error(w, "Invalid action", http.StatusBadRequest)
		return
	}

	if err := s.Posts.DeleteBySlug(slug); err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to delete post", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) AdminPostNew(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data := s.baseData(r)
		data["PageTitle"] = "New Post"
		data["Post"] = blog.Post{}
		data["Action"] = "/admin/new"
		s.render(w, "admin_form.html", data)
	case http.MethodPost:
		input := parsePostForm(r)
		payload, err := blog.ValidatePostData(input)
		if err != nil {
			s.renderAdminFormError(w, r, "New Post", err.Error(), formPost(input), "/admin/new", http.StatusBadRequest)
			return
		}
		if _, err := s.Posts.Create(payload); err != nil {
			s.renderAdminFormError(w, r, "New Post", err.Error(), formPost(input), "/admin/new", statusForError(err))
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) AdminPostEdit(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/admin/edit/")
	if slug == "" || strings.Contains(slug, "/") {
		http.NotFound(w, r)
		return
	}
	action := "/admin/edit/" + slug

	switch r.Method {
	case http.MethodGet:
		post, err := s.Posts.GetBySlug(slug)
		if err != nil {
			if errors.Is(err, blog.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "failed to load post", http.StatusInternalServerError)
			return
		}
		data := s.baseData(r)
		data["PageTitle"] = "Edit Post"
		data["Post"] = post
		data["Action"] = action
		s.render(w, "admin_form.html", data)
	case http.MethodPost:
		input := parsePostForm(r)
		payload, err := blog.ValidatePostData(input)
		if err != nil {
			s.renderAdminFormError(w, r, "Edit Post", err.Error(), formPost(input), action, http.StatusBadRequest)
			return
		}
		if _, err := s.Posts.Update(slug, payload); err != nil {
			if errors.Is(err, blog.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			s.renderAdminFormError(w, r, "Edit Post", err.Error(), formPost(input), action, statusForError(err))
			return
		}
		http.Redirect(w, r, "/posts/"+payload.Slug, http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) AccommodationDetail(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/accommodations/")
	code, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "Invalid accommodation code", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	detail, err := s.Stays.Detail(ctx, code)
	if err != nil {
		http.Error(w, "failed to load accommodation", http.StatusInternalServerError)
		return
	}
	if detail == nil {
		http.NotFound(w, r)
		return
	}

	data := s.baseData(r)
	data["Accommodation"] = detail
	data["PageTitle"] = detail.Title
	s.render(w, "accommodation.html", data)
}

func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Subscribers == nil {
		http.Error(w, "subscriptions unavailable", http.StatusNotFound)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" || !strings.Contains(email, "@") {
		http.Error(w, "a valid email is required", http.StatusBadRequest)
		return
	}
	if err := s.Subscribers.AddSubscriber(email); err != nil {
		http.Error(w, "failed to subscribe", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/?subscribed=1", http.StatusSeeOther)
}

func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data := s.baseData(r)
		data["PageTitle"] = "Admin Login"
		s.render(w, "admin_login.html", data)
	case http.MethodPost:
		user := strings.TrimSpace(r.FormValue("username"))
		pass := strings.TrimSpace(r.FormValue("password"))
		if !s.validAdminCredentials(user, pass) {
			data := s.baseData(r)
			data["PageTitle"] = "Admin Login"
			data["Error"] = "invalid username or password"
			s.render(w, "admin_login.html", data)
			return
		}

		token, err := createSession()
		if err != nil {
			http.Error(w, "session error", http.StatusInternalServerError)
			return
		}
		setSessionCookie(w, token)
		http.Redirect(w, r, "/admin/new", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) AdminLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// parsePostForm maps form fields to the validator's untyped input. Fields
// the client did not submit at all stay nil, so the validator can tell
// absent from empty.
func parsePostForm(r *http.Request) blog.FormInput {
	_ = r.ParseForm()
	return blog.FormInput{
		Title:    formValue(r, "title"),
		Slug:     formValue(r, "slug"),
		Content:  formValue(r, "content"),
		ImageURL: formValue(r, "imageUrl"),
	}
}

func formValue(r *http.Request, key string) any {
	if vs, ok := r.PostForm[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return nil
}

// formPost rebuilds a Post from raw input so the form keeps what the user
// typed when validation fails.
func formPost(in blog.FormInput) blog.Post {
	str := func(v any) string {
		s, _ := v.(string)
		return s
	}
	return blog.Post{
		Title:    str(in.Title),
		Slug:     str(in.Slug),
		Content:  str(in.Content),
		ImageURL: str(in.ImageURL),
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, blog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, blog.ErrDuplicateSlug), blog.IsValidation(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) renderAdminFormError(w http.ResponseWriter, r *http.Request, pageTitle, msg string, post blog.Post, action string, status int) {
	w.WriteHeader(status)
	data := s.baseData(r)
	data["PageTitle"] = pageTitle
	data["Error"] = msg
	data["Post"] = post
	data["Action"] = action
	s.renderStatus(w, "admin_form.html", data)
}

func (s *Server) render(w http.ResponseWriter, page string, data map[string]any) {
	t, err := s.templateFor(page)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// renderStatus renders after the status code is already written, so
// failures can only be logged.
func (s *Server) renderStatus(w http.ResponseWriter, page string, data map[string]any) {
	t, err := s.templateFor(page)
	if err != nil {
		log.Printf("template %s: %v", page, err)
		return
	}
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("template %s: %v", page, err)
	}
}

func (s *Server) templateFor(page string) (*template.Template, error) {
	s.TemplateCache = ensureCache(s.TemplateCache)
	if t, ok := s.TemplateCache[page]; ok {
		return t, nil
	}

	files := []string{
		s.TemplatesDir + "/base.html",
		s.TemplatesDir + "/" + page,
	}

	t, err := template.New("").Funcs(template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"lower": strings.ToLower,
	}).ParseFiles(files...)
	if err != nil {
		return nil, err
	}
	s.TemplateCache[page] = t
	return t, nil
}

func ensureCache(cache map[string]*template.Template) map[string]*template.Template {
	if cache == nil {
		return make(map[string]*template.Template)
	}
	return cache
}

func (s *Server) baseData(r *http.Request) map[string]any {
	return map[string]any{
		"SiteTitle": "Remix Blog",
		"SiteURL":   s.Config.SiteBaseURL,
		"CSRFToken": getCsrfToken(r),
	}
}

func renderMarkdown(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	var b strings.Builder
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	if err := md.Convert([]byte(input), &b); err != nil {
		return input
	}
	return b.String()
}

func (s *Server) validAdminCredentials(user, pass string) bool {
	if user != s.Config.AdminUser {
		return false
	}
	if s.Config.AdminPassHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.Config.AdminPassHash), []byte(pass)) == nil
	}
	return pass == s.Config.AdminPass
}
