package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/espitman/remix-blog-sample/internal/blog"
	"github.com/espitman/remix-blog-sample/internal/config"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	store, err := blog.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		SiteBaseURL: "http://localhost:8084",
		AdminUser:   "admin",
		AdminPass:   "secret",
	}
	srv := NewServer(cfg, blog.NewService(store), store, nil)
	srv.TemplatesDir = "templates"
	return srv, srv.Routes()
}

// adminSession logs the test client in and returns the session cookie plus
// the CSRF token the admin mux expects on POSTs.
func adminSession(t *testing.T) (*http.Cookie, string) {
	t.Helper()
	token, err := createSession()
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	cookie := &http.Cookie{Name: sessionCookieName, Value: token}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	return cookie, getCsrfToken(req)
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createTestPost(t *testing.T, h http.Handler, title, slug, content string) {
	t.Helper()
	cookie, csrf := adminSession(t)
	form := url.Values{
		"csrf_token": {csrf},
		"title":      {title},
		"slug":       {slug},
		"content":    {content},
	}
	w := postForm(t, h, "/admin/new", form, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create %s: code %d, body %s", slug, w.Code, w.Body.String())
	}
}

func TestIndexPage(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("index code %d", w.Code)
	}
}

func TestAdminRequiresLogin(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/new", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect to login, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/login" {
		t.Fatalf("redirect location %q", loc)
	}
}

func TestLogin(t *testing.T) {
	_, h := newTestServer(t)

	w := postForm(t, h, "/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}}, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "invalid username or password") {
		t.Fatalf("bad creds: code %d", w.Code)
	}

	w = postForm(t, h, "/admin/login", url.Values{"username": {"admin"}, "password": {"secret"}}, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("login code %d", w.Code)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Fatal("no session cookie set")
	}
}

func TestCreateAndViewPost(t *testing.T) {
	_, h := newTestServer(t)
	createTestPost(t, h, "Hello", "hello", "**World**")

	req := httptest.NewRequest(http.MethodGet, "/posts/hello", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("post page code %d", w.Code)
	}
	// content is rendered as markdown
	if !strings.Contains(w.Body.String(), "<strong>World</strong>") {
		t.Fatal("markdown not rendered")
	}
}

func TestCreateValidationError(t *testing.T) {
	_, h := newTestServer(t)
	cookie, csrf := adminSession(t)

	form := url.Values{"csrf_token": {csrf}, "title": {"Hello"}}
	w := postForm(t, h, "/admin/new", form, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Title, slug, and content are required") {
		t.Fatalf("reason missing from body: %s", w.Body.String())
	}
}

func TestCreateSlugConflict(t *testing.T) {
	_, h := newTestServer(t)
	createTestPost(t, h, "Hello", "hello", "World")

	cookie, csrf := adminSession(t)
	form := url.Values{
		"csrf_token": {csrf},
		"title":      {"X"},
		"slug":       {"hello"},
		"content":    {"Y"},
	}
	w := postForm(t, h, "/admin/new", form, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "slug already exists") {
		t.Fatalf("conflict reason missing: %s", w.Body.String())
	}
}

func TestEditRename(t *testing.T) {
	_, h := newTestServer(t)
	createTestPost(t, h, "Hello", "hello", "World")

	cookie, csrf := adminSession(t)
	form := url.Values{
		"csrf_token": {csrf},
		"title":      {"Hello v2"},
		"slug":       {"hello-v2"},
		"content":    {"World v2"},
	}
	w := postForm(t, h, "/admin/edit/hello", form, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("edit code %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/posts/hello-v2" {
		t.Fatalf("redirect to %q", loc)
	}

	req := httptest.NewRequest(http.MethodGet, "/posts/hello", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("old slug should 404, got %d", rec.Code)
	}
}

func TestEditMissingPost(t *testing.T) {
	_, h := newTestServer(t)
	cookie, csrf := adminSession(t)
	form := url.Values{
		"csrf_token": {csrf},
		"title":      {"T"},
		"slug":       {"t"},
		"content":    {"c"},
	}
	w := postForm(t, h, "/admin/edit/missing", form, cookie)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteBySlugIntent(t *testing.T) {
	_, h := newTestServer(t)
	createTestPost(t, h, "Hello", "hello", "World")

	w := postForm(t, h, "/posts/hello", url.Values{"intent": {"delete"}}, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("delete code %d", w.Code)
	}

	w = postForm(t, h, "/posts/hello", url.Values{"intent": {"delete"}}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete should 404, got %d", w.Code)
	}
}

func TestDeleteByIDIntent(t *testing.T) {
	srv, h := newTestServer(t)
	createTestPost(t, h, "Hello", "hello", "World")

	post, err := srv.Posts.GetBySlug("hello")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	w := postForm(t, h, "/", url.Values{"intent": {"delete"}, "postId": {post.ID}}, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("delete code %d", w.Code)
	}

	w = postForm(t, h, "/", url.Values{"intent": {"delete"}, "postId": {post.ID}}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleting a gone id should 404, got %d", w.Code)
	}
}

func TestInvalidIntent(t *testing.T) {
	_, h := newTestServer(t)
	w := postForm(t, h, "/", url.Values{"intent": {"publish"}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAccommodationBadCode(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/accommodations/not-a-number", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSubscribe(t *testing.T) {
	_, h := newTestServer(t)

	w := postForm(t, h, "/subscribe", url.Values{"email": {"not-an-email"}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = postForm(t, h, "/subscribe", url.Values{"email": {"a@example.com"}}, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("subscribe code %d", w.Code)
	}
}

func TestFeedAndSitemap(t *testing.T) {
	_, h := newTestServer(t)
	createTestPost(t, h, "Hello", "hello", "World")

	for _, path := range []string{"/feed", "/sitemap.xml"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s code %d", path, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/xml" {
			t.Fatalf("%s content type %q", path, ct)
		}
		if !strings.Contains(w.Body.String(), "/posts/hello") {
			t.Fatalf("%s missing post link", path)
		}
	}
}

func TestCSRFRejected(t *testing.T) {
	_, h := newTestServer(t)
	cookie, _ := adminSession(t)

	form := url.Values{"title": {"Hello"}, "slug": {"hello"}, "content": {"World"}}
	w := postForm(t, h, "/admin/new", form, cookie)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", w.Code)
	}
}
