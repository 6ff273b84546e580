package web

import "net/http"

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// 静态资源（CSS/图片等）
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// 页面
	mux.HandleFunc("/", s.Index)
	mux.HandleFunc("/posts/", s.PostDetail)
	mux.HandleFunc("/accommodations/", s.AccommodationDetail)
	mux.HandleFunc("/subscribe", s.Subscribe)
	mux.HandleFunc("/feed", s.RSS)
	mux.HandleFunc("/sitemap.xml", s.Sitemap)

	// 后台
	admin := http.NewServeMux()
	admin.HandleFunc("/admin/login", s.AdminLogin)
	admin.HandleFunc("/admin/logout", s.AdminLogout)
	admin.HandleFunc("/admin/new", s.AdminPostNew)
	admin.HandleFunc("/admin/edit/", s.AdminPostEdit)
	mux.Handle("/admin/", adminAuth(admin))

	return mux
}
