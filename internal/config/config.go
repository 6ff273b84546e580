package config

import (
	"net"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string
	SiteBaseURL   string
	DataDir       string
	DatabaseURL   string
	AdminUser     string
	AdminPass     string
	AdminPassHash string
	StayAPIURL    string
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	MailFrom      string
}

func Load() *Config {
	// .env 文件存在时优先加载，便于本地开发
	_ = godotenv.Load()

	addr := getEnv("ADDR", ":8084")
	siteBaseURL := strings.TrimRight(getEnv("SITE_BASE_URL", ""), "/")
	if siteBaseURL == "" {
		siteBaseURL = baseURLFromAddr(addr)
	}

	return &Config{
		Addr:          addr,
		SiteBaseURL:   siteBaseURL,
		DataDir:       getEnv("DATA_DIR", "data"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		AdminUser:     getEnv("ADMIN_USER", "admin"),
		AdminPass:     getEnv("ADMIN_PASS", "admin"),
		AdminPassHash: getEnv("ADMIN_PASS_HASH", ""),
		StayAPIURL:    getEnv("STAY_API_URL", "https://gw.jabama.com"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPass:      getEnv("SMTP_PASS", ""),
		MailFrom:      getEnv("MAIL_FROM", ""),
	}
}

func baseURLFromAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimRight(addr, "/")
	}

	host := ""
	port := ""
	if strings.HasPrefix(addr, ":") {
		host = "localhost"
		port = strings.TrimPrefix(addr, ":")
	} else {
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			port = p
		} else {
			host = addr
		}
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	if port != "" {
		return "http://" + host + ":" + port
	}
	return "http://" + host
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
