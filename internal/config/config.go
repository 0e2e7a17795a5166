package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Web search backends
const (
	BackendSerpAPI      = "serpapi"
	BackendCustomSearch = "customsearch"
)

// Config holds all application configuration
type Config struct {
	Port             string
	SerpAPIKey       string
	GoogleAPIKey     string
	GoogleCSEID      string
	WebSearchBackend string
	RedditBaseURL    string
	RedditUserAgent  string
	ProviderTimeout  time.Duration
	CORSOrigins      []string
	StaticDir        string
}

// Load loads configuration from environment variables
func Load() Config {
	return Config{
		Port:             getEnv("PORT", "8000"),
		SerpAPIKey:       os.Getenv("SERPAPI_API_KEY"),
		GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		GoogleCSEID:      os.Getenv("GOOGLE_CSE_ID"),
		WebSearchBackend: strings.ToLower(getEnv("WEB_SEARCH_BACKEND", BackendSerpAPI)),
		RedditBaseURL:    getEnv("REDDIT_BASE_URL", "https://www.reddit.com"),
		RedditUserAgent:  getEnv("REDDIT_USER_AGENT", "Mozilla/5.0"),
		ProviderTimeout:  time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 30)) * time.Second,
		CORSOrigins:      getEnvList("CORS_ORIGINS", []string{"http://localhost", "http://localhost:8000", "http://127.0.0.1:8000"}),
		StaticDir:        getEnv("STATIC_DIR", "static"),
	}
}

// Addr returns the HTTP listen address
func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
