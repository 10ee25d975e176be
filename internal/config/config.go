package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppPort   string
	AppEnv    string
	LogLevel  string
	DBDSN     string
	JWTSecret string
	// token lifetime in minutes
	JWTExpiresMin int
	CookieSecure  bool
	CORSOrigins   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AllowAdminSignup          bool
	StrictProposalTransitions bool

	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func Load() Config {
	return Config{
		AppPort:                   get("APP_PORT", "8080"),
		AppEnv:                    get("APP_ENV", "development"),
		LogLevel:                  get("LOG_LEVEL", "info"),
		DBDSN:                     must("DB_DSN"),
		JWTSecret:                 must("JWT_SECRET"),
		JWTExpiresMin:             getInt("JWT_EXPIRES_MIN", 1440),
		CookieSecure:              getBool("COOKIE_SECURE", false),
		CORSOrigins:               get("CORS_ORIGINS", "http://localhost:5173"),
		RedisAddr:                 get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:             get("REDIS_PASSWORD", ""),
		RedisDB:                   getInt("REDIS_DB", 0),
		AllowAdminSignup:          getBool("ALLOW_ADMIN_SIGNUP", false),
		StrictProposalTransitions: getBool("STRICT_PROPOSAL_TRANSITIONS", false),
		GoogleClientID:            get("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:              get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect:            get("GOOGLE_REDIRECT_URL", ""),
		FrontendBaseURL:           get("FRONTEND_BASE_URL", "http://localhost:5173"),
	}
}

// GoogleEnabled reports whether the Google sign-in routes should be mounted.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleSecret != "" && c.GoogleRedirect != ""
}

func get(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func getInt(k string, def int) int {
	n, err := strconv.Atoi(get(k, ""))
	if err != nil {
		return def
	}
	return n
}

func getBool(k string, def bool) bool {
	b, err := strconv.ParseBool(get(k, ""))
	if err != nil {
		return def
	}
	return b
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
