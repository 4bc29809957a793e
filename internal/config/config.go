package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseURL  string
	JWTSecret    string
	JWTTTL       time.Duration
	AllowOrigins []string

	GoogleAudience string

	RedisURL   string
	CacheTTL   time.Duration
	SessionTTL time.Duration

	GeminiAPIKey    string
	ScoutModel      string
	ScoutModelLabel string

	PlacesAPIKey  string
	PlacesTimeout time.Duration

	PhotosPerDay      int
	RestaurantsPerDay int
	AttractionsPerDay int

	ScoutMaxRetries int
	ScoutRetryDelay time.Duration

	LoginMaxAttempts int
	LoginWindow      time.Duration
	GenerateLimit    int
	GenerateWindow   time.Duration
	ReplaceLimit     int
	ReplaceWindow    time.Duration

	MinIOEndpoint     string
	MinIOAccessKey    string
	MinIOSecretKey    string
	MinIOUseSSL       bool
	MinIOBucketGuides string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	return Config{
		Port:         getenv("PORT", "8080"),
		DatabaseURL:  must("DATABASE_URL"),
		JWTSecret:    must("JWT_SECRET"),
		JWTTTL:       getduration("JWT_TTL", 8*time.Hour),
		AllowOrigins: splitAndTrim(getenv("ALLOW_ORIGINS", "http://localhost:5000,http://127.0.0.1:5000")),

		GoogleAudience: getenv("GOOGLE_AUDIENCE", ""),

		RedisURL:   getenv("REDIS_URL", ""),
		CacheTTL:   getduration("CACHE_TTL", time.Hour),
		SessionTTL: getduration("SESSION_TTL", time.Hour),

		GeminiAPIKey:    must("GEMINI_API_KEY"),
		ScoutModel:      getenv("SCOUT_MODEL", "gemini-2.0-flash"),
		ScoutModelLabel: getenv("SCOUT_MODEL_LABEL", "Gemini 2.0 Flash"),

		PlacesAPIKey:  getenv("GOOGLE_PLACES_API_KEY", ""),
		PlacesTimeout: getduration("PLACES_TIMEOUT", 5*time.Second),

		PhotosPerDay:      getint("PHOTOS_PER_DAY", 3),
		RestaurantsPerDay: getint("RESTAURANTS_PER_DAY", 3),
		AttractionsPerDay: getint("ATTRACTIONS_PER_DAY", 4),

		ScoutMaxRetries: getint("SCOUT_MAX_RETRIES", 2),
		ScoutRetryDelay: getduration("SCOUT_RETRY_DELAY", time.Second),

		LoginMaxAttempts: getint("LOGIN_MAX_ATTEMPTS", 10),
		LoginWindow:      getduration("LOGIN_WINDOW", 5*time.Minute),
		GenerateLimit:    getint("GENERATE_RATE_LIMIT", 20),
		GenerateWindow:   getduration("GENERATE_RATE_WINDOW", 10*time.Minute),
		ReplaceLimit:     getint("REPLACE_RATE_LIMIT", 60),
		ReplaceWindow:    getduration("REPLACE_RATE_WINDOW", 10*time.Minute),

		MinIOEndpoint:     getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:    getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:    getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:       getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketGuides: getenv("MINIO_BUCKET_GUIDES", "trip-guides"),
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v, err := strconv.Atoi(getenv(k, "")); err == nil && v > 0 {
		return v
	}
	return d
}

func getduration(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(getenv(k, "")); err == nil && v > 0 {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
