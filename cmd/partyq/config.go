package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	DatabaseURL         string
	Addr                string
	AllowedOrigins      []string
	AppURL              string
	JWTSecret           string
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURL  string
	LogLevel            string
	LogFormat           string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return Config{}, errors.New("DATABASE_URL env var is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET env var is required")
	}

	addr := fmt.Sprintf(":%s", envOrDefault("PORT", "8080"))
	appURL := envOrDefault("APP_URL", "http://localhost:5173")

	origins := parseAllowedOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", appURL))

	return Config{
		DatabaseURL:         dsn,
		Addr:                addr,
		AllowedOrigins:      origins,
		AppURL:              appURL,
		JWTSecret:           secret,
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyRedirectURL:  envOrDefault("SPOTIFY_REDIRECT_URL", "http://localhost:8080/callback"),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
		LogFormat:           envOrDefault("LOG_FORMAT", "json"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	var origins []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
