package httpserver

import (
	"os"
	"strconv"
	"time"
)

// ConfigFromEnv reads the server settings from the environment.
//
//	GAME_CODE_LENGTH     pegs per secret (default 4)
//	GAME_TOTAL_ATTEMPTS  guesses per game (default 12)
//	DAILY_SALT           daily secret key (default "local_dev_salt")
//	JWT_SECRET           token signing key (default "dev_secret_change_me")
//	JWT_EXPIRES_DAYS     token lifetime in days (default 14)
//	COOKIE_NAME          auth cookie (default "mastermind_token")
//	CLIENT_ORIGIN        CORS origin (default http://localhost:5173)
//	NODE_ENV=production  secure cookies
func ConfigFromEnv() Config {
	return Config{
		CodeLength:    envInt("GAME_CODE_LENGTH", 4),
		TotalAttempts: envInt("GAME_TOTAL_ATTEMPTS", 12),
		DailySalt:     getEnv("DAILY_SALT", "local_dev_salt"),
		JWTSecret:     getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiry:     time.Duration(envInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:    getEnv("COOKIE_NAME", "mastermind_token"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Secure:        os.Getenv("NODE_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses k as an int, falling back to def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
