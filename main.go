package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/assets"
	"github.com/robalobadob/mastermind/internal/db"
	"github.com/robalobadob/mastermind/internal/httpserver"
	"github.com/robalobadob/mastermind/internal/pegs"
	"github.com/robalobadob/mastermind/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if getEnv("NODE_ENV", "") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := pegs.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load peg vocabulary")
	}

	sqlDB, err := db.Open(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer sqlDB.Close()
	if err := db.Migrate(sqlDB, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	events := store.NewSQLiteStore(sqlDB)
	if getEnv("EVENT_STORE", "sqlite") == "memory" {
		events = store.NewMemoryStore()
	}

	srv := httpserver.New(events, sqlDB, httpserver.ConfigFromEnv())
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Int("pegs", len(pegs.All())).Msg("starting go-server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
