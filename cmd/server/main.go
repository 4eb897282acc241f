package main

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"blog/internal/db"
	"blog/internal/server"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// A .env file is optional; environment variables win either way.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal().Err(err).Msg("loading .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "blog.db"
	}

	database, err := db.Open(dbPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", dbPath).Msg("opening database")
	}

	srv, err := server.New(database, server.Config{
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		CookieSecure: os.Getenv("COOKIE_SECURE") == "1",
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("building server")
	}

	logger.Info().Str("port", port).Msg("listening")
	if err := http.ListenAndServe(":"+port, srv); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
