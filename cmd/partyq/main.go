package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"partyq/internal/logging"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	db, err := openDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err, "open database")
	}
	defer db.Close()

	handler := newHTTPHandler(cfg, db, log)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info(fmt.Sprintf("API listening on %s", server.Addr))
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err, "server error")
	}
}
