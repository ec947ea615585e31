package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"viewtube/infrastructure/configuration"
	"viewtube/infrastructure/logger"

	_ "github.com/lib/pq"
)

// NewPostgresDB opens the relational store backing watch-session analytics.
func NewPostgresDB(ctx context.Context, cfg configuration.Db) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.GetLogger().WithField("database", cfg.Name).Info("Connected to PostgreSQL")
	return db, nil
}
