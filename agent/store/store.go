// Package store is the Postgres implementation of the persistence
// contracts, built on bun with the pgdriver connector.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/voxagenda/voxagenda/agent/domain"
)

type Config struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout      time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"8"`
}

func NewDB(cfg Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithTimeout(cfg.Timeout),
	))
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	return bun.NewDB(sqldb, pgdialect.New())
}

// EnsureSchema creates the three tables when they do not exist yet.
// Deployments with managed migrations can skip it.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*domain.Lead)(nil),
		(*domain.Appointment)(nil),
		(*domain.Activity)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}
