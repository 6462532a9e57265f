// Package database persists run results in Postgres.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"speedtest-tester/pkg/models"

	"github.com/spf13/viper"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type DB struct {
	*bun.DB
}

func NewDB() (*DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		viper.GetString("database.user"),
		viper.GetString("database.password"),
		viper.GetString("database.host"),
		viper.GetInt("database.port"),
		viper.GetString("database.dbname"),
		viper.GetString("database.sslmode"),
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	return &DB{db}, nil
}

// InitSchema creates the results table if it doesn't exist
func (db *DB) InitSchema(ctx context.Context) error {
	_, err := db.NewCreateTable().
		Model((*models.Result)(nil)).
		IfNotExists().
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	return nil
}

func (db *DB) InsertResult(ctx context.Context, result *models.Result) error {
	_, err := db.NewInsert().
		Model(result).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("error inserting result: %v", err)
	}

	return nil
}

// RecentResults returns the newest results, most recent first.
func (db *DB) RecentResults(ctx context.Context, limit int) ([]models.Result, error) {
	var results []models.Result
	err := db.NewSelect().
		Model(&results).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("error getting recent results: %v", err)
	}

	return results, nil
}
