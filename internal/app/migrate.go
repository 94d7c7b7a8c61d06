package app

import (
	"database/sql"
	"fmt"

	"github.com/andreyxaxa/Photo-Importer/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func Migrate(url string) error {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return fmt.Errorf("app - Migrate - sql.Open: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)

	if err = goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("app - Migrate - goose.SetDialect: %w", err)
	}

	if err = goose.Up(db, "."); err != nil {
		return fmt.Errorf("app - Migrate - goose.Up: %w", err)
	}

	return nil
}
