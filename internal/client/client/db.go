package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/akash-siv/pen-and-paper/internal/client/migrations"
	"github.com/akash-siv/pen-and-paper/internal/client/repositories/documents"
	"github.com/akash-siv/pen-and-paper/internal/client/repositories/metadata"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories groups the local stores opened on one database.
type Repositories struct {
	Documents documents.Repository
	Metadata  metadata.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Documents: documents.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
	}
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// InitDatabase opens (creating if needed) the SQLite file at path and
// migrates it. A busy timeout is added unless path already has a query.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
