package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

type Database struct {
	Pool *pgxpool.Pool
}

func Open(ctx context.Context, connectionString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return &Database{Pool: pool}, nil
}

// EnsureSchema creates the class and requirement_classes tables when they do
// not exist yet.
func (d *Database) EnsureSchema(ctx context.Context) error {
	if _, err := d.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("db: ensure schema: %w", err)
	}
	return nil
}

func (d *Database) Close() {
	d.Pool.Close()
}

func CourseCode(subjectAbbreviation, catalogNumber string) string {
	const codeTemplate = "%v %v"
	return fmt.Sprintf(codeTemplate, subjectAbbreviation, catalogNumber)
}
