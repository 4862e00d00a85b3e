package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS skeletons (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	format     TEXT NOT NULL,
	version    TEXT NOT NULL DEFAULT '',
	hash       TEXT NOT NULL DEFAULT '',
	size       INTEGER NOT NULL,
	data       BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS skeletons_created_at_idx ON skeletons (created_at DESC);
`

const summaryColumns = `id, name, format, version, hash, size, created_at`

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to databaseURL and creates the skeletons table if
// it does not exist.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	p := NewPostgres(pool)
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) Create(ctx context.Context, s *Skeleton) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO skeletons (id, name, format, version, hash, size, data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		s.ID, s.Name, string(s.Format), s.Version, s.Hash, s.Size, s.Data,
	).Scan(&s.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("skeleton %q: %w", s.ID, ErrDuplicate)
		}
		return fmt.Errorf("insert skeleton: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*Skeleton, error) {
	var s Skeleton
	err := p.pool.QueryRow(ctx,
		`SELECT `+summaryColumns+`, data FROM skeletons WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Format, &s.Version, &s.Hash, &s.Size, &s.CreatedAt, &s.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get skeleton: %w", err)
	}
	return &s, nil
}

func (p *Postgres) List(ctx context.Context) ([]Summary, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+summaryColumns+` FROM skeletons ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list skeletons: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[Summary])
	if err != nil {
		return nil, fmt.Errorf("scan skeletons: %w", err)
	}
	return list, nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM skeletons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete skeleton: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
