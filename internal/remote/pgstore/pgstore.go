// Package pgstore espelha as coleções numa tabela Postgres com payload JSONB.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radieske/betting-companion/internal/remote"
)

const schema = `
CREATE TABLE IF NOT EXISTS mirror_documents (
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	payload    JSONB       NOT NULL,
	version    BIGINT      NOT NULL DEFAULT 1,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
)`

// Postgres implementa remote.Store sobre *sql.DB (lib/pq).
// O payload vai como texto: lib/pq enviaria []byte como bytea.
type Postgres struct{ db *sql.DB }

func New(db *sql.DB) *Postgres { return &Postgres{db: db} }

// EnsureSchema cria a tabela se ainda não existir
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create mirror_documents: %w", err)
	}
	return nil
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Get(ctx context.Context, collection, id string) (remote.Document, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT payload FROM mirror_documents WHERE collection=$1 AND id=$2`, collection, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, remote.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return remote.Document(payload), nil
}

// Create é idempotente: uma retentativa depois de um commit perdido vira update
func (p *Postgres) Create(ctx context.Context, collection, id string, doc remote.Document) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO mirror_documents (collection, id, payload) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id)
		DO UPDATE SET payload = EXCLUDED.payload, version = mirror_documents.version + 1, updated_at = NOW()`,
		collection, id, string(doc))
	return err
}

// Update trava a linha antes de gravar para não intercalar com outro worker
func (p *Postgres) Update(ctx context.Context, collection, id string, doc remote.Document) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var version int64
	err = tx.QueryRowContext(ctx,
		`SELECT version FROM mirror_documents WHERE collection=$1 AND id=$2 FOR UPDATE`, collection, id).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return remote.ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE mirror_documents SET payload=$1, version=$2, updated_at=NOW()
		WHERE collection=$3 AND id=$4`, string(doc), version+1, collection, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM mirror_documents WHERE collection=$1 AND id=$2`, collection, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return remote.ErrNotFound
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
