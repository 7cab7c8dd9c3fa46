package schemastore

import (
	"bytes"
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drewnoakes/msgpack-strict/errs"
	"github.com/drewnoakes/msgpack-strict/schema"
)

// DB is the pool interface Store needs; *pgxpool.Pool satisfies it.
type DB interface {
	Begin(context.Context) (pgx.Tx, error)
}

// Open connects to dsn and verifies the connection, mirroring the
// connect-then-ping pattern the source repository uses before returning a
// pool to callers.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errs.Wrap(errs.SerialisationFault, "", err, "parse postgres dsn")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errs.Wrap(errs.SerialisationFault, "", err, "open first postgres connection")
	}
	return pool, nil
}

// WithTx runs f inside a transaction, committing on success and rolling
// back on any error or panic.
func WithTx(ctx context.Context, db DB, f func(pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return errs.Wrap(errs.SerialisationFault, "", err, "begin transaction")
	}
	defer tx.Rollback(ctx)
	if err := f(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS schema_versions (
	id         uuid PRIMARY KEY,
	name       text NOT NULL,
	vers       bigint NOT NULL,
	hash       text NOT NULL,
	xml        text NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	UNIQUE (name, vers)
)`

// Store persists a Manifest's version history to Postgres, one row per
// (name, vers) pair; id is a random uuid identifying the row itself,
// distinct from both the content hash and the schema graph's own t1/t2/...
// identifiers (§4.1), which are scoped to a single Collection and never
// persisted.
type Store struct {
	db DB
}

// NewStore returns a Store backed by db. Callers must call EnsureSchema
// once before first use.
func NewStore(db DB) *Store { return &Store{db: db} }

// EnsureSchema creates the schema_versions table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return WithTx(ctx, s.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, createTableSQL)
		return err
	})
}

// Record persists v alongside the canonical XML form of the schema it
// describes, so a later reader can reconstruct the schema graph without
// the original Go type being available.
func (s *Store) Record(ctx context.Context, v Version, root schema.Schema) error {
	var buf bytes.Buffer
	if err := schema.EncodeXML(&buf, root); err != nil {
		return err
	}
	return WithTx(ctx, s.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO schema_versions (id, name, vers, hash, xml) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (name, vers) DO NOTHING`,
			uuid.New(), v.Name, v.Vers, v.Hash, buf.String())
		return err
	})
}

// Latest returns the highest recorded version for name, or ok=false if
// name has never been recorded.
func (s *Store) Latest(ctx context.Context, name string) (v Version, root schema.Schema, ok bool, err error) {
	row := latestRow{}
	txErr := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var xmlText string
		scanErr := tx.QueryRow(ctx,
			`SELECT vers, hash, xml FROM schema_versions WHERE name = $1 ORDER BY vers DESC LIMIT 1`,
			name).Scan(&row.vers, &row.hash, &xmlText)
		if scanErr == pgx.ErrNoRows {
			return nil
		}
		if scanErr != nil {
			return scanErr
		}
		row.found = true
		row.xml = xmlText
		return nil
	})
	if txErr != nil {
		return Version{}, nil, false, errs.Wrap(errs.SerialisationFault, name, txErr, "query latest schema version")
	}
	if !row.found {
		return Version{}, nil, false, nil
	}
	decoded, decErr := schema.DecodeXML(bytes.NewReader([]byte(row.xml)))
	if decErr != nil {
		return Version{}, nil, false, decErr
	}
	return Version{Name: name, Vers: row.vers, Hash: row.hash}, decoded, true, nil
}

type latestRow struct {
	found bool
	vers  int64
	hash  string
	xml   string
}

// History returns every recorded version for name, oldest first.
func (s *Store) History(ctx context.Context, name string) ([]Version, error) {
	var out []Version
	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT vers, hash, created_at FROM schema_versions WHERE name = $1 ORDER BY vers ASC`, name)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var v Version
			v.Name = name
			if err := rows.Scan(&v.Vers, &v.Hash, &v.Date); err != nil {
				return err
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errs.Wrap(errs.SerialisationFault, name, err, "query schema version history")
	}
	return out, nil
}
