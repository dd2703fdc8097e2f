// Package sqlite is a modernc.org/sqlite-backed dao.Store, grounded on
// server/dao/sqlite/sqlite.go's connection/table-init shape and its
// convertToDB_*/convertFromDB_* marshaling helpers.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/glint/internal/svc/dao"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

type store struct {
	db      *sql.DB
	scripts *scriptsDB
	runs    *runsDB
}

// NewDatastore opens (creating if necessary) a sqlite store rooted at
// storageDir.
func NewDatastore(storageDir string) (dao.Store, error) {
	fileName := filepath.Join(storageDir, "glint.db")

	db, err := sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st := &store{db: db}
	st.scripts = &scriptsDB{db: db}
	st.runs = &runsDB{db: db}

	if err := st.scripts.init(); err != nil {
		return nil, err
	}
	if err := st.runs.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Scripts() dao.ScriptRepository { return s.scripts }
func (s *store) Runs() dao.RunRepository       { return s.runs }
func (s *store) Close() error                  { return s.db.Close() }

type scriptsDB struct {
	db *sql.DB
}

func (r *scriptsDB) init() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS scripts (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (r *scriptsDB) Create(ctx context.Context, s dao.Script) (dao.Script, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Script{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO scripts (id, name, source, created, modified) VALUES (?, ?, ?, ?, ?)`,
		convertToDB_UUID(id), s.Name, s.Source, convertToDB_Time(now), convertToDB_Time(now),
	)
	if err != nil {
		return dao.Script{}, wrapDBError(err)
	}

	return r.GetByID(ctx, id)
}

func (r *scriptsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Script, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, source, created, modified FROM scripts WHERE id = ?`, convertToDB_UUID(id))

	var s dao.Script
	var idStr string
	var created, modified int64

	err := row.Scan(&idStr, &s.Name, &s.Source, &created, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return dao.Script{}, dao.ErrNotFound
	}
	if err != nil {
		return dao.Script{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(idStr, &s.ID); err != nil {
		return dao.Script{}, err
	}
	convertFromDB_Time(created, &s.Created)
	convertFromDB_Time(modified, &s.Modified)

	return s, nil
}

func (r *scriptsDB) Close() error { return nil }

type runsDB struct {
	db *sql.DB
}

func (r *runsDB) init() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT NOT NULL PRIMARY KEY,
		script_id TEXT NOT NULL,
		output TEXT NOT NULL,
		result TEXT NOT NULL,
		error TEXT NOT NULL,
		started_at INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (r *runsDB) Create(ctx context.Context, run dao.Run) (dao.Run, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Run{}, fmt.Errorf("could not generate ID: %w", err)
	}

	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.ID = id

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO runs (id, script_id, output, result, error, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		convertToDB_UUID(run.ID), convertToDB_UUID(run.ScriptID), run.Output, run.Result, run.Error,
		convertToDB_Time(run.StartedAt),
	)
	if err != nil {
		return dao.Run{}, wrapDBError(err)
	}

	return run, nil
}

func (r *runsDB) GetAllByScript(ctx context.Context, scriptID uuid.UUID) ([]dao.Run, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, script_id, output, result, error, started_at FROM runs WHERE script_id = ? ORDER BY started_at ASC`,
		convertToDB_UUID(scriptID))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var out []dao.Run
	for rows.Next() {
		var run dao.Run
		var idStr, scriptIDStr string
		var startedAt int64

		if err := rows.Scan(&idStr, &scriptIDStr, &run.Output, &run.Result, &run.Error, &startedAt); err != nil {
			return nil, wrapDBError(err)
		}
		if err := convertFromDB_UUID(idStr, &run.ID); err != nil {
			return nil, err
		}
		if err := convertFromDB_UUID(scriptIDStr, &run.ScriptID); err != nil {
			return nil, err
		}
		convertFromDB_Time(startedAt, &run.StartedAt)

		out = append(out, run)
	}

	return out, nil
}

func (r *runsDB) Close() error { return nil }

func convertToDB_UUID(u uuid.UUID) string { return u.String() }
func convertToDB_Time(t time.Time) int64  { return t.Unix() }

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrConstraintViolation, err.Error())
	}
	*target = u
	return nil
}

func convertFromDB_Time(i int64, target *time.Time) {
	*target = time.Unix(i, 0)
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
	}
	return err
}
