// Package inmem is an in-memory dao.Store for tests and local dev,
// grounded on server/dao/inmem/inmem.go's repository-holder shape.
package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/dekarrin/glint/internal/svc/dao"
	"github.com/google/uuid"
)

func NewDatastore() dao.Store {
	return &store{
		scripts: newScriptsRepository(),
		runs:    newRunsRepository(),
	}
}

type store struct {
	scripts *scriptsRepository
	runs    *runsRepository
}

func (s *store) Scripts() dao.ScriptRepository { return s.scripts }
func (s *store) Runs() dao.RunRepository       { return s.runs }
func (s *store) Close() error                  { return nil }

func newScriptsRepository() *scriptsRepository {
	return &scriptsRepository{byID: make(map[uuid.UUID]dao.Script)}
}

type scriptsRepository struct {
	byID map[uuid.UUID]dao.Script
}

func (r *scriptsRepository) Create(ctx context.Context, s dao.Script) (dao.Script, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Script{}, err
	}

	now := time.Now()
	s.ID = id
	s.Created = now
	s.Modified = now

	r.byID[id] = s
	return s, nil
}

func (r *scriptsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Script, error) {
	s, ok := r.byID[id]
	if !ok {
		return dao.Script{}, dao.ErrNotFound
	}
	return s, nil
}

func (r *scriptsRepository) Close() error { return nil }

func newRunsRepository() *runsRepository {
	return &runsRepository{byScript: make(map[uuid.UUID][]dao.Run)}
}

type runsRepository struct {
	byScript map[uuid.UUID][]dao.Run
}

func (r *runsRepository) Create(ctx context.Context, run dao.Run) (dao.Run, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.Run{}, err
	}

	run.ID = id
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	r.byScript[run.ScriptID] = append(r.byScript[run.ScriptID], run)
	return run, nil
}

func (r *runsRepository) GetAllByScript(ctx context.Context, scriptID uuid.UUID) ([]dao.Run, error) {
	runs := r.byScript[scriptID]
	out := make([]dao.Run, len(runs))
	copy(out, runs)

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})

	return out, nil
}

func (r *runsRepository) Close() error { return nil }
