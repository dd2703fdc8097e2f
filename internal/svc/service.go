package svc

import (
	"bytes"
	"context"

	"github.com/dekarrin/glint"
	"github.com/dekarrin/glint/internal/svc/dao"
	"github.com/google/uuid"
)

// Service is the backend the HTTP handlers call into, grounded on
// server/tunas.Service's "API calls backend, backend calls db" split.
type Service struct {
	db dao.Store
}

// CreateScript parses source (rejecting on a syntax error) and persists it
// under name.
func (svc *Service) CreateScript(ctx context.Context, name, source string) (dao.Script, error) {
	if _, err := glint.ParseToAST(source); err != nil {
		return dao.Script{}, err
	}

	return svc.db.Scripts().Create(ctx, dao.Script{Name: name, Source: source})
}

// GetScript fetches a previously-stored script.
func (svc *Service) GetScript(ctx context.Context, id uuid.UUID) (dao.Script, error) {
	return svc.db.Scripts().GetByID(ctx, id)
}

// RunScript re-parses and executes the stored script, persisting a Run
// record of the outcome whether or not execution succeeded.
func (svc *Service) RunScript(ctx context.Context, id uuid.UUID) (dao.Run, error) {
	script, err := svc.db.Scripts().GetByID(ctx, id)
	if err != nil {
		return dao.Run{}, err
	}

	entry, err := glint.ParseToAST(script.Source)
	if err != nil {
		return svc.db.Runs().Create(ctx, dao.Run{ScriptID: id, Error: err.Error()})
	}

	var out bytes.Buffer
	result, err := glint.Execute(&out, entry)
	run := dao.Run{ScriptID: id, Output: out.String()}
	if err != nil {
		run.Error = err.Error()
	} else {
		run.Result = glint.Stringify(result)
	}

	return svc.db.Runs().Create(ctx, run)
}

// ListRuns returns every recorded Run for the given script.
func (svc *Service) ListRuns(ctx context.Context, id uuid.UUID) ([]dao.Run, error) {
	return svc.db.Runs().GetAllByScript(ctx, id)
}
