// Package dao provides data access objects for use in the glint script
// service, grounded on the teacher's server/dao package shape (a Store
// interface holding per-entity repositories, uuid.UUID primary keys).
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
)

// Store holds all the repositories the service needs.
type Store interface {
	Scripts() ScriptRepository
	Runs() RunRepository
	Close() error
}

// Script is a persisted glint program.
type Script struct {
	ID       uuid.UUID
	Name     string
	Source   string
	Created  time.Time
	Modified time.Time
}

// Run is one execution of a Script.
type Run struct {
	ID        uuid.UUID
	ScriptID  uuid.UUID
	Output    string // captured print output
	Result    string // stringified final Value
	Error     string // non-empty if execution failed
	StartedAt time.Time
}

type ScriptRepository interface {
	Create(ctx context.Context, s Script) (Script, error)
	GetByID(ctx context.Context, id uuid.UUID) (Script, error)
	Close() error
}

type RunRepository interface {
	Create(ctx context.Context, r Run) (Run, error)
	GetAllByScript(ctx context.Context, scriptID uuid.UUID) ([]Run, error)
	Close() error
}
