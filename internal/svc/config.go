// Package svc implements the glint script service: a small HTTP API that
// stores glint source, runs it, and records the result. It is the ambient
// home for the domain-stack dependencies (chi, jwt, bcrypt, uuid, sqlite,
// toml) that a CLI-only language core has no other use for.
package svc

import (
	"fmt"
	"strings"
	"time"

	"github.com/dekarrin/glint/internal/svc/dao"
	"github.com/dekarrin/glint/internal/svc/dao/inmem"
	"github.com/dekarrin/glint/internal/svc/dao/sqlite"
)

// DBType is the type of a Store connection, in the teacher's
// server/config.go style.
type DBType string

func (dbt DBType) String() string { return string(dbt) }

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// ParseDBType parses a string found in a connection string into a DBType.
func ParseDBType(s string) (DBType, error) {
	switch strings.ToLower(s) {
	case DatabaseSQLite.String():
		return DatabaseSQLite, nil
	case DatabaseInMemory.String():
		return DatabaseInMemory, nil
	case DatabaseNone.String():
		return DatabaseNone, nil
	default:
		return DatabaseNone, fmt.Errorf("unknown database type: %q", s)
	}
}

// Database is the configuration for connecting to a Store.
type Database struct {
	Type DBType

	// DataDir is the directory sqlite data files are kept in. Required when
	// Type is DatabaseSQLite.
	DataDir string
}

// Connect opens the Store described by db.
func (db Database) Connect() (dao.Store, error) {
	switch db.Type {
	case DatabaseInMemory:
		return inmem.NewDatastore(), nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return nil, fmt.Errorf("DataDir not set to path")
		}
		return sqlite.NewDatastore(db.DataDir)
	case DatabaseNone, "":
		return nil, fmt.Errorf("cannot connect to 'none' DB")
	default:
		return nil, fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// Operator is the single service-account credential this service supports.
// There is no user/registration subsystem: glint scripts have no players,
// so one operator login is all POST /login needs to issue against.
type Operator struct {
	Username     string
	PasswordHash string // bcrypt hash
}

// Config is the full configuration for a glintd server.
type Config struct {
	// BindAddress is the host:port the HTTP server listens on.
	BindAddress string

	// TokenSecret signs issued bearer tokens.
	TokenSecret []byte

	// DB selects and configures the persistence layer.
	DB Database

	// Operator is the credential accepted by POST /login.
	Operator Operator

	// UnauthDelay is the additional wait before responding to an
	// unauthorized or unauthenticated request, an anti-flood measure for
	// naive non-parallel clients. Zero disables the delay.
	UnauthDelayMillis int
}

// UnauthDelay returns UnauthDelayMillis as a time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a copy of cfg with unset fields set to defaults.
func (cfg Config) FillDefaults() Config {
	out := cfg
	if out.BindAddress == "" {
		out.BindAddress = ":8080"
	}
	if out.TokenSecret == nil {
		out.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if out.DB.Type == "" {
		out.DB = Database{Type: DatabaseInMemory}
	}
	if out.UnauthDelayMillis == 0 {
		out.UnauthDelayMillis = 1000
	}
	return out
}

// Validate returns an error if cfg has invalid field values. Empty
// Operator.Username means the /login route can never succeed.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("TokenSecret must be at least %d bytes", MinSecretSize)
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("TokenSecret must be at most %d bytes", MaxSecretSize)
	}
	if cfg.Operator.Username == "" {
		return fmt.Errorf("Operator.Username must be set")
	}
	if cfg.Operator.PasswordHash == "" {
		return fmt.Errorf("Operator.PasswordHash must be set")
	}
	return cfg.DB.Validate()
}

// Validate checks that db has the fields its Type requires.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone, "":
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// FileConfig is the on-disk TOML shape loaded by cmd/glintd. It is kept
// distinct from Config so the secret and password fields can be given in
// their raw, human-editable forms (a plaintext password gets bcrypt-hashed
// once at load time rather than stored pre-hashed).
type FileConfig struct {
	BindAddress string `toml:"bind_address"`
	TokenSecret string `toml:"token_secret"`

	Operator struct {
		Username string `toml:"username"`
		Password string `toml:"password"`
	} `toml:"operator"`

	Database struct {
		Type    string `toml:"type"`
		DataDir string `toml:"data_dir"`
	} `toml:"database"`

	UnauthDelayMillis int `toml:"unauth_delay_millis"`
}
