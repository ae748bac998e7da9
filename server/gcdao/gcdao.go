// Package gcdao provides data access objects for use in the gcodesrv server.
package gcdao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories a gcodesrv instance needs.
type Store interface {
	Sessions() SessionRepository
	Operators() OperatorRepository
	Close() error
}

// SessionRepository persists editing sessions. Snapshot is the
// rezi-serialized form of an *internal/session.Session (its line buffer and
// filename); the lowering result itself is never persisted; it is
// recomputed on load.
type SessionRepository interface {
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	Update(ctx context.Context, id uuid.UUID, s Session) (Session, error)
	Close() error
}

type Session struct {
	ID       uuid.UUID
	Snapshot []byte
	Created  time.Time
	Modified time.Time
}

// OperatorRepository stores the fixed set of operator credentials gcodesrv
// authenticates against. There is no public registration endpoint; operators
// are seeded at startup from server configuration.
type OperatorRepository interface {
	Create(ctx context.Context, op Operator) (Operator, error)
	GetByID(ctx context.Context, id uuid.UUID) (Operator, error)
	GetByUsername(ctx context.Context, username string) (Operator, error)
	Update(ctx context.Context, id uuid.UUID, op Operator) (Operator, error)
	Close() error
}

type Operator struct {
	ID             uuid.UUID
	Username       string
	Password       string // bcrypt hash, base64-encoded
	Created        time.Time
	LastLoginTime  time.Time
	LastLogoutTime time.Time
}

// DBType names the persistence backend a Store is connected to.
type DBType string

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

// ParseDBType parses a string found in a connection string into a DBType.
func ParseDBType(s string) (DBType, error) {
	switch DBType(s) {
	case DatabaseSQLite, DatabaseInMemory:
		return DBType(s), nil
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}
