// Package sqlite provides a gcdao.Store backed by a single modernc.org/sqlite
// database file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/gcodec/server/gcdao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB

	seshes *SessionsDB
	ops    *OperatorsDB
}

// NewDatastore opens (creating if necessary) the sqlite database file
// data.db inside storageDir and returns a Store backed by it.
func NewDatastore(storageDir string) (gcdao.Store, error) {
	st := &store{dbFilename: "data.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.seshes = &SessionsDB{db: st.db}
	if err := st.seshes.init(); err != nil {
		return nil, err
	}

	st.ops = &OperatorsDB{db: st.db}
	if err := st.ops.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Sessions() gcdao.SessionRepository {
	return s.seshes
}

func (s *store) Operators() gcdao.OperatorRepository {
	return s.ops
}

func (s *store) Close() error {
	return s.db.Close()
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return gcdao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return gcdao.ErrNotFound
	}
	return err
}
