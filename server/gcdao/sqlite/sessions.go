package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/gcodec/server/gcdao"
	"github.com/google/uuid"
)

type SessionsDB struct {
	db *sql.DB
}

func (repo *SessionsDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		snapshot TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *SessionsDB) Close() error {
	return nil
}

func (repo *SessionsDB) Create(ctx context.Context, s gcdao.Session) (gcdao.Session, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return gcdao.Session{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	encSnap := base64.StdEncoding.EncodeToString(s.Snapshot)

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO sessions (id, snapshot, created, modified) VALUES (?, ?, ?, ?)`,
		newUUID.String(), encSnap, now.Unix(), now.Unix(),
	)
	if err != nil {
		return gcdao.Session{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *SessionsDB) GetByID(ctx context.Context, id uuid.UUID) (gcdao.Session, error) {
	s := gcdao.Session{ID: id}

	var encSnap string
	var created, modified int64

	row := repo.db.QueryRowContext(ctx, `SELECT snapshot, created, modified FROM sessions WHERE id = ?;`, id.String())
	if err := row.Scan(&encSnap, &created, &modified); err != nil {
		return gcdao.Session{}, wrapDBError(err)
	}

	snap, err := base64.StdEncoding.DecodeString(encSnap)
	if err != nil {
		return gcdao.Session{}, fmt.Errorf("stored snapshot for %s is invalid: %w", id, err)
	}

	s.Snapshot = snap
	s.Created = time.Unix(created, 0)
	s.Modified = time.Unix(modified, 0)

	return s, nil
}

func (repo *SessionsDB) Update(ctx context.Context, id uuid.UUID, s gcdao.Session) (gcdao.Session, error) {
	encSnap := base64.StdEncoding.EncodeToString(s.Snapshot)
	now := time.Now()

	res, err := repo.db.ExecContext(ctx,
		`UPDATE sessions SET snapshot=?, modified=? WHERE id=?;`,
		encSnap, now.Unix(), id.String(),
	)
	if err != nil {
		return gcdao.Session{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return gcdao.Session{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return gcdao.Session{}, gcdao.ErrNotFound
	}

	return repo.GetByID(ctx, id)
}
