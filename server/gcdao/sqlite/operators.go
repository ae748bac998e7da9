package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/gcodec/server/gcdao"
	"github.com/google/uuid"
)

type OperatorsDB struct {
	db *sql.DB
}

func (repo *OperatorsDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS operators (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created INTEGER NOT NULL,
		last_login INTEGER NOT NULL,
		last_logout INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *OperatorsDB) Close() error {
	return nil
}

func (repo *OperatorsDB) Create(ctx context.Context, op gcdao.Operator) (gcdao.Operator, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return gcdao.Operator{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO operators (id, username, password, created, last_login, last_logout) VALUES (?, ?, ?, ?, ?, ?)`,
		newUUID.String(), op.Username, op.Password, now.Unix(), now.Unix(), now.Unix(),
	)
	if err != nil {
		return gcdao.Operator{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *OperatorsDB) GetByID(ctx context.Context, id uuid.UUID) (gcdao.Operator, error) {
	return repo.scanOne(ctx, `SELECT id, username, password, created, last_login, last_logout FROM operators WHERE id = ?;`, id.String())
}

func (repo *OperatorsDB) GetByUsername(ctx context.Context, username string) (gcdao.Operator, error) {
	return repo.scanOne(ctx, `SELECT id, username, password, created, last_login, last_logout FROM operators WHERE username = ?;`, username)
}

func (repo *OperatorsDB) scanOne(ctx context.Context, query string, arg string) (gcdao.Operator, error) {
	var op gcdao.Operator
	var idStr string
	var created, lastLogin, lastLogout int64

	row := repo.db.QueryRowContext(ctx, query, arg)
	err := row.Scan(&idStr, &op.Username, &op.Password, &created, &lastLogin, &lastLogout)
	if err != nil {
		return gcdao.Operator{}, wrapDBError(err)
	}

	op.ID, err = uuid.Parse(idStr)
	if err != nil {
		return gcdao.Operator{}, fmt.Errorf("stored operator ID %q is invalid: %w", idStr, err)
	}
	op.Created = time.Unix(created, 0)
	op.LastLoginTime = time.Unix(lastLogin, 0)
	op.LastLogoutTime = time.Unix(lastLogout, 0)

	return op, nil
}

func (repo *OperatorsDB) Update(ctx context.Context, id uuid.UUID, op gcdao.Operator) (gcdao.Operator, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE operators SET username=?, password=?, last_login=?, last_logout=? WHERE id=?;`,
		op.Username, op.Password, op.LastLoginTime.Unix(), op.LastLogoutTime.Unix(), id.String(),
	)
	if err != nil {
		return gcdao.Operator{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return gcdao.Operator{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return gcdao.Operator{}, gcdao.ErrNotFound
	}

	return repo.GetByID(ctx, id)
}
