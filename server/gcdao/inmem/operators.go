package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/dekarrin/gcodec/server/gcdao"
	"github.com/google/uuid"
)

type operatorsRepo struct {
	data   map[uuid.UUID]gcdao.Operator
	byName map[string]uuid.UUID
}

func (r *operatorsRepo) Close() error {
	return nil
}

func (r *operatorsRepo) Create(ctx context.Context, op gcdao.Operator) (gcdao.Operator, error) {
	if _, exists := r.byName[op.Username]; exists {
		return gcdao.Operator{}, gcdao.ErrConstraintViolation
	}

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return gcdao.Operator{}, fmt.Errorf("could not generate ID: %w", err)
	}

	op.ID = newUUID
	op.Created = time.Now()

	r.data[op.ID] = op
	r.byName[op.Username] = op.ID
	return op, nil
}

func (r *operatorsRepo) GetByID(ctx context.Context, id uuid.UUID) (gcdao.Operator, error) {
	op, ok := r.data[id]
	if !ok {
		return gcdao.Operator{}, gcdao.ErrNotFound
	}
	return op, nil
}

func (r *operatorsRepo) GetByUsername(ctx context.Context, username string) (gcdao.Operator, error) {
	id, ok := r.byName[username]
	if !ok {
		return gcdao.Operator{}, gcdao.ErrNotFound
	}
	return r.data[id], nil
}

func (r *operatorsRepo) Update(ctx context.Context, id uuid.UUID, op gcdao.Operator) (gcdao.Operator, error) {
	existing, ok := r.data[id]
	if !ok {
		return gcdao.Operator{}, gcdao.ErrNotFound
	}

	if op.Username != existing.Username {
		if _, exists := r.byName[op.Username]; exists {
			return gcdao.Operator{}, gcdao.ErrConstraintViolation
		}
		delete(r.byName, existing.Username)
		r.byName[op.Username] = id
	}

	op.ID = id
	op.Created = existing.Created

	r.data[id] = op
	return op, nil
}
