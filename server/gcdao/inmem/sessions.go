package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/dekarrin/gcodec/server/gcdao"
	"github.com/google/uuid"
)

type sessionsRepo struct {
	data map[uuid.UUID]gcdao.Session
}

func (r *sessionsRepo) Close() error {
	return nil
}

func (r *sessionsRepo) Create(ctx context.Context, s gcdao.Session) (gcdao.Session, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return gcdao.Session{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	s.ID = newUUID
	s.Created = now
	s.Modified = now

	r.data[s.ID] = s
	return s, nil
}

func (r *sessionsRepo) GetByID(ctx context.Context, id uuid.UUID) (gcdao.Session, error) {
	s, ok := r.data[id]
	if !ok {
		return gcdao.Session{}, gcdao.ErrNotFound
	}
	return s, nil
}

func (r *sessionsRepo) Update(ctx context.Context, id uuid.UUID, s gcdao.Session) (gcdao.Session, error) {
	existing, ok := r.data[id]
	if !ok {
		return gcdao.Session{}, gcdao.ErrNotFound
	}

	s.ID = id
	s.Created = existing.Created
	s.Modified = time.Now()

	r.data[id] = s
	return s, nil
}
