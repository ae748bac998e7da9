// Package inmem provides an in-memory gcdao.Store, useful for tests and for
// running gcodesrv without a persistence dependency.
package inmem

import (
	"github.com/dekarrin/gcodec/server/gcdao"
	"github.com/google/uuid"
)

func NewDatastore() gcdao.Store {
	return &store{
		seshes: &sessionsRepo{
			data: make(map[uuid.UUID]gcdao.Session),
		},
		ops: &operatorsRepo{
			data:   make(map[uuid.UUID]gcdao.Operator),
			byName: make(map[string]uuid.UUID),
		},
	}
}

type store struct {
	seshes *sessionsRepo
	ops    *operatorsRepo
}

func (s *store) Sessions() gcdao.SessionRepository {
	return s.seshes
}

func (s *store) Operators() gcdao.OperatorRepository {
	return s.ops
}

func (s *store) Close() error {
	return nil
}
