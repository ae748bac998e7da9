// Package gcauth authenticates gcodesrv operators and issues the bearer
// tokens gcmiddle checks on protected routes.
package gcauth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dekarrin/gcodec/server/gcdao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "gcodesrv"

var (
	ErrBadCredentials = errors.New("username or password is incorrect")
	ErrInvalidLogin   = errors.New("login token is invalid or expired")
)

// Service performs operator login and token validation against an
// OperatorRepository. There is no registration endpoint; the single operator
// credential set is seeded by Seed at startup.
type Service struct {
	Ops    gcdao.OperatorRepository
	Secret []byte
}

// Seed ensures an operator with the given username/password exists, creating
// it if not already present. Calling it against an already-seeded username is
// a no-op.
func Seed(ctx context.Context, ops gcdao.OperatorRepository, username, password string) error {
	_, err := ops.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gcdao.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = ops.Create(ctx, gcdao.Operator{
		Username: username,
		Password: base64.StdEncoding.EncodeToString(hash),
	})
	return err
}

// Login verifies username and password against the stored operator and, on
// success, returns a signed bearer token and updates LastLoginTime.
func (s Service) Login(ctx context.Context, username, password string) (string, error) {
	op, err := s.Ops.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gcdao.ErrNotFound) {
			return "", ErrBadCredentials
		}
		return "", err
	}

	hash, err := base64.StdEncoding.DecodeString(op.Password)
	if err != nil {
		return "", fmt.Errorf("stored password hash is invalid: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrBadCredentials
	}

	op.LastLoginTime = time.Now()
	if _, err := s.Ops.Update(ctx, op.ID, op); err != nil {
		return "", fmt.Errorf("update login time: %w", err)
	}

	return s.generateToken(op)
}

// Logout invalidates every token issued before now for the operator by
// advancing LastLogoutTime, which is mixed into the signing key.
func (s Service) Logout(ctx context.Context, id uuid.UUID) error {
	op, err := s.Ops.GetByID(ctx, id)
	if err != nil {
		return err
	}
	op.LastLogoutTime = time.Now()
	_, err = s.Ops.Update(ctx, id, op)
	return err
}

// Validate parses and verifies tok, returning the operator it identifies.
func (s Service) Validate(ctx context.Context, tok string) (gcdao.Operator, error) {
	var op gcdao.Operator

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		op, err = s.Ops.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gcdao.ErrNotFound) {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return s.signingKey(op), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return gcdao.Operator{}, fmt.Errorf("%w: %s", ErrInvalidLogin, err.Error())
	}

	return op, nil
}

func (s Service) generateToken(op gcdao.Operator) (string, error) {
	claims := &jwt.MapClaims{
		"iss": issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
		"sub": op.ID.String(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	return tok.SignedString(s.signingKey(op))
}

// signingKey binds the signature to both the operator's current password
// hash and their LastLogoutTime, so changing the password or logging out
// invalidates every token issued before that point.
func (s Service) signingKey(op gcdao.Operator) []byte {
	var key []byte
	key = append(key, s.Secret...)
	key = append(key, []byte(op.Password)...)
	key = append(key, []byte(fmt.Sprintf("%d", op.LastLogoutTime.Unix()))...)
	return key
}
