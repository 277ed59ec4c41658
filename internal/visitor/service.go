// Package visitor issues and validates the opaque tokens that identify a
// browser across requests. A visitor id scopes everything session-shaped:
// cart snapshots, visit state and modal history.
package visitor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid visitor token")

type Service struct {
	tokens *tokenManager
	ttl    time.Duration
}

func New() *Service {
	return &Service{
		tokens: newTokenManager(),
		ttl:    30 * 24 * time.Hour,
	}
}

// Issue mints a fresh visitor id and a bearer token for it.
func (s *Service) Issue(ctx context.Context) (token, visitorID string, err error) {
	visitorID = uuid.NewString()
	token, err = s.tokens.Issue(visitorID, s.ttl)
	if err != nil {
		return "", "", err
	}
	return token, visitorID, nil
}

// LookupByToken resolves a token back to its visitor id.
func (s *Service) LookupByToken(ctx context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.VisitorID, nil
}

// TTLSeconds reports the token lifetime for the issue response.
func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
