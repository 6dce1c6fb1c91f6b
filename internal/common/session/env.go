// internal/common/session/env.go
package session

import (
	"context"
	"fmt"
	"strings"

	"recruit-screening/internal/common/errors"
)

// EnvStore serves a token from configuration for headless workers. It is read-only.
type EnvStore struct {
	token string
}

func NewEnvStore(token string) *EnvStore {
	return &EnvStore{token: strings.TrimSpace(token)}
}

func (e *EnvStore) Load(_ context.Context) (*Session, error) {
	if e.token == "" {
		return nil, errors.NewAuthenticationMissingError("RECRUIT_API_TOKEN is not set")
	}
	return &Session{Token: e.token}, nil
}

func (e *EnvStore) Save(_ context.Context, _ *Session) error {
	return fmt.Errorf("env session store is read-only")
}

func (e *EnvStore) Clear(_ context.Context) error {
	return nil
}
