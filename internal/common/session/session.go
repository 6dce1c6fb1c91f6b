// internal/common/session/session.go
package session

import (
	"context"
	"fmt"
	"strings"

	"recruit-screening/internal/common/config"
	"recruit-screening/internal/common/errors"
)

// Organization is the cached organization of the logged-in recruiter.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Session is passed explicitly to everything that talks to the REST API.
type Session struct {
	Token        string        `json:"token"`
	Organization *Organization `json:"organization,omitempty"`
}

// Bearer returns the token or AUTHENTICATION_MISSING.
func (s *Session) Bearer() (string, error) {
	if s == nil || strings.TrimSpace(s.Token) == "" {
		return "", errors.NewAuthenticationMissingError("no bearer token in session")
	}
	return strings.TrimSpace(s.Token), nil
}

// Store initializes a session at login and tears it down at logout.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// NewStore builds the store selected by configuration.
func NewStore(cfg config.SessionConfig) (Store, error) {
	switch cfg.Store {
	case config.SessionStoreKeyring, "":
		return NewKeyringStore(cfg.KeyringService), nil
	case config.SessionStoreFile:
		return NewFileStore(cfg.FilePath), nil
	case config.SessionStoreEnv:
		return NewEnvStore(cfg.Token), nil
	}
	return nil, fmt.Errorf("unknown session store %q", cfg.Store)
}
