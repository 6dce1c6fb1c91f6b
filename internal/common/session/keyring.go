// internal/common/session/keyring.go
package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"recruit-screening/internal/common/errors"

	"github.com/zalando/go-keyring"
)

const (
	// DefaultKeyringService groups the screening secrets in the OS keychain.
	DefaultKeyringService = "recruit-screening"

	tokenAccount        = "token"
	organizationAccount = "organization"
)

// KeyringStore keeps the token in the OS keychain.
type KeyringStore struct {
	service string
}

func NewKeyringStore(service string) *KeyringStore {
	if strings.TrimSpace(service) == "" {
		service = DefaultKeyringService
	}
	return &KeyringStore{service: service}
}

func (k *KeyringStore) Load(_ context.Context) (*Session, error) {
	token, err := keyring.Get(k.service, tokenAccount)
	if err != nil || strings.TrimSpace(token) == "" {
		if err != nil && !stderrors.Is(err, keyring.ErrNotFound) {
			return nil, errors.NewAuthenticationMissingError(fmt.Sprintf("keyring: %v", err))
		}
		return nil, errors.NewAuthenticationMissingError("no token in keyring")
	}

	s := &Session{Token: token}

	// organization is optional
	if raw, err := keyring.Get(k.service, organizationAccount); err == nil && raw != "" {
		var org Organization
		if json.Unmarshal([]byte(raw), &org) == nil {
			s.Organization = &org
		}
	}
	return s, nil
}

func (k *KeyringStore) Save(_ context.Context, s *Session) error {
	token, err := s.Bearer()
	if err != nil {
		return err
	}
	if err := keyring.Set(k.service, tokenAccount, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	if s.Organization == nil {
		return deleteIgnoringMissing(k.service, organizationAccount)
	}
	data, err := json.Marshal(s.Organization)
	if err != nil {
		return fmt.Errorf("encode organization: %w", err)
	}
	if err := keyring.Set(k.service, organizationAccount, string(data)); err != nil {
		return fmt.Errorf("store organization: %w", err)
	}
	return nil
}

func (k *KeyringStore) Clear(_ context.Context) error {
	if err := deleteIgnoringMissing(k.service, tokenAccount); err != nil {
		return err
	}
	return deleteIgnoringMissing(k.service, organizationAccount)
}

func deleteIgnoringMissing(service, account string) error {
	if err := keyring.Delete(service, account); err != nil && !stderrors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", account, err)
	}
	return nil
}
