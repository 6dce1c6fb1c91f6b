package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"recruit-screening/internal/common/config"
	"recruit-screening/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSession_Bearer(t *testing.T) {
	var nilSession *Session
	_, err := nilSession.Bearer()
	assert.ErrorIs(t, err, errors.ErrAuthenticationMissing)

	_, err = (&Session{Token: "  "}).Bearer()
	assert.ErrorIs(t, err, errors.ErrAuthenticationMissing)

	token, err := (&Session{Token: " abc "}).Bearer()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestKeyringStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	store := NewKeyringStore("")

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, errors.ErrAuthenticationMissing)

	require.NoError(t, store.Save(ctx, &Session{
		Token:        "tok-1",
		Organization: &Organization{ID: "org-9", Name: "Acme"},
	}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", loaded.Token)
	require.NotNil(t, loaded.Organization)
	assert.Equal(t, "org-9", loaded.Organization.ID)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, errors.ErrAuthenticationMissing)

	// clearing twice is fine
	require.NoError(t, store.Clear(ctx))
}

func TestKeyringStore_SaveRequiresToken(t *testing.T) {
	keyring.MockInit()
	err := NewKeyringStore("svc").Save(context.Background(), &Session{})
	assert.ErrorIs(t, err, errors.ErrAuthenticationMissing)
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, errors.ErrAuthenticationMissing)

	require.NoError(t, store.Save(ctx, &Session{Token: "tok-2"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := NewFileStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", loaded.Token)
	assert.Nil(t, loaded.Organization)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, errors.ErrAuthenticationMissing)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	assert.ErrorIs(t, err, errors.ErrAuthenticationMissing)
}

func TestEnvStore(t *testing.T) {
	ctx := context.Background()

	_, err := NewEnvStore("").Load(ctx)
	assert.ErrorIs(t, err, errors.ErrAuthenticationMissing)

	s, err := NewEnvStore("tok-3").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-3", s.Token)

	assert.Error(t, NewEnvStore("tok-3").Save(ctx, s))
	assert.NoError(t, NewEnvStore("tok-3").Clear(ctx))
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(config.SessionConfig{Store: config.SessionStoreEnv, Token: "x"})
	require.NoError(t, err)
	assert.IsType(t, &EnvStore{}, store)

	store, err = NewStore(config.SessionConfig{Store: config.SessionStoreFile, FilePath: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	store, err = NewStore(config.SessionConfig{})
	require.NoError(t, err)
	assert.IsType(t, &KeyringStore{}, store)

	_, err = NewStore(config.SessionConfig{Store: "vault"})
	assert.Error(t, err)
}
