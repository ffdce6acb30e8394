package storage

import (
	"context"
	"database/sql"

	"github.com/tracetrail/tracetrail/internal/client/repositories/metadata"
	"github.com/tracetrail/tracetrail/internal/common"
)

// TokenStore is the single persisted slot for the access token. It is the
// only client state kept between runs.
type TokenStore struct {
	db  *sql.DB
	key string
}

// NewTokenStore stores the token under key (DefaultTokenKey when empty).
func NewTokenStore(db *sql.DB, key string) *TokenStore {
	if key == "" {
		key = common.DefaultTokenKey
	}
	return &TokenStore{db: db, key: key}
}

func (s *TokenStore) Key() string { return s.key }

// Token returns the persisted token, or "" when none is stored.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	v, err := metadata.NewSQLiteRepository(s.db).Get(ctx, s.key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Save replaces the persisted token.
func (s *TokenStore) Save(ctx context.Context, token string) error {
	return metadata.NewSQLiteRepository(s.db).Set(ctx, s.key, []byte(token))
}

// Remove deletes the token. Removing nothing is fine.
func (s *TokenStore) Remove(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, s.key)
}
