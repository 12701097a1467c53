package db

import (
	"github.com/existflow/folio/internal/tokenstore"
)

const (
	keyToken = "admin_token"
	keyEmail = "admin_email"
)

// TokenStore keeps the admin session in the state database
type TokenStore struct {
	db *DB
}

var _ tokenstore.Store = (*TokenStore)(nil)

// NewTokenStore returns a tokenstore.Store backed by db
func NewTokenStore(db *DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) Get() (tokenstore.Credentials, error) {
	token, ok, err := s.db.GetState(keyToken)
	if err != nil || !ok {
		return tokenstore.Credentials{}, err
	}
	email, _, err := s.db.GetState(keyEmail)
	if err != nil {
		return tokenstore.Credentials{}, err
	}
	return tokenstore.Credentials{Token: token, Email: email}, nil
}

func (s *TokenStore) Set(c tokenstore.Credentials) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range map[string]string{keyToken: c.Token, keyEmail: c.Email} {
		if _, err := tx.Exec(`
			INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, datetime('now'))
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *TokenStore) Clear() error {
	return s.db.DeleteState(keyToken, keyEmail)
}
