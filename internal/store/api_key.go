package store

import (
	"context"
	"fmt"

	"github.com/edvin/easybudget/internal/model"
)

// APIKeys stores admin API keys. Only the SHA-256 hash of a key is kept.
type APIKeys struct {
	db Querier
}

func (r *APIKeys) Insert(ctx context.Context, k *model.APIKey) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO api_keys (id, name, key_hash, key_prefix, scopes) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		k.ID, k.Name, k.KeyHash, k.KeyPrefix, k.Scopes,
	).Scan(&k.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert api key: %w", mapError(err))
	}
	return nil
}

// GetByHash returns the unrevoked key with the given hash.
func (r *APIKeys) GetByHash(ctx context.Context, keyHash string) (*model.APIKey, error) {
	var k model.APIKey
	err := r.db.QueryRow(ctx,
		`SELECT id, name, key_prefix, scopes, created_at, revoked_at FROM api_keys WHERE key_hash = $1 AND revoked_at IS NULL`, keyHash,
	).Scan(&k.ID, &k.Name, &k.KeyPrefix, &k.Scopes, &k.CreatedAt, &k.RevokedAt)
	if err != nil {
		return nil, fmt.Errorf("get api key by hash: %w", mapError(err))
	}
	return &k, nil
}

func (r *APIKeys) Get(ctx context.Context, id string) (*model.APIKey, error) {
	var k model.APIKey
	err := r.db.QueryRow(ctx,
		`SELECT id, name, key_prefix, scopes, created_at, revoked_at FROM api_keys WHERE id = $1`, id,
	).Scan(&k.ID, &k.Name, &k.KeyPrefix, &k.Scopes, &k.CreatedAt, &k.RevokedAt)
	if err != nil {
		return nil, fmt.Errorf("get api key %s: %w", id, mapError(err))
	}
	return &k, nil
}

func (r *APIKeys) List(ctx context.Context, page Page) ([]model.APIKey, bool, error) {
	q := newQuery(`SELECT id, name, key_prefix, scopes, created_at, revoked_at FROM api_keys WHERE true`)
	q.paginate("", page)

	rows, err := r.db.Query(ctx, q.String(), q.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []model.APIKey
	for rows.Next() {
		var k model.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyPrefix, &k.Scopes, &k.CreatedAt, &k.RevokedAt); err != nil {
			return nil, false, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate api keys: %w", err)
	}
	keys, more := trim(keys, page.Limit)
	return keys, more, nil
}

// Revoke soft-deletes a key by setting revoked_at.
func (r *APIKeys) Revoke(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE api_keys SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("revoke api key %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("revoke api key %s: %w", id, ErrNotFound)
	}
	return nil
}
