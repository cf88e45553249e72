package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/crypto"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
)

// ErrInvalidAPIKey is returned by Authenticate for unknown or revoked keys.
var ErrInvalidAPIKey = errors.New("invalid api key")

// CreatedAPIKey carries the plaintext key. It is only returned once.
type CreatedAPIKey struct {
	model.APIKey
	Key string `json:"key"`
}

// APIKeyService manages platform admin keys.
type APIKeyService struct {
	db DB
}

func NewAPIKeyService(db DB) *APIKeyService {
	return &APIKeyService{db: db}
}

func (s *APIKeyService) Create(ctx context.Context, in request.CreateAPIKey) Result[*CreatedAPIKey] {
	const op = "api_key.create"
	key, prefix, err := crypto.GenerateAPIKey()
	if err != nil {
		return fail[*CreatedAPIKey](ctx, op, fmt.Errorf("generate api key: %w", err))
	}
	k := model.APIKey{
		ID:        platform.NewID(),
		Name:      in.Name,
		KeyHash:   crypto.HashAPIKey(key),
		KeyPrefix: prefix,
		Scopes:    in.Scopes,
	}
	if err := store.NewGlobal(s.db).APIKeys.Insert(ctx, &k); err != nil {
		return fail[*CreatedAPIKey](ctx, op, err)
	}
	return succeed(op, &CreatedAPIKey{APIKey: k, Key: key}, "api key created, store it now, it will not be shown again")
}

func (s *APIKeyService) Get(ctx context.Context, id string) Result[*model.APIKey] {
	const op = "api_key.get"
	k, err := store.NewGlobal(s.db).APIKeys.Get(ctx, id)
	if err != nil {
		return fail[*model.APIKey](ctx, op, err)
	}
	return succeed(op, k, "")
}

func (s *APIKeyService) List(ctx context.Context, params request.ListParams) Result[Page[model.APIKey]] {
	const op = "api_key.list"
	page, err := params.Page()
	if err != nil {
		return fail[Page[model.APIKey]](ctx, op, invalid("invalid cursor"))
	}
	items, more, err := store.NewGlobal(s.db).APIKeys.List(ctx, page)
	if err != nil {
		return fail[Page[model.APIKey]](ctx, op, err)
	}
	return succeed(op, newPage(items, more, func(k model.APIKey) platform.Cursor {
		return platform.Cursor{CreatedAt: k.CreatedAt, ID: k.ID}
	}), "")
}

func (s *APIKeyService) Revoke(ctx context.Context, id string) Result[struct{}] {
	const op = "api_key.revoke"
	if err := store.NewGlobal(s.db).APIKeys.Revoke(ctx, id); err != nil {
		return fail[struct{}](ctx, op, err)
	}
	return succeed(op, struct{}{}, "api key revoked")
}

// Authenticate resolves a plaintext key to its unrevoked record.
func (s *APIKeyService) Authenticate(ctx context.Context, key string) (*model.APIKey, error) {
	if key == "" {
		return nil, ErrInvalidAPIKey
	}
	k, err := store.NewGlobal(s.db).APIKeys.GetByHash(ctx, crypto.HashAPIKey(key))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	return k, nil
}
