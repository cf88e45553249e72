package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

// ActivityEntry describes one audit record.
type ActivityEntry struct {
	Action      string
	EntityType  string
	EntityID    string
	Description string
	Metadata    any
}

// recordActivity appends an entry through st, so callers inside a
// transaction get the entry rolled back with their writes.
func recordActivity(ctx context.Context, st *store.Store, sc tenancy.Scope, e ActivityEntry) error {
	var meta json.RawMessage
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal activity metadata: %w", err)
		}
		meta = b
	}
	return st.Activities.Insert(ctx, sc.TenantID, &model.ActivityLog{
		ID:          platform.NewID(),
		UserID:      sc.UserIDPtr(),
		ActionType:  e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: e.Description,
		Metadata:    meta,
	})
}

// ActivityService exposes the append-only activity log.
type ActivityService struct {
	db DB
}

func NewActivityService(db DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record appends an entry for the tenant in ctx.
func (s *ActivityService) Record(ctx context.Context, e ActivityEntry) Result[struct{}] {
	const op = "activity.record"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[struct{}](ctx, op, err)
	}
	if err := recordActivity(ctx, store.New(s.db), sc, e); err != nil {
		return fail[struct{}](ctx, op, err)
	}
	return succeed(op, struct{}{}, "activity recorded")
}

func (s *ActivityService) List(ctx context.Context, f store.ActivityFilter, params request.ListParams) Result[Page[model.ActivityLog]] {
	const op = "activity.list"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[Page[model.ActivityLog]](ctx, op, err)
	}
	page, err := params.Page()
	if err != nil {
		return fail[Page[model.ActivityLog]](ctx, op, invalid("invalid cursor"))
	}
	items, more, err := store.New(s.db).Activities.List(ctx, sc.TenantID, f, page)
	if err != nil {
		return fail[Page[model.ActivityLog]](ctx, op, err)
	}
	return succeed(op, newPage(items, more, func(a model.ActivityLog) platform.Cursor {
		return platform.Cursor{CreatedAt: a.CreatedAt, ID: a.ID}
	}), "")
}
