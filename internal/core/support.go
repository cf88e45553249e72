package core

import (
	"context"
	"strings"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

// SupportService files help requests and notifies the support team.
type SupportService struct {
	db           DB
	events       Dispatcher
	supportEmail string
}

func NewSupportService(db DB, events Dispatcher, supportEmail string) *SupportService {
	return &SupportService{db: db, events: events, supportEmail: supportEmail}
}

// Create stores a ticket. Without a tenant scope the ticket is public and
// not attached to any tenant.
func (s *SupportService) Create(ctx context.Context, in request.CreateSupportTicket) Result[*model.SupportTicket] {
	const op = "support.create"
	sc, scoped := tenancy.FromContext(ctx)

	t := &model.SupportTicket{
		ID:        platform.NewID(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    model.SupportOpen,
	}
	err := withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		if err := st.Support.Insert(ctx, sc.TenantID, t); err != nil {
			return err
		}
		if !scoped {
			return nil
		}
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionCreated,
			EntityType:  "support",
			EntityID:    t.ID,
			Description: "support ticket opened: " + t.Subject,
		})
	})
	if err != nil {
		return fail[*model.SupportTicket](ctx, op, err)
	}

	s.events.Dispatch(ctx, model.SupportTicketCreated{
		TenantID:     sc.TenantID,
		TicketID:     t.ID,
		Name:         strings.TrimSpace(deref(in.FirstName) + " " + deref(in.LastName)),
		Email:        t.Email,
		Subject:      t.Subject,
		Message:      t.Message,
		SupportEmail: s.supportEmail,
	})
	return succeed(op, t, "support ticket created")
}

func (s *SupportService) List(ctx context.Context, params request.ListParams) Result[Page[model.SupportTicket]] {
	const op = "support.list"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[Page[model.SupportTicket]](ctx, op, err)
	}
	status := ""
	if params.Status != "" {
		st, err := model.ParseSupportStatus(params.Status)
		if err != nil {
			return fail[Page[model.SupportTicket]](ctx, op, invalid("%s", err))
		}
		status = string(st)
	}
	page, err := params.Page()
	if err != nil {
		return fail[Page[model.SupportTicket]](ctx, op, invalid("invalid cursor"))
	}
	items, more, err := store.New(s.db).Support.List(ctx, sc.TenantID, status, page)
	if err != nil {
		return fail[Page[model.SupportTicket]](ctx, op, err)
	}
	return succeed(op, newPage(items, more, func(t model.SupportTicket) platform.Cursor {
		return platform.Cursor{CreatedAt: t.CreatedAt, ID: t.ID}
	}), "")
}

func (s *SupportService) Get(ctx context.Context, id string) Result[*model.SupportTicket] {
	const op = "support.get"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.SupportTicket](ctx, op, err)
	}
	t, err := store.New(s.db).Support.Get(ctx, sc.TenantID, id)
	if err != nil {
		return fail[*model.SupportTicket](ctx, op, err)
	}
	return succeed(op, t, "")
}

func (s *SupportService) ChangeStatus(ctx context.Context, id string, in request.ChangeStatus) Result[*model.SupportTicket] {
	const op = "support.change_status"
	sc, err := tenancy.Require(ctx)
	if err != nil {
		return fail[*model.SupportTicket](ctx, op, err)
	}
	to, err := model.ParseSupportStatus(in.Status)
	if err != nil {
		return fail[*model.SupportTicket](ctx, op, invalid("%s", err))
	}

	var t *model.SupportTicket
	err = withTx(ctx, s.db, func(st *store.Store, _ *store.Global) error {
		var err error
		if t, err = st.Support.Get(ctx, sc.TenantID, id); err != nil {
			return err
		}
		from := t.Status
		if !from.CanTransitionTo(to) {
			return transitionError("support ticket", string(from), string(to), toStringSlice(model.SupportTransitions.Next(from)))
		}
		if err := st.Support.UpdateStatus(ctx, sc.TenantID, id, from, to); err != nil {
			return err
		}
		t.Status = to
		return recordActivity(ctx, st, sc, ActivityEntry{
			Action:      model.ActionStatusChanged,
			EntityType:  "support",
			EntityID:    id,
			Description: "support ticket changed from " + string(from) + " to " + string(to),
			Metadata:    map[string]string{"from": string(from), "to": string(to), "comment": in.Comment},
		})
	})
	if err != nil {
		return fail[*model.SupportTicket](ctx, op, err)
	}
	return succeed(op, t, "support ticket status changed to "+string(to))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
