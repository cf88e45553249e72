package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edvin/easybudget/internal/metrics"
	"github.com/edvin/easybudget/internal/platform"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

// Status is the outcome code of a service operation.
type Status string

const (
	StatusSuccess     Status = "SUCCESS"
	StatusNotFound    Status = "NOT_FOUND"
	StatusInvalidData Status = "INVALID_DATA"
	StatusForbidden   Status = "FORBIDDEN"
	StatusConflict    Status = "CONFLICT"
	StatusError       Status = "ERROR"
)

// Result is the envelope every service operation returns. Callers branch on
// IsSuccess and then on Status; Err is the cause and is never shown to
// clients.
type Result[T any] struct {
	Status  Status
	Message string
	Data    T
	Err     error
}

// IsSuccess is the canonical success check.
func (r Result[T]) IsSuccess() bool {
	return r.Status == StatusSuccess
}

var (
	ErrInvalidData = errors.New("invalid data")
	ErrForbidden   = errors.New("forbidden by business rule")
)

// Error is a business failure with a client-facing message.
type Error struct {
	Status  Status
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	switch e.Status {
	case StatusInvalidData:
		return target == ErrInvalidData
	case StatusForbidden:
		return target == ErrForbidden
	case StatusNotFound:
		return target == store.ErrNotFound
	}
	return false
}

func invalid(format string, args ...any) error {
	return &Error{Status: StatusInvalidData, Message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...any) error {
	return &Error{Status: StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &Error{Status: StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// classify maps an error to a result status and a safe message.
func classify(err error) (Status, string) {
	var e *Error
	if errors.As(err, &e) {
		return e.Status, e.Message
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return StatusNotFound, "record not found"
	case errors.Is(err, store.ErrStale):
		return StatusConflict, "record was changed by another request, reload and retry"
	case errors.Is(err, store.ErrConflict):
		return StatusConflict, "record already exists"
	case errors.Is(err, store.ErrReferenced):
		return StatusForbidden, "record is referenced by other records"
	case errors.Is(err, tenancy.ErrNoScope):
		return StatusForbidden, "no tenant in request"
	}
	return StatusError, "internal error"
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func succeed[T any](op string, data T, msg string) Result[T] {
	metrics.ServiceResults.WithLabelValues(op, string(StatusSuccess)).Inc()
	return Result[T]{Status: StatusSuccess, Message: msg, Data: data}
}

// fail logs err with the request logger and wraps it in a failed result.
// Unexpected errors log at error level, business failures at warn.
func fail[T any](ctx context.Context, op string, err error) Result[T] {
	status, msg := classify(err)
	log := zerolog.Ctx(ctx)
	ev := log.Warn()
	if status == StatusError {
		ev = log.Error()
	}
	ev.Err(err).Str("operation", op).Str("status", string(status)).Msg("service operation failed")
	metrics.ServiceResults.WithLabelValues(op, string(status)).Inc()
	return Result[T]{Status: status, Message: msg, Err: err}
}

// Page is a list result with a keyset cursor for the next page.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// newPage builds a Page, deriving the next cursor from the last item.
func newPage[T any](items []T, hasMore bool, key func(T) platform.Cursor) Page[T] {
	p := Page[T]{Items: items, HasMore: hasMore}
	if p.Items == nil {
		p.Items = []T{}
	}
	if hasMore && len(items) > 0 {
		p.NextCursor = key(items[len(items)-1]).Encode()
	}
	return p
}
