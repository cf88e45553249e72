package activity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/notify"
)

type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

func statusRow(status string) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = status
		return nil
	}}
}

func sqlContains(fragment string) any {
	return mock.MatchedBy(func(sql string) bool { return strings.Contains(sql, fragment) })
}

type fakeMailer struct {
	sent []notify.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg notify.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newNotifications(t *testing.T, db *mockDB, mailer notify.Mailer) *Notifications {
	t.Helper()
	r, err := notify.NewRenderer("no-reply@easybudget.test")
	require.NoError(t, err)
	return NewNotifications(db, r, mailer, zerolog.Nop())
}

func welcome() model.Notification {
	return model.UserRegistered{TenantID: "t1", UserID: "u1", Email: "joe@example.com", Name: "Joe", Company: "Joe Ltd"}.Notification()
}

func TestSendNotification_Sends(t *testing.T) {
	db := new(mockDB)
	mailer := &fakeMailer{}
	n := welcome()

	db.On("QueryRow", mock.Anything, sqlContains("INSERT INTO notification_deliveries"),
		[]any{"user-registered-u1", "t1", "user.registered", "joe@example.com"}).Return(statusRow("pending"))
	db.On("Exec", mock.Anything, sqlContains("SET status = 'sent'"), []any{"user-registered-u1"}).
		Return(pgconn.NewCommandTag("UPDATE 1"), nil)

	err := newNotifications(t, db, mailer).SendNotification(context.Background(), n)
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "joe@example.com", mailer.sent[0].To)
	assert.Equal(t, "user-registered-u1", mailer.sent[0].IdempotencyKey)
	db.AssertExpectations(t)
}

func TestSendNotification_AlreadySent(t *testing.T) {
	db := new(mockDB)
	mailer := &fakeMailer{}

	db.On("QueryRow", mock.Anything, sqlContains("INSERT INTO notification_deliveries"), mock.Anything).
		Return(statusRow("sent"))

	err := newNotifications(t, db, mailer).SendNotification(context.Background(), welcome())
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendNotification_TransientErrorRetries(t *testing.T) {
	db := new(mockDB)
	mailer := &fakeMailer{err: errors.New("connection refused")}

	db.On("QueryRow", mock.Anything, sqlContains("INSERT INTO notification_deliveries"), mock.Anything).
		Return(statusRow("pending"))

	err := newNotifications(t, db, mailer).SendNotification(context.Background(), welcome())
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	assert.False(t, errors.As(err, &appErr) && appErr.NonRetryable())
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendNotification_PermanentErrorIsNonRetryable(t *testing.T) {
	db := new(mockDB)
	mailer := &fakeMailer{err: &notify.PermanentError{StatusCode: 422, Body: "bad recipient"}}

	db.On("QueryRow", mock.Anything, sqlContains("INSERT INTO notification_deliveries"), mock.Anything).
		Return(statusRow("pending"))

	err := newNotifications(t, db, mailer).SendNotification(context.Background(), welcome())
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, "MAIL_REJECTED", appErr.Type())
}

func TestSendNotification_UnknownTemplate(t *testing.T) {
	db := new(mockDB)
	n := welcome()
	n.Template = "missing"

	err := newNotifications(t, db, &fakeMailer{}).SendNotification(context.Background(), n)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())
	db.AssertNotCalled(t, "QueryRow", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkNotificationFailed(t *testing.T) {
	db := new(mockDB)
	db.On("Exec", mock.Anything, sqlContains("SET status = 'failed'"), []any{"k1", "mail down"}).
		Return(pgconn.NewCommandTag("UPDATE 1"), nil)

	err := newNotifications(t, db, &fakeMailer{}).MarkNotificationFailed(context.Background(), MarkNotificationFailedParams{
		IdempotencyKey: "k1",
		Event:          model.EventUserRegistered,
		Reason:         "mail down",
	})
	require.NoError(t, err)
	db.AssertExpectations(t)
}
