package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/crypto"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/store"
	"github.com/edvin/easybudget/internal/tenancy"
)

const tokenIssuer = "easybudget"

// Claims are the JWT claims issued at login. The subject is the user id.
type Claims struct {
	TenantID string `json:"tid"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Scope converts the claims into the request tenant scope.
func (c *Claims) Scope() tenancy.Scope {
	return tenancy.Scope{TenantID: c.TenantID, UserID: c.Subject, Email: c.Email, Role: c.Role}
}

// ErrInactiveAccount is returned by CheckActive for a valid token whose
// account has been deactivated since it was issued.
var ErrInactiveAccount = errors.New("account is inactive")

// Session is returned by Register and Login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type AuthService struct {
	db        DB
	events    Dispatcher
	jwtSecret []byte
	jwtTTL    time.Duration
	trial     TrialPolicy
}

func NewAuthService(db DB, events Dispatcher, jwtSecret string, jwtTTL time.Duration, trial TrialPolicy) *AuthService {
	return &AuthService{
		db:        db,
		events:    events,
		jwtSecret: []byte(jwtSecret),
		jwtTTL:    jwtTTL,
		trial:     trial,
	}
}

// Register creates a tenant with its owner, provider and trial subscription
// in one transaction, then publishes UserRegistered.
func (s *AuthService) Register(ctx context.Context, in request.Register) Result[*Session] {
	const op = "auth.register"
	email := strings.ToLower(strings.TrimSpace(in.Email))

	taken, err := store.NewGlobal(s.db).Accounts.EmailTaken(ctx, email)
	if err != nil {
		return fail[*Session](ctx, op, err)
	}
	if taken {
		return fail[*Session](ctx, op, invalid("email %s is already registered", email))
	}

	p, err := newParty(
		request.CommonData{FirstName: in.FirstName, LastName: in.LastName, CompanyName: in.CompanyName},
		request.Contact{Email: email, Phone: in.Phone},
		nil,
	)
	if err != nil {
		return fail[*Session](ctx, op, err)
	}
	acct := &account{email: email, password: in.Password, party: p, terms: in.TermsAccepted}

	err = withTx(ctx, s.db, func(st *store.Store, g *store.Global) error {
		if err := acct.open(ctx, st, g, s.trial, now()); err != nil {
			return err
		}
		return recordActivity(ctx, st, tenancy.Scope{TenantID: acct.tenant.ID, UserID: acct.user.ID}, ActivityEntry{
			Action:      model.ActionCreated,
			EntityType:  "user",
			EntityID:    acct.user.ID,
			Description: "account registered",
		})
	})
	if err != nil {
		return fail[*Session](ctx, op, fmt.Errorf("register %s: %w", email, err))
	}

	company := ""
	if in.CompanyName != nil {
		company = *in.CompanyName
	}
	s.events.Dispatch(ctx, model.UserRegistered{
		TenantID: acct.tenant.ID,
		UserID:   acct.user.ID,
		Email:    email,
		Name:     p.common.FullName(),
		Company:  company,
	})

	sess, err := s.issue(acct.user)
	if err != nil {
		return fail[*Session](ctx, op, err)
	}
	return succeed(op, sess, "account created")
}

// Login checks credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, in request.Login) Result[*Session] {
	const op = "auth.login"
	user, err := store.NewGlobal(s.db).Accounts.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail[*Session](ctx, op, invalid("invalid credentials"))
		}
		return fail[*Session](ctx, op, err)
	}
	if !crypto.VerifyPassword(in.Password, user.PasswordHash) {
		return fail[*Session](ctx, op, invalid("invalid credentials"))
	}
	if !user.IsActive {
		return fail[*Session](ctx, op, forbidden("account is inactive"))
	}

	sess, err := s.issue(user)
	if err != nil {
		return fail[*Session](ctx, op, err)
	}
	return succeed(op, sess, "")
}

func (s *AuthService) issue(user *model.User) (*Session, error) {
	issued := now()
	exp := issued.Add(s.jwtTTL)
	claims := Claims{
		TenantID: user.TenantID,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: user}, nil
}

// ValidateToken parses and verifies a token issued by Login or Register.
func (s *AuthService) ValidateToken(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}
	if claims.TenantID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("validate token: missing tenant or subject")
	}
	return &claims, nil
}

// CheckActive rejects tokens whose user, tenant or provider was deactivated
// after the token was issued.
func (s *AuthService) CheckActive(ctx context.Context, c *Claims) error {
	active, err := store.NewGlobal(s.db).Accounts.Active(ctx, c.TenantID, c.Subject)
	if err != nil {
		return err
	}
	if !active {
		return ErrInactiveAccount
	}
	return nil
}
