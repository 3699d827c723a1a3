package idsvc

import (
	"context"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/flightcheck/backend/core"
	"github.com/flightcheck/backend/core/user"
)

// InmemService is a self-contained identity provider for tests and local
// development. It issues real HS256 access tokens so sessions verify the
// same way they do against the hosted provider. Passwords are compared in
// clear text; never use it in prod.
type InmemService struct {
	secret []byte

	mu       sync.Mutex
	accounts map[string]inmemAccount // by email
	sessions map[string]string       // token -> email
}

type inmemAccount struct {
	acct     user.Account
	password string
}

var _ user.Identity = (*InmemService)(nil)

func NewInmemService(secret string) *InmemService {
	return &InmemService{
		secret:   []byte(secret),
		accounts: make(map[string]inmemAccount),
		sessions: make(map[string]string),
	}
}

// Seed registers an account directly, bypassing sign up.
func (svc *InmemService) Seed(email, password, name string) user.Account {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	acct := user.Account{
		ID:       uuid.New().String(),
		Email:    email,
		Metadata: map[string]string{"name": name},
	}
	svc.accounts[email] = inmemAccount{acct: acct, password: password}
	return acct
}

func (svc *InmemService) SignIn(_ context.Context, email, password string) (user.Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	reg, ok := svc.accounts[email]
	if !ok || reg.password != password {
		return user.Session{}, core.NewValidationError(errors.New("invalid email or password"))
	}

	expiry := time.Hour
	claims := jwt.MapClaims{
		"sub":           reg.acct.ID,
		"email":         reg.acct.Email,
		"user_metadata": reg.acct.Metadata,
		"exp":           time.Now().Add(expiry).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	if err != nil {
		return user.Session{}, errors.Wrap(err, "signing token")
	}
	svc.sessions[token] = email
	return user.Session{AccessToken: token, TokenType: "bearer", ExpiresIn: expiry}, nil
}

func (svc *InmemService) SignUp(_ context.Context, signup user.NewSignup) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, ok := svc.accounts[signup.Email]; ok {
		return core.NewValidationError(errors.New("email already registered"))
	}
	svc.accounts[signup.Email] = inmemAccount{
		acct: user.Account{
			ID:       uuid.New().String(),
			Email:    signup.Email,
			Metadata: map[string]string{"name": signup.Name, "invite_code": signup.InviteCode},
		},
		password: signup.Password,
	}
	return nil
}

func (svc *InmemService) GetUser(_ context.Context, accessToken string) (user.Account, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	email, ok := svc.sessions[accessToken]
	if !ok {
		return user.Account{}, errors.New("identity provider: unknown token")
	}
	return svc.accounts[email].acct, nil
}

func (svc *InmemService) SignOut(_ context.Context, accessToken string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	delete(svc.sessions, accessToken)
	return nil
}
