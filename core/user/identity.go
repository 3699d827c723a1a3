package user

import "context"

// Identity is the hosted identity provider. Implementations talk to its
// REST API; tests use the in-memory fake in services/identity.
type Identity interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, signup NewSignup) error
	GetUser(ctx context.Context, accessToken string) (Account, error)
	SignOut(ctx context.Context, accessToken string) error
}
