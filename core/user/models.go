package user

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Roles
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

var AllRoles = []string{RoleStudent, RoleInstructor, RoleAdmin}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// CanInstruct reports whether a role may act on a student's checklist.
func CanInstruct(role string) bool {
	return role == RoleInstructor || role == RoleAdmin
}

// Profile is the app-side record for an account: role and display names.
// A missing Profile is normal; it reads as a student with no names.
type Profile struct {
	UserID   string      `db:"user_id" json:"user_id"`
	Role     string      `db:"role" json:"role"`
	Name     null.String `db:"name" json:"name"`
	Username null.String `db:"username" json:"username"`
}

// DisplayName returns the best human-readable handle for the profile.
func (p Profile) DisplayName() string {
	if p.Name.Valid && p.Name.String != "" {
		return p.Name.String
	}
	if p.Username.Valid {
		return p.Username.String
	}
	return "Unknown"
}

// Account is the identity provider's view of a user. Auth and credential
// storage live with the provider; only the id, email and signup metadata
// ever reach this app.
type Account struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"user_metadata"`
}

// MetaName returns the display name carried in the account's signup metadata.
func (a Account) MetaName() string {
	return a.Metadata["name"]
}

// Session is an authenticated provider session.
type Session struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   time.Duration `json:"-"`
}

// NewSignup contains everything the identity provider needs to register an
// account. Name and InviteCode travel as signup metadata; a provider-side
// hook validates the code and sends the confirmation email.
type NewSignup struct {
	Email      string
	Password   string
	Name       string
	InviteCode string
}
