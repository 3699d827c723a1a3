package user

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/flightcheck/backend/core"
)

var (
	// errors
	ErrNotFound = errors.New("profile not found")
)

type (
	Repository interface {
		GetProfile(ctx context.Context, userID string) (Profile, error)
		GetProfiles(ctx context.Context, userIDs []string) ([]Profile, error)
		// SetProfileName updates the profile's display name, inserting the
		// row if it does not exist yet. The role column is never touched.
		SetProfileName(ctx context.Context, userID, name string) error
		SetProfileRole(ctx context.Context, userID, role string) error
		// SearchStudents does a case-insensitive substring match on name or
		// username, restricted to student profiles, ordered by name.
		SearchStudents(ctx context.Context, keyword string, limit int) ([]Profile, error)
	}

	Service struct {
		repo Repository
		idp  Identity
		conf *core.Config
	}
)

func NewService(repo Repository, idp Identity, conf *core.Config) *Service {
	return &Service{repo: repo, idp: idp, conf: conf}
}

// Resolve returns the caller's profile and effective role. An absent profile
// row is not an error: it resolves to the least-privileged role.
func (svc *Service) Resolve(ctx context.Context, accountID string) (Profile, error) {
	prof, err := svc.repo.GetProfile(ctx, accountID)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return Profile{UserID: accountID, Role: RoleStudent}, nil
		}
		return Profile{}, pkgerrors.Wrap(err, "fetching profile")
	}
	if prof.Role == "" {
		prof.Role = RoleStudent
	}
	return prof, nil
}

// Login authenticates against the identity provider and syncs the profile's
// display name from the account metadata before resolving the role.
func (svc *Service) Login(ctx context.Context, email, password string) (Session, Profile, error) {
	sess, err := svc.idp.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, Profile{}, err
	}
	acct, err := svc.idp.GetUser(ctx, sess.AccessToken)
	if err != nil {
		return Session{}, Profile{}, pkgerrors.Wrap(err, "fetching account")
	}
	if err = svc.EnsureProfileName(ctx, acct); err != nil {
		return Session{}, Profile{}, err
	}
	prof, err := svc.Resolve(ctx, acct.ID)
	if err != nil {
		return Session{}, Profile{}, err
	}
	return sess, prof, nil
}

// Register forwards the signup to the identity provider. The account only
// becomes usable once the provider's confirmation email is acted on.
func (svc *Service) Register(ctx context.Context, signup NewSignup) error {
	return svc.idp.SignUp(ctx, signup)
}

func (svc *Service) Logout(ctx context.Context, accessToken string) error {
	return svc.idp.SignOut(ctx, accessToken)
}

func (svc *Service) GetAccount(ctx context.Context, accessToken string) (Account, error) {
	return svc.idp.GetUser(ctx, accessToken)
}

// EnsureProfileName copies the display name from account metadata into the
// profile row. Accounts without a name in metadata are left alone.
func (svc *Service) EnsureProfileName(ctx context.Context, acct Account) error {
	name := core.CleanString(acct.MetaName())
	if name == "" {
		return nil
	}
	return pkgerrors.Wrap(svc.repo.SetProfileName(ctx, acct.ID, name), "setting profile name")
}

// SearchStudents finds student profiles whose name or username contains the
// keyword, case-insensitively. An empty keyword yields no results.
func (svc *Service) SearchStudents(ctx context.Context, keyword string) ([]Profile, error) {
	keyword = core.CleanString(keyword)
	if keyword == "" {
		return nil, nil
	}
	limit := svc.conf.InstructorSearchLimit
	if limit <= 0 {
		limit = 30
	}
	profs, err := svc.repo.SearchStudents(ctx, keyword, limit)
	return profs, pkgerrors.Wrap(err, "searching students")
}

// GetProfile fetches a single profile; absent rows surface as a zero Profile
// so callers can render an id-only header.
func (svc *Service) GetProfile(ctx context.Context, userID string) (Profile, error) {
	prof, err := svc.repo.GetProfile(ctx, userID)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			return Profile{UserID: userID, Role: RoleStudent}, nil
		}
		return Profile{}, pkgerrors.Wrap(err, "fetching profile")
	}
	return prof, nil
}

// DisplayNames resolves the given account ids to display names in one query.
func (svc *Service) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	if len(userIDs) == 0 {
		return map[string]string{}, nil
	}
	profs, err := svc.repo.GetProfiles(ctx, userIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "fetching profiles")
	}
	names := make(map[string]string, len(profs))
	for _, p := range profs {
		names[p.UserID] = p.DisplayName()
	}
	return names, nil
}

// SetRole assigns a role to an account, creating the profile if needed.
// Reserved for the admin CLI; no web route exposes it.
func (svc *Service) SetRole(ctx context.Context, userID, role string) error {
	if !IsValidRole(role) {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "invalid role"})
	}
	return pkgerrors.Wrap(svc.repo.SetProfileRole(ctx, userID, role), "setting profile role")
}
