package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/flightcheck/backend/core/user"
)

type profileRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *sqlx.DB) *profileRepository {
	return &profileRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo profileRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo profileRepository) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	var prof user.Profile
	q := `SELECT user_id, role, name, username FROM profiles WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &prof, q, userID); err != nil {
		return user.Profile{}, repo.trapNoRowsErr(err, "getting profile")
	}
	return prof, nil
}

func (repo profileRepository) GetProfiles(ctx context.Context, userIDs []string) ([]user.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	q, args, err := sqlx.In(`SELECT user_id, role, name, username FROM profiles WHERE user_id IN (?)`, userIDs)
	if err != nil {
		return nil, errors.Wrap(err, "building profiles query")
	}
	var profs []user.Profile
	if err := repo.db.SelectContext(ctx, &profs, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying profiles")
	}
	return profs, nil
}

func (repo profileRepository) SetProfileName(ctx context.Context, userID, name string) error {
	q := `
		INSERT INTO profiles (user_id, name)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET name = EXCLUDED.name`
	if _, err := repo.db.ExecContext(ctx, q, userID, name); err != nil {
		return errors.Wrap(err, "upserting profile name")
	}
	return nil
}

func (repo profileRepository) SetProfileRole(ctx context.Context, userID, role string) error {
	q := `
		INSERT INTO profiles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`
	if _, err := repo.db.ExecContext(ctx, q, userID, role); err != nil {
		return errors.Wrap(err, "upserting profile role")
	}
	return nil
}

func (repo profileRepository) SearchStudents(ctx context.Context, keyword string, limit int) ([]user.Profile, error) {
	q := `
		SELECT user_id, role, name, username
		FROM profiles
		WHERE role = $1 AND (name ILIKE $2 OR username ILIKE $2)
		ORDER BY name ASC
		LIMIT $3`
	var profs []user.Profile
	if err := repo.db.SelectContext(ctx, &profs, q, user.RoleStudent, "%"+keyword+"%", limit); err != nil {
		return nil, errors.Wrap(err, "searching students")
	}
	return profs, nil
}
