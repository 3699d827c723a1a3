package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/flightcheck/backend/core/user"
)

type profileRepository struct {
	db *DB
}

var _ user.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *DB) *profileRepository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) GetProfile(_ context.Context, userID string) (user.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prof, ok := repo.db.profiles[userID]; ok {
		return *prof, nil
	}
	return user.Profile{}, user.ErrNotFound
}

func (repo *profileRepository) GetProfiles(_ context.Context, userIDs []string) ([]user.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	profs := make([]user.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		if prof, ok := repo.db.profiles[id]; ok {
			profs = append(profs, *prof)
		}
	}
	return profs, nil
}

func (repo *profileRepository) SetProfileName(_ context.Context, userID, name string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if prof, ok := repo.db.profiles[userID]; ok {
		prof.Name = null.StringFrom(name)
		return nil
	}
	repo.db.profiles[userID] = &user.Profile{
		UserID: userID,
		Role:   user.RoleStudent,
		Name:   null.StringFrom(name),
	}
	return nil
}

func (repo *profileRepository) SetProfileRole(_ context.Context, userID, role string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if prof, ok := repo.db.profiles[userID]; ok {
		prof.Role = role
		return nil
	}
	repo.db.profiles[userID] = &user.Profile{UserID: userID, Role: role}
	return nil
}

func (repo *profileRepository) SearchStudents(_ context.Context, keyword string, limit int) ([]user.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	kw := strings.ToLower(keyword)
	var profs []user.Profile
	for _, prof := range repo.db.profiles {
		if prof.Role != user.RoleStudent {
			continue
		}
		if strings.Contains(strings.ToLower(prof.Name.String), kw) ||
			strings.Contains(strings.ToLower(prof.Username.String), kw) {
			profs = append(profs, *prof)
		}
	}
	sort.Slice(profs, func(i, j int) bool { return profs[i].Name.String < profs[j].Name.String })
	if len(profs) > limit {
		profs = profs[:limit]
	}
	return profs, nil
}
