package inmemdb

import (
	"context"

	"github.com/flightcheck/backend/core/checklist"
)

type checklistRepository struct {
	db *DB
}

var _ checklist.Repository = (*checklistRepository)(nil)

func NewChecklistRepository(db *DB) *checklistRepository {
	return &checklistRepository{db: db}
}

func (repo *checklistRepository) QuerySteps(_ context.Context) ([]checklist.Step, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]checklist.Step(nil), repo.db.steps...), nil
}

func (repo *checklistRepository) QueryCategories(_ context.Context) ([]checklist.Category, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]checklist.Category(nil), repo.db.categories...), nil
}

func (repo *checklistRepository) QueryItems(_ context.Context) ([]checklist.CheckItem, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]checklist.CheckItem(nil), repo.db.items...), nil
}

func (repo *checklistRepository) QueryUserChecks(_ context.Context, userID string) ([]checklist.CheckRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var recs []checklist.CheckRecord
	// keep item display order so boards render deterministically
	for _, it := range repo.db.items {
		if rec, ok := repo.db.checks[checkKey{userID: userID, itemID: it.ID}]; ok {
			recs = append(recs, *rec)
		}
	}
	return recs, nil
}

func (repo *checklistRepository) GetCheck(_ context.Context, userID, itemID string) (checklist.CheckRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rec, ok := repo.db.checks[checkKey{userID: userID, itemID: itemID}]; ok {
		return *rec, nil
	}
	return checklist.CheckRecord{}, checklist.ErrRecordNotFound
}

func (repo *checklistRepository) UpsertCheck(_ context.Context, rec checklist.CheckRecord) (checklist.CheckRecord, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored := rec
	repo.db.checks[checkKey{userID: rec.UserID, itemID: rec.ItemID}] = &stored
	return stored, nil
}
