// Package inmemdb backs the repositories with in-process tables. It serves
// handler tests and local development without a Postgres instance.
package inmemdb

import (
	"sync"

	"github.com/flightcheck/backend/core/checklist"
	"github.com/flightcheck/backend/core/user"
)

type (
	DB struct {
		mutex sync.RWMutex

		profiles map[string]*user.Profile // by user id

		steps      []checklist.Step
		categories []checklist.Category
		items      []checklist.CheckItem
		checks     map[checkKey]*checklist.CheckRecord
	}

	checkKey struct {
		userID string
		itemID string
	}
)

func Open() (*DB, error) {
	db := &DB{
		profiles: make(map[string]*user.Profile),
		checks:   make(map[checkKey]*checklist.CheckRecord),
	}
	return db, nil
}

// Seed helpers; display order is insertion order.

func (db *DB) AddStep(s checklist.Step) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.steps = append(db.steps, s)
}

func (db *DB) AddCategory(c checklist.Category) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.categories = append(db.categories, c)
}

func (db *DB) AddItem(it checklist.CheckItem) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.items = append(db.items, it)
}

func (db *DB) AddProfile(p user.Profile) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.profiles[p.UserID] = &p
}
