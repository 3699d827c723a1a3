package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/flightcheck/backend/core/checklist"
)

type checklistRepository struct {
	db *sqlx.DB
}

var _ checklist.Repository = (*checklistRepository)(nil) // interface compliance check

func NewChecklistRepository(db *sqlx.DB) *checklistRepository {
	return &checklistRepository{db: db}
}

// rows come back in display order; the aggregator preserves it as-is.
func (repo checklistRepository) QuerySteps(ctx context.Context) ([]checklist.Step, error) {
	q := `SELECT id, name, sort_order FROM steps ORDER BY sort_order ASC NULLS LAST, id ASC`
	var steps []checklist.Step
	if err := repo.db.SelectContext(ctx, &steps, q); err != nil {
		return nil, errors.Wrap(err, "querying steps")
	}
	return steps, nil
}

func (repo checklistRepository) QueryCategories(ctx context.Context) ([]checklist.Category, error) {
	q := `SELECT id, step_id, name, sort_order FROM categories ORDER BY sort_order ASC NULLS LAST, id ASC`
	var cats []checklist.Category
	if err := repo.db.SelectContext(ctx, &cats, q); err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	return cats, nil
}

func (repo checklistRepository) QueryItems(ctx context.Context) ([]checklist.CheckItem, error) {
	q := `SELECT id, category_id, title, sort_order, video_url FROM check_items ORDER BY sort_order ASC NULLS LAST, id ASC`
	var items []checklist.CheckItem
	if err := repo.db.SelectContext(ctx, &items, q); err != nil {
		return nil, errors.Wrap(err, "querying check items")
	}
	return items, nil
}

func (repo checklistRepository) QueryUserChecks(ctx context.Context, userID string) ([]checklist.CheckRecord, error) {
	q := `SELECT user_id, item_id, is_cleared, cleared_at, cleared_by FROM user_item_checks WHERE user_id = $1`
	var recs []checklist.CheckRecord
	if err := repo.db.SelectContext(ctx, &recs, q, userID); err != nil {
		return nil, errors.Wrap(err, "querying user checks")
	}
	return recs, nil
}

func (repo checklistRepository) GetCheck(ctx context.Context, userID, itemID string) (checklist.CheckRecord, error) {
	var rec checklist.CheckRecord
	q := `SELECT user_id, item_id, is_cleared, cleared_at, cleared_by FROM user_item_checks WHERE user_id = $1 AND item_id = $2`
	if err := repo.db.GetContext(ctx, &rec, q, userID, itemID); err != nil {
		if err == sql.ErrNoRows {
			return checklist.CheckRecord{}, checklist.ErrRecordNotFound
		}
		return checklist.CheckRecord{}, errors.Wrap(err, "getting check record")
	}
	return rec, nil
}

func (repo checklistRepository) UpsertCheck(ctx context.Context, rec checklist.CheckRecord) (checklist.CheckRecord, error) {
	q := `
		INSERT INTO user_item_checks (user_id, item_id, is_cleared, cleared_at, cleared_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, item_id) DO UPDATE
		SET is_cleared = EXCLUDED.is_cleared,
		    cleared_at = EXCLUDED.cleared_at,
		    cleared_by = EXCLUDED.cleared_by
		RETURNING user_id, item_id, is_cleared, cleared_at, cleared_by`
	var stored checklist.CheckRecord
	err := repo.db.GetContext(ctx, &stored, q, rec.UserID, rec.ItemID, rec.IsCleared, rec.ClearedAt, rec.ClearedBy)
	if err != nil {
		return checklist.CheckRecord{}, errors.Wrap(err, "upserting check record")
	}
	return stored, nil
}
