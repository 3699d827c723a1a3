package checklist

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrRecordNotFound = errors.New("check record not found")
)

type (
	Repository interface {
		QuerySteps(ctx context.Context) ([]Step, error)
		QueryCategories(ctx context.Context) ([]Category, error)
		QueryItems(ctx context.Context) ([]CheckItem, error)
		QueryUserChecks(ctx context.Context, userID string) ([]CheckRecord, error)
		GetCheck(ctx context.Context, userID, itemID string) (CheckRecord, error)
		// UpsertCheck writes the record keyed on (user_id, item_id) and
		// returns the row as stored.
		UpsertCheck(ctx context.Context, rec CheckRecord) (CheckRecord, error)
	}

	Service struct {
		repo Repository
	}
)

var NowFunc = time.Now // mockable

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Board fetches the four collections for the target user and aggregates
// them into the nested view tree.
func (svc *Service) Board(ctx context.Context, userID string) ([]StepView, error) {
	steps, err := svc.repo.QuerySteps(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "querying steps")
	}
	categories, err := svc.repo.QueryCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "querying categories")
	}
	items, err := svc.repo.QueryItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "querying check items")
	}
	checks, err := svc.repo.QueryUserChecks(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "querying user checks")
	}
	return BuildBoard(steps, categories, items, checks), nil
}

// Toggle flips an item's completion for a student on behalf of an actor.
// The optimistic record becomes visible (Pending) before the upsert is
// issued; the upsert's outcome is the sole authority for keeping it.
// On failure the pre-toggle record is returned along with the error.
func (svc *Service) Toggle(ctx context.Context, actorID, studentID, itemID string, cleared bool) (*CheckRecord, error) {
	var prev *CheckRecord
	if rec, err := svc.repo.GetCheck(ctx, studentID, itemID); err == nil {
		prev = &rec
	} else if pkgerrors.Cause(err) != ErrRecordNotFound {
		return nil, pkgerrors.Wrap(err, "fetching current check")
	}

	next := CheckRecord{
		UserID:    studentID,
		ItemID:    itemID,
		IsCleared: cleared,
		ClearedAt: null.TimeFrom(NowFunc().UTC()),
		ClearedBy: null.StringFrom(actorID),
	}

	tgl := NewToggle(prev, next)

	server, err := svc.repo.UpsertCheck(ctx, *tgl.Record())
	if err != nil {
		tgl.Rollback()
		return tgl.Record(), pkgerrors.Wrap(err, "upserting check")
	}
	tgl.Confirm(server)
	return tgl.Record(), nil
}
