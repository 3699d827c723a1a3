package checklist

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestToggle_transitions(t *testing.T) {
	prev := &CheckRecord{UserID: "stud", ItemID: "i1", IsCleared: false}
	next := CheckRecord{
		UserID:    "stud",
		ItemID:    "i1",
		IsCleared: true,
		ClearedAt: null.TimeFrom(time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)),
		ClearedBy: null.StringFrom("inst"),
	}

	t.Run("optimistic record visible while pending", func(t *testing.T) {
		tgl := NewToggle(prev, next)
		assert.Equal(t, TogglePending, tgl.State())
		require.NotNil(t, tgl.Record())
		assert.True(t, tgl.Record().IsCleared)
	})

	t.Run("confirm adopts server row", func(t *testing.T) {
		tgl := NewToggle(prev, next)
		serverAt := time.Date(2024, 4, 1, 9, 0, 2, 0, time.UTC)
		server := next
		server.ClearedAt = null.TimeFrom(serverAt)
		tgl.Confirm(server)

		assert.Equal(t, ToggleConfirmed, tgl.State())
		assert.Equal(t, serverAt, tgl.Record().ClearedAt.Time)
	})

	t.Run("rollback restores snapshot exactly", func(t *testing.T) {
		tgl := NewToggle(prev, next)
		tgl.Rollback()

		assert.Equal(t, ToggleRolledBack, tgl.State())
		require.NotNil(t, tgl.Record())
		assert.Equal(t, *prev, *tgl.Record())
	})

	t.Run("rollback with no prior record yields nil", func(t *testing.T) {
		tgl := NewToggle(nil, next)
		tgl.Rollback()
		assert.Nil(t, tgl.Record())
	})

	t.Run("terminal states ignore further transitions", func(t *testing.T) {
		tgl := NewToggle(prev, next)
		tgl.Rollback()
		tgl.Confirm(next)
		assert.Equal(t, ToggleRolledBack, tgl.State())
	})
}

type toggleRepo struct {
	Repository
	existing  *CheckRecord
	upsertErr error
	upserted  []CheckRecord
	serverAt  time.Time
}

func (r *toggleRepo) GetCheck(_ context.Context, userID, itemID string) (CheckRecord, error) {
	if r.existing != nil {
		return *r.existing, nil
	}
	return CheckRecord{}, ErrRecordNotFound
}

func (r *toggleRepo) UpsertCheck(_ context.Context, rec CheckRecord) (CheckRecord, error) {
	if r.upsertErr != nil {
		return CheckRecord{}, r.upsertErr
	}
	r.upserted = append(r.upserted, rec)
	rec.ClearedAt = null.TimeFrom(r.serverAt)
	return rec, nil
}

func TestService_Toggle(t *testing.T) {
	restore := NowFunc
	defer func() { NowFunc = restore }()
	clientAt := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return clientAt }

	t.Run("success reconciles with server row", func(t *testing.T) {
		repo := &toggleRepo{serverAt: clientAt.Add(2 * time.Second)}
		svc := NewService(repo)

		rec, err := svc.Toggle(context.Background(), "inst", "stud", "i1", true)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.True(t, rec.IsCleared)
		assert.Equal(t, "inst", rec.ClearedBy.String)
		// server timestamp wins over the client-generated placeholder
		assert.Equal(t, repo.serverAt, rec.ClearedAt.Time)

		// the optimistic record was issued to the store as constructed
		require.Len(t, repo.upserted, 1)
		assert.Equal(t, clientAt, repo.upserted[0].ClearedAt.Time)
	})

	t.Run("failure restores the pre-toggle record", func(t *testing.T) {
		existing := CheckRecord{UserID: "stud", ItemID: "i1", IsCleared: true, ClearedBy: null.StringFrom("other")}
		repo := &toggleRepo{existing: &existing, upsertErr: errors.New("connection reset")}
		svc := NewService(repo)

		rec, err := svc.Toggle(context.Background(), "inst", "stud", "i1", false)
		require.Error(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, existing, *rec)
	})

	t.Run("failure with no prior record yields nil record", func(t *testing.T) {
		repo := &toggleRepo{upsertErr: errors.New("connection reset")}
		svc := NewService(repo)

		rec, err := svc.Toggle(context.Background(), "inst", "stud", "i1", true)
		require.Error(t, err)
		assert.Nil(t, rec)
	})
}
