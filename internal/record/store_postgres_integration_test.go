//go:build integration

package record

import (
	"context"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medgate/internal/identity"
	id "medgate/pkg/domain"
	"medgate/pkg/platform/sentinel"
	"medgate/pkg/testutil/containers"
)

func TestPostgresStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t, "../../db/schema.sql")
	store := NewPostgresStore(pg.DB)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, identity.NewPostgresStore(pg.DB).Save(ctx, &identity.Subject{
		ID:              "p1",
		Role:            id.RolePatient,
		Status:          id.SubjectStatusActive,
		RegisteredAt:    now,
		StatusChangedAt: now,
	}))

	entry := func(recordID id.RecordID, version int, pointer string) *Entry {
		return &Entry{
			RecordID:       recordID,
			PatientID:      "p1",
			Category:       "imaging",
			StoragePointer: pointer,
			Version:        version,
			IndexedAt:      now.Add(time.Duration(version) * time.Minute),
		}
	}

	t.Run("append versions and find latest", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, entry("r1", 1, "cas://a")))
		require.NoError(t, store.Save(ctx, entry("r1", 2, "cas://b")))

		latest, err := store.FindLatest(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, 2, latest.Version)
		assert.Equal(t, "cas://b", latest.StoragePointer)
	})

	t.Run("duplicate version conflicts", func(t *testing.T) {
		err := store.Save(ctx, entry("r1", 2, "cas://c"))
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("list versions oldest first", func(t *testing.T) {
		versions, err := store.ListVersions(ctx, "r1")
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, 1, versions[0].Version)
		assert.Equal(t, 2, versions[1].Version)
	})

	t.Run("unknown record", func(t *testing.T) {
		_, err := store.FindLatest(ctx, "nope")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		_, err = store.ListVersions(ctx, "nope")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("list by patient returns latest per record", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, entry("r2", 1, "cas://d")))

		entries, err := store.ListByPatient(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, id.RecordID("r1"), entries[0].RecordID)
		assert.Equal(t, 2, entries[0].Version)
		assert.Equal(t, id.RecordID("r2"), entries[1].RecordID)
	})
}
