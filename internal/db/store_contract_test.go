package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behaviour every backend must share.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("CreateAssignsBookkeepingFields", func(t *testing.T) {
		s := newStore(t)
		rec, err := s.Create(ctx, "things", Record{
			"id":        "caller-chosen",
			"createdAt": "1999-01-01T00:00:00.000000000Z",
			"name":      "first",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, rec.ID())
		assert.NotEqual(t, "caller-chosen", rec.ID())
		assert.Equal(t, "first", rec["name"])
		created, ok := rec.Time(FieldCreatedAt)
		require.True(t, ok)
		updated, ok := rec.Time(FieldUpdatedAt)
		require.True(t, ok)
		assert.True(t, created.Equal(updated), "createdAt and updatedAt differ on create")
		assert.True(t, created.After(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("UniqueIDsUnderRapidCreation", func(t *testing.T) {
		s := newStore(t)
		const n = 100
		seen := make(map[string]struct{}, n)
		for i := 0; i < n; i++ {
			rec, err := s.Create(ctx, "things", Record{"n": i})
			require.NoError(t, err)
			_, dup := seen[rec.ID()]
			require.False(t, dup, "duplicate id %s", rec.ID())
			seen[rec.ID()] = struct{}{}
		}
		all, err := s.Find(ctx, "things", nil)
		require.NoError(t, err)
		assert.Len(t, all, n)
	})

	t.Run("FindByIDAfterCreateReturnsSameRecord", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Create(ctx, "things", Record{
			"amount": 12.5,
			"tags":   []any{"a", "b"},
			"nested": map[string]any{"ok": true},
		})
		require.NoError(t, err)

		found, err := s.FindByID(ctx, "things", created.ID())
		require.NoError(t, err)
		assert.Equal(t, created, found)
	})

	t.Run("FindByIDMissingIsAbsent", func(t *testing.T) {
		s := newStore(t)
		found, err := s.FindByID(ctx, "things", "nope")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("FindFiltersInStoredOrder", func(t *testing.T) {
		s := newStore(t)
		for i := 0; i < 6; i++ {
			owner := "u1"
			if i%2 == 1 {
				owner = "u2"
			}
			_, err := s.Create(ctx, "things", Record{"owner": owner, "n": i})
			require.NoError(t, err)
		}

		all, err := s.Find(ctx, "things", Criteria{})
		require.NoError(t, err)
		require.Len(t, all, 6)
		for i, r := range all {
			assert.EqualValues(t, i, r["n"])
		}

		mine, err := s.Find(ctx, "things", Criteria{Eq("owner", "u1")})
		require.NoError(t, err)
		require.Len(t, mine, 3)
		assert.EqualValues(t, 0, mine[0]["n"])
		assert.EqualValues(t, 2, mine[1]["n"])
		assert.EqualValues(t, 4, mine[2]["n"])

		first, err := s.FindOne(ctx, "things", Criteria{Eq("owner", "u2")})
		require.NoError(t, err)
		require.NotNil(t, first)
		assert.EqualValues(t, 1, first["n"])

		none, err := s.Find(ctx, "things", Criteria{Eq("owner", "u3")})
		require.NoError(t, err)
		assert.Empty(t, none)

		missing, err := s.FindOne(ctx, "things", Criteria{Eq("owner", "u3")})
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("EqualityIgnoresNumericRepresentation", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Create(ctx, "things", Record{"amount": 100})
		require.NoError(t, err)

		for _, v := range []any{100, int64(100), 100.0} {
			rec, err := s.FindOne(ctx, "things", Criteria{Eq("amount", v)})
			require.NoError(t, err)
			assert.NotNil(t, rec, "no match for %T", v)
		}
	})

	t.Run("BetweenIsInclusive", func(t *testing.T) {
		s := newStore(t)
		base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		for d := 0; d < 5; d++ {
			_, err := s.Create(ctx, "things", Record{"owner": "u1", "date": base.AddDate(0, 0, d)})
			require.NoError(t, err)
		}

		got, err := s.Find(ctx, "things", Criteria{
			Eq("owner", "u1"),
			Between("date", base.AddDate(0, 0, 1), base.AddDate(0, 0, 3)),
		})
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, r := range got {
			d, ok := r.Time("date")
			require.True(t, ok)
			assert.True(t, d.Equal(base.AddDate(0, 0, i+1)))
		}
	})

	t.Run("UpdateMergesAndKeepsIdentity", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Create(ctx, "things", Record{"a": 1, "b": "x"})
		require.NoError(t, err)

		updated, err := s.Update(ctx, "things", created.ID(), Record{
			"b":         "y",
			"c":         true,
			"id":        "hijack",
			"createdAt": "1999-01-01T00:00:00.000000000Z",
		})
		require.NoError(t, err)
		require.NotNil(t, updated)

		assert.Equal(t, created.ID(), updated.ID())
		assert.Equal(t, created[FieldCreatedAt], updated[FieldCreatedAt])
		assert.EqualValues(t, 1, updated["a"])
		assert.Equal(t, "y", updated["b"])
		assert.Equal(t, true, updated["c"])

		found, err := s.FindByID(ctx, "things", created.ID())
		require.NoError(t, err)
		assert.Equal(t, updated, found)
	})

	t.Run("UpdateWithEmptyFieldsOnlyTouchesUpdatedAt", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Create(ctx, "things", Record{"a": 1, "b": "x"})
		require.NoError(t, err)

		updated, err := s.Update(ctx, "things", created.ID(), Record{})
		require.NoError(t, err)
		require.NotNil(t, updated)

		before, _ := created.Time(FieldUpdatedAt)
		after, _ := updated.Time(FieldUpdatedAt)
		assert.True(t, after.After(before), "updatedAt did not advance")

		strip := func(r Record) Record {
			c := r.Clone()
			delete(c, FieldUpdatedAt)
			return c
		}
		assert.Equal(t, strip(created), strip(updated))
	})

	t.Run("UpdateMissingIsAbsent", func(t *testing.T) {
		s := newStore(t)
		updated, err := s.Update(ctx, "things", "nope", Record{"a": 1})
		require.NoError(t, err)
		assert.Nil(t, updated)

		all, err := s.Find(ctx, "things", nil)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("FindOneAndDeleteWithoutMatchLeavesCollection", func(t *testing.T) {
		s := newStore(t)
		for i := 0; i < 3; i++ {
			_, err := s.Create(ctx, "things", Record{"n": i})
			require.NoError(t, err)
		}
		before, err := s.Find(ctx, "things", nil)
		require.NoError(t, err)

		deleted, err := s.FindOneAndDelete(ctx, "things", Criteria{Eq("n", 42)})
		require.NoError(t, err)
		assert.Nil(t, deleted)

		after, err := s.Find(ctx, "things", nil)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("FindOneAndDeleteRemovesFirstMatch", func(t *testing.T) {
		s := newStore(t)
		var ids []string
		for i := 0; i < 3; i++ {
			rec, err := s.Create(ctx, "things", Record{"kind": "dup", "n": i})
			require.NoError(t, err)
			ids = append(ids, rec.ID())
		}

		deleted, err := s.FindOneAndDelete(ctx, "things", Criteria{Eq("kind", "dup")})
		require.NoError(t, err)
		require.NotNil(t, deleted)
		assert.Equal(t, ids[0], deleted.ID())

		rest, err := s.Find(ctx, "things", nil)
		require.NoError(t, err)
		require.Len(t, rest, 2)
		assert.Equal(t, ids[1], rest[0].ID())
		assert.Equal(t, ids[2], rest[1].ID())
	})

	t.Run("CollectionsAreIndependent", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Create(ctx, "left", Record{"side": "l"})
		require.NoError(t, err)

		right, err := s.Find(ctx, "right", nil)
		require.NoError(t, err)
		assert.Empty(t, right)
	})

	t.Run("TransactionLifecycle", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Create(ctx, TransactionsCollection, Record{
			"userId":   "U",
			"amount":   100,
			"type":     "income",
			"category": "salary",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID())
		assert.Equal(t, "income", created["type"])
		assert.Equal(t, created[FieldCreatedAt], created[FieldUpdatedAt])

		updated, err := s.Update(ctx, TransactionsCollection, created.ID(), Record{"amount": 150})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.EqualValues(t, 150, updated["amount"])
		assert.Equal(t, created[FieldCreatedAt], updated[FieldCreatedAt])
		before, _ := created.Time(FieldUpdatedAt)
		after, _ := updated.Time(FieldUpdatedAt)
		assert.True(t, after.After(before))

		deleted, err := s.FindOneAndDelete(ctx, TransactionsCollection, ByID(created.ID()))
		require.NoError(t, err)
		require.NotNil(t, deleted)
		assert.EqualValues(t, 150, deleted["amount"])

		gone, err := s.FindByID(ctx, TransactionsCollection, created.ID())
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}
