package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/satishbabariya/querycatalog/internal/adapters/database"
	"github.com/satishbabariya/querycatalog/internal/adapters/database/sqlite"
	"github.com/satishbabariya/querycatalog/internal/core/query/builder"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/satishbabariya/querycatalog/internal/core/schema"
	"github.com/satishbabariya/querycatalog/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(t *testing.T) *Factory {
	t.Helper()
	ctx := context.Background()
	adapter, err := sqlite.NewSQLiteAdapter(database.Config{URL: filepath.Join(t.TempDir(), "session.db")})
	require.NoError(t, err)
	require.NoError(t, adapter.Connect(ctx))
	t.Cleanup(func() { adapter.Disconnect(ctx) })
	require.NoError(t, fixtures.Load(ctx, adapter))
	return NewFactory(adapter, schema.AdventureWorks(), 8)
}

func shipMethod(id int) *domain.Query {
	return builder.From(schema.ShipMethod, "s").
		Where(builder.Equals(builder.Col("s", "ShipMethodID"), id)).
		GetQuery()
}

func TestSession_Tracking(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()

	err := Run(ctx, f, func(s *Session) error {
		assert.True(t, s.Tracking())

		first, err := s.Query(ctx, shipMethod(1))
		require.NoError(t, err)
		second, err := s.Query(ctx, shipMethod(1))
		require.NoError(t, err)

		require.Len(t, first, 1)
		require.Len(t, second, 1)
		first[0]["Name"] = "changed"
		assert.Equal(t, "changed", second[0]["Name"])
		assert.Equal(t, 1, s.TrackedEntities())
		assert.Equal(t, 2, s.RoundTrips())
		return nil
	})
	require.NoError(t, err)

	stats := f.CacheStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestSession_NoTracking(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()

	err := Run(ctx, f, func(s *Session) error {
		s.NoTracking()
		assert.False(t, s.Tracking())

		first, err := s.Query(ctx, shipMethod(2))
		require.NoError(t, err)
		second, err := s.Query(ctx, shipMethod(2))
		require.NoError(t, err)

		first[0]["Name"] = "changed"
		assert.Equal(t, "ZY - EXPRESS", second[0]["Name"])
		assert.Zero(t, s.TrackedEntities())
		return nil
	})
	require.NoError(t, err)
}

func TestSession_TranslationFailureSkipsDatabase(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()

	err := Run(ctx, f, func(s *Session) error {
		_, err := s.Query(ctx, builder.From("Missing", "m").GetQuery())
		assert.True(t, domain.IsTranslationFailure(err))
		assert.Zero(t, s.RoundTrips())
		assert.Empty(t, s.Statements())
		return err
	})
	assert.ErrorIs(t, err, domain.ErrTranslation)
}

func TestSession_QueryInto(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()

	var methods []struct {
		ShipMethodID int
		Name         string
	}
	err := Run(ctx, f, func(s *Session) error {
		q := builder.From(schema.ShipMethod, "s").OrderBy(builder.Col("s", "ShipMethodID"), domain.Desc).Take(2)
		if err := s.QueryInto(ctx, q.GetQuery(), &methods); err != nil {
			return err
		}
		assert.Equal(t, []string{`SELECT "s"."ShipMethodID", "s"."Name" FROM "ShipMethod" AS "s" ORDER BY "s"."ShipMethodID" DESC LIMIT ?`}, s.Statements())
		return nil
	})
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, 5, methods[0].ShipMethodID)
	assert.Equal(t, "CARGO TRANSPORT 5", methods[0].Name)
}

func TestRun_ClosesSession(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()

	var kept *Session
	sentinel := errors.New("stop")
	err := Run(ctx, f, func(s *Session) error {
		kept = s
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	_, err = kept.Query(ctx, shipMethod(1))
	assert.ErrorIs(t, err, ErrClosed)
	assert.True(t, domain.IsConnectionFailure(err))
	assert.NoError(t, kept.Close())

	// The single SQLite connection was returned to the pool.
	require.NoError(t, Run(ctx, f, func(s *Session) error { return nil }))
}

func subcategoriesWithProducts(n int) *domain.Query {
	return builder.From(schema.ProductSubcategory, "s").
		Include("Products").
		OrderBy(builder.Col("s", "Name"), domain.Asc).
		Take(n).
		GetQuery()
}

func TestSession_TrackedCollectionIncludeRunTwice(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()

	err := Run(ctx, f, func(s *Session) error {
		first, err := s.Query(ctx, subcategoriesWithProducts(3))
		require.NoError(t, err)
		second, err := s.Query(ctx, subcategoriesWithProducts(3))
		require.NoError(t, err)

		require.Len(t, first, 3)
		require.Len(t, second, 3)
		for i := range second {
			products := second[i]["Products"].([]map[string]interface{})
			assert.Len(t, products, 2, second[i]["Name"])
			assert.Equal(t, first[i]["Name"], second[i]["Name"])
		}
		return nil
	})
	require.NoError(t, err)
}

func TestSession_SharedCacheKeepsListValuesApart(t *testing.T) {
	f := newFactory(t)
	ctx := context.Background()
	inClasses := func(classes []string) *domain.Query {
		return builder.From(schema.Product, "p").
			Select(builder.Field("p", "ProductID"), builder.Field("p", "Class")).
			Where(builder.In(builder.Col("p", "Class"), classes)).
			OrderBy(builder.Col("p", "Name"), domain.Asc).
			Take(10).
			GetQuery()
	}

	require.NoError(t, Run(ctx, f, func(s *Session) error {
		rows, err := s.Query(ctx, inClasses([]string{"H M"}))
		require.NoError(t, err)
		assert.Empty(t, rows)
		return nil
	}))

	require.NoError(t, Run(ctx, f, func(s *Session) error {
		rows, err := s.Query(ctx, inClasses([]string{"H", "M"}))
		require.NoError(t, err)
		assert.Len(t, rows, 10)
		assert.Contains(t, s.Statements()[0], `IN (?, ?)`)
		return nil
	}))

	assert.Equal(t, int64(0), f.CacheStats().Hits)
	assert.Equal(t, int64(2), f.CacheStats().Misses)
}
