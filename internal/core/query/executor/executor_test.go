package executor

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/satishbabariya/querycatalog/internal/core/query/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "executor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE "ShipMethod" ("ShipMethodID" INTEGER PRIMARY KEY, "Name" TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO "ShipMethod" VALUES (1, 'XRQ - TRUCK GROUND'), (2, 'ZY - EXPRESS')`)
	require.NoError(t, err)
	return db
}

func shipMethods(where string, args ...interface{}) *domain.CompiledQuery {
	return &domain.CompiledQuery{
		SQL: domain.SQL{
			Query:   `SELECT "s"."ShipMethodID", "s"."Name" FROM "ShipMethod" AS "s"` + where + ` ORDER BY "s"."ShipMethodID" ASC`,
			Args:    args,
			Dialect: domain.SQLite,
		},
		Mapping: domain.ResultMapping{Model: "ShipMethod", Key: []string{"ShipMethodID"}},
	}
}

func TestExecute(t *testing.T) {
	db := openDB(t)
	e := NewQueryExecutor(db, NewIdentityMap())

	rows, err := e.Execute(context.Background(), shipMethods(""))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0]["ShipMethodID"])
	assert.Equal(t, "XRQ - TRUCK GROUND", rows[0]["Name"])

	again, err := e.Execute(context.Background(), shipMethods(` WHERE "s"."ShipMethodID" = ?`, 1))
	require.NoError(t, err)
	require.Len(t, again, 1)
	samePointer(t, rows[0], again[0])
}

func TestExecute_Empty(t *testing.T) {
	e := NewQueryExecutor(openDB(t), nil)

	rows, err := e.Execute(context.Background(), shipMethods(` WHERE "s"."ShipMethodID" > ?`, 10))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExecuteInto(t *testing.T) {
	e := NewQueryExecutor(openDB(t), nil)

	var methods []struct {
		ShipMethodID int
		Name         string
	}
	require.NoError(t, e.ExecuteInto(context.Background(), shipMethods(""), &methods))
	require.Len(t, methods, 2)
	assert.Equal(t, 2, methods[1].ShipMethodID)
	assert.Equal(t, "ZY - EXPRESS", methods[1].Name)
}

func TestExecute_Failures(t *testing.T) {
	db := openDB(t)
	e := NewQueryExecutor(db, nil)

	bad := shipMethods("")
	bad.SQL.Query = `SELECT "Missing" FROM "ShipMethod"`
	_, err := e.Execute(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, domain.IsExecutionFailure(err))

	conn, err := db.Conn(context.Background())
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = NewQueryExecutor(conn, nil).Execute(context.Background(), shipMethods(""))
	require.Error(t, err)
	assert.True(t, domain.IsConnectionFailure(err))
}
