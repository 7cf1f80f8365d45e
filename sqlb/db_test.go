package sqlb

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/fyer-sqlb/logger"
)

func newMockDB(t *testing.T, opts ...DBOption) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := Open(mockDB, opts...)
	require.NoError(t, err)
	return db, mock
}

func TestDB_Fetch(t *testing.T) {
	testCases := []struct {
		name     string
		stmt     *Select
		mockFn   func(mock sqlmock.Sqlmock)
		wantRows []map[string]any
		wantErr  error
	}{
		{
			name: "rows",
			stmt: NewSelect().Table(Tbl("users")).Where(NewCondition().Greater(Col("id"), Int(0))),
			mockFn: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT * FROM `users` WHERE `id` > 0;").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
						AddRow(int64(1), []byte("Tom")).
						AddRow(int64(2), nil))
			},
			wantRows: []map[string]any{
				{"id": int64(1), "name": "Tom"},
				{"id": int64(2), "name": nil},
			},
		},
		{
			name: "no rows",
			stmt: NewSelect().Table(Tbl("users")),
			mockFn: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT * FROM `users`;").
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantRows: []map[string]any{},
		},
		{
			name:    "render error",
			stmt:    NewSelect(),
			mockFn:  func(mock sqlmock.Sqlmock) {},
			wantErr: ErrMissingClause,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tc.mockFn(mock)

			rows, err := db.Fetch(context.Background(), tc.stmt)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.wantRows, rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDB_FetchDriverError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("boom")
	mock.ExpectQuery("SELECT * FROM `users`;").WillReturnError(boom)

	_, err := db.Fetch(context.Background(), NewSelect().Table(Tbl("users")))
	assert.ErrorIs(t, err, boom)
}

func TestDB_FetchOne(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT * FROM `users` LIMIT 0, 1;").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery("SELECT * FROM `users` LIMIT 0, 1;").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	row, err := db.FetchOne(context.Background(), NewSelect().Table(Tbl("users")).Limit(1))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": int64(7)}, row)

	_, err = db.FetchOne(context.Background(), NewSelect().Table(Tbl("users")).Limit(1))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestDB_Exec(t *testing.T) {
	testCases := []struct {
		name         string
		stmt         Statement
		mockFn       func(mock sqlmock.Sqlmock)
		wantAffected int64
		wantLastID   int64
		wantErr      error
	}{
		{
			name: "insert",
			stmt: NewInsert().Table(Tbl("users")).Columns(Col("name")).Values(Str("Tom")),
			mockFn: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO `users` (`name`) VALUES (\"Tom\");").
					WillReturnResult(sqlmock.NewResult(3, 1))
			},
			wantAffected: 1,
			wantLastID:   3,
		},
		{
			name: "update",
			stmt: NewUpdate().Table(Tbl("users")).Column(Col("age")).Value(Int(20)).
				Where(NewCondition().Equal(Col("id"), Int(3))),
			mockFn: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE `users` SET `age`=20 WHERE `id` = 3;").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantAffected: 1,
		},
		{
			name: "delete",
			stmt: NewDelete().Table(Tbl("users")),
			mockFn: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM `users`;").
					WillReturnResult(sqlmock.NewResult(0, 5))
			},
			wantAffected: 5,
		},
		{
			name:    "select rejected",
			stmt:    NewSelect().Table(Tbl("users")),
			mockFn:  func(mock sqlmock.Sqlmock) {},
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "render error",
			stmt:    NewUpdate().Table(Tbl("users")),
			mockFn:  func(mock sqlmock.Sqlmock) {},
			wantErr: ErrMissingClause,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tc.mockFn(mock)

			res, err := db.Exec(context.Background(), tc.stmt)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)

			affected, err := res.RowsAffected()
			require.NoError(t, err)
			assert.Equal(t, tc.wantAffected, affected)
			lastID, err := res.LastInsertId()
			require.NoError(t, err)
			assert.Equal(t, tc.wantLastID, lastID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDB_ExecDriverError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("duplicate entry")
	mock.ExpectExec("DELETE FROM `users`;").WillReturnError(boom)

	res, err := db.Exec(context.Background(), NewDelete().Table(Tbl("users")))
	assert.ErrorIs(t, err, boom)
	_, err = res.RowsAffected()
	assert.ErrorIs(t, err, boom)
}

func TestDB_RawSQL(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT 1 AS `one`;").
		WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(int64(1)))
	mock.ExpectExec("TRUNCATE `users`;").WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := db.Query(context.Background(), "SELECT 1 AS `one`;")
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"one": int64(1)}}, rows)

	_, err = db.ExecSQL(context.Background(), "TRUNCATE `users`;")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_FetchMany(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery("SELECT * FROM `a`;").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT * FROM `b`;").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	res, err := db.FetchMany(context.Background(), 2,
		NewSelect().Table(Tbl("a")),
		NewSelect().Table(Tbl("b")))
	require.NoError(t, err)
	want := [][]map[string]any{
		{{"id": int64(1)}},
		{{"id": int64(2)}},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	_, err = db.FetchMany(context.Background(), 0, NewSelect())
	assert.ErrorIs(t, err, ErrMissingClause)
}

func TestDB_Close(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectClose()

	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	_, err := db.Fetch(context.Background(), NewSelect().Table(Tbl("users")))
	assert.ErrorIs(t, err, ErrDBClosed)
	_, err = db.ExecSQL(context.Background(), "DELETE FROM `users`;")
	assert.ErrorIs(t, err, ErrDBClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestMiddleware 中间件按注册顺序执行
func TestMiddleware(t *testing.T) {
	var order []string
	record := func(name string) Middleware {
		return func(next Handler) Handler {
			return HandlerFunc(func(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
				order = append(order, name+" start")
				res, err := next.QueryHandler(ctx, qc)
				order = append(order, name+" end")
				return res, err
			})
		}
	}

	db, mock := newMockDB(t, WithMiddlewares(record("log")))
	db.Use(record("metric"))
	mock.ExpectQuery("SELECT * FROM `users`;").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	_, err := db.Fetch(context.Background(), NewSelect().Table(Tbl("users")))
	require.NoError(t, err)
	assert.Equal(t, []string{"log start", "metric start", "metric end", "log end"}, order)
}

func TestMiddleware_ShortCircuit(t *testing.T) {
	var seen *QueryContext
	stub := func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
			seen = qc
			return &QueryResult{Rows: []map[string]any{{"id": 1}}}, nil
		})
	}
	db, mock := newMockDB(t, WithMiddlewares(stub))

	stmt := NewSelect().Table(Tbl("users"))
	rows, err := db.Fetch(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": 1}}, rows)
	require.NotNil(t, seen)
	assert.Equal(t, QueryTypeQuery, seen.QueryType)
	assert.Equal(t, "SELECT * FROM `users`;", seen.SQL)
	assert.Same(t, stmt, seen.Statement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoreHandler_UnknownQueryType(t *testing.T) {
	db, _ := newMockDB(t)
	_, err := db.handler.QueryHandler(context.Background(), &QueryContext{QueryType: "prepare"})
	assert.ErrorIs(t, err, ErrUnknownQueryType)
}

func TestDB_Logger(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logger.New(logger.WithOutput(buf), logger.WithLevel(logger.DebugLevel))
	db, mock := newMockDB(t, WithLogger(l))
	mock.ExpectExec("DELETE FROM `users`;").WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := db.Exec(context.Background(), NewDelete().Table(Tbl("users")))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "DELETE FROM `users`;")

	buf.Reset()
	_, err = db.Exec(context.Background(), NewDelete())
	assert.ErrorIs(t, err, ErrMissingClause)
	assert.Contains(t, buf.String(), `"level":"error"`)
}
