package prometheus

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/fyer-sqlb/sqlb"
)

func TestMiddlewareBuilder_Build(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mockDB.Close()

	reg := prometheus.NewRegistry()
	builder := &MiddlewareBuilder{
		NameSpace:  "fyer",
		SubSystem:  "sqlb",
		Name:       "statement_duration_microseconds",
		Help:       "statement latency",
		Registerer: reg,
	}
	db, err := sqlb.Open(mockDB, sqlb.WithMiddlewares(builder.Build()))
	require.NoError(t, err)

	mock.ExpectQuery("SELECT * FROM `users`;").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT * FROM `users`;").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("DELETE FROM `users`;").WillReturnError(assert.AnError)

	for i := 0; i < 2; i++ {
		_, err = db.Fetch(context.Background(), sqlb.NewSelect().Table(sqlb.Tbl("users")))
		require.NoError(t, err)
	}
	_, err = db.Exec(context.Background(), sqlb.NewDelete().Table(sqlb.Tbl("users")))
	assert.Error(t, err)

	// query/ok 与 exec/error 两组标签
	assert.Equal(t, 2, testutil.CollectAndCount(builder.Collector()))
	count, err := testutil.GatherAndCount(reg, "fyer_sqlb_statement_duration_microseconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
