package sqlb

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	var rows []map[string]any
	assert.ErrorIs(t, c.Get(ctx, "missing", &rows), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []map[string]any{{"name": "Tom"}}, 0))
	require.NoError(t, c.Get(ctx, "k", &rows))
	assert.Equal(t, []map[string]any{{"name": "Tom"}}, rows)

	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &rows), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, c.Clear(ctx))
	var n int
	assert.ErrorIs(t, c.Get(ctx, "a", &n), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "b", &n), ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	var v string
	assert.ErrorIs(t, c.Get(ctx, "k", &v), ErrCacheMiss)
}

func TestCacheMiddleware(t *testing.T) {
	db, mock := newMockDB(t, WithResultCache(NewMemoryCache(time.Minute, time.Minute)))
	stmt := func() *Select {
		return NewSelect().Table(Tbl("users")).Where(NewCondition().Equal(Col("id"), Int(1)))
	}

	mock.ExpectQuery("SELECT * FROM `users` WHERE `id` = 1;").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Tom"))

	rows, err := db.Fetch(context.Background(), stmt())
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": int64(1), "name": "Tom"}}, rows)

	// 命中缓存时不访问数据库，数字经过 JSON 后为 float64
	rows, err = db.Fetch(context.Background(), stmt())
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": float64(1), "name": "Tom"}}, rows)
	require.NoError(t, mock.ExpectationsWereMet())

	// exec 之后缓存失效
	mock.ExpectExec("UPDATE `users` SET `name`=\"Jerry\" WHERE `id` = 1;").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT * FROM `users` WHERE `id` = 1;").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Jerry"))

	_, err = db.Exec(context.Background(), NewUpdate().Table(Tbl("users")).
		Column(Col("name")).Value(Str("Jerry")).
		Where(NewCondition().Equal(Col("id"), Int(1))))
	require.NoError(t, err)

	rows, err = db.Fetch(context.Background(), stmt())
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": int64(1), "name": "Jerry"}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheMiddleware_ErrorNotCached(t *testing.T) {
	db, mock := newMockDB(t, WithResultCache(NewMemoryCache(time.Minute, time.Minute), WithCacheKeyPrefix("test")))
	mock.ExpectQuery("SELECT * FROM `users`;").WillReturnError(assert.AnError)
	mock.ExpectQuery("SELECT * FROM `users`;").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	_, err := db.Fetch(context.Background(), NewSelect().Table(Tbl("users")))
	assert.ErrorIs(t, err, assert.AnError)

	rows, err := db.Fetch(context.Background(), NewSelect().Table(Tbl("users")))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRedisCache 需要本地 Redis，通过 SQLB_REDIS_ADDR 指定地址
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("SQLB_REDIS_ADDR")
	if addr == "" {
		t.Skip("SQLB_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	_, err := client.Ping(ctx).Result()
	require.NoError(t, err)

	c := NewRedisCache(client, "sqlb-test:")
	require.NoError(t, c.Clear(ctx))

	var rows []map[string]any
	assert.ErrorIs(t, c.Get(ctx, "k", &rows), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []map[string]any{{"name": "Tom"}}, time.Minute))
	require.NoError(t, c.Get(ctx, "k", &rows))
	assert.Equal(t, []map[string]any{{"name": "Tom"}}, rows)

	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &rows), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Clear(ctx))
	var n int
	assert.ErrorIs(t, c.Get(ctx, "a", &n), ErrCacheMiss)
}

// scanRecorder 记录 Scan 的匹配模式和 Del 删除的键
type scanRecorder struct {
	redis.Cmdable
	keys     []string
	patterns []string
	deleted  []string
}

func (r *scanRecorder) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	r.patterns = append(r.patterns, match)
	prefix := strings.TrimSuffix(match, "*")
	var res []string
	for _, k := range r.keys {
		if strings.HasPrefix(k, prefix) {
			res = append(res, k)
		}
	}
	return redis.NewScanCmdResult(res, 0, nil)
}

func (r *scanRecorder) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	r.deleted = append(r.deleted, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestRedisCache_ClearScope(t *testing.T) {
	testCases := []struct {
		name        string
		prefix      string
		wantPattern string
		wantDeleted []string
	}{
		{
			name:        "empty prefix",
			wantPattern: DefaultRedisPrefix + "*",
			wantDeleted: []string{"sqlb:users"},
		},
		{
			name:        "custom prefix",
			prefix:      "app:",
			wantPattern: "app:*",
			wantDeleted: []string{"app:orders"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &scanRecorder{keys: []string{"session:42", "unrelated:key", "sqlb:users", "app:orders"}}
			c := NewRedisCache(rec, tc.prefix)
			require.NoError(t, c.Clear(context.Background()))
			assert.Equal(t, []string{tc.wantPattern}, rec.patterns)
			assert.Equal(t, tc.wantDeleted, rec.deleted)
		})
	}
}
