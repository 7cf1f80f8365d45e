package sqlb

import (
	"context"
	"database/sql"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/fyerfyer/fyer-sqlb/logger"
	"github.com/fyerfyer/fyer-sqlb/sqlb/internal/ferr"
)

// DB 渲染语句并通过中间件链交给 database/sql 执行
type DB struct {
	sqlDB       *sql.DB
	handler     Handler
	middlewares []Middleware
	logger      logger.Logger
	closed      atomic.Bool
}

// DBOption 定义配置项
type DBOption func(*DB) error

// WithLogger 设置日志记录器
func WithLogger(l logger.Logger) DBOption {
	return func(db *DB) error {
		db.logger = l
		return nil
	}
}

// WithMiddlewares 注册中间件
func WithMiddlewares(ms ...Middleware) DBOption {
	return func(db *DB) error {
		db.Use(ms...)
		return nil
	}
}

// WithResultCache 缓存 SELECT 结果，任何 exec 都会清空缓存
func WithResultCache(cache Cache, opts ...CacheOption) DBOption {
	return func(db *DB) error {
		db.Use(CacheMiddleware(cache, opts...))
		return nil
	}
}

// Open 使用已有数据库创建 DB 对象
func Open(sqlDB *sql.DB, opts ...DBOption) (*DB, error) {
	db := &DB{
		sqlDB:  sqlDB,
		logger: logger.Nop(),
	}
	db.handler = &CoreHandler{sqlDB: sqlDB}

	for _, opt := range opts {
		if err := opt(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// OpenDB 使用 dsn 和驱动创建数据库后创建 DB 对象
func OpenDB(driver, dsn string, opts ...DBOption) (*DB, error) {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return Open(sqlDB, opts...)
}

// Use 添加中间件
func (db *DB) Use(ms ...Middleware) {
	db.middlewares = append(db.middlewares, ms...)
	db.handler = BuildChain(&CoreHandler{sqlDB: db.sqlDB}, db.middlewares)
}

// Close 关闭数据库连接，重复关闭不会报错
func (db *DB) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return nil
	}
	return db.sqlDB.Close()
}

// Fetch 执行查询语句并返回全部行
func (db *DB) Fetch(ctx context.Context, s *Select) ([]map[string]any, error) {
	query, err := db.render(s)
	if err != nil {
		return nil, err
	}
	res, err := db.handle(ctx, &QueryContext{QueryType: QueryTypeQuery, SQL: query, Statement: s})
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// FetchOne 返回第一行，没有数据时返回 ErrNoRows
func (db *DB) FetchOne(ctx context.Context, s *Select) (map[string]any, error) {
	rows, err := db.Fetch(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ferr.ErrNoRows
	}
	return rows[0], nil
}

// FetchMany 并发执行多个查询，结果顺序与参数一致，limit <= 0 表示不限制并发数
func (db *DB) FetchMany(ctx context.Context, limit int, selects ...*Select) ([][]map[string]any, error) {
	res := make([][]map[string]any, len(selects))
	eg, egCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for idx, s := range selects {
		idx, s := idx, s
		eg.Go(func() error {
			rows, err := db.Fetch(egCtx, s)
			if err != nil {
				return err
			}
			res[idx] = rows
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// Exec 执行 INSERT / UPDATE / DELETE
func (db *DB) Exec(ctx context.Context, stmt Statement) (Result, error) {
	if _, ok := stmt.(*Select); ok {
		return Result{}, ferr.ErrUnsupportedStatement(stmt)
	}
	query, err := db.render(stmt)
	if err != nil {
		return Result{err: err}, err
	}
	return db.exec(ctx, &QueryContext{QueryType: QueryTypeExec, SQL: query, Statement: stmt})
}

// Query 执行已经渲染好的查询
func (db *DB) Query(ctx context.Context, query string) ([]map[string]any, error) {
	res, err := db.handle(ctx, &QueryContext{QueryType: QueryTypeQuery, SQL: query})
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// ExecSQL 执行已经渲染好的非查询语句
func (db *DB) ExecSQL(ctx context.Context, query string) (Result, error) {
	return db.exec(ctx, &QueryContext{QueryType: QueryTypeExec, SQL: query})
}

func (db *DB) exec(ctx context.Context, qc *QueryContext) (Result, error) {
	res, err := db.handle(ctx, qc)
	if err != nil {
		return Result{err: err}, err
	}
	return res.Result, nil
}

func (db *DB) render(stmt Statement) (string, error) {
	query, err := Render(stmt)
	if err != nil {
		db.logger.Error("render statement", logger.FieldError(err))
		return "", err
	}
	return query, nil
}

func (db *DB) handle(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
	if db.closed.Load() {
		return nil, ferr.ErrDBClosed
	}
	db.logger.Debug("execute statement",
		logger.String("type", qc.QueryType),
		logger.String("sql", qc.SQL))

	res, err := db.handler.QueryHandler(ctx, qc)
	if err != nil {
		db.logger.Error("execute statement",
			logger.String("type", qc.QueryType),
			logger.String("sql", qc.SQL),
			logger.FieldError(err))
		return nil, err
	}
	if res == nil {
		res = &QueryResult{}
	}
	return res, nil
}
