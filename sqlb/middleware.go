package sqlb

import (
	"context"
	"database/sql"

	"github.com/fyerfyer/fyer-sqlb/sqlb/internal/ferr"
)

const (
	// QueryTypeQuery 返回行的语句
	QueryTypeQuery = "query"
	// QueryTypeExec 不返回行的语句
	QueryTypeExec = "exec"
)

// Handler 处理器接口定义
type Handler interface {
	QueryHandler(ctx context.Context, qc *QueryContext) (*QueryResult, error)
}

// Middleware 中间件定义
type Middleware func(Handler) Handler

// QueryContext 查询上下文定义，直接执行 SQL 时 Statement 为 nil
type QueryContext struct {
	QueryType string
	SQL       string
	Statement Statement
}

// QueryResult 查询结果定义
type QueryResult struct {
	Rows   []map[string]any
	Result Result
}

// HandlerFunc 用于将函数转换为 Handler 接口
type HandlerFunc func(ctx context.Context, qc *QueryContext) (*QueryResult, error)

func (h HandlerFunc) QueryHandler(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
	return h(ctx, qc)
}

// BuildChain 构建处理器调用链，最先添加的中间件最先执行
func BuildChain(core Handler, ms []Middleware) Handler {
	h := core
	for i := len(ms) - 1; i >= 0; i-- {
		h = ms[i](h)
	}
	return h
}

// CoreHandler 中间件链的最后一环，负责实际访问数据库
type CoreHandler struct {
	sqlDB *sql.DB
}

func (c *CoreHandler) QueryHandler(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
	switch qc.QueryType {
	case QueryTypeQuery:
		rows, err := c.sqlDB.QueryContext(ctx, qc.SQL)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		data, err := readRows(rows)
		if err != nil {
			return nil, err
		}
		return &QueryResult{Rows: data}, nil
	case QueryTypeExec:
		res, err := c.sqlDB.ExecContext(ctx, qc.SQL)
		return &QueryResult{Result: Result{res: res, err: err}}, err
	default:
		return nil, ferr.ErrQueryType(qc.QueryType)
	}
}

// readRows 读取全部行，[]byte 转换为 string
func readRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	result := make([]map[string]any, 0)
	for rows.Next() {
		if err = rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
