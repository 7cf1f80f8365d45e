package sqlb

import "github.com/fyerfyer/fyer-sqlb/sqlb/internal/ferr"

// 对外暴露的错误类型，使用 errors.Is 判断
var (
	ErrSequencing      = ferr.ErrSequencing
	ErrEmptyExpression = ferr.ErrEmptyExpression
	ErrMissingClause   = ferr.ErrMissingClause
	ErrArityMismatch   = ferr.ErrArityMismatch
	ErrInvalidArgument = ferr.ErrInvalidArgument
	ErrNotImplemented  = ferr.ErrNotImplemented

	ErrNoRows           = ferr.ErrNoRows
	ErrCacheMiss        = ferr.ErrCacheMiss
	ErrUnknownQueryType = ferr.ErrUnknownQueryType
	ErrDBClosed         = ferr.ErrDBClosed
)
