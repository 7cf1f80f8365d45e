package ferr

import (
	"errors"
	"fmt"
)

// 渲染阶段的错误类型，所有具体错误都会包装其中之一
var (
	ErrSequencing      = errors.New("sqlb: method invoked out of order")
	ErrEmptyExpression = errors.New("sqlb: expression is empty")
	ErrMissingClause   = errors.New("sqlb: required clause is missing")
	ErrArityMismatch   = errors.New("sqlb: arity mismatch")
	ErrInvalidArgument = errors.New("sqlb: invalid argument")
	ErrNotImplemented  = errors.New("sqlb: not implemented")
)

// 执行阶段的错误
var (
	ErrNoRows           = errors.New("sqlb: data not found")
	ErrCacheMiss        = errors.New("sqlb: cache miss")
	ErrUnknownQueryType = errors.New("sqlb: unknown query type")
	ErrDBClosed         = errors.New("sqlb: operation on a closed database")
)

func ErrMissingLogicOperator(predicate string) error {
	return fmt.Errorf("%w: a logic operator has to be set before adding %q", ErrSequencing, predicate)
}

func ErrValueWithoutColumn() error {
	return fmt.Errorf("%w: column has to be set before value", ErrSequencing)
}

func ErrDanglingColumn(col string) error {
	return fmt.Errorf("%w: column %s has no value", ErrSequencing, col)
}

func ErrValuesWithoutColumns() error {
	return fmt.Errorf("%w: columns have to be set before values", ErrSequencing)
}

func ErrJoinWayNotSet(method string) error {
	return fmt.Errorf("%w: one of inner, natural, left[Outer], right[Outer] has to be called before %s", ErrSequencing, method)
}

func ErrEmptyCondition() error {
	return fmt.Errorf("%w: no comparison was added to the condition", ErrEmptyExpression)
}

// ErrEmptyJoin 同时属于 ErrSequencing 与 ErrEmptyExpression
func ErrEmptyJoin() error {
	return fmt.Errorf("%w: %w: one of inner, natural, left[Outer], right[Outer] has to be called before build", ErrSequencing, ErrEmptyExpression)
}

func ErrMissingTable(stmt string) error {
	return fmt.Errorf("%w: %s statement requires a table", ErrMissingClause, stmt)
}

func ErrMissingColumns(stmt string) error {
	return fmt.Errorf("%w: %s statement requires columns", ErrMissingClause, stmt)
}

func ErrMissingValues(stmt string) error {
	return fmt.Errorf("%w: %s statement requires values", ErrMissingClause, stmt)
}

func ErrRowLength(want, got int) error {
	return fmt.Errorf("%w: value row has %d elements, want %d", ErrArityMismatch, got, want)
}

func ErrPairLength(cols, vals int) error {
	return fmt.Errorf("%w: %d columns paired with %d values", ErrArityMismatch, cols, vals)
}

func ErrInvalidValue(v any) error {
	return fmt.Errorf("%w: illegal value type %T", ErrInvalidArgument, v)
}

func ErrNonFiniteFloat(f float64) error {
	return fmt.Errorf("%w: float value must be finite, got %v", ErrInvalidArgument, f)
}

func ErrInvalidOrderMode(mode string) error {
	return fmt.Errorf("%w: order mode has to be asc or desc, got %q", ErrInvalidArgument, mode)
}

func ErrInvalidLikeLevel(level int) error {
	return fmt.Errorf("%w: like level has to be within 0..3, got %d", ErrInvalidArgument, level)
}

func ErrInvalidJoinWay(way string) error {
	return fmt.Errorf("%w: join way has to be one of inner, left[Outer], right[Outer], got %q", ErrInvalidArgument, way)
}

func ErrColumnWithoutTable(col string) error {
	return fmt.Errorf("%w: column %s requires a referenced table", ErrInvalidArgument, col)
}

func ErrNegativeNumeric(n int) error {
	return fmt.Errorf("%w: expected a non-negative integer, got %d", ErrInvalidArgument, n)
}

func ErrInvalidKind(kind any) error {
	return fmt.Errorf("%w: unknown kind %v", ErrInvalidArgument, kind)
}

func ErrInvalidKindArgs(kind string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, kind, reason)
}

func ErrUnsupportedStatement(stmt any) error {
	return fmt.Errorf("%w: unsupported statement %T", ErrInvalidArgument, stmt)
}

func ErrHavingNotSupported() error {
	return fmt.Errorf("%w: having is not supported", ErrNotImplemented)
}

func ErrQueryType(queryType string) error {
	return fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
}
