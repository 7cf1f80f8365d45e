package sqlb

import (
	"strings"

	"github.com/fyerfyer/fyer-sqlb/sqlb/internal/ferr"
)

// Expression 可以交给 ExpressionBuilderFactory 的表达式
type Expression interface {
	expression()
}

// ConditionExpression 具备条件能力的表达式
type ConditionExpression interface {
	Expression
	Entries() []ConditionEntry
	Err() error
}

// JoinExpression 具备连接能力的表达式
type JoinExpression interface {
	Expression
	State() JoinState
	Err() error
}

// ExpressionBuilder 把表达式渲染成 SQL 片段，片段以一个空格结尾
type ExpressionBuilder interface {
	Build() (string, error)
}

// RebuildableBuilder 可以复用同一个实例渲染多个表达式
type RebuildableBuilder interface {
	ExpressionBuilder
	Rebuild(expr JoinExpression) (string, error)
}

// ExpressionBuilderFactory 根据表达式的能力选择构建器
type ExpressionBuilderFactory struct{}

func NewExpressionBuilderFactory() *ExpressionBuilderFactory {
	return &ExpressionBuilderFactory{}
}

// Create 条件返回 ConditionBuilder，连接返回 JoinBuilder，其余返回空构建器
func (f *ExpressionBuilderFactory) Create(expr Expression) ExpressionBuilder {
	switch e := expr.(type) {
	case ConditionExpression:
		if c, ok := e.(*Condition); ok && c == nil {
			return NullBuilder{}
		}
		return NewConditionBuilder(e)
	case JoinExpression:
		if j, ok := e.(*Join); ok && j == nil {
			return NullBuilder{}
		}
		return NewJoinBuilder(e)
	default:
		return NullBuilder{}
	}
}

// NullBuilder 渲染为空字符串
type NullBuilder struct{}

func (NullBuilder) Build() (string, error) {
	return "", nil
}

// ConditionBuilder 渲染 WHERE 子句
type ConditionBuilder struct {
	entries []ConditionEntry
	err     error
}

func NewConditionBuilder(cond ConditionExpression) *ConditionBuilder {
	return &ConditionBuilder{
		entries: cond.Entries(),
		err:     cond.Err(),
	}
}

func (b *ConditionBuilder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if len(b.entries) == 0 {
		return "", ferr.ErrEmptyCondition()
	}

	sb := &strings.Builder{}
	sb.WriteString("WHERE ")
	for _, entry := range b.entries {
		if entry.Operator != LogicNone {
			sb.WriteString(strings.ToUpper(string(entry.Operator)))
			sb.WriteByte(' ')
		}
		sb.WriteString(entry.Predicate)
		sb.WriteByte(' ')
	}
	return strings.TrimSpace(sb.String()) + " ", nil
}

// JoinBuilder 渲染 JOIN 子句
//
// 同一个 Select 上的多个 join 复用一个 JoinBuilder：第一个调用 Build，
// 之后的调用 Rebuild，Rebuild 会完全覆盖上一次的状态。
type JoinBuilder struct {
	state JoinState
	err   error

	way           string
	tables        string
	conditionType string
	condition     string
}

func NewJoinBuilder(join JoinExpression) *JoinBuilder {
	return &JoinBuilder{
		state: join.State(),
		err:   join.Err(),
	}
}

func (b *JoinBuilder) Rebuild(join JoinExpression) (string, error) {
	b.state = join.State()
	b.err = join.Err()
	return b.Build()
}

func (b *JoinBuilder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if b.state.IsDefault() {
		return "", ferr.ErrEmptyJoin()
	}

	b.way = ""
	if b.state.Way != WayNone {
		b.way = strings.ToUpper(strings.ReplaceAll(string(b.state.Way), ":", " ")) + " "
	}
	b.prepareTables()
	b.conditionType = ""
	if b.state.ConditionType != "" {
		b.conditionType = strings.ToUpper(string(b.state.ConditionType)) + " "
	}

	var expr string
	if b.state.ConditionType == JoinNatural {
		expr = b.conditionType + b.way + "JOIN" + strings.TrimRight(b.tables, " ")
	} else {
		b.prepareCondition()
		expr = b.way + "JOIN" + b.tables + b.conditionType + b.condition
	}
	return strings.TrimRight(expr, " ") + " ", nil
}

func (b *JoinBuilder) prepareTables() {
	exprs := make([]string, 0, len(b.state.Tables))
	for _, t := range b.state.Tables {
		exprs = append(exprs, t.Expression())
	}
	b.tables = " " + strings.Join(exprs, ", ") + " "
}

func (b *JoinBuilder) prepareCondition() {
	cond := b.state.Condition
	switch len(cond) {
	case 0:
		b.condition = ""
	case 1:
		b.condition = "(" + cond[0].Name() + ")"
	default:
		b.condition = cond[0].Table() + "." + cond[0].Name() + " = " + cond[1].Table() + "." + cond[1].Name()
	}
}
