package sqlb

import (
	"strings"

	"github.com/fyerfyer/fyer-sqlb/sqlb/internal/ferr"
)

// LogicOperator 连接两个比较谓词的逻辑运算符
type LogicOperator string

const (
	LogicNone LogicOperator = ""
	LogicAnd  LogicOperator = "and"
	LogicOr   LogicOperator = "or"
)

// LikeLevel 决定 % 通配符的位置
type LikeLevel int

const (
	LikeExact    LikeLevel = iota // abc
	LikePrefix                    // %abc
	LikeSuffix                    // abc%
	LikeContains                  // %abc%
)

// ConditionEntry 条件中的一项，只有第一项的 Operator 为空
type ConditionEntry struct {
	Operator  LogicOperator
	Predicate string
}

// Condition 条件累加器，用于 WHERE 子句
//
// 第一个谓词不能带逻辑运算符，之后的每个谓词之前都必须调用一次 And 或 Or。
// 连续调用 And/Or 时以最后一次为准。
type Condition struct {
	entries []ConditionEntry
	invoked bool
	pending LogicOperator
	err     error
}

func NewCondition() *Condition {
	return &Condition{}
}

func (c *Condition) expression() {}

// AddComparison 追加一个已经格式化好的谓词
func (c *Condition) AddComparison(predicate string) error {
	if c.err != nil {
		return c.err
	}
	switch {
	case c.pending == LogicNone && !c.invoked:
		c.entries = append(c.entries, ConditionEntry{Predicate: predicate})
		c.invoked = true
	case c.pending == LogicNone:
		c.err = ferr.ErrMissingLogicOperator(predicate)
		return c.err
	default:
		c.entries = append(c.entries, ConditionEntry{Operator: c.pending, Predicate: predicate})
		c.pending = LogicNone
	}
	return nil
}

func (c *Condition) add(predicate string) *Condition {
	_ = c.AddComparison(predicate)
	return c
}

func (c *Condition) And() *Condition {
	c.pending = LogicAnd
	return c
}

func (c *Condition) Or() *Condition {
	c.pending = LogicOr
	return c
}

// Equal 左侧有别名时使用别名
func (c *Condition) Equal(col Column, val Comparable) *Condition {
	name := col.Alias()
	if name == "" {
		name = col.Name()
	}
	return c.add(name + " = " + val.CompareValue())
}

func (c *Condition) NotEqual(col Column, val Comparable) *Condition {
	return c.add(col.Name() + " != " + val.CompareValue())
}

func (c *Condition) Greater(col Column, val NumericComparable) *Condition {
	return c.add(col.Name() + " > " + val.NumericCompareValue())
}

func (c *Condition) GreaterEqual(col Column, val NumericComparable) *Condition {
	return c.add(col.Name() + " >= " + val.NumericCompareValue())
}

func (c *Condition) Lower(col Column, val NumericComparable) *Condition {
	return c.add(col.Name() + " < " + val.NumericCompareValue())
}

func (c *Condition) LowerEqual(col Column, val NumericComparable) *Condition {
	return c.add(col.Name() + " <= " + val.NumericCompareValue())
}

func (c *Condition) Between(col Column, lower, greater NumericComparable) *Condition {
	return c.add(col.Name() + " BETWEEN " + lower.NumericCompareValue() + " AND " + greater.NumericCompareValue())
}

func (c *Condition) NotBetween(col Column, lower, greater NumericComparable) *Condition {
	return c.add(col.Name() + " NOT BETWEEN " + lower.NumericCompareValue() + " AND " + greater.NumericCompareValue())
}

// Like 根据 level 在值两侧添加 %，带引号的字符串把 % 放进引号内
func (c *Condition) Like(col Column, val Reference, level LikeLevel) *Condition {
	if c.err != nil {
		return c
	}
	pattern, err := likePattern(val.Text(), level)
	if err != nil {
		c.err = err
		return c
	}
	return c.add(col.Name() + " LIKE " + pattern)
}

func likePattern(v string, level LikeLevel) (string, error) {
	quoted := len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`)
	inner := v
	if quoted {
		inner = v[1 : len(v)-1]
	}

	switch level {
	case LikeExact:
		return v, nil
	case LikePrefix:
		inner = "%" + inner
	case LikeSuffix:
		inner = inner + "%"
	case LikeContains:
		inner = "%" + inner + "%"
	default:
		return "", ferr.ErrInvalidLikeLevel(int(level))
	}

	if quoted {
		return `"` + inner + `"`, nil
	}
	return inner, nil
}

// Entries 返回条件项的副本
func (c *Condition) Entries() []ConditionEntry {
	res := make([]ConditionEntry, len(c.entries))
	copy(res, c.entries)
	return res
}

// Err 返回第一次出错时记录的错误
func (c *Condition) Err() error {
	return c.err
}
