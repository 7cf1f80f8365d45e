package sqlb

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/fyerfyer/fyer-sqlb/sqlb/internal/ferr"
)

// Reference 所有引用对象的公共接口，Text 返回已转义的文本
type Reference interface {
	Text() string
}

// Comparable 可以出现在 = / != 右侧的引用
type Comparable interface {
	CompareValue() string
}

// NumericComparable 可以出现在 > / < / BETWEEN 右侧的引用
type NumericComparable interface {
	NumericCompareValue() string
}

// escape 转义一次，之后的所有渲染都直接使用结果
//
// 只转义 < > & ' "，非 ASCII 字符原样保留。
func escape(s string) string {
	return html.EscapeString(s)
}

func quoteIdent(s string) string {
	return "`" + escape(s) + "`"
}

// Column 列引用
type Column struct {
	name       string
	table      string
	alias      string
	expression string
}

// Col 创建一个列引用，* 不会被反引号包裹
func Col(name string) Column {
	c := Column{}
	if name == "*" {
		c.name = name
	} else {
		c.name = quoteIdent(name)
	}
	c.build()
	return c
}

// FnCol 使用 SQL 函数作为列
func FnCol(fn SqlFunction) Column {
	c := Column{name: escape(fn.Expression())}
	c.build()
	return c
}

// Of 返回指定所属表的新列
func (c Column) Of(table string) Column {
	c.table = ""
	if table != "" {
		c.table = quoteIdent(table)
	}
	c.build()
	return c
}

// As 返回带别名的新列
func (c Column) As(alias string) Column {
	c.alias = ""
	if alias != "" {
		c.alias = quoteIdent(alias)
	}
	c.build()
	return c
}

func (c *Column) build() {
	switch {
	case c.table != "" && c.alias != "":
		c.expression = c.table + "." + c.name + " AS " + c.alias
	case c.table != "":
		c.expression = c.table + "." + c.name
	case c.alias != "":
		c.expression = c.name + " AS " + c.alias
	default:
		c.expression = c.name
	}
}

func (c Column) Name() string       { return c.name }
func (c Column) Table() string      { return c.table }
func (c Column) Alias() string      { return c.alias }
func (c Column) Expression() string { return c.expression }

// CompareValue 有别名时使用别名
func (c Column) CompareValue() string {
	if c.alias != "" {
		return c.alias
	}
	return c.name
}

func (c Column) NumericCompareValue() string { return c.CompareValue() }
func (c Column) Text() string                { return c.CompareValue() }

// Table 表引用
type Table struct {
	name       string
	alias      string
	expression string
}

func Tbl(name string) Table {
	t := Table{name: quoteIdent(name)}
	t.expression = t.name
	return t
}

// As 返回带别名的新表
func (t Table) As(alias string) Table {
	t.alias = ""
	t.expression = t.name
	if alias != "" {
		t.alias = quoteIdent(alias)
		t.expression = t.name + " AS " + t.alias
	}
	return t
}

func (t Table) Name() string       { return t.name }
func (t Table) Alias() string      { return t.alias }
func (t Table) Expression() string { return t.expression }
func (t Table) Text() string       { return t.name }
func (t Table) isZero() bool       { return t.name == "" }

// Value 比较值或插入值
type Value struct {
	val string
}

// ValueOf 根据类型创建值：字符串加双引号，数字原样输出，列取其列名
func ValueOf(v any) (Value, error) {
	switch val := v.(type) {
	case string:
		return Str(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return Value{val: strconv.FormatUint(uint64(val), 10)}, nil
	case uint8:
		return Value{val: strconv.FormatUint(uint64(val), 10)}, nil
	case uint16:
		return Value{val: strconv.FormatUint(uint64(val), 10)}, nil
	case uint32:
		return Value{val: strconv.FormatUint(uint64(val), 10)}, nil
	case uint64:
		return Value{val: strconv.FormatUint(val, 10)}, nil
	case float32:
		return finiteFloat(float64(val))
	case float64:
		return finiteFloat(val)
	case Numeric:
		return Int(int64(val)), nil
	case Column:
		return ColValue(val), nil
	default:
		return Value{}, ferr.ErrInvalidValue(v)
	}
}

func Str(s string) Value {
	return Value{val: `"` + escape(s) + `"`}
}

func Int(n int64) Value {
	return Value{val: strconv.FormatInt(n, 10)}
}

func Float(f float64) Value {
	return Value{val: strconv.FormatFloat(f, 'f', -1, 64)}
}

// finiteFloat NaN 和 ±Inf 不是合法的 SQL 数值
func finiteFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, ferr.ErrNonFiniteFloat(f)
	}
	return Float(f), nil
}

// ColValue 用列名作为比较值，如 a = b
func ColValue(c Column) Value {
	return Value{val: c.Name()}
}

func (v Value) CompareValue() string        { return v.val }
func (v Value) NumericCompareValue() string { return v.val }
func (v Value) Text() string                { return v.val }

// SqlFunction SQL 函数，如 COUNT(*)
type SqlFunction struct {
	name       string
	args       string
	expression string
}

func Fn(name string, args ...string) SqlFunction {
	f := SqlFunction{
		name: strings.ToUpper(name),
		args: strings.Join(args, ", "),
	}
	f.expression = f.name + "(" + f.args + ")"
	return f
}

func (f SqlFunction) Name() string       { return f.name }
func (f SqlFunction) Arguments() string  { return f.args }
func (f SqlFunction) Expression() string { return f.expression }
func (f SqlFunction) Text() string       { return f.expression }

// OrderMode 排序方向，零值表示未指定
type OrderMode string

const (
	Asc  OrderMode = "ASC"
	Desc OrderMode = "DESC"
)

// ParseOrderMode 大小写不敏感
func ParseOrderMode(s string) (OrderMode, error) {
	mode := OrderMode(strings.ToUpper(strings.TrimSpace(s)))
	if mode != Asc && mode != Desc {
		return "", ferr.ErrInvalidOrderMode(s)
	}
	return mode, nil
}

func (m OrderMode) Text() string   { return string(m) }
func (m OrderMode) String() string { return string(m) }

// Numeric 非负整数，用于 LIMIT
type Numeric int

func NewNumeric(n int) (Numeric, error) {
	if n < 0 {
		return 0, ferr.ErrNegativeNumeric(n)
	}
	return Numeric(n), nil
}

func (n Numeric) String() string { return strconv.Itoa(int(n)) }
