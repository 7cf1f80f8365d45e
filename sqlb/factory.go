package sqlb

import (
	"strconv"
	"strings"

	"github.com/fyerfyer/fyer-sqlb/sqlb/internal/ferr"
)

// Kind 可以由 Factory 创建的对象种类
type Kind uint8

const (
	KindColumn Kind = iota
	KindTable
	KindValue
	KindOrderModeEnum
	KindSqlFunction
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
	KindCondition
	KindJoin
)

var kindNames = [...]string{
	KindColumn:        "Column",
	KindTable:         "Table",
	KindValue:         "Value",
	KindOrderModeEnum: "OrderModeEnum",
	KindSqlFunction:   "SqlFunction",
	KindSelect:        "Select",
	KindInsert:        "Insert",
	KindUpdate:        "Update",
	KindDelete:        "Delete",
	KindCondition:     "Condition",
	KindJoin:          "Join",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind 名称大小写不敏感
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), nil
		}
	}
	return 0, ferr.ErrInvalidKind(name)
}

// Factory 把原始参数转换为引用对象和语句对象，是用户输入被转义的唯一入口
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// Create 参数含义：
//
//	Column        name, [table], [alias]
//	Table         name, [alias]
//	Value         string | 整数 | 浮点数 | Column
//	OrderModeEnum "asc" | "desc"
//	SqlFunction   name, [args...]
//	其余          无参数
func (f *Factory) Create(kind Kind, args ...any) (any, error) {
	switch kind {
	case KindColumn:
		strs, err := stringArgs(kind, args, 1, 3)
		if err != nil {
			return nil, err
		}
		c := Col(strs[0])
		if len(strs) > 1 {
			c = c.Of(strs[1])
		}
		if len(strs) > 2 {
			c = c.As(strs[2])
		}
		return c, nil
	case KindTable:
		strs, err := stringArgs(kind, args, 1, 2)
		if err != nil {
			return nil, err
		}
		t := Tbl(strs[0])
		if len(strs) > 1 {
			t = t.As(strs[1])
		}
		return t, nil
	case KindValue:
		if len(args) != 1 {
			return nil, ferr.ErrInvalidKindArgs(kind.String(), "exactly one argument expected")
		}
		return ValueOf(args[0])
	case KindOrderModeEnum:
		strs, err := stringArgs(kind, args, 1, 1)
		if err != nil {
			return nil, err
		}
		return ParseOrderMode(strs[0])
	case KindSqlFunction:
		strs, err := stringArgs(kind, args, 1, -1)
		if err != nil {
			return nil, err
		}
		return Fn(strs[0], strs[1:]...), nil
	case KindSelect:
		return NewSelect(), nil
	case KindInsert:
		return NewInsert(), nil
	case KindUpdate:
		return NewUpdate(), nil
	case KindDelete:
		return NewDelete(), nil
	case KindCondition:
		return NewCondition(), nil
	case KindJoin:
		return NewJoin(), nil
	default:
		return nil, ferr.ErrInvalidKind(kind)
	}
}

// CreateByName 先解析名称再创建
func (f *Factory) CreateByName(name string, args ...any) (any, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return f.Create(kind, args...)
}

// stringArgs hi 为 -1 表示不限数量，空字符串的第一个参数视为缺失
func stringArgs(kind Kind, args []any, lo, hi int) ([]string, error) {
	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		return nil, ferr.ErrInvalidKindArgs(kind.String(), "wrong number of arguments")
	}
	res := make([]string, 0, len(args))
	for _, arg := range args {
		s, ok := arg.(string)
		if !ok {
			return nil, ferr.ErrInvalidKindArgs(kind.String(), "string arguments expected")
		}
		res = append(res, s)
	}
	if len(res) > 0 && res[0] == "" {
		return nil, ferr.ErrInvalidKindArgs(kind.String(), "first argument must be set")
	}
	return res, nil
}
