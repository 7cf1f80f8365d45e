package sqlb

import "github.com/fyerfyer/fyer-sqlb/sqlb/internal/ferr"

// JoinWay 连接方式
type JoinWay string

const (
	WayNone       JoinWay = ""
	WayInner      JoinWay = "inner"
	WayLeft       JoinWay = "left"
	WayRight      JoinWay = "right"
	WayLeftOuter  JoinWay = "left:outer"
	WayRightOuter JoinWay = "right:outer"
)

// JoinConditionType 连接条件的类型
type JoinConditionType string

const (
	JoinOn      JoinConditionType = "on"
	JoinUsing   JoinConditionType = "using"
	JoinNatural JoinConditionType = "natural"
)

// natural join 可选的连接方式
var naturalWays = map[string]JoinWay{
	"inner":      WayInner,
	"left":       WayLeft,
	"leftOuter":  WayLeftOuter,
	"right":      WayRight,
	"rightOuter": WayRightOuter,
}

// JoinState Join 的内部状态，交给 JoinBuilder 渲染
type JoinState struct {
	Way           JoinWay
	Tables        []Table
	ConditionType JoinConditionType
	Condition     []Column
}

// IsDefault 没有调用过任何设置连接方式的方法
func (s JoinState) IsDefault() bool {
	return s.Way == WayNone && len(s.Tables) == 0 && s.ConditionType == "" && len(s.Condition) == 0
}

// Join 连接累加器
type Join struct {
	state JoinState
	err   error
}

func NewJoin() *Join {
	return &Join{}
}

func (j *Join) expression() {}

func (j *Join) Inner(table Table, tables ...Table) *Join {
	return j.setWay(WayInner, table, tables)
}

func (j *Join) Left(table Table, tables ...Table) *Join {
	return j.setWay(WayLeft, table, tables)
}

func (j *Join) Right(table Table, tables ...Table) *Join {
	return j.setWay(WayRight, table, tables)
}

func (j *Join) LeftOuter(table Table, tables ...Table) *Join {
	return j.setWay(WayLeftOuter, table, tables)
}

func (j *Join) RightOuter(table Table, tables ...Table) *Join {
	return j.setWay(WayRightOuter, table, tables)
}

func (j *Join) setWay(way JoinWay, table Table, tables []Table) *Join {
	if j.err != nil {
		return j
	}
	j.state.Way = way
	j.state.Tables = append([]Table{table}, tables...)
	return j
}

// Natural 自然连接，way 为空或 inner、left、leftOuter、right、rightOuter 之一
func (j *Join) Natural(table Table, way string) *Join {
	if j.err != nil {
		return j
	}
	w := WayNone
	if way != "" {
		var ok bool
		if w, ok = naturalWays[way]; !ok {
			j.err = ferr.ErrInvalidJoinWay(way)
			return j
		}
	}
	j.state.Way = w
	j.state.Tables = []Table{table}
	j.state.ConditionType = JoinNatural
	j.state.Condition = nil
	return j
}

// On 两列都必须带有表名
func (j *Join) On(first, second Column) *Join {
	if j.err != nil {
		return j
	}
	if j.state.IsDefault() {
		j.err = ferr.ErrJoinWayNotSet("on")
		return j
	}
	for _, col := range []Column{first, second} {
		if col.Table() == "" {
			j.err = ferr.ErrColumnWithoutTable(col.Name())
			return j
		}
	}
	j.state.ConditionType = JoinOn
	j.state.Condition = []Column{first, second}
	return j
}

func (j *Join) Using(col Column) *Join {
	if j.err != nil {
		return j
	}
	if j.state.IsDefault() {
		j.err = ferr.ErrJoinWayNotSet("using")
		return j
	}
	j.state.ConditionType = JoinUsing
	j.state.Condition = []Column{col}
	return j
}

// State 返回当前状态的副本
func (j *Join) State() JoinState {
	s := j.state
	s.Tables = append([]Table(nil), j.state.Tables...)
	s.Condition = append([]Column(nil), j.state.Condition...)
	return s
}

func (j *Join) Err() error {
	return j.err
}
