package sqlb

import "github.com/fyerfyer/fyer-sqlb/sqlb/internal/ferr"

// Statement 一条待渲染的 SQL 语句
type Statement interface {
	statement()
	Err() error
}

// orderClause ORDER BY / GROUP BY 只保留一列，重复调用会覆盖
type orderClause struct {
	column Column
	mode   OrderMode
}

// limitClause LIMIT begin, amount
type limitClause struct {
	begin  Numeric
	amount Numeric
}

func newLimit(begin, amount int) (*limitClause, error) {
	b, err := NewNumeric(begin)
	if err != nil {
		return nil, err
	}
	a, err := NewNumeric(amount)
	if err != nil {
		return nil, err
	}
	return &limitClause{begin: b, amount: a}, nil
}

// Select 查询语句
type Select struct {
	tables   []Table
	columns  []Column
	orderBy  *orderClause
	groupBy  *orderClause
	limit    *limitClause
	distinct bool
	having   Expression
	where    *Condition
	joins    []*Join
	err      error
}

func NewSelect() *Select {
	return &Select{}
}

func (s *Select) statement() {}

func (s *Select) Table(t Table) *Select {
	s.tables = append(s.tables, t)
	return s
}

func (s *Select) Column(c Column) *Select {
	s.columns = append(s.columns, c)
	return s
}

// OrderBy mode 为空时按 ASC 排序
func (s *Select) OrderBy(c Column, mode OrderMode) *Select {
	if mode == "" {
		mode = Asc
	}
	s.orderBy = &orderClause{column: c, mode: mode}
	return s
}

// GroupBy 指定 mode 时会在 GROUP BY 列后追加 ASC/DESC
func (s *Select) GroupBy(c Column, mode OrderMode) *Select {
	s.groupBy = &orderClause{column: c, mode: mode}
	return s
}

// Limit 等价于 LIMIT 0, amount
func (s *Select) Limit(amount int) *Select {
	return s.LimitOffset(0, amount)
}

func (s *Select) LimitOffset(begin, amount int) *Select {
	if s.err != nil {
		return s
	}
	s.limit, s.err = newLimit(begin, amount)
	return s
}

func (s *Select) Distinct() *Select {
	s.distinct = true
	return s
}

// Having 暂不支持，渲染时返回 ErrNotImplemented
func (s *Select) Having(expr Expression) *Select {
	s.having = expr
	if s.err == nil {
		s.err = ferr.ErrHavingNotSupported()
	}
	return s
}

func (s *Select) Where(cond *Condition) *Select {
	s.where = cond
	return s
}

func (s *Select) Join(j *Join) *Select {
	s.joins = append(s.joins, j)
	return s
}

func (s *Select) Tables() []Table              { return s.tables }
func (s *Select) Columns() []Column            { return s.columns }
func (s *Select) Joins() []*Join               { return s.joins }
func (s *Select) IsDistinct() bool             { return s.distinct }
func (s *Select) HavingExpression() Expression { return s.having }
func (s *Select) Err() error                   { return s.err }

// Condition 未设置时返回 nil
func (s *Select) Condition() Expression {
	if s.where == nil {
		return nil
	}
	return s.where
}

// Insert 插入语句
type Insert struct {
	table                Table
	columns              []Column
	values               [][]Reference
	onDuplicateKeyUpdate bool
	err                  error
}

func NewInsert() *Insert {
	return &Insert{}
}

func (i *Insert) statement() {}

func (i *Insert) Table(t Table) *Insert {
	i.table = t
	return i
}

func (i *Insert) Columns(cols ...Column) *Insert {
	i.columns = cols
	return i
}

// Values 追加一行值，长度必须与列数一致
func (i *Insert) Values(row ...Reference) *Insert {
	if i.err != nil {
		return i
	}
	if len(i.columns) == 0 {
		i.err = ferr.ErrValuesWithoutColumns()
		return i
	}
	if len(row) != len(i.columns) {
		i.err = ferr.ErrRowLength(len(i.columns), len(row))
		return i
	}
	i.values = append(i.values, row)
	return i
}

// OnDuplicateKeyUpdate 主键冲突时用新值更新全部插入列
func (i *Insert) OnDuplicateKeyUpdate() *Insert {
	i.onDuplicateKeyUpdate = true
	return i
}

func (i *Insert) ColumnList() []Column         { return i.columns }
func (i *Insert) Rows() [][]Reference          { return i.values }
func (i *Insert) IsOnDuplicateKeyUpdate() bool { return i.onDuplicateKeyUpdate }
func (i *Insert) Err() error                   { return i.err }

// Assignment UPDATE ... SET column=value
type Assignment struct {
	Column Column
	Value  Reference
}

// Update 更新语句，Column 与 Value 必须成对交替调用
type Update struct {
	table       Table
	pending     *Column
	pendingCols []Column
	assignments []Assignment
	where       *Condition
	orderBy     *orderClause
	limit       *limitClause
	err         error
}

func NewUpdate() *Update {
	return &Update{}
}

func (u *Update) statement() {}

func (u *Update) Table(t Table) *Update {
	u.table = t
	return u
}

func (u *Update) Column(c Column) *Update {
	u.pending = &c
	return u
}

// Value 消费前一次 Column 设置的列
func (u *Update) Value(v Reference) *Update {
	if u.err != nil {
		return u
	}
	if u.pending == nil {
		u.err = ferr.ErrValueWithoutColumn()
		return u
	}
	u.assignments = append(u.assignments, Assignment{Column: *u.pending, Value: v})
	u.pending = nil
	return u
}

func (u *Update) Columns(cols ...Column) *Update {
	u.pendingCols = cols
	return u
}

// Values 与 Columns 按下标配对
func (u *Update) Values(vals ...Reference) *Update {
	if u.err != nil {
		return u
	}
	if len(u.pendingCols) == 0 {
		u.err = ferr.ErrValuesWithoutColumns()
		return u
	}
	if len(u.pendingCols) != len(vals) {
		u.err = ferr.ErrPairLength(len(u.pendingCols), len(vals))
		return u
	}
	for idx, col := range u.pendingCols {
		u.Column(col).Value(vals[idx])
	}
	u.pendingCols = nil
	return u
}

func (u *Update) Where(cond *Condition) *Update {
	u.where = cond
	return u
}

func (u *Update) OrderBy(c Column, mode OrderMode) *Update {
	if mode == "" {
		mode = Asc
	}
	u.orderBy = &orderClause{column: c, mode: mode}
	return u
}

func (u *Update) Limit(amount int) *Update {
	return u.LimitOffset(0, amount)
}

func (u *Update) LimitOffset(begin, amount int) *Update {
	if u.err != nil {
		return u
	}
	u.limit, u.err = newLimit(begin, amount)
	return u
}

func (u *Update) Assignments() []Assignment { return u.assignments }
func (u *Update) Err() error                { return u.err }

func (u *Update) Condition() Expression {
	if u.where == nil {
		return nil
	}
	return u.where
}

// Delete 删除语句
type Delete struct {
	table   Table
	where   *Condition
	orderBy *orderClause
	limit   *limitClause
	err     error
}

func NewDelete() *Delete {
	return &Delete{}
}

func (d *Delete) statement() {}

func (d *Delete) Table(t Table) *Delete {
	d.table = t
	return d
}

func (d *Delete) Where(cond *Condition) *Delete {
	d.where = cond
	return d
}

func (d *Delete) OrderBy(c Column, mode OrderMode) *Delete {
	if mode == "" {
		mode = Asc
	}
	d.orderBy = &orderClause{column: c, mode: mode}
	return d
}

func (d *Delete) Limit(amount int) *Delete {
	return d.LimitOffset(0, amount)
}

func (d *Delete) LimitOffset(begin, amount int) *Delete {
	if d.err != nil {
		return d
	}
	d.limit, d.err = newLimit(begin, amount)
	return d
}

func (d *Delete) Err() error { return d.err }

func (d *Delete) Condition() Expression {
	if d.where == nil {
		return nil
	}
	return d.where
}
