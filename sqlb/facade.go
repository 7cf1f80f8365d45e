package sqlb

import (
	"context"
)

// Filter 使用原始字符串和值构造条件，值通过 ValueOf 转换，
// 传入 Column 时按列比较
type Filter struct {
	cond *Condition
	err  error
}

func NewFilter() *Filter {
	return &Filter{cond: NewCondition()}
}

func (f *Filter) compare(column string, val any, add func(Column, Value) *Condition) *Filter {
	if f.err != nil {
		return f
	}
	v, err := ValueOf(val)
	if err != nil {
		f.err = err
		return f
	}
	add(Col(column), v)
	return f
}

func (f *Filter) Equal(column string, val any) *Filter {
	return f.compare(column, val, func(c Column, v Value) *Condition { return f.cond.Equal(c, v) })
}

func (f *Filter) NotEqual(column string, val any) *Filter {
	return f.compare(column, val, func(c Column, v Value) *Condition { return f.cond.NotEqual(c, v) })
}

func (f *Filter) Greater(column string, val any) *Filter {
	return f.compare(column, val, func(c Column, v Value) *Condition { return f.cond.Greater(c, v) })
}

func (f *Filter) GreaterEqual(column string, val any) *Filter {
	return f.compare(column, val, func(c Column, v Value) *Condition { return f.cond.GreaterEqual(c, v) })
}

func (f *Filter) Lower(column string, val any) *Filter {
	return f.compare(column, val, func(c Column, v Value) *Condition { return f.cond.Lower(c, v) })
}

func (f *Filter) LowerEqual(column string, val any) *Filter {
	return f.compare(column, val, func(c Column, v Value) *Condition { return f.cond.LowerEqual(c, v) })
}

func (f *Filter) Between(column string, lower, greater any) *Filter {
	return f.between(column, lower, greater, f.cond.Between)
}

func (f *Filter) NotBetween(column string, lower, greater any) *Filter {
	return f.between(column, lower, greater, f.cond.NotBetween)
}

func (f *Filter) between(column string, lower, greater any,
	add func(Column, NumericComparable, NumericComparable) *Condition) *Filter {
	if f.err != nil {
		return f
	}
	lo, err := ValueOf(lower)
	if err != nil {
		f.err = err
		return f
	}
	hi, err := ValueOf(greater)
	if err != nil {
		f.err = err
		return f
	}
	add(Col(column), lo, hi)
	return f
}

func (f *Filter) Like(column string, val any, level LikeLevel) *Filter {
	return f.compare(column, val, func(c Column, v Value) *Condition { return f.cond.Like(c, v, level) })
}

func (f *Filter) And() *Filter {
	f.cond.And()
	return f
}

func (f *Filter) Or() *Filter {
	f.cond.Or()
	return f
}

// Condition 返回底层的条件
func (f *Filter) Condition() *Condition {
	return f.cond
}

// Err 参数错误优先于条件本身的错误，nil Filter 没有错误
func (f *Filter) Err() error {
	if f == nil {
		return nil
	}
	if f.err != nil {
		return f.err
	}
	return f.cond.Err()
}

// Joiner 使用表名和列名构造连接
type Joiner struct {
	join *Join
}

func NewJoiner() *Joiner {
	return &Joiner{join: NewJoin()}
}

func joinTables(table string, extra []string) (Table, []Table) {
	res := make([]Table, 0, len(extra))
	for _, t := range extra {
		res = append(res, Tbl(t))
	}
	return Tbl(table), res
}

func (j *Joiner) Inner(table string, extra ...string) *Joiner {
	t, ts := joinTables(table, extra)
	j.join.Inner(t, ts...)
	return j
}

func (j *Joiner) Left(table string, extra ...string) *Joiner {
	t, ts := joinTables(table, extra)
	j.join.Left(t, ts...)
	return j
}

func (j *Joiner) Right(table string, extra ...string) *Joiner {
	t, ts := joinTables(table, extra)
	j.join.Right(t, ts...)
	return j
}

func (j *Joiner) LeftOuter(table string, extra ...string) *Joiner {
	t, ts := joinTables(table, extra)
	j.join.LeftOuter(t, ts...)
	return j
}

func (j *Joiner) RightOuter(table string, extra ...string) *Joiner {
	t, ts := joinTables(table, extra)
	j.join.RightOuter(t, ts...)
	return j
}

func (j *Joiner) Natural(table string, way string) *Joiner {
	j.join.Natural(Tbl(table), way)
	return j
}

// On 渲染为 firstTable.firstColumn = secondTable.secondColumn
func (j *Joiner) On(firstTable, firstColumn, secondTable, secondColumn string) *Joiner {
	j.join.On(Col(firstColumn).Of(firstTable), Col(secondColumn).Of(secondTable))
	return j
}

func (j *Joiner) Using(column string) *Joiner {
	j.join.Using(Col(column))
	return j
}

func (j *Joiner) Join() *Join {
	return j.join
}

// Selector 绑定到 DB 的查询，通过 DB.Select 创建
type Selector struct {
	db    *DB
	stmt  *Select
	where *Filter
	err   error
}

// Select 从 table 开始构造查询，alias 可选
func (db *DB) Select(table string, alias ...string) *Selector {
	return &Selector{
		db:   db,
		stmt: NewSelect().Table(aliasedTable(table, alias)),
	}
}

func aliasedTable(name string, alias []string) Table {
	t := Tbl(name)
	if len(alias) > 0 {
		t = t.As(alias[0])
	}
	return t
}

func (s *Selector) Table(name string, alias ...string) *Selector {
	s.stmt.Table(aliasedTable(name, alias))
	return s
}

// Column tableAndAlias 依次为所属表和别名
func (s *Selector) Column(name string, tableAndAlias ...string) *Selector {
	c := Col(name)
	if len(tableAndAlias) > 0 {
		c = c.Of(tableAndAlias[0])
	}
	if len(tableAndAlias) > 1 {
		c = c.As(tableAndAlias[1])
	}
	s.stmt.Column(c)
	return s
}

// OrderBy mode 可选，大小写不敏感
func (s *Selector) OrderBy(column string, mode ...string) *Selector {
	m, ok := s.orderMode(mode)
	if ok {
		s.stmt.OrderBy(Col(column), m)
	}
	return s
}

func (s *Selector) GroupBy(column string, mode ...string) *Selector {
	m, ok := s.orderMode(mode)
	if ok {
		s.stmt.GroupBy(Col(column), m)
	}
	return s
}

func (s *Selector) orderMode(mode []string) (OrderMode, bool) {
	if len(mode) == 0 || mode[0] == "" {
		return "", true
	}
	m, err := ParseOrderMode(mode[0])
	if err != nil {
		s.setErr(err)
		return "", false
	}
	return m, true
}

func (s *Selector) Limit(amount int) *Selector {
	s.stmt.Limit(amount)
	return s
}

func (s *Selector) LimitOffset(begin, amount int) *Selector {
	s.stmt.LimitOffset(begin, amount)
	return s
}

func (s *Selector) Distinct() *Selector {
	s.stmt.Distinct()
	return s
}

// Having 暂不支持
func (s *Selector) Having(f *Filter) *Selector {
	s.stmt.Having(f.Condition())
	return s
}

// Where 保留 Filter 本身，之后对它的修改在 Build 时一并检查
func (s *Selector) Where(f *Filter) *Selector {
	s.where = f
	s.stmt.Where(f.Condition())
	return s
}

func (s *Selector) Join(j *Joiner) *Selector {
	s.stmt.Join(j.Join())
	return s
}

func (s *Selector) setErr(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Statement 返回底层的 Select 语句
func (s *Selector) Statement() *Select {
	return s.stmt
}

func (s *Selector) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.where.Err()
}

func (s *Selector) Build() (*Query, error) {
	if err := s.Err(); err != nil {
		return nil, err
	}
	return NewSelectBuilder(s.stmt, NewExpressionBuilderFactory()).Build()
}

// Fetch 执行查询，没有添加列时查询 *
func (s *Selector) Fetch(ctx context.Context) ([]map[string]any, error) {
	if err := s.Err(); err != nil {
		return nil, err
	}
	return s.db.Fetch(ctx, s.stmt)
}

// Inserter 绑定到 DB 的插入，通过 DB.Insert 创建
type Inserter struct {
	db   *DB
	stmt *Insert
	err  error
}

func (db *DB) Insert(table string) *Inserter {
	return &Inserter{
		db:   db,
		stmt: NewInsert().Table(Tbl(table)),
	}
}

func (i *Inserter) Columns(names ...string) *Inserter {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		cols = append(cols, Col(n))
	}
	i.stmt.Columns(cols...)
	return i
}

// Values 追加一行值
func (i *Inserter) Values(vals ...any) *Inserter {
	if i.err != nil {
		return i
	}
	row, err := references(vals)
	if err != nil {
		i.err = err
		return i
	}
	i.stmt.Values(row...)
	return i
}

func (i *Inserter) OnDuplicateKeyUpdate() *Inserter {
	i.stmt.OnDuplicateKeyUpdate()
	return i
}

func (i *Inserter) Statement() *Insert {
	return i.stmt
}

func (i *Inserter) Build() (*Query, error) {
	if i.err != nil {
		return nil, i.err
	}
	return NewInsertBuilder(i.stmt).Build()
}

func (i *Inserter) Exec(ctx context.Context) (Result, error) {
	if i.err != nil {
		return Result{err: i.err}, i.err
	}
	return i.db.Exec(ctx, i.stmt)
}

func references(vals []any) ([]Reference, error) {
	res := make([]Reference, 0, len(vals))
	for _, v := range vals {
		ref, err := ValueOf(v)
		if err != nil {
			return nil, err
		}
		res = append(res, ref)
	}
	return res, nil
}

// Updater 绑定到 DB 的更新，通过 DB.Update 创建
type Updater struct {
	db    *DB
	stmt  *Update
	where *Filter
	err   error
}

func (db *DB) Update(table string) *Updater {
	return &Updater{
		db:   db,
		stmt: NewUpdate().Table(Tbl(table)),
	}
}

func (u *Updater) Column(name string) *Updater {
	u.stmt.Column(Col(name))
	return u
}

func (u *Updater) Value(val any) *Updater {
	if u.err != nil {
		return u
	}
	v, err := ValueOf(val)
	if err != nil {
		u.err = err
		return u
	}
	u.stmt.Value(v)
	return u
}

// Set 等价于 Column(name).Value(val)
func (u *Updater) Set(name string, val any) *Updater {
	return u.Column(name).Value(val)
}

func (u *Updater) Columns(names ...string) *Updater {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		cols = append(cols, Col(n))
	}
	u.stmt.Columns(cols...)
	return u
}

func (u *Updater) Values(vals ...any) *Updater {
	if u.err != nil {
		return u
	}
	refs, err := references(vals)
	if err != nil {
		u.err = err
		return u
	}
	u.stmt.Values(refs...)
	return u
}

func (u *Updater) Where(f *Filter) *Updater {
	u.where = f
	u.stmt.Where(f.Condition())
	return u
}

func (u *Updater) OrderBy(column string, mode OrderMode) *Updater {
	u.stmt.OrderBy(Col(column), mode)
	return u
}

func (u *Updater) Limit(amount int) *Updater {
	u.stmt.Limit(amount)
	return u
}

func (u *Updater) LimitOffset(begin, amount int) *Updater {
	u.stmt.LimitOffset(begin, amount)
	return u
}

func (u *Updater) Statement() *Update {
	return u.stmt
}

func (u *Updater) Err() error {
	if u.err != nil {
		return u.err
	}
	return u.where.Err()
}

func (u *Updater) Build() (*Query, error) {
	if err := u.Err(); err != nil {
		return nil, err
	}
	return NewUpdateBuilder(u.stmt, NewExpressionBuilderFactory()).Build()
}

func (u *Updater) Exec(ctx context.Context) (Result, error) {
	if err := u.Err(); err != nil {
		return Result{err: err}, err
	}
	return u.db.Exec(ctx, u.stmt)
}

// Deleter 绑定到 DB 的删除，通过 DB.Delete 创建
type Deleter struct {
	db    *DB
	stmt  *Delete
	where *Filter
	err   error
}

func (db *DB) Delete(table string) *Deleter {
	return &Deleter{
		db:   db,
		stmt: NewDelete().Table(Tbl(table)),
	}
}

func (d *Deleter) Where(f *Filter) *Deleter {
	d.where = f
	d.stmt.Where(f.Condition())
	return d
}

func (d *Deleter) OrderBy(column string, mode OrderMode) *Deleter {
	d.stmt.OrderBy(Col(column), mode)
	return d
}

func (d *Deleter) Limit(amount int) *Deleter {
	d.stmt.Limit(amount)
	return d
}

func (d *Deleter) LimitOffset(begin, amount int) *Deleter {
	d.stmt.LimitOffset(begin, amount)
	return d
}

func (d *Deleter) Statement() *Delete {
	return d.stmt
}

func (d *Deleter) Err() error {
	if d.err != nil {
		return d.err
	}
	return d.where.Err()
}

func (d *Deleter) Build() (*Query, error) {
	if err := d.Err(); err != nil {
		return nil, err
	}
	return NewDeleteBuilder(d.stmt, NewExpressionBuilderFactory()).Build()
}

func (d *Deleter) Exec(ctx context.Context) (Result, error) {
	if err := d.Err(); err != nil {
		return Result{err: err}, err
	}
	return d.db.Exec(ctx, d.stmt)
}
