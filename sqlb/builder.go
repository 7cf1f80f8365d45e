package sqlb

import (
	"strings"

	"github.com/fyerfyer/fyer-sqlb/sqlb/internal/ferr"
)

// Query 渲染完成的 SQL
type Query struct {
	SQL string
}

// QueryBuilder 查询构建接口
type QueryBuilder interface {
	Process() (string, error)
	Build() (*Query, error)
}

// NewBuilder 根据语句类型选择对应的构建器
func NewBuilder(stmt Statement) (QueryBuilder, error) {
	factory := NewExpressionBuilderFactory()
	switch s := stmt.(type) {
	case *Select:
		return NewSelectBuilder(s, factory), nil
	case *Insert:
		return NewInsertBuilder(s), nil
	case *Update:
		return NewUpdateBuilder(s, factory), nil
	case *Delete:
		return NewDeleteBuilder(s, factory), nil
	default:
		return nil, ferr.ErrUnsupportedStatement(stmt)
	}
}

// Render 渲染任意语句
func Render(stmt Statement) (string, error) {
	b, err := NewBuilder(stmt)
	if err != nil {
		return "", err
	}
	return b.Process()
}

// clauseBuilder 各构建器共享的子句渲染，每个片段以空格结尾
type clauseBuilder struct {
	factory   *ExpressionBuilderFactory
	condition string
	orderBy   string
	limit     string
}

func (c *clauseBuilder) prepareCondition(expr Expression) error {
	var err error
	c.condition, err = c.factory.Create(expr).Build()
	return err
}

func (c *clauseBuilder) prepareOrderBy(order *orderClause) {
	c.orderBy = ""
	if order == nil {
		return
	}
	c.orderBy = "ORDER BY " + order.column.Name() + " "
	if order.mode != "" {
		c.orderBy += string(order.mode) + " "
	}
}

func (c *clauseBuilder) prepareLimit(limit *limitClause) {
	c.limit = ""
	if limit == nil {
		return
	}
	c.limit = "LIMIT " + limit.begin.String() + ", " + limit.amount.String() + " "
}

func finish(query string) string {
	return strings.TrimRight(query, " ") + ";"
}

// SelectBuilder 渲染 SELECT 语句
type SelectBuilder struct {
	clauseBuilder
	stmt *Select

	tables   string
	columns  string
	groupBy  string
	distinct string
	having   string
	join     string
}

func NewSelectBuilder(s *Select, factory *ExpressionBuilderFactory) *SelectBuilder {
	return &SelectBuilder{
		clauseBuilder: clauseBuilder{factory: factory},
		stmt:          s,
	}
}

func (b *SelectBuilder) Build() (*Query, error) {
	sql, err := b.Process()
	if err != nil {
		return nil, err
	}
	return &Query{SQL: sql}, nil
}

// Process 没有添加列时查询 *
func (b *SelectBuilder) Process() (string, error) {
	if err := b.stmt.Err(); err != nil {
		return "", err
	}
	if err := b.prepareTables(); err != nil {
		return "", err
	}
	b.prepareColumns()
	b.prepareOrderBy(b.stmt.orderBy)
	b.prepareGroupBy()
	b.prepareDistinct()
	if err := b.prepareHaving(); err != nil {
		return "", err
	}
	if err := b.prepareCondition(b.stmt.Condition()); err != nil {
		return "", err
	}
	if err := b.prepareJoin(); err != nil {
		return "", err
	}
	b.prepareLimit(b.stmt.limit)

	query := "SELECT" + b.distinct + b.columns + "FROM" + b.tables + b.join + b.condition +
		b.groupBy + b.having + b.orderBy + b.limit
	return finish(query), nil
}

func (b *SelectBuilder) prepareTables() error {
	if len(b.stmt.tables) == 0 {
		return ferr.ErrMissingTable("select")
	}
	exprs := make([]string, 0, len(b.stmt.tables))
	for _, t := range b.stmt.tables {
		exprs = append(exprs, t.Expression())
	}
	b.tables = " " + strings.Join(exprs, ", ") + " "
	return nil
}

func (b *SelectBuilder) prepareColumns() {
	cols := b.stmt.columns
	if len(cols) == 0 {
		cols = []Column{Col("*")}
	}
	exprs := make([]string, 0, len(cols))
	for _, c := range cols {
		exprs = append(exprs, c.Expression())
	}
	b.columns = " " + strings.Join(exprs, ", ") + " "
}

// prepareGroupBy 指定排序方向时会追加在列名之后
func (b *SelectBuilder) prepareGroupBy() {
	b.groupBy = ""
	group := b.stmt.groupBy
	if group == nil {
		return
	}
	b.groupBy = "GROUP BY " + group.column.Name() + " "
	if group.mode != "" {
		b.groupBy += string(group.mode) + " "
	}
}

func (b *SelectBuilder) prepareDistinct() {
	b.distinct = ""
	if b.stmt.distinct {
		b.distinct = " DISTINCT"
	}
}

func (b *SelectBuilder) prepareHaving() error {
	b.having = ""
	if b.stmt.having != nil {
		return ferr.ErrHavingNotSupported()
	}
	return nil
}

// prepareJoin 第一个 join 用 Build，其余的复用同一个构建器 Rebuild
func (b *SelectBuilder) prepareJoin() error {
	b.join = ""
	joins := b.stmt.joins
	if len(joins) == 0 {
		return nil
	}

	builder, ok := b.factory.Create(joins[0]).(RebuildableBuilder)
	if !ok {
		return ferr.ErrEmptyJoin()
	}
	sb := &strings.Builder{}
	for idx, j := range joins {
		var (
			frag string
			err  error
		)
		if idx == 0 {
			frag, err = builder.Build()
		} else {
			if j == nil {
				return ferr.ErrEmptyJoin()
			}
			frag, err = builder.Rebuild(j)
		}
		if err != nil {
			return err
		}
		sb.WriteString(frag)
	}
	b.join = sb.String()
	return nil
}

// InsertBuilder 渲染 INSERT 语句
type InsertBuilder struct {
	stmt *Insert

	table     string
	columns   string
	values    string
	duplicate string
}

func NewInsertBuilder(i *Insert) *InsertBuilder {
	return &InsertBuilder{stmt: i}
}

func (b *InsertBuilder) Build() (*Query, error) {
	sql, err := b.Process()
	if err != nil {
		return nil, err
	}
	return &Query{SQL: sql}, nil
}

func (b *InsertBuilder) Process() (string, error) {
	if err := b.stmt.Err(); err != nil {
		return "", err
	}
	if b.stmt.table.isZero() {
		return "", ferr.ErrMissingTable("insert")
	}
	b.table = b.stmt.table.Name()
	if err := b.prepareColumns(); err != nil {
		return "", err
	}
	if err := b.prepareValues(); err != nil {
		return "", err
	}
	b.prepareOnDuplicateKeyUpdate()

	return "INSERT INTO " + b.table + " (" + b.columns + ") VALUES " + b.values + b.duplicate + ";", nil
}

func (b *InsertBuilder) prepareColumns() error {
	if len(b.stmt.columns) == 0 {
		return ferr.ErrMissingColumns("insert")
	}
	names := make([]string, 0, len(b.stmt.columns))
	for _, c := range b.stmt.columns {
		names = append(names, c.Name())
	}
	b.columns = strings.Join(names, ", ")
	return nil
}

func (b *InsertBuilder) prepareValues() error {
	if len(b.stmt.values) == 0 {
		return ferr.ErrMissingValues("insert")
	}
	rows := make([]string, 0, len(b.stmt.values))
	for _, row := range b.stmt.values {
		if len(row) != len(b.stmt.columns) {
			return ferr.ErrRowLength(len(b.stmt.columns), len(row))
		}
		vals := make([]string, 0, len(row))
		for _, v := range row {
			vals = append(vals, v.Text())
		}
		rows = append(rows, "("+strings.Join(vals, ", ")+")")
	}
	b.values = strings.Join(rows, ", ")
	return nil
}

// prepareOnDuplicateKeyUpdate 冲突时使用 VALUES(col) 更新每一列
func (b *InsertBuilder) prepareOnDuplicateKeyUpdate() {
	b.duplicate = ""
	if !b.stmt.onDuplicateKeyUpdate {
		return
	}
	sb := &strings.Builder{}
	sb.WriteString(" ON DUPLICATE KEY UPDATE ")
	for idx, c := range b.stmt.columns {
		if idx > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Name())
		sb.WriteString(" = VALUES(")
		sb.WriteString(c.Name())
		sb.WriteByte(')')
	}
	b.duplicate = sb.String()
}

// UpdateBuilder 渲染 UPDATE 语句
type UpdateBuilder struct {
	clauseBuilder
	stmt *Update

	table  string
	values string
}

func NewUpdateBuilder(u *Update, factory *ExpressionBuilderFactory) *UpdateBuilder {
	return &UpdateBuilder{
		clauseBuilder: clauseBuilder{factory: factory},
		stmt:          u,
	}
}

func (b *UpdateBuilder) Build() (*Query, error) {
	sql, err := b.Process()
	if err != nil {
		return nil, err
	}
	return &Query{SQL: sql}, nil
}

func (b *UpdateBuilder) Process() (string, error) {
	if err := b.stmt.Err(); err != nil {
		return "", err
	}
	if b.stmt.table.isZero() {
		return "", ferr.ErrMissingTable("update")
	}
	if b.stmt.pending != nil {
		return "", ferr.ErrDanglingColumn(b.stmt.pending.Name())
	}
	if len(b.stmt.assignments) == 0 {
		return "", ferr.ErrMissingValues("update")
	}
	b.table = " " + b.stmt.table.Name() + " "

	pairs := make([]string, 0, len(b.stmt.assignments))
	for _, a := range b.stmt.assignments {
		pairs = append(pairs, a.Column.Name()+"="+a.Value.Text())
	}
	b.values = "SET " + strings.Join(pairs, ", ") + " "

	if err := b.prepareCondition(b.stmt.Condition()); err != nil {
		return "", err
	}
	b.prepareOrderBy(b.stmt.orderBy)
	b.prepareLimit(b.stmt.limit)

	return finish("UPDATE" + b.table + b.values + b.condition + b.orderBy + b.limit), nil
}

// DeleteBuilder 渲染 DELETE 语句
type DeleteBuilder struct {
	clauseBuilder
	stmt *Delete

	table string
}

func NewDeleteBuilder(d *Delete, factory *ExpressionBuilderFactory) *DeleteBuilder {
	return &DeleteBuilder{
		clauseBuilder: clauseBuilder{factory: factory},
		stmt:          d,
	}
}

func (b *DeleteBuilder) Build() (*Query, error) {
	sql, err := b.Process()
	if err != nil {
		return nil, err
	}
	return &Query{SQL: sql}, nil
}

func (b *DeleteBuilder) Process() (string, error) {
	if err := b.stmt.Err(); err != nil {
		return "", err
	}
	if b.stmt.table.isZero() {
		return "", ferr.ErrMissingTable("delete")
	}
	b.table = " " + b.stmt.table.Name() + " "

	if err := b.prepareCondition(b.stmt.Condition()); err != nil {
		return "", err
	}
	b.prepareOrderBy(b.stmt.orderBy)
	b.prepareLimit(b.stmt.limit)

	return finish("DELETE FROM" + b.table + b.condition + b.orderBy + b.limit), nil
}
