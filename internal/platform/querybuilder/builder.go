// Package querybuilder renders the small set of Postgres statements the
// repositories need, numbering placeholders as $1..$n in the order they appear.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"
)

// writer accumulates SQL text and positional args for a single statement.
type writer struct {
	buf  *bytebufferpool.ByteBuffer
	args []any
}

func newWriter() *writer {
	return &writer{buf: bytebufferpool.Get()}
}

func (w *writer) release() {
	bytebufferpool.Put(w.buf)
}

func (w *writer) sql(s string) {
	_, _ = w.buf.WriteString(s)
}

func (w *writer) arg(v any) {
	w.args = append(w.args, v)
	w.sql("$" + strconv.Itoa(len(w.args)))
}

// expr copies s, binding each '?' to the next value in vals. Extra '?' are kept literally.
func (w *writer) expr(s string, vals []any) {
	next := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '?' && next < len(vals) {
			w.arg(vals[next])
			next++
			continue
		}
		_ = w.buf.WriteByte(s[i])
	}
}

func (w *writer) finish() (string, []any) {
	return w.buf.String(), w.args
}

type Condition interface {
	render(w *writer)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) render(w *writer) {
	w.sql(c.column)
	w.sql(" = ")
	w.arg(c.value)
}

type exprCondition struct {
	expr string
	args []any
}

// Expr is a raw predicate using '?' for its own args.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) render(w *writer) {
	w.expr(c.expr, c.args)
}

func renderWhere(w *writer, conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			w.sql(" WHERE ")
		} else {
			w.sql(" AND ")
		}
		c.render(w)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	w := newWriter()
	defer w.release()

	w.sql("SELECT ")
	w.sql(strings.Join(b.columns, ", "))
	w.sql(" FROM ")
	w.sql(b.table)
	renderWhere(w, b.where)
	if len(b.orderBy) > 0 {
		w.sql(" ORDER BY ")
		w.sql(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.sql(" LIMIT ")
		w.sql(strconv.Itoa(b.limit))
	}

	query, args := w.finish()
	return query, args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
	suffixA []any
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = append([]any(nil), values...)
	return b
}

// Suffix appends trailing SQL such as ON CONFLICT or RETURNING, binding '?' to args.
func (b *InsertBuilder) Suffix(sql string, args ...any) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	b.suffixA = args
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.values) != len(b.columns) {
		return "", nil, fmt.Errorf("insert has %d values, expected %d", len(b.values), len(b.columns))
	}

	w := newWriter()
	defer w.release()

	w.sql("INSERT INTO ")
	w.sql(b.table)
	w.sql(" (")
	w.sql(strings.Join(b.columns, ", "))
	w.sql(") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			w.sql(", ")
		}
		w.arg(v)
	}
	w.sql(")")
	if b.suffix != "" {
		w.sql(" ")
		w.expr(b.suffix, b.suffixA)
	}

	query, args := w.finish()
	return query, args, nil
}

type setClause struct {
	column string
	value  any
}

type UpdateBuilder struct {
	table  string
	sets   []setClause
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	w := newWriter()
	defer w.release()

	w.sql("UPDATE ")
	w.sql(b.table)
	w.sql(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.sql(", ")
		}
		w.sql(s.column)
		w.sql(" = ")
		w.arg(s.value)
	}
	renderWhere(w, b.where)
	if b.suffix != "" {
		w.sql(" ")
		w.sql(b.suffix)
	}

	query, args := w.finish()
	return query, args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to render a DELETE without a WHERE clause.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete from %s requires a condition", b.table)
	}

	w := newWriter()
	defer w.release()

	w.sql("DELETE FROM ")
	w.sql(b.table)
	renderWhere(w, b.where)

	query, args := w.finish()
	return query, args, nil
}
