package querybuilder

import (
	"strconv"
	"strings"

	"github.com/lib/pq"
)

type Condition interface {
	appendSQL(buf *strings.Builder, args *[]any, argIndex *int)
}

type compareCondition struct {
	column string
	op     string
	value  any
}

func Eq(column string, value any) Condition {
	return compareCondition{column: column, op: "=", value: value}
}

func Gte(column string, value any) Condition {
	return compareCondition{column: column, op: ">=", value: value}
}

func Lt(column string, value any) Condition {
	return compareCondition{column: column, op: "<", value: value}
}

func Lte(column string, value any) Condition {
	return compareCondition{column: column, op: "<=", value: value}
}

func (c compareCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.column)
	buf.WriteString(" ")
	buf.WriteString(c.op)
	buf.WriteString(" ")
	buf.WriteString(bind(args, argIndex, c.value))
}

// AnyInt64 renders column = ANY($n) with a single array argument so the
// statement text does not grow with the id list.
type anyCondition struct {
	column string
	negate bool
	values []int64
}

func AnyInt64(column string, values []int64) Condition {
	return anyCondition{column: column, values: values}
}

func NotAnyInt64(column string, values []int64) Condition {
	return anyCondition{column: column, values: values, negate: true}
}

func (c anyCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	if len(c.values) == 0 {
		if c.negate {
			buf.WriteString("1=1")
		} else {
			buf.WriteString("1=0")
		}
		return
	}
	if c.negate {
		buf.WriteString("NOT (")
	}
	buf.WriteString(c.column)
	buf.WriteString(" = ANY(")
	buf.WriteString(bind(args, argIndex, pq.Array(c.values)))
	buf.WriteString(")")
	if c.negate {
		buf.WriteString(")")
	}
}

type inCondition struct {
	column string
	values []string
}

// InStrings expands to column IN ($1, $2, ...).
func InStrings(column string, values []string) Condition {
	return inCondition{column: column, values: values}
}

func (c inCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	if len(c.values) == 0 {
		buf.WriteString("1=0")
		return
	}

	buf.WriteString(c.column)
	buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(bind(args, argIndex, v))
	}
	buf.WriteString(")")
}

type orCondition struct {
	parts []Condition
}

func Or(parts ...Condition) Condition {
	return orCondition{parts: parts}
}

func (c orCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	if len(c.parts) == 0 {
		buf.WriteString("1=0")
		return
	}
	buf.WriteString("(")
	for i, part := range c.parts {
		if i > 0 {
			buf.WriteString(" OR ")
		}
		part.appendSQL(buf, args, argIndex)
	}
	buf.WriteString(")")
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds raw SQL; each ? is rewritten to the next positional placeholder.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(rewritePlaceholders(c.expr, c.args, args, argIndex))
}

func appendWhereClause(buf *strings.Builder, conditions []Condition, args *[]any, argIndex *int) {
	if len(conditions) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		c.appendSQL(buf, args, argIndex)
	}
}

func bind(args *[]any, argIndex *int, value any) string {
	out := placeholder(*argIndex)
	*args = append(*args, value)
	*argIndex = *argIndex + 1
	return out
}

func placeholder(i int) string {
	return "$" + strconv.Itoa(i)
}

func rewritePlaceholders(expr string, exprArgs []any, args *[]any, argIndex *int) string {
	if len(exprArgs) == 0 {
		return expr
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] != '?' || next >= len(exprArgs) {
			out.WriteByte(expr[i])
			continue
		}
		out.WriteString(bind(args, argIndex, exprArgs[next]))
		next++
	}
	return out.String()
}
