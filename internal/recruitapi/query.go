// internal/recruitapi/query.go
package recruitapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Op is a comparison operator in a where clause.
type Op string

const (
	OpEq   Op = "eq"
	OpNe   Op = "ne"
	OpGt   Op = "gt"
	OpGte  Op = "gte"
	OpLt   Op = "lt"
	OpLte  Op = "lte"
	OpLike Op = "like"
	OpIn   Op = "in"
)

func (o Op) valid() bool {
	switch o {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpLike, OpIn:
		return true
	}
	return false
}

// Where is one w=<field>:<op>:<value> clause.
type Where struct {
	Field string
	Op    Op
	Value string
}

func (w Where) String() string {
	return fmt.Sprintf("%s:%s:%s", w.Field, w.Op, w.Value)
}

// Query is the list endpoints' query DSL. Clauses are joined with ';'
// and the whole string travels URL-escaped in the q parameter.
type Query struct {
	Take    int
	Skip    int
	Filters []Where
	Include []string
}

// NewQuery returns an empty query.
func NewQuery() Query {
	return Query{}
}

func (q Query) WithTake(n int) Query {
	q.Take = n
	return q
}

func (q Query) WithSkip(n int) Query {
	q.Skip = n
	return q
}

func (q Query) Where(field string, op Op, value string) Query {
	q.Filters = append(append([]Where(nil), q.Filters...), Where{Field: field, Op: op, Value: value})
	return q
}

// In adds a w=<field>:in:<a,b,c> clause.
func (q Query) In(field string, values ...string) Query {
	return q.Where(field, OpIn, strings.Join(values, ","))
}

func (q Query) WithInclude(relations ...string) Query {
	q.Include = append(append([]string(nil), q.Include...), relations...)
	return q
}

// Encode renders the unescaped DSL string.
func (q Query) Encode() string {
	var clauses []string
	if q.Take > 0 {
		clauses = append(clauses, "t="+strconv.Itoa(q.Take))
	}
	if q.Skip > 0 {
		clauses = append(clauses, "sk="+strconv.Itoa(q.Skip))
	}
	for _, w := range q.Filters {
		clauses = append(clauses, "w="+w.String())
	}
	for _, inc := range q.Include {
		clauses = append(clauses, "i="+inc)
	}
	return strings.Join(clauses, ";")
}

// Values returns the URL parameters carrying the query.
func (q Query) Values() url.Values {
	v := url.Values{}
	if enc := q.Encode(); enc != "" {
		v.Set("q", enc)
	}
	return v
}

// Equal returns the value of the first eq clause on field.
func (q Query) Equal(field string) (string, bool) {
	for _, w := range q.Filters {
		if w.Field == field && w.Op == OpEq {
			return w.Value, true
		}
	}
	return "", false
}

// ParseQuery reads a DSL string produced by Encode.
func ParseQuery(raw string) (Query, error) {
	var q Query
	for _, clause := range strings.Split(raw, ";") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		key, value, ok := strings.Cut(clause, "=")
		if !ok {
			return Query{}, fmt.Errorf("clause %q has no '='", clause)
		}

		switch key {
		case "t", "sk":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return Query{}, fmt.Errorf("clause %q: not a non-negative integer", clause)
			}
			if key == "t" {
				q.Take = n
			} else {
				q.Skip = n
			}
		case "w":
			parts := strings.SplitN(value, ":", 3)
			if len(parts) != 3 || !Op(parts[1]).valid() {
				return Query{}, fmt.Errorf("clause %q: expected field:op:value", clause)
			}
			q.Filters = append(q.Filters, Where{Field: parts[0], Op: Op(parts[1]), Value: parts[2]})
		case "i":
			q.Include = append(q.Include, value)
		default:
			return Query{}, fmt.Errorf("unknown clause %q", key)
		}
	}
	return q, nil
}
