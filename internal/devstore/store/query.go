package store

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
)

// Op is a comparison applied by a Condition.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

func (o Op) valid() bool {
	switch o {
	case OpEq, OpGt, OpGte, OpLt, OpLte, OpIn:
		return true
	default:
		return false
	}
}

// Condition compares the document field at a dotted path with Values. Only
// OpIn uses more than the first value.
type Condition struct {
	Field  string
	Op     Op
	Values []string
}

// SortField orders results by a dotted path.
type SortField struct {
	Field string
	Desc  bool
}

// Query selects, orders and pages documents. A zero Limit returns everything.
type Query struct {
	Conditions []Condition
	Sort       []SortField
	Offset     int
	Limit      int
}

// Eq returns a query matching documents whose field equals value.
func Eq(field, value string) Query {
	return Query{Conditions: []Condition{{Field: field, Op: OpEq, Values: []string{value}}}}
}

// In returns a query matching documents whose field is one of values.
func In(field string, values ...string) Query {
	return Query{Conditions: []Condition{{Field: field, Op: OpIn, Values: values}}}
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Validate rejects unknown operators and field paths that are not plain
// dotted identifiers.
func (q Query) Validate() error {
	for _, c := range q.Conditions {
		if !fieldPattern.MatchString(c.Field) {
			return pkgerror.NewInvalidInput(fmt.Errorf("invalid filter field %q", c.Field))
		}
		if !c.Op.valid() {
			return pkgerror.NewInvalidInput(fmt.Errorf("invalid filter operator %q", c.Op))
		}
		if len(c.Values) == 0 {
			return pkgerror.NewInvalidInput(fmt.Errorf("missing value for filter %q", c.Field))
		}
	}
	for _, s := range q.Sort {
		if !fieldPattern.MatchString(s.Field) {
			return pkgerror.NewInvalidInput(fmt.Errorf("invalid sort field %q", s.Field))
		}
	}
	if q.Offset < 0 || q.Limit < 0 {
		return pkgerror.NewInvalidInput(fmt.Errorf("invalid pagination"))
	}
	return nil
}

func pathOf(field string) []string {
	return strings.Split(field, ".")
}

// lookup walks a decoded JSON document along path.
func lookup(doc map[string]any, path []string) (any, bool) {
	var cur any = doc
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// matches reports whether doc satisfies every condition of q. Array fields
// match when any element does.
func (q Query) matches(doc map[string]any) bool {
	for _, c := range q.Conditions {
		v, ok := lookup(doc, pathOf(c.Field))
		if !ok {
			return false
		}
		if !matchValue(v, c) {
			return false
		}
	}
	return true
}

func matchValue(v any, c Condition) bool {
	if arr, ok := v.([]any); ok {
		for _, el := range arr {
			if matchValue(el, c) {
				return true
			}
		}
		return false
	}

	switch c.Op {
	case OpEq:
		return compareScalar(v, c.Values[0]) == 0
	case OpIn:
		for _, want := range c.Values {
			if compareScalar(v, want) == 0 {
				return true
			}
		}
		return false
	case OpGt:
		return compareScalar(v, c.Values[0]) > 0
	case OpGte:
		return compareScalar(v, c.Values[0]) >= 0
	case OpLt:
		return compareScalar(v, c.Values[0]) < 0
	case OpLte:
		return compareScalar(v, c.Values[0]) <= 0
	default:
		return false
	}
}

// compareScalar compares a decoded JSON value with a query string, numerically
// when both sides are numbers.
func compareScalar(v any, want string) int {
	switch val := v.(type) {
	case float64:
		if n, err := strconv.ParseFloat(want, 64); err == nil {
			switch {
			case val < n:
				return -1
			case val > n:
				return 1
			default:
				return 0
			}
		}
		return strings.Compare(strconv.FormatFloat(val, 'f', -1, 64), want)
	case bool:
		return strings.Compare(strconv.FormatBool(val), want)
	case string:
		return strings.Compare(val, want)
	case nil:
		return strings.Compare("", want)
	default:
		raw, _ := json.Marshal(val)
		return strings.Compare(string(raw), want)
	}
}

// compareValues orders two decoded JSON values. Missing values sort first.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case nil:
		if b == nil {
			return 0
		}
		return -1
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	}
	if b == nil {
		return 1
	}
	ra, _ := json.Marshal(a)
	rb, _ := json.Marshal(b)
	return strings.Compare(string(ra), string(rb))
}

func (q Query) sortDocs(docs []map[string]any) {
	if len(q.Sort) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, s := range q.Sort {
			path := pathOf(s.Field)
			a, _ := lookup(docs[i], path)
			b, _ := lookup(docs[j], path)
			c := compareValues(a, b)
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// page returns the window [Offset, Offset+Limit) of n items.
func (q Query) page(n int) (int, int) {
	start := q.Offset
	if start > n {
		start = n
	}
	end := n
	if q.Limit > 0 && start+q.Limit < n {
		end = start + q.Limit
	}
	return start, end
}
