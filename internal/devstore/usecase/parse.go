package usecase

import (
	"cmp"
	"errors"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

var reservedParams = map[string]struct{}{
	"select": {},
	"sort":   {},
	"page":   {},
	"limit":  {},
}

// ParseListQuery reads list parameters:
//
//	select=name,description   fields to render
//	sort=-averageCost,name    ordering, "-" for descending (default -createdAt)
//	page=2&limit=10           page window (defaults 1 and 25, limit capped at 100)
//	careers=Business          equality, array fields match any element
//	averageCost[lte]=10000    comparison with gt, gte, lt, lte
//	location.state[in]=MA,NY  membership, comma separated
func ParseListQuery(values url.Values) (ListQuery, error) {
	lq := ListQuery{Page: 1, Limit: DefaultPageSize}

	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return lq, pkgerror.NewInvalidInput(errors.New("invalid page"))
		}
		lq.Page = n
	}

	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return lq, pkgerror.NewInvalidInput(errors.New("invalid limit"))
		}
		lq.Limit = min(n, MaxPageSize)
	}

	lq.Select = splitList(values.Get("select"))

	sortFields := splitList(values.Get("sort"))
	if len(sortFields) == 0 {
		sortFields = []string{"-createdAt"}
	}
	for _, f := range sortFields {
		desc := strings.HasPrefix(f, "-")
		lq.Query.Sort = append(lq.Query.Sort, store.SortField{Field: strings.TrimPrefix(f, "-"), Desc: desc})
	}

	for key, vals := range values {
		if _, reserved := reservedParams[key]; reserved || len(vals) == 0 {
			continue
		}

		field, op := key, store.OpEq
		if i := strings.IndexByte(key, '['); i > 0 && strings.HasSuffix(key, "]") {
			field, op = key[:i], store.Op(key[i+1:len(key)-1])
		}

		cond := store.Condition{Field: field, Op: op, Values: []string{vals[len(vals)-1]}}
		if op == store.OpIn {
			cond.Values = splitList(vals[len(vals)-1])
		}
		lq.Query.Conditions = append(lq.Query.Conditions, cond)
	}
	sortConditions(lq.Query.Conditions)

	lq.Query.Offset = (lq.Page - 1) * lq.Limit
	lq.Query.Limit = lq.Limit

	if err := lq.Query.Validate(); err != nil {
		return lq, err
	}
	return lq, nil
}

// paginate returns the links to the neighbouring pages.
func paginate(lq ListQuery, total int) Pagination {
	var p Pagination
	if lq.Limit == 0 {
		return p
	}
	if lq.Query.Offset+lq.Limit < total {
		p.Next = &PageRef{Page: lq.Page + 1, Limit: lq.Limit}
	}
	if lq.Query.Offset > 0 {
		p.Prev = &PageRef{Page: lq.Page - 1, Limit: lq.Limit}
	}
	return p
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// sortConditions orders conditions by field so queries built from a map are
// deterministic.
func sortConditions(conds []store.Condition) {
	slices.SortFunc(conds, func(a, b store.Condition) int {
		return cmp.Or(cmp.Compare(a.Field, b.Field), cmp.Compare(a.Op, b.Op))
	})
}
