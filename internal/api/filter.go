package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/numera-market/numera/internal/apperr"
	"github.com/numera-market/numera/internal/model"
)

// Page size bounds for list endpoints.
const (
	defaultLimit = 50
	maxLimit     = 200
)

// reservedParams are query keys with dedicated ListFilter fields.
var reservedParams = map[string]bool{
	"search": true, "q": true, "category_id": true, "min_price": true, "max_price": true,
	"digit_sum": true, "sort": true, "limit": true, "offset": true,
}

// parseFilter reads a ListFilter from query parameters. Keys starting with
// "is_" become flag filters; other unknown keys become equality filters and
// are checked against the entity's whitelist by the store.
func parseFilter(q url.Values) (model.ListFilter, error) {
	const op = "filter.parse"
	f := model.ListFilter{Limit: defaultLimit}
	fields := map[string]string{}

	f.Search = q.Get("search")
	if f.Search == "" {
		f.Search = q.Get("q")
	}
	f.Sort = q.Get("sort")

	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			fields["category_id"] = "must be a positive integer"
		}
		f.CategoryID = id
	}
	for key, dst := range map[string]**decimal.Decimal{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		if v := q.Get(key); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				fields[key] = "must be a number"
				continue
			}
			*dst = &d
		}
	}
	if v := q.Get("digit_sum"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 9 {
			fields["digit_sum"] = "must be a digit 0-9"
		}
		f.DigitSum = &n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			fields["limit"] = "must be a positive integer"
		}
		f.Limit = min(n, maxLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fields["offset"] = "must not be negative"
		}
		f.Offset = n
	}

	for key, vals := range q {
		if reservedParams[key] || len(vals) == 0 {
			continue
		}
		if strings.HasPrefix(key, "is_") {
			b, err := strconv.ParseBool(vals[0])
			if err != nil {
				fields[key] = "must be true or false"
				continue
			}
			if f.Flags == nil {
				f.Flags = map[string]bool{}
			}
			f.Flags[key] = b
			continue
		}
		if f.Equals == nil {
			f.Equals = map[string]string{}
		}
		f.Equals[key] = vals[0]
	}

	if len(fields) > 0 {
		return model.ListFilter{}, apperr.Validation(op, "invalid filter", fields)
	}
	return f, nil
}
