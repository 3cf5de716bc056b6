package store

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/numera-market/numera/internal/model"
)

// tableFilters describes which filters a table accepts.
type tableFilters struct {
	alias string
	// searchCols are matched case-insensitively with LIKE, OR-ed together.
	searchCols []string
	// flagCols and equalCols are the whitelisted keys of ListFilter.Flags
	// and ListFilter.Equals.
	flagCols  []string
	equalCols []string
	sorts     map[string]string
	// defaultOrder is used when ListFilter.Sort is empty.
	defaultOrder string
	// listing tables carry price, category_id, digit_sum and is_sold.
	listing bool
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// build appends WHERE conditions, ORDER BY and LIMIT for f to query. When
// active is set only rows visible to customers are returned.
func (s tableFilters) build(query string, f model.ListFilter, active bool) (string, []any, error) {
	var args []any
	a := s.alias

	query += ` WHERE 1=1`

	if active {
		query += fmt.Sprintf(` AND %s.is_active = 1`, a)
		if s.listing {
			query += fmt.Sprintf(` AND %s.is_sold = 0`, a)
		}
	}

	if term := strings.TrimSpace(f.Search); term != "" && len(s.searchCols) > 0 {
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		parts := make([]string, len(s.searchCols))
		for i, col := range s.searchCols {
			parts[i] = `fold(` + col + `) LIKE ? ESCAPE '\'`
			args = append(args, like)
		}
		query += ` AND (` + strings.Join(parts, " OR ") + `)`
	}

	if s.listing {
		if f.CategoryID > 0 {
			query += fmt.Sprintf(` AND %s.category_id = ?`, a)
			args = append(args, f.CategoryID)
		}
		if f.MinPrice != nil {
			query += fmt.Sprintf(` AND %s.price >= ?`, a)
			args = append(args, f.MinPrice.InexactFloat64())
		}
		if f.MaxPrice != nil {
			query += fmt.Sprintf(` AND %s.price <= ?`, a)
			args = append(args, f.MaxPrice.InexactFloat64())
		}
		if f.DigitSum != nil {
			query += fmt.Sprintf(` AND %s.digit_sum = ?`, a)
			args = append(args, *f.DigitSum)
		}
	} else if f.CategoryID > 0 || f.MinPrice != nil || f.MaxPrice != nil || f.DigitSum != nil {
		return "", nil, &FilterError{Field: "listing filters"}
	}

	for _, key := range slices.Sorted(maps.Keys(f.Flags)) {
		if !slices.Contains(s.flagCols, key) {
			return "", nil, &FilterError{Field: key}
		}
		query += fmt.Sprintf(` AND %s.%s = ?`, a, key)
		args = append(args, f.Flags[key])
	}

	for _, key := range slices.Sorted(maps.Keys(f.Equals)) {
		if !slices.Contains(s.equalCols, key) {
			return "", nil, &FilterError{Field: key}
		}
		query += fmt.Sprintf(` AND %s.%s = ?`, a, key)
		args = append(args, f.Equals[key])
	}

	order := s.defaultOrder
	if f.Sort != "" {
		o, ok := s.sorts[f.Sort]
		if !ok {
			return "", nil, &FilterError{Field: "sort"}
		}
		order = o
	}
	query += ` ORDER BY ` + order

	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, max(f.Offset, 0))
	} else if f.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, f.Offset)
	}

	return query, args, nil
}
