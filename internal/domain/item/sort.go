package item

import (
	"strings"

	"homestock/internal/core/apperror"
)

// SortField is one resolved ORDER BY term.
type SortField struct {
	Column string
	Desc   bool
}

// sortColumns whitelists API sort fields and maps them to columns.
var sortColumns = map[string]string{
	"name":       "name",
	"amount":     "amount",
	"quantity":   "quantity",
	"expiration": "expiration",
	"createdAt":  "created_at",
	"owner":      "owner",
	"barcode":    "barcode",
}

// DefaultSort orders by ascending expiration date. Items without an
// expiration sort last under the engine's default null ordering.
func DefaultSort() []SortField {
	return []SortField{{Column: "expiration"}}
}

// ParseSortSpec parses a comma-separated field list with an optional
// leading "-" per field for descending order ("-amount,name"). An empty
// spec yields the default sort. Unknown fields are rejected.
func ParseSortSpec(spec string) ([]SortField, error) {
	if strings.TrimSpace(spec) == "" {
		return DefaultSort(), nil
	}

	parts := strings.Split(spec, ",")
	fields := make([]SortField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		desc := false
		if strings.HasPrefix(part, "-") {
			desc = true
			part = part[1:]
		}

		column, ok := sortColumns[part]
		if !ok {
			return nil, apperror.NewValidation("unknown sort field").
				WithDetail("field", part)
		}
		fields = append(fields, SortField{Column: column, Desc: desc})
	}

	if len(fields) == 0 {
		return DefaultSort(), nil
	}
	return fields, nil
}
