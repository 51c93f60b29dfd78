package grid

import (
	"cmp"
	"strings"
)

// SortKey orders rows by one column.
type SortKey struct {
	Column string
	Desc   bool
}

// ParseSort reads "brand,-price": comma separated column ids, "-" for descending.
func ParseSort(expr string) []SortKey {
	var keys []SortKey
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k := SortKey{Column: part}
		if strings.HasPrefix(part, "-") {
			k = SortKey{Column: strings.TrimPrefix(part, "-"), Desc: true}
		} else if strings.HasPrefix(part, "+") {
			k.Column = strings.TrimPrefix(part, "+")
		}
		keys = append(keys, k)
	}
	return keys
}

// FormatSort is the inverse of ParseSort.
func FormatSort(keys []SortKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k.Desc {
			parts = append(parts, "-"+k.Column)
		} else {
			parts = append(parts, k.Column)
		}
	}
	return strings.Join(parts, ",")
}

// compareValues orders two cell values of the same kind.
// Text compares case-insensitively first, then bytewise so the order is total.
func compareValues(kind Kind, a, b any) int {
	if kind == KindNumber {
		x, _ := numericValue(a)
		y, _ := numericValue(b)
		return cmp.Compare(x, y)
	}
	sa, sb := formatValue(a), formatValue(b)
	if c := strings.Compare(strings.ToLower(sa), strings.ToLower(sb)); c != 0 {
		return c
	}
	return strings.Compare(sa, sb)
}
