package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a filter operator.
type Op string

const (
	OpContains    Op = "contains"
	OpNotContains Op = "notContains"
	OpEquals      Op = "equals"
	OpNotEqual    Op = "notEqual"
	OpStartsWith  Op = "startsWith"
	OpEndsWith    Op = "endsWith"
	OpLessThan    Op = "lessThan"
	OpLessOrEqual Op = "lessThanOrEqual"
	OpGreaterThan Op = "greaterThan"
	OpGreaterOrEq Op = "greaterThanOrEqual"
	OpInRange     Op = "inRange"
)

// Filter restricts the rows shown for one column.
// Text filters compare case-insensitively; number filters parse Value (and To for OpInRange).
type Filter struct {
	Op    Op
	Value string
	To    string
}

// ParseFilter reads the compact filter syntax used by the console:
//
//	text columns:   "toy" (contains), "=Toyota", "!=Ford", "^To" (starts with), "$ta" (ends with), "!yo" (not contains)
//	number columns: "2020", ">2015", ">=2015", "<20000", "<=20000", "!=2020", "2015..2020" (inclusive range)
//
// An empty expression yields ok == false.
func ParseFilter(kind Kind, expr string) (f Filter, ok bool, err error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, false, nil
	}

	switch kind {
	case KindText:
		f = parseTextFilter(expr)
	case KindNumber:
		f, err = parseNumberFilter(expr)
	default:
		return Filter{}, false, fmt.Errorf("column kind %s does not filter", kind)
	}
	if err != nil {
		return Filter{}, false, err
	}
	return f, true, nil
}

func parseTextFilter(expr string) Filter {
	switch {
	case strings.HasPrefix(expr, "!="):
		return Filter{Op: OpNotEqual, Value: expr[2:]}
	case strings.HasPrefix(expr, "="):
		return Filter{Op: OpEquals, Value: expr[1:]}
	case strings.HasPrefix(expr, "^"):
		return Filter{Op: OpStartsWith, Value: expr[1:]}
	case strings.HasPrefix(expr, "$"):
		return Filter{Op: OpEndsWith, Value: expr[1:]}
	case strings.HasPrefix(expr, "!"):
		return Filter{Op: OpNotContains, Value: expr[1:]}
	}
	return Filter{Op: OpContains, Value: expr}
}

func parseNumberFilter(expr string) (Filter, error) {
	if from, to, found := strings.Cut(expr, ".."); found {
		f := Filter{Op: OpInRange, Value: strings.TrimSpace(from), To: strings.TrimSpace(to)}
		return f, f.validateNumbers()
	}

	var f Filter
	switch {
	case strings.HasPrefix(expr, ">="):
		f = Filter{Op: OpGreaterOrEq, Value: expr[2:]}
	case strings.HasPrefix(expr, "<="):
		f = Filter{Op: OpLessOrEqual, Value: expr[2:]}
	case strings.HasPrefix(expr, "!="):
		f = Filter{Op: OpNotEqual, Value: expr[2:]}
	case strings.HasPrefix(expr, ">"):
		f = Filter{Op: OpGreaterThan, Value: expr[1:]}
	case strings.HasPrefix(expr, "<"):
		f = Filter{Op: OpLessThan, Value: expr[1:]}
	case strings.HasPrefix(expr, "="):
		f = Filter{Op: OpEquals, Value: expr[1:]}
	default:
		f = Filter{Op: OpEquals, Value: expr}
	}
	f.Value = strings.TrimSpace(f.Value)
	return f, f.validateNumbers()
}

func (f Filter) validateNumbers() error {
	if _, err := strconv.ParseFloat(f.Value, 64); err != nil {
		return fmt.Errorf("filter %s: %q is not a number", f.Op, f.Value)
	}
	if f.Op == OpInRange {
		if _, err := strconv.ParseFloat(f.To, 64); err != nil {
			return fmt.Errorf("filter %s: %q is not a number", f.Op, f.To)
		}
	}
	return nil
}

// String renders the filter back in the compact syntax.
func (f Filter) String() string {
	switch f.Op {
	case OpContains:
		return f.Value
	case OpNotContains:
		return "!" + f.Value
	case OpEquals:
		return "=" + f.Value
	case OpNotEqual:
		return "!=" + f.Value
	case OpStartsWith:
		return "^" + f.Value
	case OpEndsWith:
		return "$" + f.Value
	case OpLessThan:
		return "<" + f.Value
	case OpLessOrEqual:
		return "<=" + f.Value
	case OpGreaterThan:
		return ">" + f.Value
	case OpGreaterOrEq:
		return ">=" + f.Value
	case OpInRange:
		return f.Value + ".." + f.To
	}
	return ""
}

// Match applies the filter to a cell value of the given kind.
func (f Filter) Match(kind Kind, v any) bool {
	if kind == KindNumber {
		return f.matchNumber(v)
	}
	return f.matchText(formatValue(v))
}

func (f Filter) matchText(s string) bool {
	s = strings.ToLower(s)
	want := strings.ToLower(f.Value)
	switch f.Op {
	case OpContains:
		return strings.Contains(s, want)
	case OpNotContains:
		return !strings.Contains(s, want)
	case OpEquals:
		return s == want
	case OpNotEqual:
		return s != want
	case OpStartsWith:
		return strings.HasPrefix(s, want)
	case OpEndsWith:
		return strings.HasSuffix(s, want)
	}
	return true
}

func (f Filter) matchNumber(v any) bool {
	n, ok := numericValue(v)
	if !ok {
		return false
	}
	x, err := strconv.ParseFloat(f.Value, 64)
	if err != nil {
		return true
	}
	switch f.Op {
	case OpEquals:
		return n == x
	case OpNotEqual:
		return n != x
	case OpLessThan:
		return n < x
	case OpLessOrEqual:
		return n <= x
	case OpGreaterThan:
		return n > x
	case OpGreaterOrEq:
		return n >= x
	case OpInRange:
		to, err := strconv.ParseFloat(f.To, 64)
		if err != nil {
			return true
		}
		lo, hi := x, to
		if lo > hi {
			lo, hi = hi, lo
		}
		return n >= lo && n <= hi
	}
	return true
}
