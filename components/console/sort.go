package console

import (
	"sort"
	"strings"
	"time"
)

// SortOrder is the direction of a client-side column sort.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Toggle flips the order.
func (o SortOrder) Toggle() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// SortValue is a comparable projection of one column of one row. String
// columns compare case-insensitively; numeric and time columns compare by
// magnitude.
type SortValue struct {
	str     string
	num     float64
	numeric bool
}

// StringValue builds a case-insensitive string sort value.
func StringValue(s string) SortValue {
	return SortValue{str: strings.ToLower(s)}
}

// NumberValue builds a numeric sort value.
func NumberValue(f float64) SortValue {
	return SortValue{num: f, numeric: true}
}

// TimeValue builds a sort value ordered by instant.
func TimeValue(t time.Time) SortValue {
	return SortValue{num: float64(t.UnixMilli()), numeric: true}
}

// BoolValue sorts false before true.
func BoolValue(b bool) SortValue {
	if b {
		return SortValue{num: 1, numeric: true}
	}
	return SortValue{num: 0, numeric: true}
}

// Less orders two sort values of the same column.
func (v SortValue) Less(o SortValue) bool {
	if v.numeric || o.numeric {
		return v.num < o.num
	}
	return v.str < o.str
}

// Equal reports whether two sort values tie.
func (v SortValue) Equal(o SortValue) bool {
	if v.numeric || o.numeric {
		return v.num == o.num
	}
	return v.str == o.str
}

// SortKeyFunc extracts the sort value for a column from a row. Columns backed
// by the parent resolver read through the lookup and fall back to the empty
// string while the parent is still unresolved.
type SortKeyFunc[T any] func(row T, parents ParentLookup) SortValue

// sortRows returns a sorted copy of rows. Ties keep their fetched order, so
// an unknown sort key leaves the server order untouched.
func sortRows[T any](rows []T, key SortKeyFunc[T], order SortOrder, parents ParentLookup) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	if key == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a := key(out[i], parents)
		b := key(out[j], parents)
		if a.Equal(b) {
			return false
		}
		if order == SortDesc {
			return b.Less(a)
		}
		return a.Less(b)
	})
	return out
}
