package dialect

import (
	"fmt"
	"strings"
)

// DefaultFormatType uppercases the type and appends length or
// precision/scale arguments for the type families that carry them.
// A length of -1 renders as MAX.
func DefaultFormatType(col ColumnType, sized, scaled []string) string {
	t := strings.ToUpper(strings.TrimSpace(col.DataType))
	lower := strings.ToLower(t)

	if contains(sized, lower) && col.Length.Valid {
		if col.Length.Int64 < 0 {
			return t + "(MAX)"
		}
		return fmt.Sprintf("%s(%d)", t, col.Length.Int64)
	}
	if contains(scaled, lower) && col.Precision.Valid {
		if col.Scale.Valid {
			return fmt.Sprintf("%s(%d, %d)", t, col.Precision.Int64, col.Scale.Int64)
		}
		return fmt.Sprintf("%s(%d)", t, col.Precision.Int64)
	}
	return t
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
