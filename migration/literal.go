package migration

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/northway/migrator/types"
)

type nullValue struct{}

// Null is the explicit SQL NULL default. A nil default means "no DEFAULT
// clause", which is different.
var Null = nullValue{}

// Expr is a raw SQL expression used verbatim, e.g. Expr("CURRENT_TIMESTAMP")
type Expr string

// RenderLiteral renders a Go value as an SQL literal for the given dialect.
// Supported values: bool, integers, floats, string, Expr and Null.
func RenderLiteral(value any, caps types.DriverCapabilities) (string, error) {
	switch v := value.(type) {
	case nullValue:
		return "NULL", nil
	case Expr:
		if strings.TrimSpace(string(v)) == "" {
			return "", fmt.Errorf("empty expression")
		}
		return string(v), nil
	case bool:
		return caps.GetBooleanLiteral(v), nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case nil:
		return "", fmt.Errorf("no value")
	default:
		return "", fmt.Errorf("unsupported literal type %T", value)
	}
}

// formatFloat keeps a decimal point so 0.0 stays a float literal
func formatFloat(f float64, bitSize int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%v has no SQL literal", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, nil
}

// isNull reports whether the value renders as SQL NULL or is absent
func isNull(value any) bool {
	if value == nil {
		return true
	}
	_, ok := value.(nullValue)
	return ok
}
