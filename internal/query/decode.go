package query

import (
	"fmt"
	"strconv"

	"github.com/roach88/roster/internal/ir"
)

// toNumber converts a scanned column value. NULL decodes to zero; callers
// that need to tell NULL apart use Tuple.IsNull.
func toNumber[N Number](v any) (N, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return N(x), nil
	case int:
		return N(x), nil
	case int32:
		return N(x), nil
	case float64:
		return N(x), nil
	case []byte:
		return parseNumber[N](string(x))
	case string:
		return parseNumber[N](x)
	default:
		return 0, fmt.Errorf("cannot decode %T as a number", v)
	}
}

func parseNumber[N Number](s string) (N, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return N(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot decode %q as a number", s)
	}
	return N(f), nil
}

// toString converts a scanned text value. NULL decodes to "".
func toString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return ir.NormalizeText(x), nil
	case []byte:
		return ir.NormalizeText(string(x)), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	default:
		return "", fmt.Errorf("cannot decode %T as text", v)
	}
}
