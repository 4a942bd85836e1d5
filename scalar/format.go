package scalar

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/speakeasy-api/yamlcodec/values"
)

const (
	nanLiteral    = ".nan"
	infLiteral    = ".inf"
	negInfLiteral = "-.inf"
)

// Format renders a scalar value in its canonical text form, ignoring quoting.
// Containers and opaque values have no canonical scalar form and return ErrUnsupportedScalarType.
func Format(v values.Value) (string, error) {
	switch v := v.(type) {
	case nil, values.Null:
		return "null", nil
	case values.Bool:
		return FormatBool(bool(v)), nil
	case values.Int:
		return FormatInt(int64(v)), nil
	case values.Float:
		return FormatFloat(float64(v)), nil
	case values.String:
		return string(v), nil
	case values.Timestamp:
		return FormatTimestamp(time.Time(v)), nil
	case values.Opaque:
		return "", ErrUnsupportedScalarType.Wrapf("%T has no scalar rendering", v.Value)
	default:
		return "", ErrUnsupportedScalarType.Wrapf("%s is not a scalar", v.Kind())
	}
}

func FormatBool(b bool) string {
	return strconv.FormatBool(b)
}

func FormatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// FormatFloat renders f with the shortest digits that parse back to the same value.
// Magnitudes in [1e-4, 1e21) use fixed notation with at least one fractional digit,
// everything else uses exponent notation.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return nanLiteral
	case math.IsInf(f, 1):
		return infLiteral
	case math.IsInf(f, -1):
		return negInfLiteral
	}

	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-4 && abs < 1e21) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	return strconv.FormatFloat(f, 'e', -1, 64)
}

func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
