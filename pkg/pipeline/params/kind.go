package params

import (
	"math"
	"reflect"
	"strconv"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
)

// Kind is the scalar type of a parameter value.
type Kind = model.ParamType

const (
	Int          = model.ParamInt
	Double       = model.ParamDouble
	Bool         = model.ParamBool
	String       = model.ParamString
	Unidentified = model.ParamUnidentified
)

// Classify returns the scalar kind of v. Named types are classified by their underlying kind.
func Classify(v any) Kind {
	if v == nil {
		return Unidentified
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int
	case reflect.Float32, reflect.Float64:
		return Double
	case reflect.String:
		return String
	default:
		return Unidentified
	}
}

// Format returns the wire string of the scalar v. Values that are not scalars fail with a
// *model.SerializationError naming name.
func Format(name string, v any) (string, error) {
	rv := reflect.ValueOf(v)

	switch Classify(v) {
	case Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case Int:
		if rv.CanInt() {
			return strconv.FormatInt(rv.Int(), 10), nil
		}

		// values parse back as int
		if rv.Uint() > math.MaxInt64 {
			return "", &model.SerializationError{Name: name, Value: v}
		}

		return strconv.FormatUint(rv.Uint(), 10), nil
	case Double:
		return strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits()), nil
	case String:
		return rv.String(), nil
	default:
		return "", &model.SerializationError{Name: name, Value: v}
	}
}

// Parse converts a wire string back to a Go value of the given kind: int, float64, bool or
// string. Unidentified values stay strings.
func Parse(kind Kind, s string) (any, error) {
	switch kind {
	case Int:
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse %q as %s", s, kind)
		}

		return v, nil
	case Double:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse %q as %s", s, kind)
		}

		return v, nil
	case Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse %q as %s", s, kind)
		}

		return v, nil
	default:
		return s, nil
	}
}
